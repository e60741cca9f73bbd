package middlewares

import (
	"github.com/AdrianGjerstad/webforge/internal"
)

// DefaultRequestIDHeaders are the headers checked (in order) for an
// upstream request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator; nil keeps the ID assigned on arrival
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID adopts an upstream request ID when one is present, otherwise
// keeps (or regenerates) the request's own, and echoes it in a response
// header. The ID reaches logs through internal.RequestIDExtractor.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		ResponseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.MiddlewareFunc(func(req *internal.Request, res *internal.Response, next internal.NextFunc) {
		var id string
		for _, header := range cfg.Headers {
			if v, ok := req.Header(header); ok && v != "" {
				id = v
				break
			}
		}
		if id == "" && cfg.Generator != nil {
			id = cfg.Generator()
		}
		req.SetID(id)

		res.SetHeader(cfg.ResponseHeader, req.ID())
		next(nil)
	})
}

package internal

import (
	"context"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/AdrianGjerstad/webforge/pkg/cookie"
	"github.com/AdrianGjerstad/webforge/pkg/querystring"
)

const (
	mediaTypeForm = "application/x-www-form-urlencoded"
	mediaTypeJSON = "application/json"
)

// Request is the transport-neutral description of one inbound request.
// Header and cookie names are case-insensitive; query keys are not.
type Request struct {
	ctx     context.Context
	body    io.Reader
	query   map[string]string
	headers map[string]string
	cookies map[string]string
	id      string
	method  string
	path    string
	version string
	tls     bool
}

// NewRequest creates a request. An empty method means GET and an empty
// version HTTP/1.1; transports fill in the rest through the setters.
func NewRequest(method, path, version string) *Request {
	r := &Request{
		id:      uuid.NewString(),
		query:   make(map[string]string),
		headers: make(map[string]string),
		cookies: make(map[string]string),
		path:    path,
	}
	r.SetMethod(method)
	r.SetVersion(version)
	r.ctx = WithRequestID(context.Background(), r.id)
	return r
}

// Context carries request-scoped values for logging. It is never
// cancelled by the core.
func (r *Request) Context() context.Context { return r.ctx }

// WithContext replaces the request context.
func (r *Request) WithContext(ctx context.Context) {
	if ctx != nil {
		r.ctx = ctx
	}
}

// ID returns the request ID used in logs.
func (r *Request) ID() string { return r.id }

// SetID overrides the generated request ID, e.g. with one assigned by a
// front proxy.
func (r *Request) SetID(id string) {
	if id == "" {
		return
	}
	r.id = id
	r.ctx = WithRequestID(r.ctx, id)
}

// Method returns the upper-cased request method.
func (r *Request) Method() string { return r.method }

func (r *Request) SetMethod(m string) {
	if m == "" {
		m = "GET"
	}
	r.method = strings.ToUpper(m)
}

// IsHead reports whether the response must omit its body.
func (r *Request) IsHead() bool { return r.method == "HEAD" }

func (r *Request) Path() string        { return r.path }
func (r *Request) SetPath(path string) { r.path = path }

// Version returns the lower-cased protocol version, e.g. "http/1.1".
func (r *Request) Version() string { return r.version }

func (r *Request) SetVersion(v string) {
	if v == "" {
		v = "HTTP/1.1"
	}
	r.version = strings.ToLower(v)
}

func (r *Request) TLS() bool     { return r.tls }
func (r *Request) SetTLS(b bool) { r.tls = b }

// Query returns the value of a query parameter.
func (r *Request) Query(key string) (string, bool) {
	v, ok := r.query[key]
	return v, ok
}

// QueryMap exposes the query parameters. Handlers may add parsed body
// fields to it.
func (r *Request) QueryMap() map[string]string { return r.query }

// SetQueryString replaces the query parameters with those parsed from raw.
func (r *Request) SetQueryString(raw string) {
	r.query = querystring.Parse(raw)
}

// Header returns the value of a header.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.headers[strings.ToLower(name)]
	return v, ok
}

// HeaderMap exposes the headers, keyed by lower-cased name. The Cookie
// header never appears here; see Cookie.
func (r *Request) HeaderMap() map[string]string { return r.headers }

// SetHeader stores a header. A Cookie header is parsed into the cookie map
// instead; repeated Cookie headers accumulate.
func (r *Request) SetHeader(name, value string) {
	name = strings.ToLower(name)
	if name == "cookie" {
		for k, v := range cookie.ParseHeader(value) {
			r.cookies[k] = v
		}
		return
	}
	r.headers[name] = value
}

// Host returns the Host header.
func (r *Request) Host() string {
	return r.headers["host"]
}

// Cookie returns the value of a request cookie.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.cookies[strings.ToLower(name)]
	return v, ok
}

func (r *Request) CookieMap() map[string]string { return r.cookies }

// Body returns the request body, or nil if the transport provided none.
func (r *Request) Body() io.Reader { return r.body }

func (r *Request) SetBody(body io.Reader) { r.body = body }

// ParseURLEncoded reads an application/x-www-form-urlencoded body into dst.
// Existing keys in dst are kept.
func (r *Request) ParseURLEncoded(dst map[string]string) error {
	if err := r.checkBody(mediaTypeForm); err != nil {
		return err
	}

	raw, ok := r.Header("content-length")
	if !ok {
		return FailedPreconditionError("Content-Length required to parse request body")
	}
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 63)
	if err != nil {
		return InvalidArgumentError("invalid Content-Length %q", raw)
	}

	body, err := io.ReadAll(io.LimitReader(r.body, int64(n)))
	if err != nil {
		return InvalidArgumentError("failed to read request body: %v", err).Wrap(err)
	}
	if uint64(len(body)) != n {
		return InvalidArgumentError("request body shorter than Content-Length")
	}

	for k, v := range querystring.Parse(string(body)) {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
	return nil
}

// ParseJSON decodes an application/json body into v.
func (r *Request) ParseJSON(v any) error {
	if err := r.checkBody(mediaTypeJSON); err != nil {
		return err
	}
	if err := json.NewDecoder(r.body).Decode(v); err != nil {
		return InvalidArgumentError("malformed JSON body: %v", err).Wrap(err)
	}
	return nil
}

func (r *Request) checkBody(mediaType string) error {
	switch r.method {
	case "GET", "HEAD", "OPTIONS":
		return FailedPreconditionError("%s requests cannot carry a body", r.method)
	}
	ct, ok := r.Header("content-type")
	if !ok {
		return FailedPreconditionError("Content-Type required to parse request body")
	}
	if ct != mediaType {
		return FailedPreconditionError("Content-Type must be %s, got %q", mediaType, ct)
	}
	if r.body == nil {
		return FailedPreconditionError("request has no body")
	}
	return nil
}

package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ServeOption configures a transport adapter.
type ServeOption func(*serveConfig)

type serveConfig struct {
	wrap []func(ResponseWriter) ResponseWriter
}

// WithWriterWrapper installs a sink transform, such as a minifying writer,
// between the response and the transport.
func WithWriterWrapper(wrap func(ResponseWriter) ResponseWriter) ServeOption {
	return func(c *serveConfig) {
		if wrap != nil {
			c.wrap = append(c.wrap, wrap)
		}
	}
}

func newServeConfig(opts []ServeOption) serveConfig {
	var c serveConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c serveConfig) writer(w ResponseWriter) ResponseWriter {
	for _, wrap := range c.wrap {
		w = wrap(w)
	}
	return w
}

// endSignal closes done after the wrapped writer has ended.
type endSignal struct {
	ResponseWriter
	done chan struct{}
	once sync.Once
}

func newEndSignal(w ResponseWriter) *endSignal {
	return &endSignal{ResponseWriter: w, done: make(chan struct{})}
}

func (e *endSignal) End() {
	e.ResponseWriter.End()
	e.once.Do(func() { close(e.done) })
}

// RequestFromEnv builds a request from CGI meta-variables given as
// "KEY=value" entries. HTTP_* variables become headers with underscores
// turned into hyphens.
func RequestFromEnv(env []string, body io.Reader) *Request {
	req := NewRequest("GET", "/", "HTTP/1.1")
	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		switch key {
		case "HTTPS":
			req.SetTLS(true)
		case "REQUEST_METHOD":
			req.SetMethod(value)
		case "PATH_INFO":
			if value != "" {
				req.SetPath(value)
			}
		case "QUERY_STRING":
			req.SetQueryString(value)
		case "SERVER_PROTOCOL":
			req.SetVersion(value)
		case "CONTENT_TYPE":
			req.SetHeader("content-type", value)
		case "CONTENT_LENGTH":
			req.SetHeader("content-length", value)
		default:
			if name, ok := strings.CutPrefix(key, "HTTP_"); ok {
				req.SetHeader(strings.ReplaceAll(name, "_", "-"), value)
			}
		}
	}
	req.SetBody(body)
	return req
}

var headerValueReplacer = strings.NewReplacer("\r", " ", "\n", " ")

// CGIWriter emits a CGI response document: a status line, headers in
// lexical order, one set-cookie line per cookie, a blank line and the body.
type CGIWriter struct {
	w   *bufio.Writer
	err error
}

// NewCGIWriter writes a CGI response to w, buffering until End.
func NewCGIWriter(w io.Writer) *CGIWriter {
	return &CGIWriter{w: bufio.NewWriter(w)}
}

func (c *CGIWriter) WriteHead(h Head) error {
	fmt.Fprintf(c.w, "status: %d\n", h.Status)
	for _, name := range h.SortedHeaderNames() {
		fmt.Fprintf(c.w, "%s: %s\n", name, headerValueReplacer.Replace(h.Headers[name]))
	}
	for _, ck := range h.Cookies {
		fmt.Fprintf(c.w, "set-cookie: %s\n", ck.String())
	}
	_, err := c.w.WriteString("\n")
	return c.record(err)
}

func (c *CGIWriter) WriteChunk(chunk []byte) error {
	_, err := c.w.Write(chunk)
	return c.record(err)
}

// End flushes buffered output. The underlying writer is left open.
func (c *CGIWriter) End() {
	_ = c.record(c.w.Flush())
}

// Err returns the first write error.
func (c *CGIWriter) Err() error { return c.err }

func (c *CGIWriter) record(err error) error {
	if err != nil && c.err == nil {
		c.err = err
	}
	return err
}

// ServeCGI handles exactly one CGI request read from env and in, writing
// the response to out. It waits for the response to finish, which may
// happen after Handle returns when a middleware continues asynchronously,
// or until ctx is done. The result is the process exit status.
func ServeCGI(ctx context.Context, app *Application, env []string, in io.Reader, out io.Writer, opts ...ServeOption) int {
	cfg := newServeConfig(opts)

	req := RequestFromEnv(env, in)
	req.WithContext(WithRequestID(ctx, req.ID()))
	res := NewResponseFor(req)
	cw := NewCGIWriter(out)
	sig := newEndSignal(cfg.writer(cw))
	res.SetWriter(sig)

	app.Handle(req, res)

	select {
	case <-sig.done:
	case <-ctx.Done():
		app.Logger().ErrorContext(req.Context(), "request abandoned before the response finished",
			"error", ctx.Err(),
			"path", req.Path(),
		)
		return 1
	}

	if err := cw.Err(); err != nil {
		app.Logger().ErrorContext(req.Context(), "failed to write CGI response",
			"error", err,
			"path", req.Path(),
		)
		return 1
	}
	return 0
}

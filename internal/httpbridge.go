package internal

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrClientGone is returned by the HTTP sink once the handler has
// returned, typically because the client disconnected.
var ErrClientGone = errors.New("webforge: http client gone")

// RequestFromHTTP converts r. The chi request ID, when present, becomes the
// request ID, and r's context is carried for logging.
func RequestFromHTTP(r *http.Request) *Request {
	req := NewRequest(r.Method, r.URL.Path, r.Proto)
	req.SetQueryString(r.URL.RawQuery)
	req.SetTLS(r.TLS != nil)

	for name, values := range r.Header {
		sep := ", "
		if strings.EqualFold(name, "cookie") {
			sep = "; "
		}
		req.SetHeader(name, strings.Join(values, sep))
	}
	if r.Host != "" {
		req.SetHeader("host", r.Host)
	}
	if r.Body != nil && r.Body != http.NoBody {
		req.SetBody(r.Body)
	}

	req.WithContext(r.Context())
	if id := middleware.GetReqID(r.Context()); id != "" {
		req.SetID(id)
	} else {
		req.WithContext(WithRequestID(r.Context(), req.ID()))
	}
	return req
}

// httpWriter forwards a response to an http.ResponseWriter until the
// handler returns.
type httpWriter struct {
	w      http.ResponseWriter
	mu     sync.Mutex
	closed bool
}

func (h *httpWriter) WriteHead(head Head) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClientGone
	}

	hdr := h.w.Header()
	for name, value := range head.Headers {
		hdr.Set(name, value)
	}
	for _, c := range head.Cookies {
		hdr.Add("Set-Cookie", c.String())
	}
	h.w.WriteHeader(head.Status)
	return nil
}

func (h *httpWriter) WriteChunk(chunk []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClientGone
	}
	_, err := h.w.Write(chunk)
	return err
}

func (h *httpWriter) End() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if f, ok := h.w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *httpWriter) close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

// HTTPHandler serves app over net/http. Each request blocks until the
// response finishes or the client goes away.
func HTTPHandler(app *Application, opts ...ServeOption) http.Handler {
	cfg := newServeConfig(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := RequestFromHTTP(r)
		res := NewResponseFor(req)
		hw := &httpWriter{w: w}
		defer hw.close()

		sig := newEndSignal(cfg.writer(hw))
		res.SetWriter(sig)

		app.Handle(req, res)

		select {
		case <-sig.done:
		case <-r.Context().Done():
			app.Logger().WarnContext(req.Context(), "client went away before the response finished",
				"path", req.Path(),
			)
		}
	})
}

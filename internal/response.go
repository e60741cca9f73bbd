package internal

import (
	"errors"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/AdrianGjerstad/webforge/pkg/cookie"
	"github.com/AdrianGjerstad/webforge/pkg/mimetype"
	"github.com/AdrianGjerstad/webforge/pkg/render"
)

// Renderer produces component output for Response.Render.
type Renderer interface {
	Render(w io.Writer, key string, data render.Data) error
	RenderHTML(w io.Writer, key string, data render.Data) error
	FlushCache()
	SearchPath() string
}

// Response accumulates status, headers and cookies until the head is
// written to the attached ResponseWriter, then streams the body.
// Its lifecycle only moves forward: fresh, head written, finished.
type Response struct {
	writer      ResponseWriter
	renderer    Renderer
	err         *Status
	headErr     error
	headers     map[string]string
	cookies     map[string]*cookie.Cookie
	beforeHead  []func(*Response)
	version     string
	charset     string
	status      int
	headWritten bool
	finished    bool
	isHead      bool
}

// NewResponse creates a 200 response for the given protocol version.
func NewResponse(version string) *Response {
	return &Response{
		headers: make(map[string]string),
		cookies: make(map[string]*cookie.Cookie),
		version: version,
		charset: "utf-8",
		status:  200,
	}
}

// NewResponseFor creates the response to req, matching its version and
// suppressing the body for HEAD requests.
func NewResponseFor(req *Request) *Response {
	r := NewResponse(req.Version())
	r.isHead = req.IsHead()
	return r
}

func (r *Response) Version() string { return r.version }
func (r *Response) Status() int     { return r.status }

// SetStatus has no visible effect once the head is written.
func (r *Response) SetStatus(code int) { r.status = code }

func (r *Response) Header(name string) (string, bool) {
	v, ok := r.headers[strings.ToLower(name)]
	return v, ok
}

func (r *Response) SetHeader(name, value string) {
	r.headers[strings.ToLower(name)] = value
}

func (r *Response) DelHeader(name string) {
	delete(r.headers, strings.ToLower(name))
}

func (r *Response) HeaderMap() map[string]string { return r.headers }

func (r *Response) Charset() string { return r.charset }

// SetCharset validates cs against the WHATWG encoding registry and stores
// its canonical name.
func (r *Response) SetCharset(cs string) error {
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return InvalidArgumentError("unknown charset %q", cs)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return InvalidArgumentError("unknown charset %q", cs)
	}
	r.charset = name
	return nil
}

// Cookie returns the cookie queued under name.
func (r *Response) Cookie(name string) (*cookie.Cookie, bool) {
	c, ok := r.cookies[name]
	return c, ok
}

// SetCookie queues a cookie and returns it so attributes can be set.
// A later cookie with the same name replaces it.
func (r *Response) SetCookie(name, value string) *cookie.Cookie {
	c := cookie.New(name, value)
	r.cookies[name] = c
	return c
}

// AddCookie queues a prepared cookie.
func (r *Response) AddCookie(c *cookie.Cookie) {
	r.cookies[c.Name] = c
}

// DeleteCookie queues a deletion cookie for name.
func (r *Response) DeleteCookie(name string) *cookie.Cookie {
	c := cookie.Deletion(name)
	r.cookies[name] = c
	return c
}

// Cookies returns queued cookies sorted by name.
func (r *Response) Cookies() []*cookie.Cookie {
	names := slices.Sorted(maps.Keys(r.cookies))
	out := make([]*cookie.Cookie, 0, len(names))
	for _, n := range names {
		out = append(out, r.cookies[n])
	}
	return out
}

func (r *Response) Writer() ResponseWriter        { return r.writer }
func (r *Response) SetWriter(w ResponseWriter)    { r.writer = w }
func (r *Response) Renderer() Renderer            { return r.renderer }
func (r *Response) SetRenderer(renderer Renderer) { r.renderer = renderer }

// ComponentPath is the directory static files and templates are resolved
// against: the renderer's search path, or "." without a renderer.
func (r *Response) ComponentPath() string {
	if r.renderer == nil {
		return "."
	}
	return r.renderer.SearchPath()
}

// Err returns the last error recorded by the router, if any.
func (r *Response) Err() *Status { return r.err }

func (r *Response) SetError(err error) { r.err = StatusOf(err) }

func (r *Response) HeadWritten() bool { return r.headWritten }
func (r *Response) Finished() bool    { return r.finished }
func (r *Response) IsHead() bool      { return r.isHead }
func (r *Response) SetHead(b bool)    { r.isHead = b }

// OnBeforeWriteHead registers fn to run once, in registration order, just
// before the head is snapshotted.
func (r *Response) OnBeforeWriteHead(fn func(*Response)) {
	r.beforeHead = append(r.beforeHead, fn)
}

// WriteHead sends status, headers and cookies to the writer. It is a no-op
// once the head was written or the response finished. The writer sees at
// most one head: after a failed attempt the same error is returned again.
func (r *Response) WriteHead() error {
	if r.headWritten || r.finished {
		return nil
	}
	if r.headErr != nil {
		return r.headErr
	}
	if r.writer == nil {
		return UnavailableError("no response writer attached")
	}

	hooks := r.beforeHead
	r.beforeHead = nil
	for _, fn := range hooks {
		fn(r)
	}

	ct := r.headers["content-type"]
	if ct == "" {
		ct = mimetype.OctetStream
	}
	if !strings.Contains(strings.ToLower(ct), "charset=") {
		ct += "; charset=" + r.charset
	}
	r.headers["content-type"] = ct

	if err := r.writer.WriteHead(r.head()); err != nil {
		r.headErr = sinkError(err)
		return r.headErr
	}
	r.headWritten = true
	return nil
}

func (r *Response) head() Head {
	return Head{
		Version: r.version,
		Status:  r.status,
		Headers: maps.Clone(r.headers),
		Cookies: r.Cookies(),
	}
}

// Write implements io.Writer. The head is written first if needed; body
// bytes of HEAD responses are discarded.
func (r *Response) Write(p []byte) (int, error) {
	if r.finished {
		return 0, FailedPreconditionError("response already finished")
	}
	if !r.headWritten {
		if err := r.WriteHead(); err != nil {
			return 0, err
		}
	}
	if r.isHead || len(p) == 0 {
		return len(p), nil
	}
	if err := r.writer.WriteChunk(p); err != nil {
		return 0, sinkError(err)
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (r *Response) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// End writes data as the complete remaining body and finishes the
// response. Content-Length is set when the head has not been written. The
// writer is ended even if the write fails.
func (r *Response) End(data string) error {
	if r.finished {
		return FailedPreconditionError("response already finished")
	}
	if !r.headWritten {
		r.headers["content-length"] = strconv.Itoa(len(data))
	}
	_, err := r.WriteString(data)
	r.Finish()
	return err
}

// Finish ends the response, writing the head first if needed. Calling it
// again has no effect.
func (r *Response) Finish() {
	if r.finished {
		return
	}
	if !r.headWritten && r.headErr == nil {
		_ = r.WriteHead()
	}
	if r.writer != nil {
		r.writer.End()
	}
	r.finished = true
}

// Redirect finishes the response with a Location header.
func (r *Response) Redirect(status int, location string) error {
	r.SetStatus(status)
	r.SetHeader("location", location)
	return r.End("")
}

// Render executes component with data and streams the result into the
// response, finishing it on success. The Content-Type is derived from the
// component's file name unless already set. The head is written with the
// first output byte, so failures before any output leave the head open for
// the error cascade.
func (r *Response) Render(component string, data render.Data) error {
	if r.renderer == nil {
		return UnavailableError("no renderer attached")
	}

	ct, ok := r.Header("content-type")
	if !ok {
		ct = mimetype.FromFilename(component)
		r.SetHeader("content-type", ct)
	}

	var err error
	if mimetype.IsHTML(ct) {
		err = r.renderer.RenderHTML(r, component, data)
	} else {
		err = r.renderer.Render(r, component, data)
	}
	if err != nil {
		return renderError(err)
	}

	r.Finish()
	return nil
}

func renderError(err error) *Status {
	var s *Status
	switch {
	case errors.As(err, &s):
		return s
	case errors.Is(err, render.ErrNotFound):
		return NotFoundError("%v", err).Wrap(err)
	case errors.Is(err, render.ErrKeyConflict), errors.Is(err, render.ErrInvalidDataKey):
		return DataLossError("%v", err).Wrap(err)
	}
	return AbortedError("%v", err).Wrap(err)
}

func sinkError(err error) *Status {
	var s *Status
	if errors.As(err, &s) {
		return s
	}
	return UnavailableError("response writer failed: %v", err).Wrap(err)
}

package internal_test

import (
	"bytes"
	"errors"
	"testing/fstest"

	"github.com/AdrianGjerstad/webforge/internal"
	"github.com/AdrianGjerstad/webforge/pkg/render"
)

var errSinkBroken = errors.New("sink broken")

// recorder is a ResponseWriter that keeps everything it is given.
type recorder struct {
	head      internal.Head
	body      bytes.Buffer
	heads     int
	attempts  int
	chunks    int
	ends      int
	failHead  bool
	failChunk bool
}

func (r *recorder) WriteHead(h internal.Head) error {
	r.attempts++
	if r.failHead {
		return errSinkBroken
	}
	r.head = h
	r.heads++
	return nil
}

func (r *recorder) WriteChunk(b []byte) error {
	r.chunks++
	if r.failChunk {
		return errSinkBroken
	}
	r.body.Write(b)
	return nil
}

func (r *recorder) End() { r.ends++ }

func newPair(method, path string) (*internal.Request, *internal.Response, *recorder) {
	req := internal.NewRequest(method, path, "HTTP/1.1")
	res := internal.NewResponseFor(req)
	rec := &recorder{}
	res.SetWriter(rec)
	return req, res, rec
}

func textProcessor(body string) internal.ProcessorFunc {
	return func(_ *internal.Request, res *internal.Response) error {
		res.SetHeader("content-type", "text/plain")
		return res.End(body)
	}
}

func passThrough() internal.Middleware {
	return internal.MiddlewareFunc(func(_ *internal.Request, _ *internal.Response, next internal.NextFunc) {
		next(nil)
	})
}

func failWith(err error) internal.Middleware {
	return internal.MiddlewareFunc(func(_ *internal.Request, _ *internal.Response, next internal.NextFunc) {
		next(err)
	})
}

func memRenderer(files map[string]string) *render.Renderer {
	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	return render.New("components", render.WithFS(fsys))
}

package internal

import (
	"bytes"
	"context"
	"log/slog"
	"maps"

	"github.com/AdrianGjerstad/webforge/pkg/logger"
	"github.com/AdrianGjerstad/webforge/pkg/minify"
)

// Minifier shrinks a source document of a known type.
type Minifier interface {
	Minify(ctx context.Context, t minify.SourceType, src []byte) ([]byte, error)
}

// minifyingWriter buffers bodies of minifiable responses and forwards the
// minified result on End. Other responses pass through unchanged.
type minifyingWriter struct {
	ctx    context.Context
	next   ResponseWriter
	m      Minifier
	logger *slog.Logger
	head   Head
	buf    bytes.Buffer
	typ    minify.SourceType
	held   bool
}

// NewMinifyingWriter wraps next so HTML, CSS, JavaScript and XML bodies are
// minified before they reach it. Content-Length is dropped from minified
// responses: HEAD bodies never reach the sink, so only an absent length keeps
// HEAD and GET heads identical. If minification fails the original body is
// sent.
func NewMinifyingWriter(ctx context.Context, next ResponseWriter, m Minifier, l *slog.Logger) ResponseWriter {
	if l == nil {
		l = logger.NewNope()
	}
	return &minifyingWriter{ctx: ctx, next: next, m: m, logger: l}
}

func (w *minifyingWriter) WriteHead(h Head) error {
	t, ok := minify.ForMediaType(h.Headers["content-type"])
	if !ok {
		return w.next.WriteHead(h)
	}
	w.head = h
	w.typ = t
	w.held = true
	return nil
}

func (w *minifyingWriter) WriteChunk(chunk []byte) error {
	if !w.held {
		return w.next.WriteChunk(chunk)
	}
	w.buf.Write(chunk)
	return nil
}

func (w *minifyingWriter) End() {
	defer w.next.End()
	if !w.held {
		return
	}

	w.head.Headers = maps.Clone(w.head.Headers)
	delete(w.head.Headers, "content-length")

	if w.buf.Len() == 0 {
		_ = w.next.WriteHead(w.head)
		return
	}

	out, err := w.m.Minify(w.ctx, w.typ, w.buf.Bytes())
	if err != nil {
		w.logger.WarnContext(w.ctx, "minification failed, sending original body",
			slog.String("type", w.typ.String()),
			slog.Any("error", err),
		)
		out = w.buf.Bytes()
	}

	if err := w.next.WriteHead(w.head); err != nil {
		return
	}
	_ = w.next.WriteChunk(out)
}

package internal_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AdrianGjerstad/webforge/internal"
	"github.com/AdrianGjerstad/webforge/pkg/minify"
)

// squeeze removes spaces, standing in for the external minifier.
type squeeze struct {
	calls []minify.SourceType
	fail  bool
}

func (s *squeeze) Minify(_ context.Context, t minify.SourceType, src []byte) ([]byte, error) {
	s.calls = append(s.calls, t)
	if s.fail {
		return nil, errors.New("worker crashed")
	}
	return bytes.ReplaceAll(src, []byte(" "), nil), nil
}

func minified(m internal.Minifier, contentType, body string) (*recorder, *internal.Response) {
	return minifiedFor("GET", m, contentType, body)
}

func minifiedFor(method string, m internal.Minifier, contentType, body string) (*recorder, *internal.Response) {
	rec := &recorder{}
	req := internal.NewRequest(method, "/", "")
	res := internal.NewResponseFor(req)
	res.SetWriter(internal.NewMinifyingWriter(context.Background(), rec, m, nil))
	if contentType != "" {
		res.SetHeader("content-type", contentType)
	}
	_ = res.End(body)
	return rec, res
}

func TestMinifyingWriter(t *testing.T) {
	t.Parallel()

	t.Run("minifies html", func(t *testing.T) {
		t.Parallel()

		m := &squeeze{}
		rec, _ := minified(m, "text/html", "<p> a b </p>")

		assert.Equal(t, "<p>ab</p>", rec.body.String())
		assert.NotContains(t, rec.head.Headers, "content-length")
		assert.Equal(t, []minify.SourceType{minify.HTML}, m.calls)
		assert.Equal(t, 1, rec.heads)
		assert.Equal(t, 1, rec.ends)
	})

	t.Run("passes other types through", func(t *testing.T) {
		t.Parallel()

		m := &squeeze{}
		rec, _ := minified(m, "text/plain", "a b")

		assert.Equal(t, "a b", rec.body.String())
		assert.Equal(t, "3", rec.head.Headers["content-length"])
		assert.Empty(t, m.calls)
	})

	t.Run("falls back on failure", func(t *testing.T) {
		t.Parallel()

		m := &squeeze{fail: true}
		rec, _ := minified(m, "text/css", "a { color: red }")

		assert.Equal(t, "a { color: red }", rec.body.String())
		assert.NotContains(t, rec.head.Headers, "content-length")
		assert.Equal(t, 1, rec.ends)
	})

	t.Run("head and get share headers", func(t *testing.T) {
		t.Parallel()

		get, _ := minifiedFor("GET", &squeeze{}, "text/html", "<p> a b </p>")
		head, _ := minifiedFor("HEAD", &squeeze{}, "text/html", "<p> a b </p>")

		assert.Equal(t, get.head.Status, head.head.Status)
		assert.Equal(t, get.head.Headers, head.head.Headers)
		assert.Equal(t, "<p>ab</p>", get.body.String())
		assert.Zero(t, head.body.Len())
		assert.Equal(t, 1, head.ends)
	})

	t.Run("empty body forwards head", func(t *testing.T) {
		t.Parallel()

		m := &squeeze{}
		rec, _ := minified(m, "text/javascript", "")

		assert.Equal(t, 1, rec.heads)
		assert.Equal(t, 0, rec.chunks)
		assert.Empty(t, m.calls)
		assert.Equal(t, 1, rec.ends)
	})

	t.Run("failing sink still ends", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{failHead: true}
		w := internal.NewMinifyingWriter(context.Background(), rec, &squeeze{}, nil)
		assert.NoError(t, w.WriteHead(internal.Head{Status: 200, Headers: map[string]string{"content-type": "text/html"}}))
		assert.NoError(t, w.WriteChunk([]byte("<b> x </b>")))
		w.End()

		assert.Equal(t, 0, rec.chunks)
		assert.Equal(t, 1, rec.ends)
	})
}

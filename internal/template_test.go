package internal_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/internal"
)

func TestTemplateProcessor(t *testing.T) {
	t.Parallel()

	renderer := memRenderer(map[string]string{
		"hello.html": `<p>Hello, {{.user.name}}! You have {{.user.unread}} messages.</p>`,
		"feed.xml":   `<title>{{.title}}</title>`,
		"post.md":    "# {{.title}}\n\n<script>alert(1)</script>\n",
	})
	app := internal.New(internal.WithRenderer(renderer))

	load := func(req *internal.Request, _ *internal.Response, add internal.AddFunc) error {
		name, _ := req.Query("name")
		if err := add("user.name", name); err != nil {
			return err
		}
		return add("user.unread", 3)
	}
	app.Get(internal.TemplateProcessor("hello.html", load), "/hello")
	app.Get(internal.TemplateProcessor("feed.xml", internal.StaticData(map[string]any{"title": "a & b"})), "/feed")
	app.Get(internal.TemplateProcessor("post.md", internal.StaticData(map[string]any{"title": "Intro"})), "/post")
	app.Get(internal.TemplateProcessor("hello.html", internal.StaticData(map[string]any{
		"user":      "scalar",
		"user.name": "conflict",
	})), "/conflict")
	app.Get(internal.TemplateProcessor("hello.html", func(*internal.Request, *internal.Response, internal.AddFunc) error {
		return internal.NewStatus(internal.CodePermissionDenied, "members only")
	}), "/private")

	t.Run("renders html with loaded data", func(t *testing.T) {
		t.Parallel()

		req, res, rec := newPair("GET", "/hello")
		req.SetQueryString("name=%3Cem%3EAda")
		app.Handle(req, res)

		assert.Equal(t, "<p>Hello, &lt;em&gt;Ada! You have 3 messages.</p>", rec.body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.head.Headers["content-type"])
	})

	t.Run("non html mime", func(t *testing.T) {
		t.Parallel()

		req, res, rec := newPair("GET", "/feed")
		app.Handle(req, res)

		assert.Equal(t, "<title>a & b</title>", rec.body.String())
		assert.Equal(t, "text/xml; charset=utf-8", rec.head.Headers["content-type"])
	})

	t.Run("markdown is converted and sanitized", func(t *testing.T) {
		t.Parallel()

		req, res, rec := newPair("GET", "/post")
		app.Handle(req, res)

		assert.Contains(t, rec.body.String(), `<h1 id="intro">Intro</h1>`)
		assert.NotContains(t, rec.body.String(), "<script>")
	})

	t.Run("key conflict is data loss", func(t *testing.T) {
		t.Parallel()

		req, res, _ := newPair("GET", "/conflict")
		app.Handle(req, res)
		assert.Equal(t, internal.CodeDataLoss, res.Err().Code())
	})

	t.Run("loader failure is passed on", func(t *testing.T) {
		t.Parallel()

		req, res, _ := newPair("GET", "/private")
		app.Handle(req, res)
		assert.Equal(t, internal.CodePermissionDenied, res.Err().Code())
	})
}

func TestTemplProcessor(t *testing.T) {
	t.Parallel()

	greeting := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>templ</h1>")
		return err
	})
	broken := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("missing prop")
	})

	app := internal.New()
	app.Get(internal.TemplProcessor(greeting), "/")
	app.Get(internal.TemplProcessor(broken), "/broken")

	req, res, rec := newPair("GET", "/")
	app.Handle(req, res)
	assert.Equal(t, "<h1>templ</h1>", rec.body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.head.Headers["content-type"])

	req, res, _ = newPair("GET", "/broken")
	app.Handle(req, res)
	require.NotNil(t, res.Err())
	assert.Equal(t, internal.CodeAborted, res.Err().Code())
}

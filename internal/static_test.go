package internal_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/internal"
	"github.com/AdrianGjerstad/webforge/pkg/httpdate"
)

func staticSite(t *testing.T) (string, time.Time) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "public", "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public", "css", "site.css"), []byte("body{margin:0}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("hunter2"), 0o644))
	big := strings.Repeat("0123456789", 1000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public", "big.txt"), []byte(big), 0o644))

	mtime := time.Date(2024, 3, 1, 12, 30, 45, 500, time.UTC)
	for _, p := range []string{"public/css/site.css", "public/big.txt", "secret.txt"} {
		require.NoError(t, os.Chtimes(filepath.Join(dir, p), mtime, mtime))
	}
	return dir, mtime
}

func TestStaticMiddleware(t *testing.T) {
	t.Parallel()

	dir, mtime := staticSite(t)
	app := internal.New(internal.WithComponentPath(dir))
	app.Use(internal.StaticMiddleware("public", "/static"))
	app.Use(textProcessor("fallthrough"))

	serve := func(path string, headers ...string) (*internal.Response, *recorder) {
		req, res, rec := newPair("GET", path)
		for i := 0; i+1 < len(headers); i += 2 {
			req.SetHeader(headers[i], headers[i+1])
		}
		app.Handle(req, res)
		return res, rec
	}

	t.Run("serves file with metadata", func(t *testing.T) {
		t.Parallel()

		_, rec := serve("/static/css/site.css")
		assert.Equal(t, 200, rec.head.Status)
		assert.Equal(t, "body{margin:0}", rec.body.String())
		assert.Equal(t, "14", rec.head.Headers["content-length"])
		assert.Equal(t, "text/css; charset=utf-8", rec.head.Headers["content-type"])
		assert.Equal(t, httpdate.Format(mtime), rec.head.Headers["last-modified"])
	})

	t.Run("streams in chunks", func(t *testing.T) {
		t.Parallel()

		_, rec := serve("/static/big.txt")
		assert.Equal(t, "10000", rec.head.Headers["content-length"])
		assert.Equal(t, 10000, rec.body.Len())
		assert.Equal(t, 3, rec.chunks)
	})

	t.Run("not modified", func(t *testing.T) {
		t.Parallel()

		_, rec := serve("/static/css/site.css", "If-Modified-Since", httpdate.Format(mtime))
		assert.Equal(t, 304, rec.head.Status)
		assert.Empty(t, rec.body.String())
		assert.Equal(t, 1, rec.ends)

		_, rec = serve("/static/css/site.css", "If-Modified-Since", httpdate.Format(mtime.Add(-time.Second)))
		assert.Equal(t, 200, rec.head.Status)
	})

	t.Run("malformed date is ignored", func(t *testing.T) {
		t.Parallel()

		_, rec := serve("/static/css/site.css", "If-Modified-Since", "yesterday")
		assert.Equal(t, 200, rec.head.Status)
		assert.Equal(t, "body{margin:0}", rec.body.String())
	})

	t.Run("declines outside base or missing", func(t *testing.T) {
		t.Parallel()

		for _, p := range []string{"/other/site.css", "/static", "/static/css", "/static/none.css"} {
			_, rec := serve(p)
			assert.Equal(t, "fallthrough", rec.body.String(), p)
		}
	})

	t.Run("traversal is not found", func(t *testing.T) {
		t.Parallel()

		for _, p := range []string{"/static/../secret.txt", "/static/css/../../secret.txt", "/static/.."} {
			res, rec := serve(p)
			require.NotNil(t, res.Err(), p)
			assert.Equal(t, internal.CodeNotFound, res.Err().Code(), p)
			assert.Equal(t, "path traversal attempt detected", res.Err().Message(), p)
			assert.NotContains(t, rec.body.String(), "hunter2")
		}
	})

	t.Run("dot dot inside a name is fine", func(t *testing.T) {
		t.Parallel()

		_, rec := serve("/static/css/..site.css")
		assert.Equal(t, "fallthrough", rec.body.String())
	})
}

func TestStaticProcessor(t *testing.T) {
	t.Parallel()

	dir, _ := staticSite(t)
	app := internal.New(internal.WithComponentPath(dir))
	app.Get(internal.StaticProcessor("secret.txt"), "/secret")
	app.Get(internal.StaticProcessor("missing.txt"), "/missing")
	app.Get(internal.StaticProcessor("public"), "/dir")

	req, res, rec := newPair("GET", "/secret")
	app.Handle(req, res)
	assert.Equal(t, "hunter2", rec.body.String())
	assert.Equal(t, "7", rec.head.Headers["content-length"])
	assert.Equal(t, "text/plain; charset=utf-8", rec.head.Headers["content-type"])

	req, res, _ = newPair("HEAD", "/secret")
	app.Handle(req, res)
	assert.True(t, res.Finished())

	for _, p := range []string{"/missing", "/dir"} {
		req, res, rec = newPair("GET", p)
		app.Handle(req, res)
		assert.Equal(t, internal.CodeInternal, res.Err().Code(), p)
		assert.Equal(t, 500, rec.head.Status)
	}
}

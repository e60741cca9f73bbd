package internal_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/internal"
	"github.com/AdrianGjerstad/webforge/pkg/health"
)

func TestRequestFromHTTP(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "https://example.com/form?a=1&a=2", strings.NewReader("x=1"))
	r.Header.Add("Accept", "text/html")
	r.Header.Add("Accept", "application/xhtml+xml")
	r.Header.Add("Cookie", "a=1")
	r.Header.Add("Cookie", "b=2")

	req := internal.RequestFromHTTP(r)
	assert.Equal(t, "POST", req.Method())
	assert.Equal(t, "/form", req.Path())
	assert.Equal(t, "example.com", req.Host())
	assert.True(t, req.TLS())

	a, _ := req.Query("a")
	assert.Equal(t, "1", a)

	accept, _ := req.Header("accept")
	assert.Equal(t, "text/html, application/xhtml+xml", accept)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, req.CookieMap())

	body, err := io.ReadAll(req.Body())
	require.NoError(t, err)
	assert.Equal(t, "x=1", string(body))

	id, ok := internal.RequestIDFromContext(req.Context())
	assert.True(t, ok)
	assert.Equal(t, req.ID(), id)
}

func TestHTTPHandler(t *testing.T) {
	t.Parallel()

	app := internal.New()
	app.Get(internal.ProcessorFunc(func(req *internal.Request, res *internal.Response) error {
		res.SetHeader("content-type", "text/plain")
		res.SetCookie("visited", "yes")
		return res.End("id=" + req.ID())
	}), "/")
	app.Get(internal.MiddlewareFunc(func(_ *internal.Request, res *internal.Response, next internal.NextFunc) {
		go func() {
			time.Sleep(5 * time.Millisecond)
			next(res.End("deferred"))
		}()
	}), "/later")
	app.Error(internal.CodeNotFound, textProcessor("no such page"))

	router := internal.NewHTTPRouter(internal.HTTPHandler(app), health.Checks{
		"ok": func(context.Context) error { return nil },
	})

	t.Run("serves the site", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "visited=yes", rec.Header().Get("Set-Cookie"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "id="))
		assert.Greater(t, len(rec.Body.String()), len("id="), "chi request id is carried over")
	})

	t.Run("head request", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("waits for deferred continuation", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/later", nil))
		assert.Equal(t, "deferred", rec.Body.String())
	})

	t.Run("error handler", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, "no such page", rec.Body.String())
	})

	t.Run("probes", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	app := internal.New()
	app.Get(textProcessor("running"), "/")

	ctx, cancel := context.WithCancel(context.Background())
	hookRan := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- internal.Run(ctx, internal.HTTPHandler(app),
			internal.Listener(ln),
			internal.ShutdownTimeout(time.Second),
			internal.ShutdownHook(func(context.Context) error {
				close(hookRan)
				return nil
			}),
		)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "running", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	select {
	case <-hookRan:
	default:
		t.Fatal("shutdown hook did not run")
	}
}

func TestRun_HookError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hookErr := errors.New("flush failed")
	err = internal.Run(ctx, http.NotFoundHandler(),
		internal.Listener(ln),
		internal.ShutdownHook(func(context.Context) error { return hookErr }),
	)
	assert.ErrorIs(t, err, hookErr)
}

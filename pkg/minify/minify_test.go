package minify_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/pkg/cache"
	"github.com/AdrianGjerstad/webforge/pkg/minify"
)

const workerEnv = "WEBFORGE_TEST_MINIFY_WORKER"

// TestMain lets the test binary double as a minify worker.
func TestMain(m *testing.M) {
	if os.Getenv(workerEnv) == "1" {
		runFakeWorker()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runFakeWorker collapses whitespace and exits when asked to "die".
func runFakeWorker() {
	req := os.NewFile(3, "request")
	resp := os.NewFile(4, "response")
	for {
		_, src, err := minify.ReadRequest(req)
		if err != nil {
			return
		}
		if string(src) == "die" {
			os.Exit(3)
		}
		if err := minify.WriteResponse(resp, []byte(strings.Join(strings.Fields(string(src)), " "))); err != nil {
			return
		}
	}
}

func newTestMinifier(t *testing.T, opts ...minify.Option) *minify.Minifier {
	t.Helper()
	opts = append([]minify.Option{
		minify.WithCommand(os.Args[0], "-test.run=^$"),
		minify.WithEnv(workerEnv + "=1"),
	}, opts...)
	m := minify.New(opts...)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestProtocol(t *testing.T) {
	t.Parallel()

	t.Run("request frame layout", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, minify.WriteRequest(&buf, minify.CSS, []byte("a{}")))
		require.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 0, 3, 'a', '{', '}'}, buf.Bytes())

		typ, src, err := minify.ReadRequest(&buf)
		require.NoError(t, err)
		require.Equal(t, minify.CSS, typ)
		require.Equal(t, "a{}", string(src))
	})

	t.Run("response frame layout", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, minify.WriteResponse(&buf, []byte("ok")))
		require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 2, 'o', 'k'}, buf.Bytes())

		out, err := minify.ReadResponse(&buf)
		require.NoError(t, err)
		require.Equal(t, "ok", string(out))
	})

	t.Run("invalid type", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, minify.WriteRequest(&bytes.Buffer{}, 9, nil), minify.ErrInvalidSourceType)
		_, _, err := minify.ReadRequest(bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0}))
		require.ErrorIs(t, err, minify.ErrInvalidSourceType)
	})

	t.Run("oversized length", func(t *testing.T) {
		t.Parallel()
		_, err := minify.ReadResponse(bytes.NewReader([]byte{0xff, 0, 0, 0, 0, 0, 0, 0}))
		require.ErrorIs(t, err, minify.ErrFrameTooLarge)
	})

	t.Run("truncated payload", func(t *testing.T) {
		t.Parallel()
		_, err := minify.ReadResponse(bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 5, 'a'}))
		require.Error(t, err)
	})
}

func TestForMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mediaType string
		want      minify.SourceType
		ok        bool
	}{
		{"text/html; charset=utf-8", minify.HTML, true},
		{"text/css", minify.CSS, true},
		{"text/javascript", minify.JavaScript, true},
		{"application/javascript", minify.JavaScript, true},
		{"text/xml", minify.XML, true},
		{"image/png", 0, false},
	}
	for _, tt := range tests {
		got, ok := minify.ForMediaType(tt.mediaType)
		require.Equal(t, tt.ok, ok, tt.mediaType)
		require.Equal(t, tt.want, got, tt.mediaType)
	}
}

func TestMinifier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trips through worker", func(t *testing.T) {
		t.Parallel()
		m := newTestMinifier(t)

		out, err := m.Minify(ctx, minify.HTML, []byte("<p>\n   hello\n   world </p>"))
		require.NoError(t, err)
		require.Equal(t, "<p> hello world </p>", string(out))

		out, err = m.Minify(ctx, minify.CSS, []byte("a  {\n color: red; }"))
		require.NoError(t, err)
		require.Equal(t, "a { color: red; }", string(out))
	})

	t.Run("restarts after worker death", func(t *testing.T) {
		t.Parallel()
		m := newTestMinifier(t)

		_, err := m.Minify(ctx, minify.JavaScript, []byte("die"))
		require.ErrorIs(t, err, minify.ErrWorkerDied)

		out, err := m.Minify(ctx, minify.JavaScript, []byte("let  x"))
		require.NoError(t, err)
		require.Equal(t, "let x", string(out))
	})

	t.Run("uses cache", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[[]byte]()
		m := newTestMinifier(t, minify.WithCache(c))

		_, err := m.Minify(ctx, minify.XML, []byte("<a>  </a>"))
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())

		require.NoError(t, m.Close())
		// Served from cache although the minifier is closed.
		out, err := m.Minify(ctx, minify.XML, []byte("<a>  </a>"))
		require.NoError(t, err)
		require.Equal(t, "<a> </a>", string(out))
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()
		m := newTestMinifier(t)
		require.NoError(t, m.Close())
		_, err := m.Minify(ctx, minify.HTML, []byte("x"))
		require.ErrorIs(t, err, minify.ErrClosed)
	})

	t.Run("invalid type", func(t *testing.T) {
		t.Parallel()
		m := newTestMinifier(t)
		_, err := m.Minify(ctx, 0, []byte("x"))
		require.ErrorIs(t, err, minify.ErrInvalidSourceType)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		m := newTestMinifier(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.Minify(cctx, minify.HTML, []byte("x"))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing worker binary", func(t *testing.T) {
		t.Parallel()
		m := minify.New(minify.WithCommand("/nonexistent/webforge-worker"))
		_, err := m.Minify(ctx, minify.HTML, []byte("x"))
		require.ErrorIs(t, err, minify.ErrWorkerStart)
	})
}

package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(context.Background(), nil)
		assert.True(t, resp.Healthy())
		assert.Empty(t, resp.Failed())
	})

	t.Run("one failure marks the run unhealthy", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(context.Background(), health.Checks{
			"ok":   func(context.Context) error { return nil },
			"down": func(context.Context) error { return errors.New("connection refused") },
		})

		assert.False(t, resp.Healthy())
		assert.Equal(t, []string{"down"}, resp.Failed())
		assert.Equal(t, "connection refused", resp.Checks["down"].Error)
		assert.Equal(t, health.StatusHealthy, resp.Checks["ok"].Status)
	})

	t.Run("timeout reaches checks", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(10*time.Millisecond))

		assert.Equal(t, []string{"slow"}, resp.Failed())
	})
}

func TestDirCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

	require.NoError(t, health.DirCheck(dir)(context.Background()))

	err := health.DirCheck(file)(context.Background())
	require.ErrorIs(t, err, health.ErrCheckFailed)

	err = health.DirCheck(filepath.Join(dir, "missing"))(context.Background())
	require.ErrorIs(t, err, health.ErrCheckFailed)
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	checks := health.Checks{
		"cache": func(context.Context) error { return errors.New("no route") },
	}

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Service Unavailable: cache", rec.Body.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/readyz?format=json", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, "no route", resp.Checks["cache"].Error)
	})

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})
}

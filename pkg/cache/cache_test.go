package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AdrianGjerstad/webforge/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		require.NoError(t, c.Set(ctx, "k", 42))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("overwrite keeps single entry", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		require.NoError(t, c.Set(ctx, "k", 1))
		require.NoError(t, c.Set(ctx, "k", 2))
		require.Equal(t, 1, c.Len())
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 2, v)
	})

	t.Run("expired entry", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithTTL(time.Millisecond))
		require.NoError(t, c.Set(ctx, "k", "v"))
		time.Sleep(5 * time.Millisecond)
		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
		require.Zero(t, c.Len())
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCapacity(2))
		require.NoError(t, c.Set(ctx, "a", 1))
		require.NoError(t, c.Set(ctx, "b", 2))
		_, err := c.Get(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, "c", 3))

		_, err = c.Get(ctx, "b")
		require.ErrorIs(t, err, cache.ErrNotFound)
		_, err = c.Get(ctx, "a")
		require.NoError(t, err)
	})

	t.Run("delete and clear", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		require.NoError(t, c.Set(ctx, "a", 1))
		require.NoError(t, c.Set(ctx, "b", 2))
		require.NoError(t, c.Delete(ctx, "a"))
		require.Equal(t, 1, c.Len())
		require.NoError(t, c.Clear(ctx))
		require.Zero(t, c.Len())
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(ctx, "a", 1), cache.ErrClosed)
		_, err := c.Get(ctx, "a")
		require.ErrorIs(t, err, cache.ErrClosed)
	})
}

func TestLoader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("computes once and caches", func(t *testing.T) {
		t.Parallel()
		l := cache.NewLoader[string](cache.NewMemory[string]())
		var calls atomic.Int32
		fn := func(context.Context) (string, error) {
			calls.Add(1)
			return "value", nil
		}

		for range 3 {
			v, err := l.Load(ctx, "k", fn)
			require.NoError(t, err)
			require.Equal(t, "value", v)
		}
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("deduplicates concurrent misses", func(t *testing.T) {
		t.Parallel()
		l := cache.NewLoader[int](cache.NewMemory[int]())
		var calls atomic.Int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := l.Load(ctx, "k", func(context.Context) (int, error) {
					calls.Add(1)
					<-release
					return 7, nil
				})
				require.NoError(t, err)
				require.Equal(t, 7, v)
			}()
		}
		time.Sleep(10 * time.Millisecond)
		close(release)
		wg.Wait()

		require.LessOrEqual(t, calls.Load(), int32(10))
		v, err := l.Cache().Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 7, v)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()
		l := cache.NewLoader[int](cache.NewMemory[int]())
		boom := errors.New("boom")
		_, err := l.Load(ctx, "k", func(context.Context) (int, error) { return 0, boom })
		require.ErrorIs(t, err, boom)

		v, err := l.Load(ctx, "k", func(context.Context) (int, error) { return 3, nil })
		require.NoError(t, err)
		require.Equal(t, 3, v)
	})

	t.Run("forget", func(t *testing.T) {
		t.Parallel()
		l := cache.NewLoader[int](cache.NewMemory[int]())
		_, err := l.Load(ctx, "k", func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
		require.NoError(t, l.Forget(ctx, "k"))
		_, err = l.Cache().Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})
}

func TestDial_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, url := range []string{"", "localhost:6379", "http://localhost:6379"} {
		_, err := cache.Dial(context.Background(), url, 1, time.Millisecond)
		require.ErrorIs(t, err, cache.ErrInvalidURL)
	}
}

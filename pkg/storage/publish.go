package storage

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AdrianGjerstad/webforge/pkg/logger"
)

// DefaultConcurrency bounds parallel uploads in Publish.
const DefaultConcurrency = 8

// PublishOption configures Publish.
type PublishOption func(*publishConfig)

type publishConfig struct {
	logger       *slog.Logger
	prefix       string
	cacheControl string
	concurrency  int
}

// WithPrefix places every key under prefix.
func WithPrefix(prefix string) PublishOption {
	return func(c *publishConfig) { c.prefix = prefix }
}

// WithConcurrency bounds parallel uploads. Values below 1 are ignored.
func WithConcurrency(n int) PublishOption {
	return func(c *publishConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithDefaultCacheControl sets Cache-Control on every published object.
func WithDefaultCacheControl(cc string) PublishOption {
	return func(c *publishConfig) { c.cacheControl = cc }
}

// WithPublishLogger logs each upload at debug level.
func WithPublishLogger(l *slog.Logger) PublishOption {
	return func(c *publishConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Publish uploads every regular file below dir to s, keyed by its slash
// separated path relative to dir. Uploads run concurrently; the first
// failure cancels the rest. The result is sorted by key.
func Publish(ctx context.Context, s Storage, dir string, opts ...PublishOption) ([]FileInfo, error) {
	cfg := publishConfig{
		logger:      logger.NewNope(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	var (
		mu        sync.Mutex
		published = make([]FileInfo, 0, len(files))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for _, file := range files {
		g.Go(func() error {
			info, err := publishFile(ctx, s, dir, file, cfg)
			if err != nil {
				return err
			}
			cfg.logger.DebugContext(ctx, "published file",
				slog.String("key", info.Key),
				slog.Int64("size", info.Size),
			)
			mu.Lock()
			published = append(published, *info)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	slices.SortFunc(published, func(a, b FileInfo) int { return cmp.Compare(a.Key, b.Key) })
	return published, nil
}

func publishFile(ctx context.Context, s Storage, dir, file string, cfg publishConfig) (*FileInfo, error) {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return nil, err
	}
	key := filepath.ToSlash(rel)
	if cfg.prefix != "" {
		key = path.Join(cfg.prefix, key)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	opts := []Option{WithKey(key)}
	if cfg.cacheControl != "" {
		opts = append(opts, WithCacheControl(cfg.cacheControl))
	}
	info, err := s.Put(ctx, f, st.Size(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return info, nil
}

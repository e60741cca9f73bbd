package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AdrianGjerstad/webforge"
	"github.com/AdrianGjerstad/webforge/middlewares"
	"github.com/AdrianGjerstad/webforge/pkg/cache"
	"github.com/AdrianGjerstad/webforge/pkg/config"
	"github.com/AdrianGjerstad/webforge/pkg/logger"
	"github.com/AdrianGjerstad/webforge/pkg/minify"
	"github.com/AdrianGjerstad/webforge/pkg/storage"
)

// Config is read from the environment (and .env).
type Config struct {
	Log     logger.Config
	Sentry  logger.SentryConfig
	Storage storage.Config

	// Sites lists site files; the first one without a host is the fallback.
	Sites []string `env:"WEBFORGE_SITES" envSeparator:","`

	ComponentDir  string        `env:"WEBFORGE_COMPONENTS" envDefault:"."`
	Addr          string        `env:"WEBFORGE_ADDR" envDefault:":8080"`
	MinifyCommand []string      `env:"WEBFORGE_MINIFY_COMMAND" envSeparator:" "`
	RedisURL      string        `env:"REDIS_URL"`
	MinifyTTL     time.Duration `env:"WEBFORGE_MINIFY_TTL" envDefault:"24h"`
	Minify        bool          `env:"WEBFORGE_MINIFY"`
}

// loadConfig is a variable so tests can run without touching the process
// environment cache.
var loadConfig = config.Load[Config]

// newLogger builds the process logger. logfile overrides LOG_FILE. The
// closer flushes Sentry and releases the log file.
func newLogger(cfg Config, logfile string) (*slog.Logger, io.Closer, error) {
	if logfile != "" {
		cfg.Log.File = logfile
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithFormat(cfg.Log.Format),
		logger.WithExtractors(webforge.RequestIDExtractor()),
	}
	var closers closeAll
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, logger.WithWriter(f))
		closers = append(closers, f.Close)
	}

	if cfg.Sentry.DSN != "" {
		closers = append(closers, func() error {
			logger.FlushSentry(2 * time.Second)
			return nil
		})
	}
	return logger.NewWithSentry(cfg.Sentry, opts...), closers, nil
}

type closeAll []func() error

func (c closeAll) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return errors.Join(errs...)
}

// newMinifier starts nothing; the worker is launched on first use. Results
// are cached in Redis when REDIS_URL is set, in memory otherwise.
func newMinifier(ctx context.Context, cfg Config, log *slog.Logger) (*minify.Minifier, redis.UniversalClient, error) {
	opts := []minify.Option{minify.WithLogger(log)}
	if len(cfg.MinifyCommand) > 0 {
		opts = append(opts, minify.WithCommand(cfg.MinifyCommand[0], cfg.MinifyCommand[1:]...))
	}

	var client redis.UniversalClient
	if cfg.RedisURL != "" {
		var err error
		client, err = cache.Dial(ctx, cfg.RedisURL, 3, 500*time.Millisecond)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, minify.WithCache(cache.NewRedis(client, "webforge:minify", cfg.MinifyTTL)))
	} else {
		opts = append(opts, minify.WithCache(cache.NewMemory[[]byte](
			cache.WithTTL(cfg.MinifyTTL),
			cache.WithCapacity(1024),
		)))
	}
	return minify.New(opts...), client, nil
}

// loadSites builds one application per site file. Sites with a host are
// keyed by it; the first site without one becomes the fallback.
func loadSites(paths []string, log *slog.Logger) (map[string]*webforge.Application, *webforge.Application, error) {
	if len(paths) == 0 {
		return nil, nil, errors.New("no site file given (use -site or WEBFORGE_SITES)")
	}

	apps := make(map[string]*webforge.Application, len(paths))
	var fallback *webforge.Application
	for _, path := range paths {
		site, err := config.LoadSite(path)
		if err != nil {
			return nil, nil, err
		}

		app := webforge.New(
			webforge.WithComponentPath(site.Components),
			webforge.WithLogger(log),
			webforge.WithMiddlewareWrapper(middlewares.Recover(middlewares.WithRecoverLogger(log))),
			webforge.WithMiddleware(
				middlewares.RequestID(),
				middlewares.AccessLog(log),
			),
		)
		if err := app.Mount(site); err != nil {
			return nil, nil, err
		}

		switch {
		case site.Host != "":
			apps[site.Host] = app
		case fallback == nil:
			fallback = app
		}
	}
	return apps, fallback, nil
}

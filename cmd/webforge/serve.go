package main

import (
	"context"
	"flag"
	"io"
	"log/slog"

	"github.com/AdrianGjerstad/webforge"
	"github.com/AdrianGjerstad/webforge/pkg/health"
)

func runServe(ctx context.Context, cfg Config, args []string, stderr io.Writer) error {
	var f siteFlags
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f.register(fs, cfg)
	addr := fs.String("addr", cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, closer, err := newLogger(cfg, f.logfile)
	if err != nil {
		return err
	}
	defer closer.Close()

	paths := f.sitePaths(cfg)
	apps, fallback, err := loadSites(paths, log)
	if err != nil {
		return err
	}

	checks := health.Checks{}
	for _, app := range apps {
		checks["components:"+app.Renderer().SearchPath()] = health.DirCheck(app.Renderer().SearchPath())
	}
	if fallback != nil {
		checks["components:"+fallback.Renderer().SearchPath()] = health.DirCheck(fallback.Renderer().SearchPath())
	}

	runOpts := []webforge.RunOption{
		webforge.Address(*addr),
		webforge.Logger(log),
	}
	var serveOpts []webforge.ServeOption
	if f.minify {
		m, client, err := newMinifier(ctx, cfg, log)
		if err != nil {
			return err
		}
		serveOpts = append(serveOpts, webforge.WithMinifier(ctx, m, log))
		runOpts = append(runOpts, webforge.ShutdownHook(func(context.Context) error { return m.Close() }))
		if client != nil {
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			runOpts = append(runOpts, webforge.ShutdownHook(func(context.Context) error { return client.Close() }))
		}
	}

	log.Info("serving sites", slog.Int("sites", len(paths)), slog.String("address", *addr))
	return webforge.Serve(webforge.Sites(apps, fallback, serveOpts...), checks, runOpts...)
}

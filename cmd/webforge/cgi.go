package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AdrianGjerstad/webforge"
	"github.com/AdrianGjerstad/webforge/pkg/hostrouter"
)

// runCGI serves the request in the process environment. The site is
// chosen by HTTP_HOST. Logs never go to stdout, which carries the response.
func runCGI(ctx context.Context, cfg Config, args []string, stderr io.Writer) int {
	var f siteFlags
	fs := flag.NewFlagSet("cgi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log, closer, err := newLogger(cfg, f.logfile)
	if err != nil {
		fmt.Fprintf(stderr, "webforge cgi: %v\n", err)
		return 1
	}
	defer closer.Close()

	apps, fallback, err := loadSites(f.sitePaths(cfg), log)
	if err != nil {
		log.Error("failed to load sites", slog.Any("error", err))
		return 1
	}

	app, _ := hostrouter.NewTable(apps, fallback).Lookup(os.Getenv("HTTP_HOST"))
	if app == nil {
		log.Error("no site for host", slog.String("host", os.Getenv("HTTP_HOST")))
		return 1
	}

	var opts []webforge.ServeOption
	if f.minify {
		m, client, err := newMinifier(ctx, cfg, log)
		if err != nil {
			log.Error("failed to set up minifier", slog.Any("error", err))
			return 1
		}
		defer m.Close()
		if client != nil {
			defer client.Close()
		}
		opts = append(opts, webforge.WithMinifier(ctx, m, log))
	}

	return webforge.ServeCGI(app, opts...)
}

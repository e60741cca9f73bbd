package main

import (
	"bytes"
	"cmp"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AdrianGjerstad/webforge"
	"github.com/AdrianGjerstad/webforge/pkg/mimetype"
	"github.com/AdrianGjerstad/webforge/pkg/minify"
	"github.com/AdrianGjerstad/webforge/pkg/render"
	"github.com/AdrianGjerstad/webforge/pkg/storage"
)

type buildOptions struct {
	minifier  webforge.Minifier
	logger    *slog.Logger
	dir       string
	out       string
	depout    string
	renderOpt []render.Option
	jobs      int
}

// builtFile is one rendered component.
type builtFile struct {
	Component string
	Output    string
	Deps      []string
	Size      int
}

func runBuild(ctx context.Context, cfg Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: webforge build [flags] component...")
		fs.PrintDefaults()
	}
	dir := fs.String("cd", cfg.ComponentDir, "component directory")
	out := fs.String("out", "public", "output directory")
	depout := fs.String("depout", "", "write a make-style dependency file")
	logfile := fs.String("logfile", cfg.Log.File, "append logs to this file instead of stderr")
	doMinify := fs.Bool("minify", cfg.Minify, "minify HTML, CSS, JavaScript and XML output")
	publish := fs.Bool("publish", false, "upload the output directory to S3 after building")
	jobs := fs.Int("j", runtime.GOMAXPROCS(0), "components rendered in parallel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	if *publish && !cfg.Storage.Enabled() {
		return fmt.Errorf("-publish needs S3_BUCKET and credentials")
	}

	log, closer, err := newLogger(cfg, *logfile)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := buildOptions{
		logger: log,
		dir:    *dir,
		out:    *out,
		depout: *depout,
		jobs:   *jobs,
	}
	if *doMinify {
		m, client, err := newMinifier(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer m.Close()
		if client != nil {
			defer client.Close()
		}
		opts.minifier = m
	}

	files, err := build(ctx, opts, fs.Args())
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(stdout, "%s -> %s (%d bytes)\n", f.Component, f.Output, f.Size)
	}

	if !*publish {
		return nil
	}
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	published, err := storage.Publish(ctx, store, *out,
		storage.WithPrefix(cfg.Storage.Prefix),
		storage.WithPublishLogger(log),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "published %d files to s3://%s\n", len(published), cfg.Storage.Bucket)
	return nil
}

// build renders components concurrently into opts.out. Markdown components
// are written with an .html extension. The first failure cancels the rest.
func build(ctx context.Context, opts buildOptions, components []string) ([]builtFile, error) {
	r := render.New(opts.dir, opts.renderOpt...)

	var (
		mu    sync.Mutex
		built = make([]builtFile, 0, len(components))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))

	for _, key := range components {
		g.Go(func() error {
			f, err := buildOne(ctx, r, opts, key)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			mu.Lock()
			built = append(built, *f)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(built, func(a, b builtFile) int { return cmp.Compare(a.Output, b.Output) })
	if opts.depout != "" {
		if err := writeDepfile(opts.depout, opts.dir, built); err != nil {
			return nil, err
		}
	}
	return built, nil
}

func buildOne(ctx context.Context, r *render.Renderer, opts buildOptions, key string) (*builtFile, error) {
	outName := key
	if path.Ext(key) == ".md" {
		outName = strings.TrimSuffix(key, ".md") + ".html"
	}
	contentType := mimetype.FromFilename(outName)

	var buf bytes.Buffer
	var err error
	if mimetype.IsHTML(mimetype.FromFilename(key)) {
		err = r.RenderHTML(&buf, key, render.Data{})
	} else {
		err = r.Render(&buf, key, render.Data{})
	}
	if err != nil {
		return nil, err
	}

	body := buf.Bytes()
	if t, ok := minify.ForMediaType(contentType); ok && opts.minifier != nil {
		small, err := opts.minifier.Minify(ctx, t, body)
		if err != nil {
			opts.logger.WarnContext(ctx, "minification failed, keeping original",
				slog.String("component", key),
				slog.Any("error", err),
			)
		} else {
			body = small
		}
	}

	deps, err := r.Dependencies(key)
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(opts.out, filepath.FromSlash(outName))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(dst, body, 0o644); err != nil {
		return nil, err
	}

	opts.logger.DebugContext(ctx, "component built",
		slog.String("component", key),
		slog.String("output", dst),
		slog.Int("size", len(body)),
	)
	return &builtFile{Component: key, Output: dst, Deps: deps, Size: len(body)}, nil
}

var depEscaper = strings.NewReplacer(" ", `\ `, "#", `\#`, "$", "$$")

// writeDepfile writes one make rule per output: the output depends on its
// component and every component it includes.
func writeDepfile(name, dir string, files []builtFile) error {
	var b strings.Builder
	for _, f := range files {
		b.WriteString(depEscaper.Replace(filepath.ToSlash(f.Output)))
		b.WriteString(":")
		for _, dep := range append([]string{f.Component}, f.Deps...) {
			b.WriteString(" ")
			b.WriteString(depEscaper.Replace(filepath.ToSlash(filepath.Join(dir, filepath.FromSlash(dep)))))
		}
		b.WriteString("\n")
	}
	if err := os.WriteFile(name, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write dependency file: %w", err)
	}
	return nil
}

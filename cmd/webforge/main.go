// Command webforge serves sites described by site files over CGI, runs a
// development server for them, and renders components into static files.
//
// Usage:
//
//	webforge [-version] <command> [flags] [args]
//
// Commands:
//
//	cgi    serve one CGI request (the default when GATEWAY_INTERFACE is set)
//	serve  run a development HTTP server
//	build  render components into an output directory
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("webforge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "webforge version %s\n", version)
		return 0
	}

	rest := fs.Args()
	cmd := ""
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	} else if os.Getenv("GATEWAY_INTERFACE") != "" {
		cmd = "cgi"
	}

	var cfg Config
	if err := loadConfig(&cfg); err != nil {
		fmt.Fprintf(stderr, "webforge: %v\n", err)
		return 1
	}

	var err error
	switch cmd {
	case "cgi":
		return runCGI(ctx, cfg, rest, stderr)
	case "serve":
		err = runServe(ctx, cfg, rest, stderr)
	case "build":
		err = runBuild(ctx, cfg, rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "webforge version %s\n", version)
		return 0
	default:
		usage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "webforge %s: %v\n", cmd, err)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `webforge - fast and effective command-line CMS

Usage:
  webforge [-version] <command> [flags] [args]

Commands:
  cgi    serve one CGI request (default when GATEWAY_INTERFACE is set)
  serve  run a development HTTP server
  build  render components into an output directory

Run "webforge <command> -h" for command flags.
`)
}

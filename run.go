package webforge

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdrianGjerstad/webforge/internal"
	"github.com/AdrianGjerstad/webforge/pkg/health"
	"github.com/AdrianGjerstad/webforge/pkg/hostrouter"
)

// ServeCGI handles the single CGI request described by the process
// environment and standard input, writing to standard output. SIGINT and
// SIGTERM abandon a request still waiting on a deferred continuation. The
// result is meant for os.Exit.
func ServeCGI(app *Application, opts ...ServeOption) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return internal.ServeCGI(ctx, app, os.Environ(), os.Stdin, os.Stdout, opts...)
}

// Handler serves app over net/http.
func Handler(app *Application, opts ...ServeOption) http.Handler {
	return internal.HTTPHandler(app, opts...)
}

// Sites dispatches to one application per host. Hosts not listed go to
// fallback, or get a plain 404 when fallback is nil.
//
// Example:
//
//	h := webforge.Sites(map[string]*webforge.Application{
//	    "example.com":      site,
//	    "docs.example.com": docs,
//	}, nil)
func Sites(apps map[string]*Application, fallback *Application, opts ...ServeOption) http.Handler {
	routes := make(hostrouter.Routes, len(apps))
	for host, app := range apps {
		routes[host] = internal.HTTPHandler(app, opts...)
	}
	var fb http.Handler
	if fallback != nil {
		fb = internal.HTTPHandler(fallback, opts...)
	}
	return hostrouter.New(routes, fb)
}

// Serve runs a development server for handler until SIGINT or SIGTERM.
// /healthz and /readyz probes are mounted next to the site; checks back
// the readiness probe.
//
// Example:
//
//	err := webforge.Serve(webforge.Handler(app), nil,
//	    webforge.Address(":8080"),
//	    webforge.Logger(log),
//	)
func Serve(handler http.Handler, checks health.Checks, opts ...RunOption) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return internal.Run(ctx, internal.NewHTTPRouter(handler, checks), opts...)
}

// Run options

// Address sets the HTTP server address.
// Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Listener serves on an existing listener.
func Listener(ln net.Listener) RunOption {
	return internal.Listener(ln)
}

// Logger sets the server logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.RunLogger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 10 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
//
// Example:
//
//	webforge.ShutdownHook(func(context.Context) error { return minifier.Close() })
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

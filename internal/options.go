package internal

import (
	"log/slog"

	"github.com/AdrianGjerstad/webforge/pkg/render"
)

// Option configures the application.
type Option func(*Application)

// WithComponentPath renders components found under dir with the default
// renderer. It is ignored when WithRenderer is also given.
func WithComponentPath(dir string) Option {
	return func(a *Application) {
		a.componentPath = dir
	}
}

// WithRenderer sets the renderer shared by every response.
func WithRenderer(r Renderer) Option {
	return func(a *Application) {
		a.renderer = r
	}
}

// WithRenderOptions passes options to the default renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(a *Application) {
		a.renderOpts = append(a.renderOpts, opts...)
	}
}

// WithLogger sets the application logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(a *Application) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware registers mw for every request ahead of routes added
// later.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *Application) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithMiddlewareWrapper decorates every middleware and error handler the
// application registers, e.g. with middlewares.Recover.
func WithMiddlewareWrapper(wrappers ...func(Middleware) Middleware) Option {
	return func(a *Application) {
		a.wrappers = append(a.wrappers, wrappers...)
	}
}

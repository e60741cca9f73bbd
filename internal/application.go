package internal

import (
	"log/slog"

	"github.com/AdrianGjerstad/webforge/pkg/logger"
	"github.com/AdrianGjerstad/webforge/pkg/render"
)

// Application owns the router and the renderer shared by every request.
// Registration happens during setup; Handle may then be called for each
// request.
type Application struct {
	router        *Router
	renderer      Renderer
	logger        *slog.Logger
	componentPath string
	renderOpts    []render.Option
	middlewares   []Middleware
	wrappers      []func(Middleware) Middleware
}

// New creates an application. Without a renderer option, components are
// resolved against the working directory.
func New(opts ...Option) *Application {
	a := &Application{
		logger:        logger.NewNope(),
		componentPath: ".",
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.renderer == nil {
		a.renderer = render.New(a.componentPath, a.renderOpts...)
	}
	a.router = NewRouter(a.logger)
	a.router.Wrap(a.wrappers...)
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}
	return a
}

func (a *Application) Logger() *slog.Logger { return a.logger }
func (a *Application) Renderer() Renderer   { return a.renderer }
func (a *Application) Router() *Router      { return a.router }

// Use registers mw for every request, or for a single path when given.
func (a *Application) Use(mw Middleware, path ...string) {
	a.router.Add(PathRoute(firstPath(path)), mw)
}

// Get registers mw for GET and HEAD requests, optionally on one path.
func (a *Application) Get(mw Middleware, path ...string) {
	a.router.Get(firstPath(path), mw)
}

// Post registers mw for POST requests, optionally on one path.
func (a *Application) Post(mw Middleware, path ...string) {
	a.router.Post(firstPath(path), mw)
}

// Route registers mw for an explicit route.
func (a *Application) Route(route Route, mw Middleware) {
	a.router.Add(route, mw)
}

// Error registers the handler for failures with code.
func (a *Application) Error(code Code, mw Middleware) {
	a.router.Error(code, mw)
}

// Handle attaches the renderer to res and processes req to completion.
func (a *Application) Handle(req *Request, res *Response) {
	res.SetRenderer(a.renderer)
	a.router.Handle(req, res)
}

// FlushCache drops compiled templates so edits are picked up.
func (a *Application) FlushCache() {
	a.renderer.FlushCache()
}

func firstPath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[0]
}

package internal

import (
	"log/slog"
	"strings"

	"github.com/AdrianGjerstad/webforge/pkg/logger"
)

type routeEntry struct {
	mw    Middleware
	route Route
}

type invocationState uint8

const (
	stateInvoking invocationState = iota
	stateResolved
	stateDetached
)

// invocation tracks one call of a middleware so the scan loop can tell a
// synchronous continuation from a deferred one.
type invocation struct {
	err   error
	state invocationState
	fired bool
}

// Router dispatches a request through an ordered list of middleware.
// Entries are tried in registration order and only matching entries run.
// Routes and error handlers are registered during setup only.
//
// Synchronous continuations are resolved in a loop rather than by
// recursion, so a chain of any length runs in constant stack depth.
type Router struct {
	logger   *slog.Logger
	handlers map[Code]Middleware
	routes   []routeEntry
	wrappers []func(Middleware) Middleware
}

// NewRouter creates an empty router. A nil logger discards output.
func NewRouter(l *slog.Logger) *Router {
	if l == nil {
		l = logger.NewNope()
	}
	return &Router{
		logger:   l,
		handlers: make(map[Code]Middleware),
	}
}

// Wrap installs decorators applied to every middleware and error handler
// registered afterwards. The first wrapper is the outermost.
func (r *Router) Wrap(wrappers ...func(Middleware) Middleware) {
	r.wrappers = append(r.wrappers, wrappers...)
}

func (r *Router) wrap(mw Middleware) Middleware {
	for i := len(r.wrappers) - 1; i >= 0; i-- {
		mw = r.wrappers[i](mw)
	}
	return mw
}

// Add registers mw for requests matching route.
func (r *Router) Add(route Route, mw Middleware) {
	r.routes = append(r.routes, routeEntry{route: route, mw: r.wrap(mw)})
}

// Use registers mw for every request.
func (r *Router) Use(mw Middleware) { r.Add(AnyRoute(), mw) }

// Get registers mw for GET (and HEAD) requests on path. An empty path
// matches every path.
func (r *Router) Get(path string, mw Middleware) { r.Add(MethodRoute("GET", path), mw) }

// Post registers mw for POST requests on path.
func (r *Router) Post(path string, mw Middleware) { r.Add(MethodRoute("POST", path), mw) }

// Error registers the handler for failures with the given code, replacing
// any previous handler.
func (r *Router) Error(code Code, mw Middleware) { r.handlers[code] = r.wrap(mw) }

// Len returns the number of registered entries.
func (r *Router) Len() int { return len(r.routes) }

// Serve runs the router as a middleware of an enclosing chain.
func (r *Router) Serve(req *Request, res *Response, next NextFunc) {
	r.scan(0, req, res, next)
}

// Handle processes req to completion. Running off the end of the chain
// before anything was written is a NotFound failure. Failures go through
// the error cascade.
func (r *Router) Handle(req *Request, res *Response) {
	r.scan(0, req, res, func(err error) {
		if err == nil {
			if res.HeadWritten() {
				res.Finish()
				return
			}
			err = NotFoundError("ran off the end of the middleware stack")
		}
		r.cascade(req, res, StatusOf(err))
	})
}

func (r *Router) scan(start int, req *Request, res *Response, done NextFunc) {
	for i := start; i < len(r.routes); i++ {
		e := r.routes[i]
		if !e.route.Match(req) {
			continue
		}

		inv := &invocation{}
		e.mw.Serve(req, res, r.continuation(i+1, inv, req, res, done))

		if inv.state != stateResolved {
			inv.state = stateDetached
			return
		}
		if inv.err != nil {
			done(inv.err)
			return
		}
	}
	done(nil)
}

func (r *Router) continuation(next int, inv *invocation, req *Request, res *Response, done NextFunc) NextFunc {
	return func(err error) {
		if inv.fired {
			r.logger.WarnContext(req.Context(), "continuation called more than once, ignoring",
				slog.Int("index", next-1),
				slog.String("route", r.routes[next-1].route.String()),
			)
			return
		}
		inv.fired = true

		if inv.state == stateInvoking {
			inv.state = stateResolved
			inv.err = err
			return
		}

		if err != nil {
			done(err)
			return
		}
		r.scan(next, req, res, done)
	}
}

// cascade records st on the response and runs the handler registered for
// its code. Without a handler, or when the handler fails too, a plain text
// diagnostic is written.
func (r *Router) cascade(req *Request, res *Response, st *Status) {
	ctx := req.Context()
	res.SetError(st)

	h, ok := r.handlers[st.Code()]
	if !ok {
		r.logger.ErrorContext(ctx, "unhandled request error",
			slog.String("code", st.Code().String()),
			slog.String("error", st.Message()),
			slog.String("path", req.Path()),
		)
		writeDiagnostic(res, st, nil)
		return
	}

	r.logger.WarnContext(ctx, "handling request error",
		slog.String("code", st.Code().String()),
		slog.String("error", st.Message()),
		slog.String("path", req.Path()),
	)

	dispatch := &Router{logger: r.logger, routes: []routeEntry{{route: AnyRoute(), mw: h}}}
	dispatch.scan(0, req, res, func(err error) {
		if err == nil {
			res.Finish()
			return
		}
		st2 := StatusOf(err)
		res.SetError(st2)
		r.logger.ErrorContext(ctx, "error handler failed",
			slog.String("code", st.Code().String()),
			slog.String("error", st.Message()),
			slog.String("handler_code", st2.Code().String()),
			slog.String("handler_error", st2.Message()),
			slog.String("path", req.Path()),
		)
		writeDiagnostic(res, st, st2)
	})
}

func writeDiagnostic(res *Response, first, second *Status) {
	if res.Finished() {
		return
	}

	var b strings.Builder
	b.WriteString("An internal server error occurred:\n- ")
	b.WriteString(first.Error())
	b.WriteString("\n")
	if second != nil {
		b.WriteString("\nAdditionally, while handling the above error, another occurred:\n- ")
		b.WriteString(second.Error())
		b.WriteString("\n")
	}

	if !res.HeadWritten() {
		res.SetStatus(500)
		res.SetHeader("content-type", "text/plain")
	}
	_ = res.End(b.String())
}

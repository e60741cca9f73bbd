package webforge

import (
	"context"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/AdrianGjerstad/webforge/internal"
	"github.com/AdrianGjerstad/webforge/pkg/logger"
	"github.com/AdrianGjerstad/webforge/pkg/render"
)

// Type aliases - public API
type (
	// Application owns a router and a renderer and handles requests.
	Application = internal.Application

	// Request is one incoming request.
	Request = internal.Request

	// Response is the outgoing response, streamed to a ResponseWriter.
	Response = internal.Response

	// ResponseWriter is the output sink a transport attaches to a Response.
	ResponseWriter = internal.ResponseWriter

	// Head is the response head handed to a ResponseWriter.
	Head = internal.Head

	// Middleware handles a request and continues through NextFunc.
	Middleware = internal.Middleware

	// MiddlewareFunc adapts a function to Middleware.
	MiddlewareFunc = internal.MiddlewareFunc

	// NextFunc continues the chain; a non-nil error enters the error cascade.
	NextFunc = internal.NextFunc

	// Processor finishes a request or returns an error.
	Processor = internal.Processor

	// ProcessorFunc adapts a function to Processor and Middleware.
	ProcessorFunc = internal.ProcessorFunc

	// Route selects requests by method, host and path.
	Route = internal.Route

	// Status is a coded error.
	Status = internal.Status

	// Code classifies a Status.
	Code = internal.Code

	// LoadFunc gathers template data for one request.
	LoadFunc = internal.LoadFunc

	// AddFunc adds one dotted key to template data.
	AddFunc = internal.AddFunc

	// Option configures an Application.
	Option = internal.Option

	// ServeOption configures a transport.
	ServeOption = internal.ServeOption

	// RunOption configures the development server.
	RunOption = internal.RunOption

	// Minifier shrinks response bodies by type.
	Minifier = internal.Minifier

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Status codes.
const (
	CodeOK                 = internal.CodeOK
	CodeCancelled          = internal.CodeCancelled
	CodeUnknown            = internal.CodeUnknown
	CodeInvalidArgument    = internal.CodeInvalidArgument
	CodeDeadlineExceeded   = internal.CodeDeadlineExceeded
	CodeNotFound           = internal.CodeNotFound
	CodeAlreadyExists      = internal.CodeAlreadyExists
	CodePermissionDenied   = internal.CodePermissionDenied
	CodeResourceExhausted  = internal.CodeResourceExhausted
	CodeFailedPrecondition = internal.CodeFailedPrecondition
	CodeAborted            = internal.CodeAborted
	CodeOutOfRange         = internal.CodeOutOfRange
	CodeUnimplemented      = internal.CodeUnimplemented
	CodeInternal           = internal.CodeInternal
	CodeUnavailable        = internal.CodeUnavailable
	CodeDataLoss           = internal.CodeDataLoss
	CodeUnauthenticated    = internal.CodeUnauthenticated
)

// Constructors

// New creates an application.
//
// Example:
//
//	app := webforge.New(
//	    webforge.WithComponentPath("site"),
//	    webforge.WithLogger(log),
//	)
//	app.Get(webforge.TemplateProcessor("index.html", nil), "/")
//	app.Error(webforge.CodeNotFound, webforge.TemplateProcessor("404.html", nil))
//
//	os.Exit(webforge.ServeCGI(app))
func New(opts ...Option) *Application {
	return internal.New(opts...)
}

// NewStatus creates a Status. CodeOK is replaced by CodeUnknown.
func NewStatus(code Code, message string) *Status {
	return internal.NewStatus(code, message)
}

// StatusOf converts any error into a Status.
func StatusOf(err error) *Status {
	return internal.StatusOf(err)
}

// Routes

// AnyRoute matches every request.
func AnyRoute() Route { return internal.AnyRoute() }

// PathRoute matches path with any method.
func PathRoute(path string) Route { return internal.PathRoute(path) }

// MethodRoute matches method and path. GET also matches HEAD.
func MethodRoute(method, path string) Route { return internal.MethodRoute(method, path) }

// Processors

// StaticProcessor serves one file relative to the component path.
func StaticProcessor(file string) ProcessorFunc {
	return internal.StaticProcessor(file)
}

// StaticMiddleware serves files from dir under the URL prefix base.
func StaticMiddleware(dir, base string) Middleware {
	return internal.StaticMiddleware(dir, base)
}

// TemplateProcessor renders a component with data gathered by load.
func TemplateProcessor(file string, load LoadFunc) ProcessorFunc {
	return internal.TemplateProcessor(file, load)
}

// StaticData returns a LoadFunc adding fixed values.
func StaticData(values map[string]any) LoadFunc {
	return internal.StaticData(values)
}

// TemplProcessor renders a compiled templ component as HTML.
func TemplProcessor(c templ.Component) ProcessorFunc {
	return internal.TemplProcessor(c)
}

// Application options

// WithComponentPath sets the directory components are resolved against.
// Defaults to ".".
func WithComponentPath(dir string) Option {
	return internal.WithComponentPath(dir)
}

// WithRenderOptions passes options to the default renderer.
//
// Example:
//
//	webforge.WithRenderOptions(render.WithFuncs(map[string]any{"upper": strings.ToUpper}))
func WithRenderOptions(opts ...render.Option) Option {
	return internal.WithRenderOptions(opts...)
}

// WithLogger sets the application logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithMiddleware registers middleware matching every request, in order,
// before any route added later.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithMiddlewareWrapper wraps every middleware and error handler the
// application registers. The first wrapper is outermost.
//
// Example:
//
//	webforge.New(webforge.WithMiddlewareWrapper(middlewares.Recover()))
func WithMiddlewareWrapper(wrappers ...func(Middleware) Middleware) Option {
	return internal.WithMiddlewareWrapper(wrappers...)
}

// Transport options

// WithWriterWrapper installs a sink transform between a response and the
// transport.
func WithWriterWrapper(wrap func(ResponseWriter) ResponseWriter) ServeOption {
	return internal.WithWriterWrapper(wrap)
}

// WithMinifier minifies HTML, CSS, JavaScript and XML responses with m.
func WithMinifier(ctx context.Context, m Minifier, l *slog.Logger) ServeOption {
	return internal.WithWriterWrapper(func(next ResponseWriter) ResponseWriter {
		return internal.NewMinifyingWriter(ctx, next, m, l)
	})
}

// Logging

// RequestIDExtractor adds the request ID to log records.
//
// Example:
//
//	log := logger.New(logger.WithExtractors(webforge.RequestIDExtractor()))
func RequestIDExtractor() ContextExtractor {
	return internal.RequestIDExtractor()
}

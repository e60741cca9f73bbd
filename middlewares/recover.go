package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/AdrianGjerstad/webforge/internal"
	"github.com/AdrianGjerstad/webforge/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures Recover.
type RecoverConfig struct {
	Logger            *slog.Logger
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverLogger sets the logger panics are reported to.
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables capturing the stack trace.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns a wrapper that turns a panic inside the wrapped
// middleware into an Internal status passed to next. Install it for every
// middleware with internal.WithMiddlewareWrapper.
func Recover(opts ...RecoverOption) func(internal.Middleware) internal.Middleware {
	cfg := &RecoverConfig{
		Logger:    logger.NewNope(),
		StackSize: DefaultStackSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(mw internal.Middleware) internal.Middleware {
		return internal.MiddlewareFunc(func(req *internal.Request, res *internal.Response, next internal.NextFunc) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
					cfg.Logger.ErrorContext(req.Context(), "panic recovered",
						slog.Any("panic", r),
						slog.String("path", req.Path()),
						slog.String("stack", string(stack)),
					)
				} else {
					cfg.Logger.ErrorContext(req.Context(), "panic recovered",
						slog.Any("panic", r),
						slog.String("path", req.Path()),
					)
				}

				if res.Finished() {
					return
				}
				pe := &PanicError{Value: r, Stack: stack}
				next(internal.InternalError("%v", pe).Wrap(pe))
			}()

			mw.Serve(req, res, next)
		})
	}
}

package middlewares

import (
	"log/slog"
	"time"

	"github.com/AdrianGjerstad/webforge/internal"
)

// AccessLog logs one line per request once its response finishes. The line
// carries the status that was sent and the number of body bytes written.
func AccessLog(l *slog.Logger) internal.Middleware {
	return internal.MiddlewareFunc(func(req *internal.Request, res *internal.Response, next internal.NextFunc) {
		w := res.Writer()
		if w == nil {
			next(nil)
			return
		}

		start := time.Now()
		status, size := 0, 0
		res.SetWriter(internal.ResponseWriterFuncs{
			Head: func(h internal.Head) error {
				status = h.Status
				return w.WriteHead(h)
			},
			Chunk: func(b []byte) error {
				size += len(b)
				return w.WriteChunk(b)
			},
			Done: func() {
				defer w.End()
				if status == 0 {
					status = res.Status()
				}
				attrs := []slog.Attr{
					slog.String("method", req.Method()),
					slog.String("path", req.Path()),
					slog.Int("status", status),
					slog.Int("bytes", size),
					slog.Duration("duration", time.Since(start)),
				}
				if st := res.Err(); st != nil {
					attrs = append(attrs, slog.String("error", st.Error()))
				}
				l.LogAttrs(req.Context(), slog.LevelInfo, "request", attrs...)
			},
		})
		next(nil)
	})
}

// Package middlewares provides middleware for webforge applications.
//
// # Request ID
//
// RequestID adopts an upstream X-Request-ID (or X-Correlation-ID) when one
// is present and echoes the request ID in the response:
//
//	app := webforge.New(
//	    webforge.WithLogger(logger.New(logger.WithExtractors(webforge.RequestIDExtractor()))),
//	    webforge.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover wraps middleware so a panic becomes an Internal status handled by
// the error cascade. Since synchronous continuations run after the calling
// middleware has returned, it is installed as a wrapper around every
// middleware rather than once at the front of the chain:
//
//	app := webforge.New(
//	    webforge.WithMiddlewareWrapper(middlewares.Recover(
//	        middlewares.WithRecoverLogger(log),
//	    )),
//	)
//
// Use IsPanicError or AsPanicError on res.Err() in an error handler to tell
// panics from other internal failures.
//
// # Access log
//
// AccessLog logs method, path, status and latency once the response head is
// written:
//
//	app.Use(middlewares.AccessLog(log))
//
// # Recommended order
//
//	webforge.WithMiddleware(
//	    middlewares.RequestID(), // first: every later log line carries the ID
//	    middlewares.AccessLog(log),
//	)
package middlewares

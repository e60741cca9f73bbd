// Package webforge is a small framework for sites served one request at a
// time over CGI, with a net/http bridge for local development.
//
// # Quick Start
//
// Create an application, register routes, and hand it to a transport:
//
//	app := webforge.New(webforge.WithComponentPath("site"))
//	app.Get(webforge.ProcessorFunc(func(req *webforge.Request, res *webforge.Response) error {
//	    res.SetHeader("content-type", "text/plain")
//	    return res.End("Hello, world!\n")
//	}), "/")
//
//	os.Exit(webforge.ServeCGI(app))
//
// # Middleware
//
// A [Middleware] receives a request, a response and a continuation. Calling
// the continuation with nil moves on to the next matching middleware; an
// error enters the error cascade. The continuation may be called from
// another goroutine after Serve returns; transports wait for the response
// to finish.
//
// A [Processor] is the terminal form: it finishes the response or returns
// an error.
//
// # Errors
//
// Errors are [Status] values carrying a [Code]. Handlers registered with
// Application.Error render error pages for a code. Without a handler, or
// when the handler fails too, a plain text 500 diagnostic is written.
//
//	app.Error(webforge.CodeNotFound, webforge.TemplateProcessor("404.html", nil))
//
// # Components
//
// Components are files below the component path. HTML components are
// rendered with contextual escaping, Markdown components are converted to
// sanitized HTML, and everything else is executed as a text template.
//
// # Development server
//
// [Serve] runs a site over HTTP with graceful shutdown and health probes;
// [Sites] routes several applications by host:
//
//	err := webforge.Serve(webforge.Sites(map[string]*webforge.Application{
//	    "example.com": app,
//	}, nil), nil, webforge.Address(":8080"))
package webforge

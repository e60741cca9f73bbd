// Package internal implements the webforge request pipeline: requests and
// responses, the status model, the trampoline router with its error
// cascade, static and template processors, and the CGI and net/http
// transports.
//
// A middleware receives a request, a response and a continuation. Calling
// the continuation with nil advances to the next matching middleware;
// calling it with an error hands the error to the handler registered for
// its code. Middleware that finishes the response does not call it.
//
//	app := internal.New(internal.WithComponentPath("site"))
//	app.Get(internal.TemplateProcessor("index.html", nil), "/")
//	app.Use(internal.StaticMiddleware("assets", "/assets"))
//	app.Error(internal.CodeNotFound, internal.TemplateProcessor("404.html", nil))
//
//	os.Exit(internal.ServeCGI(ctx, app, os.Environ(), os.Stdin, os.Stdout))
package internal

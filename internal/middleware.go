package internal

// NextFunc continues request processing. A nil error passes the request to
// the next matching middleware; a non-nil error aborts the chain and enters
// the error cascade. Errors that are not a *Status are treated as Internal.
type NextFunc func(err error)

// Middleware is one step of the processing chain. A middleware that does
// not finish the response must call next exactly once, either before Serve
// returns or later from another callback.
type Middleware interface {
	Serve(req *Request, res *Response, next NextFunc)
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(req *Request, res *Response, next NextFunc)

func (f MiddlewareFunc) Serve(req *Request, res *Response, next NextFunc) {
	f(req, res, next)
}

// Processor is a terminal step: it either finishes the response or fails.
type Processor interface {
	Process(req *Request, res *Response) error
}

// ProcessorFunc adapts a function to Processor. It is also a Middleware.
type ProcessorFunc func(req *Request, res *Response) error

func (f ProcessorFunc) Process(req *Request, res *Response) error {
	return f(req, res)
}

func (f ProcessorFunc) Serve(req *Request, res *Response, next NextFunc) {
	if err := f(req, res); err != nil {
		next(err)
	}
}

// AsMiddleware adapts a Processor. A failure is passed to next; success
// does not call next since the response is complete.
func AsMiddleware(p Processor) Middleware {
	if mw, ok := p.(Middleware); ok {
		return mw
	}
	return MiddlewareFunc(func(req *Request, res *Response, next NextFunc) {
		if err := p.Process(req, res); err != nil {
			next(err)
		}
	})
}

package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/AdrianGjerstad/webforge/pkg/config"
)

// Mount registers the routes and error pages of site, in file order.
// Routes without a host inherit the site's host. Nothing is registered when
// any entry is invalid.
func (a *Application) Mount(site *config.Site) error {
	if err := site.Validate(); err != nil {
		return err
	}

	type mounted struct {
		route Route
		mw    Middleware
	}
	type page struct {
		code Code
		mw   Middleware
	}

	var (
		errs   []error
		routes = make([]mounted, 0, len(site.Routes))
		pages  = make([]page, 0, len(site.Errors))
	)
	for i, r := range site.Routes {
		mw, err := siteMiddleware(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("route %d: %w", i, err))
			continue
		}
		route := Route{Method: strings.ToUpper(r.Method), Host: r.Host, Path: r.Path}
		if route.Host == "" {
			route.Host = site.Host
		}
		routes = append(routes, mounted{route: route, mw: mw})
	}

	for _, name := range slices.Sorted(maps.Keys(site.Errors)) {
		r := site.Errors[name]
		code, ok := ParseCode(name)
		if !ok || code == CodeOK {
			errs = append(errs, fmt.Errorf("error page %s: unknown status code", name))
			continue
		}
		mw, err := siteMiddleware(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("error page %s: %w", name, err))
			continue
		}
		pages = append(pages, page{code: code, mw: errorPage(code, r.Status, mw)})
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", config.ErrInvalidSite, errors.Join(errs...))
	}

	for _, m := range routes {
		a.router.Add(m.route, m.mw)
	}
	for _, p := range pages {
		a.router.Error(p.code, p.mw)
	}
	a.logger.Debug("site mounted",
		"routes", len(routes),
		"error_pages", len(pages),
	)
	return nil
}

func siteMiddleware(r config.SiteRoute) (Middleware, error) {
	switch r.Kind {
	case config.KindFile:
		return withStatus(r.Status, r.ContentType, StaticProcessor(r.Target)), nil
	case config.KindDir:
		return StaticMiddleware(r.Target, r.Base), nil
	case config.KindTemplate:
		return withStatus(r.Status, r.ContentType, TemplateProcessor(r.Target, siteData(r.Data))), nil
	case config.KindText:
		return textProcessor(r), nil
	case config.KindRedirect:
		status := r.Status
		if status == 0 {
			status = 302
		}
		return ProcessorFunc(func(_ *Request, res *Response) error {
			return res.Redirect(status, r.Target)
		}), nil
	}
	return nil, fmt.Errorf("unknown kind %q", r.Kind)
}

func textProcessor(r config.SiteRoute) ProcessorFunc {
	ct := r.ContentType
	if ct == "" {
		ct = "text/plain"
	}
	return func(_ *Request, res *Response) error {
		if r.Status != 0 {
			res.SetStatus(r.Status)
		}
		res.SetHeader("content-type", ct)
		return res.End(r.Body)
	}
}

func withStatus(status int, contentType string, mw Middleware) Middleware {
	if status == 0 && contentType == "" {
		return mw
	}
	return MiddlewareFunc(func(req *Request, res *Response, next NextFunc) {
		if status != 0 {
			res.SetStatus(status)
		}
		if contentType != "" {
			res.SetHeader("content-type", contentType)
		}
		mw.Serve(req, res, next)
	})
}

// errorPage sets the HTTP status for code before running mw.
func errorPage(code Code, status int, mw Middleware) Middleware {
	if status == 0 {
		status = code.HTTPStatus()
	}
	return MiddlewareFunc(func(req *Request, res *Response, next NextFunc) {
		if !res.HeadWritten() {
			res.SetStatus(status)
			res.DelHeader("content-length")
		}
		mw.Serve(req, res, next)
	})
}

// siteData exposes the configured data plus request and error details to
// templates.
func siteData(values map[string]any) LoadFunc {
	static := StaticData(values)
	return func(req *Request, res *Response, add AddFunc) error {
		if err := static(req, res, add); err != nil {
			return err
		}
		if err := add("request.method", req.Method()); err != nil {
			return err
		}
		if err := add("request.path", req.Path()); err != nil {
			return err
		}
		if err := add("request.query", req.QueryMap()); err != nil {
			return err
		}
		if st := res.Err(); st != nil {
			if err := add("error.code", st.Code().String()); err != nil {
				return err
			}
			if err := add("error.message", st.Message()); err != nil {
				return err
			}
			if err := add("error.status", st.Code().HTTPStatus()); err != nil {
				return err
			}
		}
		return nil
	}
}

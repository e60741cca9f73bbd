package internal

import (
	"maps"
	"slices"

	"github.com/a-h/templ"

	"github.com/AdrianGjerstad/webforge/pkg/render"
)

// AddFunc stores value under a dotted key in the data passed to a
// template. Descending through a value that is not a map is a DataLoss
// failure.
type AddFunc func(key string, value any) error

// LoadFunc gathers template data for one request.
type LoadFunc func(req *Request, res *Response, add AddFunc) error

// TemplateProcessor renders the component file with data collected by
// load, which may be nil. The Content-Type follows the file name and
// HTML components are rendered with contextual escaping.
func TemplateProcessor(file string, load LoadFunc) ProcessorFunc {
	return func(req *Request, res *Response) error {
		data := render.Data{}
		if load != nil {
			add := func(key string, value any) error {
				if err := data.Set(key, value); err != nil {
					return DataLossError("cannot set template data %q: %v", key, err).Wrap(err)
				}
				return nil
			}
			if err := load(req, res, add); err != nil {
				return err
			}
		}
		return res.Render(file, data)
	}
}

// StaticData returns a LoadFunc that adds every entry of values.
func StaticData(values map[string]any) LoadFunc {
	return func(_ *Request, _ *Response, add AddFunc) error {
		for _, k := range slices.Sorted(maps.Keys(values)) {
			if err := add(k, values[k]); err != nil {
				return err
			}
		}
		return nil
	}
}

// TemplProcessor renders a compiled templ component as text/html.
func TemplProcessor(c templ.Component) ProcessorFunc {
	return func(req *Request, res *Response) error {
		if _, ok := res.Header("content-type"); !ok {
			res.SetHeader("content-type", "text/html")
		}
		if err := c.Render(req.Context(), res); err != nil {
			return AbortedError("failed to render component: %v", err).Wrap(err)
		}
		res.Finish()
		return nil
	}
}

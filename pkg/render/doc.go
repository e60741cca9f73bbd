// Package render executes webforge components: template files resolved
// against a search path and fed a Data tree.
//
//	r := render.New("components")
//	data := render.Data{}
//	_ = data.Set("page.title", "Home")
//	err := r.RenderHTML(w, "index.html", data)
//
// Components can pull in other components with the include function:
//
//	{{ include "partials/header.html" . }}
//
// Dependencies reports the include graph of a component for build tools
// that emit make-style dependency files.
//
// A component may start with a YAML front matter block; its fields are
// available as .page unless the caller already set "page":
//
//	---
//	title: About
//	---
//	# {{ .page.title }}
package render

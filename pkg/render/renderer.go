package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/AdrianGjerstad/webforge/pkg/cache"
	"github.com/AdrianGjerstad/webforge/pkg/sanitizer"
)

// Renderer turns components under a search path into output.
//
// Render uses text/template semantics; RenderHTML uses html/template, so
// data is escaped for the context it lands in and output of included
// components is not escaped a second time. Markdown components (".md")
// are executed as text templates, converted with goldmark and sanitized.
//
// Parsed components are cached per variant until FlushCache.
type Renderer struct {
	fsys  fs.FS
	md    goldmark.Markdown
	funcs map[string]any
	text  *cache.Loader[*component]
	html  *cache.Loader[*component]
	root  string
}

type component struct {
	meta     map[string]any
	text     *texttemplate.Template
	html     *htmltemplate.Template
	cycleErr error
	includes []string
	cycleOne sync.Once
	markdown bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFS reads components from fsys instead of the directory named by the
// search path. The search path is still reported by SearchPath.
func WithFS(fsys fs.FS) Option {
	return func(r *Renderer) {
		r.fsys = fsys
	}
}

// WithFuncs adds template functions available to every component.
// "include" is reserved.
func WithFuncs(funcs map[string]any) Option {
	return func(r *Renderer) {
		maps.Copy(r.funcs, funcs)
	}
}

// WithMarkdown replaces the goldmark instance used for ".md" components.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(r *Renderer) {
		r.md = md
	}
}

// New creates a Renderer rooted at searchPath.
func New(searchPath string, opts ...Option) *Renderer {
	r := &Renderer{
		root:  searchPath,
		fsys:  os.DirFS(searchPath),
		funcs: make(map[string]any),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	delete(r.funcs, "include")

	r.text = cache.NewLoader[*component](cache.NewMemory[*component]())
	r.html = cache.NewLoader[*component](cache.NewMemory[*component]())
	return r
}

// SearchPath returns the directory components are resolved against.
func (r *Renderer) SearchPath() string {
	return r.root
}

// Render executes the component key with data, writing to w.
func (r *Renderer) Render(w io.Writer, key string, data Data) error {
	return r.execute(w, key, data, false)
}

// RenderHTML is Render with contextual HTML escaping.
func (r *Renderer) RenderHTML(w io.Writer, key string, data Data) error {
	return r.execute(w, key, data, true)
}

// FlushCache drops every parsed component.
func (r *Renderer) FlushCache() {
	ctx := context.Background()
	_ = r.text.Cache().Clear(ctx)
	_ = r.html.Cache().Clear(ctx)
}

func (r *Renderer) execute(w io.Writer, key string, data any, html bool) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	c, err := r.load(name, html)
	if err != nil {
		return err
	}

	c.cycleOne.Do(func() { c.cycleErr = r.detectCycle(name) })
	if c.cycleErr != nil {
		return c.cycleErr
	}

	view := withPage(data, c.meta)
	switch {
	case c.html != nil:
		err = c.html.Execute(w, view)
	case html && c.markdown:
		err = r.executeMarkdown(w, c, view)
	default:
		err = c.text.Execute(w, view)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrExecute, name, err)
	}
	return nil
}

func (r *Renderer) executeMarkdown(w io.Writer, c *component, view any) error {
	var src, out bytes.Buffer
	if err := c.text.Execute(&src, view); err != nil {
		return err
	}
	if err := r.md.Convert(src.Bytes(), &out); err != nil {
		return err
	}
	_, err := w.Write(sanitizer.MarkdownBytes(out.Bytes()))
	return err
}

func (r *Renderer) load(name string, html bool) (*component, error) {
	l := r.text
	if html {
		l = r.html
	}
	return l.Load(context.Background(), name, func(context.Context) (*component, error) {
		return r.compile(name, html)
	})
}

func (r *Renderer) compile(name string, html bool) (*component, error) {
	src, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, name, err)
	}

	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	c := &component{meta: meta, markdown: path.Ext(name) == ".md"}
	if html && !c.markdown {
		c.html, err = htmltemplate.New(name).Funcs(r.htmlFuncs()).Parse(string(body))
	} else {
		c.text, err = texttemplate.New(name).Funcs(r.textFuncs()).Parse(string(body))
		if err == nil {
			c.includes = staticIncludes(c.text)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return c, nil
}

func (r *Renderer) textFuncs() texttemplate.FuncMap {
	fm := texttemplate.FuncMap{
		"include": func(name string, data ...any) (string, error) {
			var b strings.Builder
			err := r.execute(&b, name, firstOrNil(data), false)
			return b.String(), err
		},
	}
	maps.Copy(fm, r.funcs)
	return fm
}

func (r *Renderer) htmlFuncs() htmltemplate.FuncMap {
	fm := htmltemplate.FuncMap{
		"include": func(name string, data ...any) (htmltemplate.HTML, error) {
			var b strings.Builder
			err := r.execute(&b, name, firstOrNil(data), true)
			return htmltemplate.HTML(b.String()), err //nolint:gosec // already escaped by html/template
		},
	}
	maps.Copy(fm, r.funcs)
	return fm
}

// cleanKey maps a component key onto a valid fs.FS path.
func cleanKey(key string) (string, error) {
	name := path.Clean(strings.TrimPrefix(key, "/"))
	if name == "." || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return name, nil
}

// withPage exposes front matter as .page unless the caller set it.
func withPage(data any, meta map[string]any) any {
	if len(meta) == 0 {
		return data
	}
	var d Data
	switch v := data.(type) {
	case nil:
		d = Data{}
	case Data:
		d = v.Clone()
	case map[string]any:
		d = Data(v).Clone()
	default:
		return data
	}
	if _, ok := d["page"]; !ok {
		d["page"] = meta
	}
	return d
}

func firstOrNil(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

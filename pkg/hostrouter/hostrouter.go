package hostrouter

import (
	"net/http"
	"strings"
)

// Table maps host patterns to values of any type.
// Exact: "docs.example.com"
// Wildcard: "*.example.com"
type Table[V any] struct {
	exact    map[string]V
	wildcard map[string]V // "example.com" -> value (for *.example.com)
	fallback V
}

// NewTable builds a table from pattern -> value pairs. Lookups that match
// no pattern return fallback.
func NewTable[V any](routes map[string]V, fallback V) *Table[V] {
	t := &Table[V]{
		exact:    make(map[string]V),
		wildcard: make(map[string]V),
		fallback: fallback,
	}
	for pattern, v := range routes {
		t.Add(pattern, v)
	}
	return t
}

// Add registers v for pattern. Empty patterns are ignored.
func (t *Table[V]) Add(pattern string, v V) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	switch {
	case pattern == "":
	case strings.HasPrefix(pattern, "*."):
		t.wildcard[pattern[2:]] = v
	default:
		t.exact[pattern] = v
	}
}

// Lookup returns the value for host and whether a pattern matched. Exact
// patterns win over wildcards; a wildcard covers one label only.
func (t *Table[V]) Lookup(host string) (V, bool) {
	host = Normalize(host)
	if v, ok := t.exact[host]; ok {
		return v, true
	}
	if _, domain, ok := strings.Cut(host, "."); ok {
		if v, ok := t.wildcard[domain]; ok {
			return v, true
		}
	}
	return t.fallback, false
}

// Len returns the number of registered patterns.
func (t *Table[V]) Len() int { return len(t.exact) + len(t.wildcard) }

// Routes maps host patterns to HTTP handlers.
type Routes map[string]http.Handler

// Router dispatches HTTP requests by Host header.
type Router struct {
	table *Table[http.Handler]
}

// New creates a host router. Requests for unknown hosts go to fallback,
// or get a 404 when fallback is nil.
func New(routes Routes, fallback http.Handler) *Router {
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}
	return &Router{table: NewTable(routes, fallback)}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h, _ := r.table.Lookup(req.Host)
	h.ServeHTTP(w, req)
}

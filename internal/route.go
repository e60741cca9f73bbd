package internal

import "strings"

// Route selects requests by method, host and path. An empty field matches
// anything, so the zero Route matches every request.
type Route struct {
	Method string
	Host   string
	Path   string
}

// AnyRoute matches every request.
func AnyRoute() Route { return Route{} }

// PathRoute matches any method on path.
func PathRoute(path string) Route { return Route{Path: path} }

// MethodRoute matches method on path. An empty path matches every path.
func MethodRoute(method, path string) Route {
	return Route{Method: strings.ToUpper(method), Path: path}
}

// WithHost returns a copy of the route that also requires the Host header
// to equal host.
func (rt Route) WithHost(host string) Route {
	rt.Host = host
	return rt
}

// Match reports whether req satisfies every present matcher. A GET matcher
// also accepts HEAD requests.
func (rt Route) Match(req *Request) bool {
	if rt.Method != "" {
		m := req.Method()
		want := strings.ToUpper(rt.Method)
		if m != want && !(want == "GET" && m == "HEAD") {
			return false
		}
	}
	if rt.Host != "" && req.Host() != rt.Host {
		return false
	}
	if rt.Path != "" && req.Path() != rt.Path {
		return false
	}
	return true
}

func (rt Route) String() string {
	var b strings.Builder
	if rt.Method == "" {
		b.WriteString("*")
	} else {
		b.WriteString(rt.Method)
	}
	b.WriteByte(' ')
	b.WriteString(rt.Host)
	if rt.Path == "" {
		b.WriteString("/*")
	} else {
		b.WriteString(rt.Path)
	}
	return b.String()
}

// Package hostrouter selects a site by Host header.
//
// Two pattern types are supported:
//
//   - Exact: "docs.example.com" matches only that host
//   - Wildcard: "*.example.com" matches one subdomain label (foo.example.com)
//
// Exact matches take priority over wildcard matches. Matching is
// case-insensitive and ports are stripped first.
//
// [Table] is the generic lookup used by the CGI entry point to pick an
// application from HTTP_HOST. [Router] wraps a table of http.Handlers for
// the development server:
//
//	router := hostrouter.New(hostrouter.Routes{
//	    "docs.example.com": docs,
//	    "*.example.com":    blog,
//	}, fallback)
//
// IPv6 literals such as "[::1]:8080" keep their brackets.
package hostrouter

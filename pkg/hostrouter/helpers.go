package hostrouter

import "strings"

// Normalize strips the port and lowercases host.
//
//	"example.com:8080" -> "example.com"
//	"[::1]:8080" -> "[::1]"
//	"Example.COM" -> "example.com"
func Normalize(host string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		if !strings.Contains(host[idx:], "]") {
			host = host[:idx]
		}
	}
	return strings.ToLower(host)
}

// Subdomain returns the labels of host in front of baseDomain, or "" when
// host is not below baseDomain.
//
//	Subdomain("foo.example.com", "example.com") -> "foo"
//	Subdomain("bar.foo.example.com", "example.com") -> "bar.foo"
//	Subdomain("example.com", "example.com") -> ""
func Subdomain(host, baseDomain string) string {
	host = Normalize(host)
	suffix := "." + strings.ToLower(baseDomain)
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	return strings.TrimSuffix(host, suffix)
}

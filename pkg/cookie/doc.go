// Package cookie describes response cookies and serializes them for the
// Set-Cookie header.
//
// A Cookie is a plain value type; its String method percent-encodes the
// name and value with cookie-specific rules and appends attributes in a
// fixed order (Domain, Expires, HttpOnly, Max-Age, Path, SameSite, Secure):
//
//	c := cookie.New("session", "abc 123")
//	c.Path = "/"
//	c.HTTPOnly = true
//	c.String() // "session=abc%20123; HttpOnly; Path=/"
//
// Deletion returns the variant that clears a cookie on the client:
//
//	cookie.Deletion("session").String() // "session=; Max-Age=0"
package cookie

package cookie

import (
	"strconv"
	"strings"
	"time"

	"github.com/AdrianGjerstad/webforge/pkg/httpdate"
	"github.com/AdrianGjerstad/webforge/pkg/querystring"
)

// Characters escaped in cookie names and values on top of controls, DEL and "%".
const (
	nameDisallowed  = " \t()<>@,;:\\\"/[]?={}"
	valueDisallowed = " \",;\\"
)

// SameSite is the value of the SameSite attribute.
type SameSite int

const (
	SameSiteDefault SameSite = iota // attribute omitted
	SameSiteStrict
	SameSiteLax
	SameSiteNone
)

func (s SameSite) String() string {
	switch s {
	case SameSiteStrict:
		return "Strict"
	case SameSiteLax:
		return "Lax"
	case SameSiteNone:
		return "None"
	}
	return ""
}

// Cookie describes a Set-Cookie value.
//
// MaxAge follows net/http: zero omits the attribute, a negative value
// emits "Max-Age=0" and asks the client to drop the cookie.
type Cookie struct {
	Expires  time.Time
	Name     string
	Value    string
	Domain   string
	Path     string
	MaxAge   int
	SameSite SameSite
	HTTPOnly bool
	Secure   bool
}

// New returns a cookie with no attributes set.
func New(name, value string) *Cookie {
	return &Cookie{Name: name, Value: value}
}

// Deletion returns a cookie that clears name on the client.
func Deletion(name string) *Cookie {
	return &Cookie{Name: name, MaxAge: -1}
}

// IsDeletion reports whether the cookie instructs the client to remove it.
func (c *Cookie) IsDeletion() bool {
	return c.MaxAge < 0
}

// String serializes the cookie for a Set-Cookie header.
// Attributes are emitted in a fixed order.
func (c *Cookie) String() string {
	var b strings.Builder
	b.WriteString(querystring.Encode(c.Name, nameDisallowed, false))
	b.WriteByte('=')
	if !c.IsDeletion() {
		b.WriteString(querystring.Encode(c.Value, valueDisallowed, false))
	}

	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(httpdate.Format(c.Expires))
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	switch {
	case c.MaxAge > 0:
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	case c.MaxAge < 0:
		b.WriteString("; Max-Age=0")
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if s := c.SameSite.String(); s != "" {
		b.WriteString("; SameSite=")
		b.WriteString(s)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	return b.String()
}

// ParseHeader splits a Cookie request header into name/value pairs.
// Names are lowercased; a pair without "=" gets the value "1".
func ParseHeader(header string) map[string]string {
	out := make(map[string]string)
	for part := range strings.SplitSeq(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, ok := strings.Cut(part, "=")
		if !ok {
			value = "1"
		}
		out[strings.ToLower(querystring.Decode(name))] = querystring.Decode(value)
	}
	return out
}

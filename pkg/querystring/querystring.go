package querystring

import "strings"

const upperhex = "0123456789ABCDEF"

// Parse splits a query string into a key/value map.
// The first occurrence of a key wins; keys without "=" map to "1".
func Parse(s string) map[string]string {
	out := make(map[string]string)
	for part := range strings.SplitSeq(s, "&") {
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			value = "1"
		}

		key = Decode(key)
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = Decode(value)
	}
	return out
}

// Decode reverses percent-encoding and turns "+" into a space.
// A malformed escape is dropped along with the two bytes after "%"; a "%"
// too close to the end stops decoding.
func Decode(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 >= len(s) {
				return b.String()
			}
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if !ok1 || !ok2 {
				i += 2
				continue
			}
			b.WriteByte(hi<<4 | lo)
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Encode percent-encodes s. Control characters, DEL and "%" are always
// escaped, as is every byte in disallowed. When plusSpace is set a space
// is written as "+" instead of "%20".
func Encode(s, disallowed string, plusSpace bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' && plusSpace:
			b.WriteByte('+')
		case shouldEscape(c, disallowed):
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// QueryDisallowed is the escape set used for query string components.
const QueryDisallowed = " !\"#$&'()*+,/:;<=>?@[\\]^`{|}"

// EncodeQuery serializes m with keys in the order given. Keys missing from
// m are skipped.
func EncodeQuery(m map[string]string, keys []string) string {
	var b strings.Builder
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Encode(k, QueryDisallowed, true))
		b.WriteByte('=')
		b.WriteString(Encode(v, QueryDisallowed, true))
	}
	return b.String()
}

func shouldEscape(c byte, disallowed string) bool {
	if c < 0x20 || c == 0x7f || c == '%' {
		return true
	}
	return strings.IndexByte(disallowed, c) >= 0
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

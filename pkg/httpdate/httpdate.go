// Package httpdate formats and parses the fixed-width dates used by HTTP
// headers such as Last-Modified, Expires and If-Modified-Since.
package httpdate

import (
	"errors"
	"net/http"
	"time"
)

// Layout is the IMF-fixdate layout, always rendered in GMT.
const Layout = http.TimeFormat

// ErrInvalid is returned when a header value is not a recognised HTTP date.
var ErrInvalid = errors.New("httpdate: invalid date")

// Format renders t in UTC using Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse accepts IMF-fixdate and the two obsolete formats HTTP/1.1 still
// requires recipients to understand.
func Parse(s string) (time.Time, error) {
	t, err := http.ParseTime(s)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalid, err)
	}
	return t.UTC(), nil
}

// Truncate drops sub-second precision, which HTTP dates cannot carry.
func Truncate(t time.Time) time.Time {
	return t.Truncate(time.Second)
}

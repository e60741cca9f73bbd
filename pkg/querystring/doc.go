// Package querystring parses and produces application/x-www-form-urlencoded
// strings the way webforge expects them.
//
// Parsing is deliberately lenient: a key with no "=" is treated as a flag
// with the value "1", "+" decodes to a space, and the first occurrence of a
// repeated key wins.
//
//	q := querystring.Parse("a=1&debug&a=2")
//	// q == map[string]string{"a": "1", "debug": "1"}
//
// Encode is parameterised by the set of characters that must be escaped so
// the same routine serves query strings and cookie serialization.
package querystring

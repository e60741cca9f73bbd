package render

import (
	"fmt"
	"maps"
	"strings"
)

// Data is the tree handed to a template as ".". Keys set through Set are
// dotted paths ("page.title") and create intermediate maps as needed.
type Data map[string]any

// Set stores value at the dotted path key. It fails with ErrKeyConflict
// when a path segment already holds something other than a map.
// The final segment is overwritten unconditionally.
func (d Data) Set(key string, value any) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q", ErrInvalidDataKey, key)
		}
	}

	cur := d
	for i, p := range parts[:len(parts)-1] {
		next, ok := cur[p]
		if !ok {
			child := Data{}
			cur[p] = child
			cur = child
			continue
		}

		switch m := next.(type) {
		case Data:
			cur = m
		case map[string]any:
			cur = Data(m)
		default:
			return fmt.Errorf("%w: %q", ErrKeyConflict, strings.Join(parts[:i+1], "."))
		}
	}

	cur[parts[len(parts)-1]] = value
	return nil
}

// Get returns the value at the dotted path key.
func (d Data) Get(key string) (any, bool) {
	var cur any = d
	for p := range strings.SplitSeq(key, ".") {
		var m map[string]any
		switch v := cur.(type) {
		case Data:
			m = v
		case map[string]any:
			m = v
		default:
			return nil, false
		}
		next, ok := m[p]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// SetAll applies Set for every entry of values, in no particular order,
// and returns the first error.
func (d Data) SetAll(values map[string]any) error {
	for k, v := range values {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a shallow copy of the top level.
func (d Data) Clone() Data {
	if d == nil {
		return Data{}
	}
	return maps.Clone(d)
}

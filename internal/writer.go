package internal

import (
	"maps"
	"slices"

	"github.com/AdrianGjerstad/webforge/pkg/cookie"
)

// Head is the immutable snapshot of a response head handed to a sink.
type Head struct {
	Headers map[string]string
	Version string
	Cookies []*cookie.Cookie
	Status  int
}

// SortedHeaderNames returns header names in lexical order so sinks emit
// them deterministically.
func (h Head) SortedHeaderNames() []string {
	return slices.Sorted(maps.Keys(h.Headers))
}

// ResponseWriter is an output sink. WriteHead is called at most once and
// before any WriteChunk; End is called exactly once, last.
type ResponseWriter interface {
	WriteHead(head Head) error
	WriteChunk(chunk []byte) error
	End()
}

// WriteEnd writes chunk and ends w, even if the write fails.
func WriteEnd(w ResponseWriter, chunk []byte) error {
	defer w.End()
	return w.WriteChunk(chunk)
}

// ResponseWriterFuncs adapts plain functions to ResponseWriter. Nil
// functions are no-ops.
type ResponseWriterFuncs struct {
	Head  func(Head) error
	Chunk func([]byte) error
	Done  func()
}

func (f ResponseWriterFuncs) WriteHead(h Head) error {
	if f.Head == nil {
		return nil
	}
	return f.Head(h)
}

func (f ResponseWriterFuncs) WriteChunk(b []byte) error {
	if f.Chunk == nil {
		return nil
	}
	return f.Chunk(b)
}

func (f ResponseWriterFuncs) End() {
	if f.Done != nil {
		f.Done()
	}
}

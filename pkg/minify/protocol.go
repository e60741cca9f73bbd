package minify

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// SourceType tags the language of a minification request on the wire.
type SourceType uint8

const (
	HTML       SourceType = 1
	CSS        SourceType = 2
	JavaScript SourceType = 3
	XML        SourceType = 4
)

// MaxFrameSize bounds the payload of a single frame.
const MaxFrameSize = 256 << 20

func (t SourceType) String() string {
	switch t {
	case HTML:
		return "html"
	case CSS:
		return "css"
	case JavaScript:
		return "javascript"
	case XML:
		return "xml"
	}
	return fmt.Sprintf("SourceType(%d)", uint8(t))
}

// Valid reports whether t is one of the defined source types.
func (t SourceType) Valid() bool {
	return t >= HTML && t <= XML
}

// ForMediaType picks the source type for a Content-Type value.
func ForMediaType(mediaType string) (SourceType, bool) {
	mt, _, _ := strings.Cut(mediaType, ";")
	switch strings.TrimSpace(strings.ToLower(mt)) {
	case "text/html":
		return HTML, true
	case "text/css":
		return CSS, true
	case "text/javascript", "application/javascript":
		return JavaScript, true
	case "text/xml", "application/xml", "image/svg+xml":
		return XML, true
	}
	return 0, false
}

// WriteRequest writes one request frame: type, big-endian uint64 length,
// payload.
func WriteRequest(w io.Writer, t SourceType, src []byte) error {
	if !t.Valid() {
		return ErrInvalidSourceType
	}
	if len(src) > MaxFrameSize {
		return ErrFrameTooLarge
	}

	frame := make([]byte, 9, 9+len(src))
	frame[0] = byte(t)
	binary.BigEndian.PutUint64(frame[1:], uint64(len(src)))
	_, err := w.Write(append(frame, src...))
	return err
}

// ReadRequest reads one request frame.
func ReadRequest(r io.Reader) (SourceType, []byte, error) {
	var head [9]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return 0, nil, err
	}
	t := SourceType(head[0])
	if !t.Valid() {
		return 0, nil, ErrInvalidSourceType
	}
	payload, err := readPayload(r, binary.BigEndian.Uint64(head[1:]))
	return t, payload, err
}

// WriteResponse writes one response frame: big-endian uint64 length,
// payload.
func WriteResponse(w io.Writer, out []byte) error {
	if len(out) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	frame := make([]byte, 8, 8+len(out))
	binary.BigEndian.PutUint64(frame, uint64(len(out)))
	_, err := w.Write(append(frame, out...))
	return err
}

// ReadResponse reads one response frame.
func ReadResponse(r io.Reader) ([]byte, error) {
	var head [8]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, err
	}
	return readPayload(r, binary.BigEndian.Uint64(head[:]))
}

func readPayload(r io.Reader, size uint64) ([]byte, error) {
	if size > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Package mimetype maps component file names to the media types webforge
// announces in Content-Type.
package mimetype

import (
	"io"
	"net/http"
	"path"
	"strings"
)

// OctetStream is the fallback media type for unknown extensions.
const OctetStream = "application/octet-stream"

const sniffBytes = 512 // http.DetectContentType looks at no more than this

// byExtension is keyed by lowercase extension without the leading dot.
var byExtension = map[string]string{
	// Text
	"css":  "text/css",
	"htm":  "text/html",
	"html": "text/html",
	"js":   "text/javascript",
	"md":   "text/html",
	"svg":  "image/svg+xml",
	"txt":  "text/plain",
	"xml":  "text/xml",
	// Images
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	// Archives and data
	"gz":   "application/gzip",
	"json": "application/json",
	"pdf":  "application/pdf",
	"tar":  "application/x-tar",
	"xz":   "application/x-xz",
	"zip":  "application/zip",
	// Audio
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"mp3":  "audio/mpeg",
	"oga":  "audio/ogg",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",
	// Video
	"mov": "video/quicktime",
	"mp4": "video/mp4",
}

// FromFilename returns the media type for name based on its extension.
// Unknown or missing extensions yield OctetStream.
func FromFilename(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if t, ok := byExtension[strings.ToLower(ext)]; ok {
		return t
	}
	return OctetStream
}

// Known reports whether name has an extension with a registered type.
func Known(name string) bool {
	return FromFilename(name) != OctetStream
}

// Detect sniffs the media type from the first bytes of r.
// Returns OctetStream if nothing can be read.
func Detect(r io.Reader) string {
	buf := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, buf)
	if n == 0 && err != nil {
		return OctetStream
	}
	return Normalize(http.DetectContentType(buf[:n]))
}

// Normalize strips parameters such as charset and lowercases the type.
func Normalize(mediaType string) string {
	mediaType, _, _ = strings.Cut(mediaType, ";")
	return strings.TrimSpace(strings.ToLower(mediaType))
}

// IsHTML reports whether mediaType should be rendered with HTML escaping.
func IsHTML(mediaType string) bool {
	return Normalize(mediaType) == "text/html"
}

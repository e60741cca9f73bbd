package storage

import "time"

// URLOption configures URL generation.
type URLOption func(*urlOptions)

type urlOptions struct {
	downloadName string
	expiry       time.Duration
	signed       bool
}

// DefaultURLExpiry is the default expiry for signed URLs.
const DefaultURLExpiry = 15 * time.Minute

// WithSigned requests a pre-signed URL. A zero expiry uses
// DefaultURLExpiry.
func WithSigned(expiry time.Duration) URLOption {
	return func(o *urlOptions) {
		o.signed = true
		if expiry > 0 {
			o.expiry = expiry
		}
	}
}

// WithDownload sets the filename for a Content-Disposition: attachment
// header. Implies a signed URL.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) {
		o.downloadName = filename
		o.signed = true
	}
}

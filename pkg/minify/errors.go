package minify

import "errors"

var (
	ErrInvalidSourceType = errors.New("minify: invalid source type")
	ErrFrameTooLarge     = errors.New("minify: frame exceeds size limit")
	ErrWorkerStart       = errors.New("minify: failed to start worker")
	ErrWorkerDied        = errors.New("minify: worker died unexpectedly")
	ErrClosed            = errors.New("minify: minifier closed")
)

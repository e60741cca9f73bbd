package cache

import "errors"

var (
	ErrNotFound    = errors.New("cache: entry not found")
	ErrClosed      = errors.New("cache: closed")
	ErrInvalidURL  = errors.New("cache: invalid redis URL")
	ErrUnreachable = errors.New("cache: redis unreachable")
)

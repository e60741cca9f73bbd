package config

import "errors"

var (
	// ErrParse indicates the environment could not be parsed into a config
	// struct.
	ErrParse = errors.New("config: failed to parse environment")

	// ErrInvalidSite indicates a malformed site file.
	ErrInvalidSite = errors.New("config: invalid site")
)

package health

import "errors"

// ErrCheckFailed wraps errors reported by built-in checks.
var ErrCheckFailed = errors.New("health: check failed")

package render

import "errors"

var (
	ErrNotFound       = errors.New("render: no such template")
	ErrParse          = errors.New("render: failed to parse template")
	ErrExecute        = errors.New("render: failed to render template")
	ErrKeyConflict    = errors.New("render: data key part would overwrite non-container field")
	ErrFrontMatter    = errors.New("render: invalid front matter")
	ErrIncludeCycle   = errors.New("render: include cycle")
	ErrInvalidDataKey = errors.New("render: invalid data key")
)

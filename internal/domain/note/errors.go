package note

import "errors"

var (
	// ErrInvalidInput indicates invalid note input.
	ErrInvalidInput = errors.New("invalid note input")
)

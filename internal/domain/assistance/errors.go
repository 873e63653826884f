package assistance

import "errors"

var (
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("assistance ticket not found")
	// ErrInvalidTransition indicates a move outside the fixed progression.
	ErrInvalidTransition = errors.New("invalid ticket transition")
	// ErrInvalidInput indicates invalid ticket input.
	ErrInvalidInput = errors.New("invalid ticket input")
)

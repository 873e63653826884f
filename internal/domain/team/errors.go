package team

import "errors"

var (
	// ErrTeamNotFound indicates the team doesn't exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvalidInput indicates invalid team input.
	ErrInvalidInput = errors.New("invalid team input")
)

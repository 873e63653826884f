// Package repository holds the persistence error contract shared by every
// storage implementation. The interfaces the services consume live with the
// domain packages that own them; this package stays a leaf so those
// packages can depend on it for error mapping.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a concurrent-write check fails
	ErrConflict = errors.New("conflict: entity was modified concurrently")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

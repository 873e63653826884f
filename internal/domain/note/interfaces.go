package note

import "context"

// Repository provides persistence for the audit trail.
type Repository interface {
	Append(ctx context.Context, tenantID string, n *Note) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Note, error)
}

// ListOptions filters audit trail listings.
type ListOptions struct {
	ProjectID string
	BatchID   *string
	Kinds     []Kind
	Limit     int
	Offset    int
}

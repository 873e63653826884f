package assistance

import "context"

// Repository provides persistence for assistance tickets.
type Repository interface {
	Create(ctx context.Context, tenantID string, t *Ticket) error
	Get(ctx context.Context, tenantID, id string) (*Ticket, error)
	Update(ctx context.Context, tenantID string, t *Ticket) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Ticket, error)
}

// ListOptions filters ticket listings.
type ListOptions struct {
	ProjectID  string
	Statuses   []Status
	Priorities []Priority
	Limit      int
	Offset     int
}

// TeamDirectory answers whether a team exists before a visit binds to it.
type TeamDirectory interface {
	HasTeam(ctx context.Context, tenantID, id string) (bool, error)
}

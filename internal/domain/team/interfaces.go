package team

import "context"

// Repository provides persistence for assembly teams.
type Repository interface {
	Create(ctx context.Context, tenantID string, t *Team) error
	Get(ctx context.Context, tenantID, id string) (*Team, error)
	List(ctx context.Context, tenantID string) ([]Team, error)
	Update(ctx context.Context, tenantID string, t *Team) error
	Delete(ctx context.Context, tenantID, id string) error
}

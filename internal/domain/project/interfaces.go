package project

import (
	"context"

	"github.com/mobiplan/mobiplan/internal/domain/batch"
)

// Repository provides persistence for projects and their environments.
type Repository interface {
	Create(ctx context.Context, tenantID string, proj *Project) error
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	List(ctx context.Context, tenantID string) ([]Summary, error)
}

// BatchRepository creates the initial batch alongside a new project.
type BatchRepository interface {
	Create(ctx context.Context, tenantID string, b *batch.Batch) error
}

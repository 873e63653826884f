package batch

import (
	"context"
	"time"

	"github.com/mobiplan/mobiplan/internal/domain/note"
)

// Repository provides persistence for batches. UpdatePhase and
// UpdateAssembly each persist their slice of the batch atomically; Split
// applies the scope move and the new batch in one transaction.
type Repository interface {
	Create(ctx context.Context, tenantID string, b *Batch) error
	Get(ctx context.Context, tenantID, id string) (*Batch, error)
	ListByProject(ctx context.Context, tenantID, projectID string) ([]Batch, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Batch, error)
	UpdatePhase(ctx context.Context, tenantID string, b *Batch) error
	UpdateAssembly(ctx context.Context, tenantID string, b *Batch) error
	Split(ctx context.Context, tenantID string, source *Batch, created *Batch, removeSource bool) error
}

// ListOptions filters batch listings.
type ListOptions struct {
	Phases           []string
	AssemblyStatuses []AssemblyStatus
	Limit            int
	Offset           int
}

// ProjectDirectory provides the slice of project data the lifecycle needs:
// environment scope checks, price-confirmation writes, and the client phone
// for schedule notifications.
type ProjectDirectory interface {
	EnvironmentIDs(ctx context.Context, tenantID, projectID string) ([]string, error)
	ClientPhone(ctx context.Context, tenantID, projectID string) (string, error)
	AppendEnvironmentValue(ctx context.Context, tenantID, projectID, environmentID string, value float64, at time.Time) error
}

// TeamDirectory answers whether a team exists before a schedule binds to it.
type TeamDirectory interface {
	HasTeam(ctx context.Context, tenantID, id string) (bool, error)
}

// NoteRepository records lifecycle events on the project audit trail.
type NoteRepository interface {
	Append(ctx context.Context, tenantID string, n *note.Note) error
}

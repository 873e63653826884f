package mocks

import (
	"context"
	"time"

	"github.com/mobiplan/mobiplan/internal/domain/assistance"
	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/domain/team"
	"github.com/stretchr/testify/mock"
)

// The mocks satisfy the same domain-side contracts as the sqlite
// repositories, so service tests can swap them in directly.
var (
	_ project.Repository       = (*ProjectRepository)(nil)
	_ batch.ProjectDirectory   = (*ProjectRepository)(nil)
	_ batch.Repository         = (*BatchRepository)(nil)
	_ project.BatchRepository  = (*BatchRepository)(nil)
	_ team.Repository          = (*TeamRepository)(nil)
	_ batch.TeamDirectory      = (*TeamRepository)(nil)
	_ assistance.TeamDirectory = (*TeamRepository)(nil)
	_ assistance.Repository    = (*TicketRepository)(nil)
	_ note.Repository          = (*NoteRepository)(nil)
	_ batch.NoteRepository     = (*NoteRepository)(nil)
)

// ProjectRepository is a mock covering project.Repository and batch.ProjectDirectory.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) EnvironmentIDs(ctx context.Context, tenantID, projectID string) ([]string, error) {
	args := m.Called(ctx, tenantID, projectID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ClientPhone(ctx context.Context, tenantID, projectID string) (string, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.String(0), args.Error(1)
}

func (m *ProjectRepository) AppendEnvironmentValue(ctx context.Context, tenantID, projectID, environmentID string, value float64, at time.Time) error {
	args := m.Called(ctx, tenantID, projectID, environmentID, value, at)
	return args.Error(0)
}

// BatchRepository is a mock covering batch.Repository and project.BatchRepository.
type BatchRepository struct {
	mock.Mock
}

func (m *BatchRepository) Create(ctx context.Context, tenantID string, b *batch.Batch) error {
	args := m.Called(ctx, tenantID, b)
	return args.Error(0)
}

func (m *BatchRepository) Get(ctx context.Context, tenantID, id string) (*batch.Batch, error) {
	args := m.Called(ctx, tenantID, id)
	if b, ok := args.Get(0).(*batch.Batch); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BatchRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]batch.Batch, error) {
	args := m.Called(ctx, tenantID, projectID)
	if list, ok := args.Get(0).([]batch.Batch); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BatchRepository) List(ctx context.Context, tenantID string, opts batch.ListOptions) ([]batch.Batch, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]batch.Batch); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BatchRepository) UpdatePhase(ctx context.Context, tenantID string, b *batch.Batch) error {
	args := m.Called(ctx, tenantID, b)
	return args.Error(0)
}

func (m *BatchRepository) UpdateAssembly(ctx context.Context, tenantID string, b *batch.Batch) error {
	args := m.Called(ctx, tenantID, b)
	return args.Error(0)
}

func (m *BatchRepository) Split(ctx context.Context, tenantID string, source *batch.Batch, created *batch.Batch, removeSource bool) error {
	args := m.Called(ctx, tenantID, source, created, removeSource)
	return args.Error(0)
}

// TeamRepository is a mock covering team.Repository and the TeamDirectory contracts.
type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Create(ctx context.Context, tenantID string, t *team.Team) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TeamRepository) Get(ctx context.Context, tenantID, id string) (*team.Team, error) {
	args := m.Called(ctx, tenantID, id)
	if t, ok := args.Get(0).(*team.Team); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) List(ctx context.Context, tenantID string) ([]team.Team, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]team.Team); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) Update(ctx context.Context, tenantID string, t *team.Team) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TeamRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *TeamRepository) HasTeam(ctx context.Context, tenantID, id string) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// TicketRepository is a mock for assistance.Repository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, tenantID string, t *assistance.Ticket) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TicketRepository) Get(ctx context.Context, tenantID, id string) (*assistance.Ticket, error) {
	args := m.Called(ctx, tenantID, id)
	if t, ok := args.Get(0).(*assistance.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Update(ctx context.Context, tenantID string, t *assistance.Ticket) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TicketRepository) List(ctx context.Context, tenantID string, opts assistance.ListOptions) ([]assistance.Ticket, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]assistance.Ticket); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// NoteRepository is a mock covering note.Repository and batch.NoteRepository.
type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) Append(ctx context.Context, tenantID string, n *note.Note) error {
	args := m.Called(ctx, tenantID, n)
	return args.Error(0)
}

func (m *NoteRepository) List(ctx context.Context, tenantID string, opts note.ListOptions) ([]note.Note, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]note.Note); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/repository"
	"github.com/mobiplan/mobiplan/internal/workflow"
	"github.com/google/uuid"
)

// Service handles project operations.
type Service struct {
	projects Repository
	batches  BatchRepository
	graph    *workflow.Graph
	logger   *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, batches BatchRepository, graph *workflow.Graph, logger *slog.Logger) *Service {
	return &Service{projects: projects, batches: batches, graph: graph, logger: logger}
}

// EnvironmentInput describes one environment of a new project.
type EnvironmentInput struct {
	Name           string
	EstimatedValue float64
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Client       Client
	Environments []EnvironmentInput
}

// CreateResult is a freshly created project with its initial batch.
type CreateResult struct {
	Project *Project     `json:"project"`
	Batch   *batch.Batch `json:"batch"`
}

// Create creates a project and its initial batch covering the full
// environment scope, positioned at the workflow's first step.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*CreateResult, error) {
	if strings.TrimSpace(req.Client.Name) == "" {
		return nil, fmt.Errorf("%w: client name required", ErrInvalidInput)
	}
	if len(req.Environments) == 0 {
		return nil, fmt.Errorf("%w: at least one environment required", ErrInvalidInput)
	}

	now := time.Now()
	proj := &Project{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Client:    req.Client,
		CreatedAt: now,
	}
	envIDs := make([]string, 0, len(req.Environments))
	for _, env := range req.Environments {
		if strings.TrimSpace(env.Name) == "" {
			return nil, fmt.Errorf("%w: environment name required", ErrInvalidInput)
		}
		id := uuid.NewString()
		envIDs = append(envIDs, id)
		proj.Environments = append(proj.Environments, Environment{
			ID:             id,
			Name:           env.Name,
			EstimatedValue: env.EstimatedValue,
			Version:        0,
		})
	}

	if err := s.projects.Create(ctx, tenantID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	initial := batch.New(tenantID, proj.ID, envIDs, s.graph.InitialStep(), now)
	if err := s.batches.Create(ctx, tenantID, initial); err != nil {
		return nil, fmt.Errorf("creating initial batch: %w", err)
	}

	return &CreateResult{Project: proj, Batch: initial}, nil
}

// Get fetches a project by ID, environments and value history included.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.projects.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context, tenantID string) ([]Summary, error) {
	return s.projects.List(ctx, tenantID)
}

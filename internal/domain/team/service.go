package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mobiplan/mobiplan/internal/repository"
	"github.com/google/uuid"
)

// Service handles assembly team operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines team creation inputs.
type CreateRequest struct {
	Name         string
	Color        string
	Members      []string
	ServiceTypes []ServiceType
}

// Create creates a new team. The color must be a known palette key; service
// types may be empty, which downstream code reads as assembly-only.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	if !validColor(req.Color) {
		return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidInput, req.Color)
	}
	if err := validateServiceTypes(req.ServiceTypes); err != nil {
		return nil, err
	}

	t := &Team{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Name:         req.Name,
		Color:        req.Color,
		Members:      req.Members,
		ServiceTypes: req.ServiceTypes,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, tenantID, t); err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}
	return t, nil
}

// UpdateRequest defines partial team updates.
type UpdateRequest struct {
	ID           string
	Name         *string
	Color        *string
	Members      []string
	ServiceTypes []ServiceType
}

// Update modifies a team.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Team, error) {
	t, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		t.Name = *req.Name
	}
	if req.Color != nil {
		if !validColor(*req.Color) {
			return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidInput, *req.Color)
		}
		t.Color = *req.Color
	}
	if req.Members != nil {
		t.Members = req.Members
	}
	if req.ServiceTypes != nil {
		if err := validateServiceTypes(req.ServiceTypes); err != nil {
			return nil, err
		}
		t.ServiceTypes = req.ServiceTypes
	}

	if err := s.repo.Update(ctx, tenantID, t); err != nil {
		return nil, fmt.Errorf("updating team: %w", err)
	}
	return t, nil
}

// Get fetches a team by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Team, error) {
	t, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("getting team: %w", err)
	}
	return t, nil
}

// List returns every team of the tenant.
func (s *Service) List(ctx context.Context, tenantID string) ([]Team, error) {
	return s.repo.List(ctx, tenantID)
}

// ListServing returns the teams serving one service type, in list order.
func (s *Service) ListServing(ctx context.Context, tenantID string, st ServiceType) ([]Team, error) {
	teams, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	serving := make([]Team, 0, len(teams))
	for _, t := range teams {
		if t.Serves(st) {
			serving = append(serving, t)
		}
	}
	return serving, nil
}

// Delete removes a team.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("deleting team: %w", err)
	}
	return nil
}

func validColor(color string) bool {
	for _, key := range Palette {
		if key == color {
			return true
		}
	}
	return false
}

func validateServiceTypes(types []ServiceType) error {
	for _, st := range types {
		if st != ServiceAssembly && st != ServiceAssistance {
			return fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, st)
		}
	}
	return nil
}

package assistance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mobiplan/mobiplan/internal/calendar"
	"github.com/mobiplan/mobiplan/internal/repository"
	"github.com/mobiplan/mobiplan/internal/sla"
	"github.com/google/uuid"
)

// Service handles assistance ticket operations.
type Service struct {
	tickets Repository
	teams   TeamDirectory
	cal     *calendar.Calendar
	logger  *slog.Logger
}

// NewService creates a new assistance service.
func NewService(tickets Repository, teams TeamDirectory, cal *calendar.Calendar, logger *slog.Logger) *Service {
	return &Service{tickets: tickets, teams: teams, cal: cal, logger: logger}
}

// CreateRequest defines ticket creation inputs.
type CreateRequest struct {
	ProjectID     string
	BatchID       *string
	Title         string
	Description   string
	Priority      Priority
	EstimatedDays *int
}

// Create opens a ticket at the first sub-step.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Ticket, error) {
	if strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if priority != PriorityNormal && priority != PriorityUrgent {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}
	if req.EstimatedDays != nil && *req.EstimatedDays <= 0 {
		return nil, fmt.Errorf("%w: estimated days must be positive", ErrInvalidInput)
	}

	now := time.Now()
	t := &Ticket{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		ProjectID:     req.ProjectID,
		BatchID:       req.BatchID,
		Title:         req.Title,
		Description:   req.Description,
		Priority:      priority,
		Status:        StatusOpen,
		EstimatedDays: req.EstimatedDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.tickets.Create(ctx, tenantID, t); err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}
	return t, nil
}

// Get fetches a ticket by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Ticket, error) {
	t, err := s.tickets.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return t, nil
}

// Advance moves a ticket to the next sub-step of the fixed progression.
func (s *Service) Advance(ctx context.Context, tenantID, id string) (*Ticket, error) {
	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	next, ok := NextStatus(t.Status)
	if !ok {
		return nil, fmt.Errorf("%w: ticket is already %s", ErrInvalidTransition, t.Status)
	}
	t.Status = next
	t.UpdatedAt = time.Now()
	if err := s.tickets.Update(ctx, tenantID, t); err != nil {
		return nil, fmt.Errorf("advancing ticket: %w", err)
	}
	return t, nil
}

// ScheduleRequest binds a ticket visit to a team and date.
type ScheduleRequest struct {
	TicketID      string
	TeamID        string
	Date          time.Time
	EstimatedDays *int
}

// Schedule assigns a visit. The ticket moves to the scheduled sub-step if
// it has not reached it yet.
func (s *Service) Schedule(ctx context.Context, tenantID string, req ScheduleRequest) (*Ticket, error) {
	if req.TeamID == "" || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: team and date required", ErrInvalidInput)
	}
	t, err := s.Get(ctx, tenantID, req.TicketID)
	if err != nil {
		return nil, err
	}
	if t.Status == StatusClosed {
		return nil, fmt.Errorf("%w: ticket is closed", ErrInvalidTransition)
	}
	ok, err := s.teams.HasTeam(ctx, tenantID, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("checking team: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: team %q", ErrInvalidInput, req.TeamID)
	}

	teamID := req.TeamID
	t.TeamID = &teamID
	t.ScheduledDate = &req.Date
	if req.EstimatedDays != nil {
		if *req.EstimatedDays <= 0 {
			return nil, fmt.Errorf("%w: estimated days must be positive", ErrInvalidInput)
		}
		t.EstimatedDays = req.EstimatedDays
	}
	if t.Status == StatusOpen || t.Status == StatusEvaluation {
		t.Status = StatusScheduled
	}
	t.UpdatedAt = time.Now()
	if err := s.tickets.Update(ctx, tenantID, t); err != nil {
		return nil, fmt.Errorf("scheduling ticket: %w", err)
	}
	return t, nil
}

// List returns tickets matching the options.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Ticket, error) {
	return s.tickets.List(ctx, tenantID, opts)
}

// SLAStatus reports the ticket's cumulative deadline from creation.
func (s *Service) SLAStatus(ctx context.Context, tenantID, id string, now time.Time) (sla.Report, error) {
	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return sla.Report{}, err
	}
	return sla.Track(t.CreatedAt, t.SLADays(), s.cal, now)
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mobiplan/mobiplan/internal/calendar"
	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/notify"
	"github.com/mobiplan/mobiplan/internal/repository"
	"github.com/mobiplan/mobiplan/internal/sla"
	"github.com/mobiplan/mobiplan/internal/workflow"
	"github.com/google/uuid"
)

// Service is the batch lifecycle state machine. Every mutation stamps
// LastUpdated and is atomic per batch; callers serialize concurrent
// mutations of the same batch or project.
type Service struct {
	batches  Repository
	projects ProjectDirectory
	teams    TeamDirectory
	notes    NoteRepository
	graph    *workflow.Graph
	cal      *calendar.Calendar
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a new batch lifecycle service.
func NewService(
	batches Repository,
	projects ProjectDirectory,
	teams TeamDirectory,
	notes NoteRepository,
	graph *workflow.Graph,
	cal *calendar.Calendar,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		batches:  batches,
		projects: projects,
		teams:    teams,
		notes:    notes,
		graph:    graph,
		cal:      cal,
		notifier: notifier,
		logger:   logger,
	}
}

// New builds a batch at the workflow's initial step.
func New(tenantID, projectID string, environmentIDs []string, initialPhase string, now time.Time) *Batch {
	return &Batch{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		ProjectID:      projectID,
		EnvironmentIDs: environmentIDs,
		Phase:          initialPhase,
		LastUpdated:    now,
		Assembly:       AssemblySchedule{Status: AssemblyNoForecast},
		CreatedAt:      now,
	}
}

// Get returns a batch by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Batch, error) {
	b, err := s.batches.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("getting batch: %w", err)
	}
	return b, nil
}

// ListByProject returns every batch of a project.
func (s *Service) ListByProject(ctx context.Context, tenantID, projectID string) ([]Batch, error) {
	return s.batches.ListByProject(ctx, tenantID, projectID)
}

// List returns batches matching the options.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Batch, error) {
	return s.batches.List(ctx, tenantID, opts)
}

// Advance moves a batch to its single implicit successor. Steps with
// branching options reject Advance; the caller must use Decide. Leaving the
// budgeting step additionally requires confirmed prices.
func (s *Service) Advance(ctx context.Context, tenantID, batchID string) (*Batch, error) {
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	if len(s.graph.Branches(b.Phase)) > 0 {
		return nil, ErrDecisionRequired
	}
	if err := s.checkBudgetingGate(b); err != nil {
		return nil, err
	}
	next, ok := s.graph.Successor(b.Phase)
	if !ok {
		return nil, fmt.Errorf("%w: step %q has no successor", ErrInvalidTransition, b.Phase)
	}
	return s.transition(ctx, tenantID, b, next, note.KindPhaseChange, fmt.Sprintf("advanced to step %s", next))
}

// Decide resolves a branching step by moving the batch to one of its
// configured options.
func (s *Service) Decide(ctx context.Context, tenantID, batchID, targetStepID string) (*Batch, error) {
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	options := s.graph.Branches(b.Phase)
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: step %q has no branching options", ErrInvalidTransition, b.Phase)
	}
	valid := false
	for _, opt := range options {
		if opt.Target == targetStepID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: %q is not an option of step %q", ErrInvalidTransition, targetStepID, b.Phase)
	}
	if err := s.checkBudgetingGate(b); err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, b, targetStepID, note.KindPhaseChange, fmt.Sprintf("decided step %s", targetStepID))
}

// MoveToStep unconditionally repositions a batch to any valid step,
// bypassing graph edges. Reserved for privileged correction of data-entry
// errors; authorization is the transport's concern.
func (s *Service) MoveToStep(ctx context.Context, tenantID, batchID, targetStepID string) (*Batch, error) {
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	if !s.graph.Has(targetStepID) {
		return nil, fmt.Errorf("%w: %q", workflow.ErrUnknownStep, targetStepID)
	}
	return s.transition(ctx, tenantID, b, targetStepID, note.KindPhaseChange, fmt.Sprintf("moved to step %s", targetStepID))
}

// ConfirmPrices records a confirmed value for each environment in the
// request, appending to the environment's value history, and stamps the
// batch as price-confirmed. Required before the budgeting step is left.
func (s *Service) ConfirmPrices(ctx context.Context, tenantID, batchID string, values map[string]float64) (*Batch, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no environment values", ErrInvalidInput)
	}
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	for envID := range values {
		if !b.HasEnvironment(envID) {
			return nil, fmt.Errorf("%w: environment %q not in batch scope", ErrInvalidInput, envID)
		}
	}

	now := time.Now()
	for envID, value := range values {
		if err := s.projects.AppendEnvironmentValue(ctx, tenantID, b.ProjectID, envID, value, now); err != nil {
			return nil, fmt.Errorf("confirming price for environment %s: %w", envID, err)
		}
	}

	b.PricesConfirmedAt = &now
	if err := s.batches.UpdatePhase(ctx, tenantID, b); err != nil {
		return nil, fmt.Errorf("stamping price confirmation: %w", err)
	}
	s.appendNote(ctx, tenantID, b, note.KindPriceConfirmation, fmt.Sprintf("confirmed prices for %d environments", len(values)))
	return b, nil
}

// SplitRequest selects the environments that move to a new batch.
type SplitRequest struct {
	BatchID        string
	EnvironmentIDs []string
}

// SplitResult carries the two sides of a split. Source is nil when the
// selected subset covered the whole scope and the source was removed.
type SplitResult struct {
	Source  *Batch `json:"source,omitempty"`
	Created *Batch `json:"created"`
}

// Split moves a subset of a batch's environments into a new batch at the
// same phase. The union of the two scopes equals the original and their
// intersection is empty; no environment is duplicated or lost.
func (s *Service) Split(ctx context.Context, tenantID string, req SplitRequest) (*SplitResult, error) {
	if len(req.EnvironmentIDs) == 0 {
		return nil, fmt.Errorf("%w: empty environment subset", ErrInvalidInput)
	}
	b, err := s.Get(ctx, tenantID, req.BatchID)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(req.EnvironmentIDs))
	for _, envID := range req.EnvironmentIDs {
		if !b.HasEnvironment(envID) {
			return nil, fmt.Errorf("%w: environment %q not in batch scope", ErrInvalidInput, envID)
		}
		selected[envID] = true
	}

	var remainder []string
	for _, envID := range b.EnvironmentIDs {
		if !selected[envID] {
			remainder = append(remainder, envID)
		}
	}

	created := New(tenantID, b.ProjectID, req.EnvironmentIDs, b.Phase, time.Now())
	created.LastUpdated = b.LastUpdated // same phase, same SLA reference

	removeSource := len(remainder) == 0
	b.EnvironmentIDs = remainder
	if err := s.batches.Split(ctx, tenantID, b, created, removeSource); err != nil {
		return nil, fmt.Errorf("splitting batch: %w", err)
	}

	s.appendNote(ctx, tenantID, created, note.KindSplit,
		fmt.Sprintf("split %d environments out of batch %s", len(req.EnvironmentIDs), b.ID))

	result := &SplitResult{Created: created}
	if !removeSource {
		result.Source = b
	}
	return result, nil
}

// MarkLost moves every active batch of a project to the lost terminal step
// and records the reason on the audit trail. Reversible via Reactivate.
func (s *Service) MarkLost(ctx context.Context, tenantID, projectID, reason string) ([]Batch, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: a loss reason is required", ErrInvalidInput)
	}
	batches, err := s.projectBatches(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	var updated []Batch
	for i := range batches {
		b := &batches[i]
		if s.graph.IsTerminal(b.Phase) {
			continue
		}
		moved, err := s.transition(ctx, tenantID, b, workflow.StepLost, note.KindLoss, fmt.Sprintf("project lost: %s", reason))
		if err != nil {
			return nil, err
		}
		updated = append(updated, *moved)
	}
	return updated, nil
}

// Reactivate returns a lost project's batches to the initial workflow step.
func (s *Service) Reactivate(ctx context.Context, tenantID, projectID string) ([]Batch, error) {
	batches, err := s.projectBatches(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	var updated []Batch
	for i := range batches {
		b := &batches[i]
		if b.Phase != workflow.StepLost {
			continue
		}
		moved, err := s.transition(ctx, tenantID, b, s.graph.InitialStep(), note.KindReactivation, "project reactivated")
		if err != nil {
			return nil, err
		}
		updated = append(updated, *moved)
	}
	return updated, nil
}

// SLAStatus reports the batch's deadline against its current step's SLA.
func (s *Service) SLAStatus(ctx context.Context, tenantID, batchID string, now time.Time) (sla.Report, error) {
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return sla.Report{}, err
	}
	step, err := s.graph.Step(b.Phase)
	if err != nil {
		return sla.Report{}, err
	}
	return sla.Track(b.LastUpdated, step.SLA, s.cal, now)
}

func (s *Service) checkBudgetingGate(b *Batch) error {
	if b.Phase == workflow.StepBudgeting && b.PricesConfirmedAt == nil {
		return ErrPricesNotConfirmed
	}
	return nil
}

// transition applies a phase move: phase, LastUpdated and the cleared
// price-confirmation stamp are persisted in one repository write.
func (s *Service) transition(ctx context.Context, tenantID string, b *Batch, target string, kind note.Kind, summary string) (*Batch, error) {
	b.Phase = target
	b.LastUpdated = time.Now()
	b.PricesConfirmedAt = nil

	if err := s.batches.UpdatePhase(ctx, tenantID, b); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("updating batch phase: %w", err)
	}
	s.appendNote(ctx, tenantID, b, kind, summary)
	return b, nil
}

func (s *Service) projectBatches(ctx context.Context, tenantID, projectID string) ([]Batch, error) {
	batches, err := s.batches.ListByProject(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, ErrBatchNotFound
	}
	return batches, nil
}

func (s *Service) appendNote(ctx context.Context, tenantID string, b *Batch, kind note.Kind, body string) {
	if s.notes == nil {
		return
	}
	batchID := b.ID
	err := s.notes.Append(ctx, tenantID, &note.Note{
		TenantID:  tenantID,
		ProjectID: b.ProjectID,
		BatchID:   &batchID,
		Kind:      kind,
		Body:      body,
		CreatedAt: time.Now(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit note append failed", "batch_id", b.ID, "error", err)
	}
}

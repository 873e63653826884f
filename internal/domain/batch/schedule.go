package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/notify"
)

// SetForecast records a tentative assembly date. No team is bound yet.
func (s *Service) SetForecast(ctx context.Context, tenantID, batchID string, date time.Time, estimatedDays int) (*Batch, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: forecast date required", ErrInvalidInput)
	}
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}

	b.Assembly.Status = AssemblyForecast
	b.Assembly.ForecastDate = &date
	b.Assembly.ScheduledDate = nil
	b.Assembly.EstimatedDays = s.effectiveEstimate(b, estimatedDays)
	b.AssemblyDeadline = nil

	if err := s.batches.UpdateAssembly(ctx, tenantID, b); err != nil {
		return nil, fmt.Errorf("saving forecast: %w", err)
	}
	s.appendNote(ctx, tenantID, b, note.KindAssemblySchedule,
		fmt.Sprintf("assembly forecast for %s", date.Format("2006-01-02")))
	return b, nil
}

// ScheduleRequest firms up an assembly schedule.
type ScheduleRequest struct {
	BatchID       string
	TeamID        string
	Date          time.Time
	EstimatedDays int
	Notes         string
}

// Schedule binds a batch to a team on a firm date, derives the assembly
// deadline from the estimate, and informs the notification collaborator.
// The notification is fire-and-forget: a dispatch failure never rolls back
// the schedule.
func (s *Service) Schedule(ctx context.Context, tenantID string, req ScheduleRequest) (*Batch, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: scheduled date required", ErrInvalidInput)
	}
	if req.TeamID == "" {
		return nil, fmt.Errorf("%w: team required", ErrInvalidInput)
	}
	b, err := s.Get(ctx, tenantID, req.BatchID)
	if err != nil {
		return nil, err
	}
	ok, err := s.teams.HasTeam(ctx, tenantID, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("checking team: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: team %q", ErrInvalidInput, req.TeamID)
	}

	estimate := s.effectiveEstimate(b, req.EstimatedDays)
	deadline, err := s.cal.AddBusinessDays(req.Date, estimate)
	if err != nil {
		return nil, fmt.Errorf("deriving assembly deadline: %w", err)
	}

	teamID := req.TeamID
	b.Assembly.Status = AssemblyScheduled
	b.Assembly.ScheduledDate = &req.Date
	b.Assembly.EstimatedDays = estimate
	b.Assembly.TeamID = &teamID
	if req.Notes != "" {
		b.Assembly.Notes = req.Notes
	}
	b.AssemblyDeadline = &deadline

	if err := s.batches.UpdateAssembly(ctx, tenantID, b); err != nil {
		return nil, fmt.Errorf("saving schedule: %w", err)
	}
	s.appendNote(ctx, tenantID, b, note.KindAssemblySchedule,
		fmt.Sprintf("assembly scheduled for %s with team %s", req.Date.Format("2006-01-02"), req.TeamID))
	s.notifyScheduled(ctx, tenantID, b, req.Date)
	return b, nil
}

// CompleteAssembly marks the assembly done. The schedule dates are
// released; a done assembly holds no date, only the team and estimate that
// executed it.
func (s *Service) CompleteAssembly(ctx context.Context, tenantID, batchID string) (*Batch, error) {
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	if b.Assembly.Status != AssemblyScheduled {
		return nil, fmt.Errorf("%w: assembly is %s, not scheduled", ErrInvalidTransition, b.Assembly.Status)
	}
	b.Assembly.Status = AssemblyDone
	b.Assembly.ScheduledDate = nil
	b.Assembly.ForecastDate = nil
	b.AssemblyDeadline = nil
	if err := s.batches.UpdateAssembly(ctx, tenantID, b); err != nil {
		return nil, fmt.Errorf("completing assembly: %w", err)
	}
	s.appendNote(ctx, tenantID, b, note.KindAssemblySchedule, "assembly completed")
	return b, nil
}

// ClearSchedule drops any forecast or schedule, returning to NoForecast
// with no dates held.
func (s *Service) ClearSchedule(ctx context.Context, tenantID, batchID string) (*Batch, error) {
	b, err := s.Get(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	b.Assembly = AssemblySchedule{Status: AssemblyNoForecast}
	b.AssemblyDeadline = nil
	if err := s.batches.UpdateAssembly(ctx, tenantID, b); err != nil {
		return nil, fmt.Errorf("clearing schedule: %w", err)
	}
	s.appendNote(ctx, tenantID, b, note.KindAssemblySchedule, "assembly schedule cleared")
	return b, nil
}

func (s *Service) effectiveEstimate(b *Batch, requested int) int {
	if requested > 0 {
		return requested
	}
	if b.Assembly.EstimatedDays > 0 {
		return b.Assembly.EstimatedDays
	}
	return b.DefaultEstimatedDays()
}

func (s *Service) notifyScheduled(ctx context.Context, tenantID string, b *Batch, date time.Time) {
	if s.notifier == nil {
		return
	}
	phone, err := s.projects.ClientPhone(ctx, tenantID, b.ProjectID)
	if err != nil || phone == "" {
		if s.logger != nil {
			s.logger.Warn("skipping schedule notification", "batch_id", b.ID, "error", err)
		}
		return
	}
	msg := notify.Message{
		ClientPhone: phone,
		TemplateKey: notify.TemplateAssemblyScheduled,
		Variables: map[string]string{
			"date":         date.Format("02/01/2006"),
			"environments": fmt.Sprintf("%d", len(b.EnvironmentIDs)),
		},
	}
	if err := s.notifier.Send(ctx, msg); err != nil && s.logger != nil {
		s.logger.Warn("schedule notification failed", "batch_id", b.ID, "error", err)
	}
}

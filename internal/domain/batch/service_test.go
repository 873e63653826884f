package batch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mobiplan/mobiplan/internal/calendar"
	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/notify"
	"github.com/mobiplan/mobiplan/internal/repository/mocks"
	"github.com/mobiplan/mobiplan/internal/sla"
	"github.com/mobiplan/mobiplan/internal/workflow"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(batches *mocks.BatchRepository, projects *mocks.ProjectRepository, teams *mocks.TeamRepository, notes *mocks.NoteRepository, notifier notify.Notifier) *batch.Service {
	return batch.NewService(batches, projects, teams, notes, workflow.Default(), calendar.Default(), notifier, testLogger())
}

func storedBatch(id, phase string, envIDs []string) *batch.Batch {
	return &batch.Batch{
		ID:             id,
		TenantID:       "tenant1",
		ProjectID:      "p1",
		EnvironmentIDs: envIDs,
		Phase:          phase,
		LastUpdated:    time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		Assembly:       batch.AssemblySchedule{Status: batch.AssemblyNoForecast},
		CreatedAt:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAdvance_LinearStep(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "1.1", []string{"e1"}), nil)
	batches.On("UpdatePhase", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	b, err := svc.Advance(ctx, "tenant1", "b1")
	require.NoError(t, err)
	require.Equal(t, "1.2", b.Phase)
	require.Nil(t, b.PricesConfirmedAt)
	batches.AssertExpectations(t)
}

func TestAdvance_BranchingStepRequiresDecision(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	confirmed := time.Now()
	b := storedBatch("b1", workflow.StepBudgeting, []string{"e1"})
	b.PricesConfirmedAt = &confirmed
	batches.On("Get", ctx, "tenant1", "b1").Return(b, nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.Advance(ctx, "tenant1", "b1")
	require.ErrorIs(t, err, batch.ErrDecisionRequired)
}

func TestAdvance_TerminalStep(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "completed", []string{"e1"}), nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.Advance(ctx, "tenant1", "b1")
	require.ErrorIs(t, err, batch.ErrInvalidTransition)
}

func TestDecide_BudgetingGate(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", workflow.StepBudgeting, []string{"e1"}), nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.Decide(ctx, "tenant1", "b1", "3.1")
	require.ErrorIs(t, err, batch.ErrPricesNotConfirmed)
}

func TestDecide_ValidOptionAfterConfirmation(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	confirmed := time.Now()
	b := storedBatch("b1", workflow.StepBudgeting, []string{"e1"})
	b.PricesConfirmedAt = &confirmed
	batches.On("Get", ctx, "tenant1", "b1").Return(b, nil)
	batches.On("UpdatePhase", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	moved, err := svc.Decide(ctx, "tenant1", "b1", "3.1")
	require.NoError(t, err)
	require.Equal(t, "3.1", moved.Phase)
	// The confirmation stamp does not survive the transition
	require.Nil(t, moved.PricesConfirmedAt)
}

func TestDecide_InvalidOption(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	confirmed := time.Now()
	b := storedBatch("b1", workflow.StepBudgeting, []string{"e1"})
	b.PricesConfirmedAt = &confirmed
	batches.On("Get", ctx, "tenant1", "b1").Return(b, nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.Decide(ctx, "tenant1", "b1", "9.1")
	require.ErrorIs(t, err, batch.ErrInvalidTransition)
}

func TestDecide_NonBranchingStep(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "1.1", []string{"e1"}), nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.Decide(ctx, "tenant1", "b1", "1.2")
	require.ErrorIs(t, err, batch.ErrInvalidTransition)
}

func TestMoveToStep(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "5.2", []string{"e1"}), nil)
	batches.On("UpdatePhase", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	moved, err := svc.MoveToStep(ctx, "tenant1", "b1", "2.1")
	require.NoError(t, err)
	require.Equal(t, "2.1", moved.Phase)

	_, err = svc.MoveToStep(ctx, "tenant1", "b1", "99.9")
	require.ErrorIs(t, err, workflow.ErrUnknownStep)
}

func TestConfirmPrices(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	projects := &mocks.ProjectRepository{}
	notes := &mocks.NoteRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", workflow.StepBudgeting, []string{"e1", "e2"}), nil)
	projects.On("AppendEnvironmentValue", ctx, "tenant1", "p1", "e1", 42000.0, mock.Anything).Return(nil)
	projects.On("AppendEnvironmentValue", ctx, "tenant1", "p1", "e2", 28000.0, mock.Anything).Return(nil)
	batches.On("UpdatePhase", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, projects, nil, notes, nil)
	b, err := svc.ConfirmPrices(ctx, "tenant1", "b1", map[string]float64{"e1": 42000, "e2": 28000})
	require.NoError(t, err)
	require.NotNil(t, b.PricesConfirmedAt)
	projects.AssertExpectations(t)
}

func TestConfirmPrices_OutOfScopeEnvironment(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", workflow.StepBudgeting, []string{"e1"}), nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.ConfirmPrices(ctx, "tenant1", "b1", map[string]float64{"e9": 100})
	require.ErrorIs(t, err, batch.ErrInvalidInput)
}

func TestSplit_PartitionsScope(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	source := storedBatch("b1", "4.1", []string{"e1", "e2", "e3"})
	batches.On("Get", ctx, "tenant1", "b1").Return(source, nil)
	batches.On("Split", ctx, "tenant1", mock.Anything, mock.Anything, false).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	result, err := svc.Split(ctx, "tenant1", batch.SplitRequest{
		BatchID:        "b1",
		EnvironmentIDs: []string{"e2", "e3"},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Source)
	require.Equal(t, []string{"e1"}, result.Source.EnvironmentIDs)
	require.Equal(t, []string{"e2", "e3"}, result.Created.EnvironmentIDs)

	// Same phase and same SLA reference on both sides
	require.Equal(t, "4.1", result.Created.Phase)
	require.Equal(t, result.Source.LastUpdated, result.Created.LastUpdated)

	// Union restores the original scope, intersection is empty
	seen := map[string]int{}
	for _, id := range result.Source.EnvironmentIDs {
		seen[id]++
	}
	for _, id := range result.Created.EnvironmentIDs {
		seen[id]++
	}
	require.Len(t, seen, 3)
	for id, count := range seen {
		require.Equal(t, 1, count, "environment %s duplicated or lost", id)
	}
}

func TestSplit_FullScopeRemovesSource(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "4.1", []string{"e1", "e2"}), nil)
	batches.On("Split", ctx, "tenant1", mock.Anything, mock.Anything, true).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	result, err := svc.Split(ctx, "tenant1", batch.SplitRequest{
		BatchID:        "b1",
		EnvironmentIDs: []string{"e1", "e2"},
	})
	require.NoError(t, err)
	require.Nil(t, result.Source)
	require.Equal(t, []string{"e1", "e2"}, result.Created.EnvironmentIDs)
}

func TestSplit_OutOfScope(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "4.1", []string{"e1"}), nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.Split(ctx, "tenant1", batch.SplitRequest{BatchID: "b1", EnvironmentIDs: []string{"e7"}})
	require.ErrorIs(t, err, batch.ErrInvalidInput)
}

func TestMarkLost_SkipsTerminalBatches(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	active := storedBatch("b1", "3.1", []string{"e1"})
	done := storedBatch("b2", "completed", []string{"e2"})
	batches.On("ListByProject", ctx, "tenant1", "p1").Return([]batch.Batch{*active, *done}, nil)
	batches.On("UpdatePhase", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	updated, err := svc.MarkLost(ctx, "tenant1", "p1", "went with a competitor")
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.Equal(t, "b1", updated[0].ID)
	require.Equal(t, workflow.StepLost, updated[0].Phase)
}

func TestMarkLost_RequiresReason(t *testing.T) {
	svc := newService(&mocks.BatchRepository{}, nil, nil, nil, nil)
	_, err := svc.MarkLost(context.Background(), "tenant1", "p1", "")
	require.ErrorIs(t, err, batch.ErrInvalidInput)
}

func TestReactivate(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	lost := storedBatch("b1", workflow.StepLost, []string{"e1"})
	active := storedBatch("b2", "5.1", []string{"e2"})
	batches.On("ListByProject", ctx, "tenant1", "p1").Return([]batch.Batch{*lost, *active}, nil)
	batches.On("UpdatePhase", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	updated, err := svc.Reactivate(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.Equal(t, "b1", updated[0].ID)
	require.Equal(t, "1.1", updated[0].Phase)
}

func TestSLAStatus(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	// Budgeting carries a five-day SLA; nine days later the batch is overdue.
	b := storedBatch("b1", workflow.StepBudgeting, []string{"e1"})
	b.LastUpdated = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) // Monday
	batches.On("Get", ctx, "tenant1", "b1").Return(b, nil)

	svc := newService(batches, nil, nil, nil, nil)
	report, err := svc.SLAStatus(ctx, "tenant1", "b1", time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, -2, report.Remaining)
	require.Equal(t, sla.StatusOverdue, report.Status)
}

func TestAdvance_NoteFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "1.1", []string{"e1"}), nil)
	batches.On("UpdatePhase", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(errors.New("notes table locked"))

	svc := newService(batches, nil, nil, notes, nil)
	b, err := svc.Advance(ctx, "tenant1", "b1")
	require.NoError(t, err)
	require.Equal(t, "1.2", b.Phase)
}

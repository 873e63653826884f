package batch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/notify"
	"github.com/mobiplan/mobiplan/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// captureNotifier records every dispatched message.
type captureNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (n *captureNotifier) Send(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.err
}

func (n *captureNotifier) sent() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.messages...)
}

func TestSetForecast(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "7.1", []string{"e1", "e2"}), nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	b, err := svc.SetForecast(ctx, "tenant1", "b1", date, 4)
	require.NoError(t, err)
	require.Equal(t, batch.AssemblyForecast, b.Assembly.Status)
	require.Equal(t, date, *b.Assembly.ForecastDate)
	require.Equal(t, 4, b.Assembly.EstimatedDays)
	require.Nil(t, b.Assembly.ScheduledDate)
	require.Nil(t, b.AssemblyDeadline)
}

func TestSetForecast_ZeroDate(t *testing.T) {
	svc := newService(&mocks.BatchRepository{}, nil, nil, nil, nil)
	_, err := svc.SetForecast(context.Background(), "tenant1", "b1", time.Time{}, 0)
	require.ErrorIs(t, err, batch.ErrInvalidInput)
}

func TestSetForecast_DefaultEstimate(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "7.1", []string{"e1", "e2"}), nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	b, err := svc.SetForecast(ctx, "tenant1", "b1", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	// Three days per environment when nothing better is known.
	require.Equal(t, 6, b.Assembly.EstimatedDays)
}

func TestSchedule(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	projects := &mocks.ProjectRepository{}
	teams := &mocks.TeamRepository{}
	notes := &mocks.NoteRepository{}
	notifier := &captureNotifier{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "8.1", []string{"e1", "e2"}), nil)
	teams.On("HasTeam", ctx, "tenant1", "t1").Return(true, nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)
	projects.On("ClientPhone", ctx, "tenant1", "p1").Return("+5511999990000", nil)

	svc := newService(batches, projects, teams, notes, notifier)
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) // Monday
	b, err := svc.Schedule(ctx, "tenant1", batch.ScheduleRequest{
		BatchID:       "b1",
		TeamID:        "t1",
		Date:          date,
		EstimatedDays: 3,
		Notes:         "access through service elevator",
	})
	require.NoError(t, err)
	require.Equal(t, batch.AssemblyScheduled, b.Assembly.Status)
	require.Equal(t, date, *b.Assembly.ScheduledDate)
	require.Equal(t, "t1", *b.Assembly.TeamID)
	require.Equal(t, "access through service elevator", b.Assembly.Notes)
	// Deadline is three business days out from the Monday start.
	require.NotNil(t, b.AssemblyDeadline)
	require.Equal(t, time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC), *b.AssemblyDeadline)

	sent := notifier.sent()
	require.Len(t, sent, 1)
	require.Equal(t, "+5511999990000", sent[0].ClientPhone)
	require.Equal(t, notify.TemplateAssemblyScheduled, sent[0].TemplateKey)
	require.Equal(t, "01/04/2024", sent[0].Variables["date"])
	require.Equal(t, "2", sent[0].Variables["environments"])
}

func TestSchedule_UnknownTeam(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	teams := &mocks.TeamRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "8.1", []string{"e1"}), nil)
	teams.On("HasTeam", ctx, "tenant1", "ghost").Return(false, nil)

	svc := newService(batches, nil, teams, nil, nil)
	_, err := svc.Schedule(ctx, "tenant1", batch.ScheduleRequest{
		BatchID: "b1",
		TeamID:  "ghost",
		Date:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, batch.ErrInvalidInput)
}

func TestSchedule_NotificationFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	projects := &mocks.ProjectRepository{}
	teams := &mocks.TeamRepository{}
	notes := &mocks.NoteRepository{}
	notifier := &captureNotifier{err: errors.New("gateway unreachable")}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "8.1", []string{"e1"}), nil)
	teams.On("HasTeam", ctx, "tenant1", "t1").Return(true, nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)
	projects.On("ClientPhone", ctx, "tenant1", "p1").Return("+5511999990000", nil)

	svc := newService(batches, projects, teams, notes, notifier)
	b, err := svc.Schedule(ctx, "tenant1", batch.ScheduleRequest{
		BatchID: "b1",
		TeamID:  "t1",
		Date:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, batch.AssemblyScheduled, b.Assembly.Status)
}

func TestSchedule_NoClientPhoneSkipsNotification(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	projects := &mocks.ProjectRepository{}
	teams := &mocks.TeamRepository{}
	notes := &mocks.NoteRepository{}
	notifier := &captureNotifier{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "8.1", []string{"e1"}), nil)
	teams.On("HasTeam", ctx, "tenant1", "t1").Return(true, nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)
	projects.On("ClientPhone", ctx, "tenant1", "p1").Return("", nil)

	svc := newService(batches, projects, teams, notes, notifier)
	_, err := svc.Schedule(ctx, "tenant1", batch.ScheduleRequest{
		BatchID: "b1",
		TeamID:  "t1",
		Date:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Empty(t, notifier.sent())
}

func TestSchedule_ReusesExistingEstimate(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	projects := &mocks.ProjectRepository{}
	teams := &mocks.TeamRepository{}
	notes := &mocks.NoteRepository{}

	b := storedBatch("b1", "8.1", []string{"e1"})
	forecast := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	b.Assembly = batch.AssemblySchedule{Status: batch.AssemblyForecast, ForecastDate: &forecast, EstimatedDays: 5}
	batches.On("Get", ctx, "tenant1", "b1").Return(b, nil)
	teams.On("HasTeam", ctx, "tenant1", "t1").Return(true, nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)
	projects.On("ClientPhone", ctx, "tenant1", "p1").Return("", nil)

	svc := newService(batches, projects, teams, notes, nil)
	scheduled, err := svc.Schedule(ctx, "tenant1", batch.ScheduleRequest{
		BatchID: "b1",
		TeamID:  "t1",
		Date:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 5, scheduled.Assembly.EstimatedDays)
}

func TestCompleteAssembly(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	b := storedBatch("b1", "9.1", []string{"e1"})
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	teamID := "t1"
	b.Assembly = batch.AssemblySchedule{Status: batch.AssemblyScheduled, ScheduledDate: &date, EstimatedDays: 3, TeamID: &teamID}
	batches.On("Get", ctx, "tenant1", "b1").Return(b, nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	done, err := svc.CompleteAssembly(ctx, "tenant1", "b1")
	require.NoError(t, err)
	require.Equal(t, batch.AssemblyDone, done.Assembly.Status)
	// A done assembly carries no dates, only the crew that executed it.
	require.Nil(t, done.Assembly.ScheduledDate)
	require.Nil(t, done.AssemblyDeadline)
	require.Equal(t, "t1", *done.Assembly.TeamID)
}

func TestCompleteAssembly_NotScheduled(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}

	batches.On("Get", ctx, "tenant1", "b1").Return(storedBatch("b1", "9.1", []string{"e1"}), nil)

	svc := newService(batches, nil, nil, nil, nil)
	_, err := svc.CompleteAssembly(ctx, "tenant1", "b1")
	require.ErrorIs(t, err, batch.ErrInvalidTransition)
}

func TestClearSchedule(t *testing.T) {
	ctx := context.Background()
	batches := &mocks.BatchRepository{}
	notes := &mocks.NoteRepository{}

	b := storedBatch("b1", "8.1", []string{"e1"})
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC)
	teamID := "t1"
	b.Assembly = batch.AssemblySchedule{Status: batch.AssemblyScheduled, ScheduledDate: &date, EstimatedDays: 3, TeamID: &teamID}
	b.AssemblyDeadline = &deadline
	batches.On("Get", ctx, "tenant1", "b1").Return(b, nil)
	batches.On("UpdateAssembly", ctx, "tenant1", mock.Anything).Return(nil)
	notes.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := newService(batches, nil, nil, notes, nil)
	cleared, err := svc.ClearSchedule(ctx, "tenant1", "b1")
	require.NoError(t, err)
	require.Equal(t, batch.AssemblyNoForecast, cleared.Assembly.Status)
	require.Nil(t, cleared.Assembly.ScheduledDate)
	require.Nil(t, cleared.Assembly.TeamID)
	require.Nil(t, cleared.AssemblyDeadline)
}

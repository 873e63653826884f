package schedule

import (
	"testing"
	"time"

	"github.com/mobiplan/mobiplan/internal/calendar"
	"github.com/stretchr/testify/require"
)

var testTeams = []Team{
	{ID: "t1", Name: "Equipe Azul", Color: "blue"},
	{ID: "t2", Name: "Equipe Verde", Color: "green"},
}

func TestBuildLaneAssignment(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2)

	jobs := []Job{
		{ID: "j1", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 5), DurationDays: 3},
		{ID: "j2", Kind: KindAssembly, TeamID: "t2", Start: date(2024, time.March, 6), DurationDays: 2},
		{ID: "j3", Kind: KindAssembly, Start: date(2024, time.March, 7), DurationDays: 1},
		{ID: "j4", Kind: KindAssistance, TeamID: "t1", Start: date(2024, time.March, 7), DurationDays: 1},
	}

	layout := Build(win, KindAssembly, testTeams, jobs, cal, date(2024, time.March, 6))

	require.Len(t, layout.Lanes, 3) // two teams plus the unassigned row
	require.Equal(t, "t1", layout.Lanes[0].TeamID)
	require.Len(t, layout.Lanes[0].Jobs, 1)
	require.Equal(t, "j1", layout.Lanes[0].Jobs[0].ID)
	require.Equal(t, UnassignedLane, layout.Lanes[2].TeamID)
	require.Len(t, layout.Lanes[2].Jobs, 1)

	// The assistance job never leaks onto the assembly timeline.
	for _, lane := range layout.Lanes {
		for _, job := range lane.Jobs {
			require.Equal(t, KindAssembly, job.Kind)
		}
	}
}

func TestBuildAssistanceHidesEmptyUnassignedLane(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2)

	jobs := []Job{
		{ID: "a1", Kind: KindAssistance, TeamID: "t1", Start: date(2024, time.March, 5), DurationDays: 1},
	}
	layout := Build(win, KindAssistance, testTeams, jobs, cal, date(2024, time.March, 5))
	require.Len(t, layout.Lanes, 2)

	jobs = append(jobs, Job{ID: "a2", Kind: KindAssistance, Start: date(2024, time.March, 6), DurationDays: 1})
	layout = Build(win, KindAssistance, testTeams, jobs, cal, date(2024, time.March, 5))
	require.Len(t, layout.Lanes, 3)
	require.Equal(t, UnassignedLane, layout.Lanes[2].TeamID)
}

func TestBuildCalendarSpanWidth(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2) // 17 days

	// Five business days starting Thursday cross a weekend: the bar spans
	// seven calendar days even though the estimate stays at five.
	jobs := []Job{{ID: "j1", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 7), DurationDays: 5}}
	layout := Build(win, KindAssembly, testTeams, jobs, cal, date(2024, time.March, 7))

	placed := layout.Lanes[0].Jobs[0]
	require.InDelta(t, 3*100.0/17.0, placed.LeftPct, 1e-9)
	require.InDelta(t, 7*100.0/17.0, placed.WidthPct, 1e-9)
}

func TestBuildNegativeLeftNotClamped(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2)

	// Starting two days before the window's left edge.
	jobs := []Job{{ID: "j1", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 2), DurationDays: 2}}
	layout := Build(win, KindAssembly, testTeams, jobs, cal, date(2024, time.March, 4))

	placed := layout.Lanes[0].Jobs[0]
	require.Less(t, placed.LeftPct, 0.0)
	require.InDelta(t, -2*100.0/17.0, placed.LeftPct, 1e-9)
}

func TestBuildMinimumWidthFloor(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2)

	jobs := []Job{{ID: "j1", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 5), DurationDays: 0}}
	layout := Build(win, KindAssembly, testTeams, jobs, cal, date(2024, time.March, 5))

	placed := layout.Lanes[0].Jobs[0]
	require.Equal(t, minWidthPct, placed.WidthPct)
	require.Equal(t, 0, placed.DurationDays) // stored duration untouched
}

func TestBuildUnscheduledQueue(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2)

	jobs := []Job{{ID: "j1", Kind: KindAssembly, TeamID: "t1", DurationDays: 3}}
	layout := Build(win, KindAssembly, testTeams, jobs, cal, date(2024, time.March, 5))

	require.Empty(t, layout.Lanes[0].Jobs)
	require.Len(t, layout.Unscheduled, 1)
	require.Equal(t, "j1", layout.Unscheduled[0].ID)
}

func TestBuildColumnsShadeNonWorkingDays(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 1) // Mon..Tue next week, 9 days

	layout := Build(win, KindAssembly, testTeams, nil, cal, date(2024, time.March, 4))
	require.Len(t, layout.Columns, 9)
	require.True(t, layout.Columns[0].Working)  // Monday
	require.False(t, layout.Columns[5].Working) // Saturday
	require.False(t, layout.Columns[6].Working) // Sunday
	require.True(t, layout.Columns[7].Working)  // Monday again
}

func TestBuildDeadlineMarkerRelativeToBar(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2) // 17 days

	deadline := date(2024, time.March, 8)
	jobs := []Job{{
		ID: "j1", Kind: KindAssembly, TeamID: "t1",
		Start: date(2024, time.March, 5), DurationDays: 4, Deadline: &deadline,
	}}
	layout := Build(win, KindAssembly, testTeams, jobs, cal, date(2024, time.March, 5))

	placed := layout.Lanes[0].Jobs[0]
	require.NotNil(t, placed.DeadlinePct)
	// Marker position is expressed relative to the bar's own left/width.
	want := (win.OffsetPct(deadline) - placed.LeftPct) / placed.WidthPct * 100
	require.InDelta(t, want, *placed.DeadlinePct, 1e-9)
	require.GreaterOrEqual(t, *placed.DeadlinePct, 0.0)
	require.LessOrEqual(t, *placed.DeadlinePct, 92.0)

	// A deadline far past the bar is clamped to the 92% cap.
	far := date(2024, time.April, 30)
	jobs[0].Deadline = &far
	layout = Build(win, KindAssembly, testTeams, jobs, cal, date(2024, time.March, 5))
	require.Equal(t, 92.0, *layout.Lanes[0].Jobs[0].DeadlinePct)
}

func TestBuildDeadlineChipStatus(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2)
	now := date(2024, time.March, 4) // Monday

	farOut := date(2024, time.March, 29)  // 19 business days out
	closeBy := date(2024, time.March, 15) // 9 business days out
	missed := date(2024, time.March, 1)   // last Friday

	jobs := []Job{
		{ID: "j1", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 5), DurationDays: 2, Deadline: &farOut},
		{ID: "j2", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 6), DurationDays: 2, Deadline: &closeBy},
		{ID: "j3", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 7), DurationDays: 2, Deadline: &missed},
		{ID: "j4", Kind: KindAssembly, TeamID: "t1", Start: date(2024, time.March, 8), DurationDays: 2},
	}
	layout := Build(win, KindAssembly, testTeams, jobs, cal, now)

	statuses := map[string]string{}
	for _, job := range layout.Lanes[0].Jobs {
		statuses[job.ID] = job.DeadlineStatus
	}
	require.Equal(t, "on_track", statuses["j1"])
	require.Equal(t, "at_risk", statuses["j2"])
	require.Equal(t, "overdue", statuses["j3"])
	require.Empty(t, statuses["j4"]) // no deadline, no chip
}

func TestBuildTodayMarker(t *testing.T) {
	cal := calendar.Default()
	win := NewWindow(date(2024, time.March, 4), 2)

	layout := Build(win, KindAssembly, testTeams, nil, cal, date(2024, time.March, 8))
	require.InDelta(t, 4*100.0/17.0, layout.TodayPct, 1e-9)
}

// Package schedule places time-boxed work items (assembly jobs, assistance
// visits) on a team-partitioned timeline and computes a time-proportional
// layout over a pannable window. It is a pure computation layer: the output
// is renderable data for an external UI, never pixels.
package schedule

import (
	"sort"
	"time"

	"github.com/mobiplan/mobiplan/internal/calendar"
	"github.com/mobiplan/mobiplan/internal/sla"
)

// Kind partitions jobs and teams into the two serviced timelines.
type Kind string

const (
	KindAssembly   Kind = "assembly"
	KindAssistance Kind = "assistance"
)

// UnassignedLane is the row collecting jobs with no team.
const UnassignedLane = "unassigned"

// minWidthPct keeps a zero or sub-pixel bar clickable without touching the
// job's stored duration.
const minWidthPct = 1.0

// deadlineMarkerMaxPct caps the in-bar deadline marker so it never renders
// outside the bar.
const deadlineMarkerMaxPct = 92.0

// deadlineChipWindow is the remaining-days threshold for the deadline chip;
// wider than the SLA report's window because assembly deadlines are watched
// weeks out.
const deadlineChipWindow = 15

// Team is the lane descriptor the layout needs from an assembly team.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Job is one schedulable work item. Start is the scheduled date;
// DurationDays is the estimate in business days. Jobs with a zero Start are
// unscheduled and stay off the timeline.
type Job struct {
	ID           string     `json:"id"`
	Kind         Kind       `json:"kind"`
	Label        string     `json:"label"`
	TeamID       string     `json:"team_id,omitempty"`
	Start        time.Time  `json:"start"`
	DurationDays int        `json:"duration_business_days"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// PlacedJob is a job with its computed horizontal geometry, in percent of
// the window width.
type PlacedJob struct {
	Job
	LeftPct        float64  `json:"left_pct"`
	WidthPct       float64  `json:"width_pct"`
	DeadlinePct    *float64 `json:"deadline_pct,omitempty"`
	DeadlineStatus string   `json:"deadline_status,omitempty"`
}

// Lane is one team row of the timeline.
type Lane struct {
	TeamID string      `json:"team_id"`
	Name   string      `json:"name"`
	Color  string      `json:"color,omitempty"`
	Jobs   []PlacedJob `json:"jobs"`
}

// Column is one calendar day of the window, with its derived working-day
// shading flag.
type Column struct {
	Date    time.Time `json:"date"`
	Working bool      `json:"working"`
	LeftPct float64   `json:"left_pct"`
}

// Layout is the full renderable timeline.
type Layout struct {
	Window      Window   `json:"window"`
	Lanes       []Lane   `json:"lanes"`
	Columns     []Column `json:"columns"`
	TodayPct    float64  `json:"today_pct"`
	Unscheduled []Job    `json:"unscheduled,omitempty"`
}

// Build computes the timeline layout for one kind of work. Teams must
// already be filtered to those servicing the kind; they become lanes in the
// given order. Jobs overlapping within a lane are allowed and simply
// overlap visually. The unassigned lane is always present for assembly and
// only shown when occupied for assistance.
func Build(win Window, kind Kind, teams []Team, jobs []Job, cal *calendar.Calendar, now time.Time) Layout {
	layout := Layout{
		Window:   win,
		TodayPct: win.OffsetPct(now),
	}

	layout.Columns = make([]Column, 0, win.TotalDays())
	for i := 0; i < win.TotalDays(); i++ {
		day := win.Start().AddDate(0, 0, i)
		layout.Columns = append(layout.Columns, Column{
			Date:    day,
			Working: cal.IsBusinessDay(day),
			LeftPct: win.OffsetPct(day),
		})
	}

	byTeam := make(map[string][]PlacedJob)
	var unassigned []PlacedJob
	for _, job := range jobs {
		if job.Kind != kind {
			continue
		}
		if job.Start.IsZero() {
			layout.Unscheduled = append(layout.Unscheduled, job)
			continue
		}
		placed := place(win, job, cal, now)
		if job.TeamID == "" {
			unassigned = append(unassigned, placed)
			continue
		}
		byTeam[job.TeamID] = append(byTeam[job.TeamID], placed)
	}

	for _, team := range teams {
		layout.Lanes = append(layout.Lanes, Lane{
			TeamID: team.ID,
			Name:   team.Name,
			Color:  team.Color,
			Jobs:   sortByStart(byTeam[team.ID]),
		})
	}
	if kind == KindAssembly || len(unassigned) > 0 {
		layout.Lanes = append(layout.Lanes, Lane{
			TeamID: UnassignedLane,
			Name:   "Unassigned",
			Jobs:   sortByStart(unassigned),
		})
	}

	return layout
}

// place computes one job's geometry. The business-day duration is converted
// to a calendar-day span by walking the estimate forward through the
// calendar, so weekends and holidays crossed by the job still occupy visual
// width while the estimate itself stays in business days.
func place(win Window, job Job, cal *calendar.Calendar, now time.Time) PlacedJob {
	left := win.OffsetPct(job.Start)

	spanDays := job.DurationDays
	if end, err := cal.AddBusinessDays(job.Start, job.DurationDays); err == nil {
		spanDays = calendar.CalendarDaysBetween(job.Start, end)
	}
	width := float64(spanDays) / float64(win.TotalDays()) * 100
	if width < minWidthPct {
		width = minWidthPct
	}
	if max := 100 - left; width > max {
		width = max
		if width < 0 {
			width = 0
		}
	}

	placed := PlacedJob{Job: job, LeftPct: left, WidthPct: width}
	if job.Deadline != nil {
		placed.DeadlineStatus = string(sla.Classify(cal.BusinessDaysBetween(now, *job.Deadline), deadlineChipWindow))
	}
	if job.Deadline != nil && width > 0 {
		// Marker offset is relative to the bar's own geometry so it stays
		// put when the bar itself is scrolled.
		pct := (win.OffsetPct(*job.Deadline) - left) / width * 100
		if pct < 0 {
			pct = 0
		}
		if pct > deadlineMarkerMaxPct {
			pct = deadlineMarkerMaxPct
		}
		placed.DeadlinePct = &pct
	}
	return placed
}

func sortByStart(jobs []PlacedJob) []PlacedJob {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Start.Before(jobs[j].Start)
	})
	return jobs
}

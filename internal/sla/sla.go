// Package sla derives deadlines and urgency classifications from a
// reference timestamp, a duration in business days and a calendar. The same
// primitive serves workflow batches (reference = entry into the current
// step) and assistance tickets (reference = creation).
package sla

import (
	"time"

	"github.com/mobiplan/mobiplan/internal/calendar"
)

// Status classifies how a deadline relates to now.
type Status string

const (
	StatusOnTrack Status = "on_track"
	StatusAtRisk  Status = "at_risk"
	StatusOverdue Status = "overdue"
)

// DefaultAtRiskWindow is the remaining-days threshold at or under which a
// deadline counts as at risk.
const DefaultAtRiskWindow = 2

// Report is the result of tracking one deadline.
type Report struct {
	Deadline  time.Time `json:"deadline"`
	Remaining int       `json:"remaining_business_days"`
	Status    Status    `json:"status"`
}

// Track computes the deadline for a reference date plus a business-day SLA,
// and the signed count of business days remaining at now. Remaining is
// negative once the deadline has been missed; presentation layers pick
// their own thresholds over that signed value.
func Track(reference time.Time, businessDays int, cal *calendar.Calendar, now time.Time) (Report, error) {
	deadline, err := cal.AddBusinessDays(reference, businessDays)
	if err != nil {
		return Report{}, err
	}
	remaining := cal.BusinessDaysBetween(now, deadline)
	return Report{
		Deadline:  deadline,
		Remaining: remaining,
		Status:    Classify(remaining, DefaultAtRiskWindow),
	}, nil
}

// Classify maps signed remaining business days to a status. Remaining below
// zero is overdue, zero through atRiskWindow is at risk, above is on track.
func Classify(remaining, atRiskWindow int) Status {
	switch {
	case remaining < 0:
		return StatusOverdue
	case remaining <= atRiskWindow:
		return StatusAtRisk
	default:
		return StatusOnTrack
	}
}

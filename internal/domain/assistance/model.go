package assistance

import "time"

// Status is one sub-step of a ticket's fixed progression. Tickets only
// move forward through StatusOrder and terminate at closed.
type Status string

const (
	StatusOpen       Status = "open"
	StatusEvaluation Status = "evaluation"
	StatusScheduled  Status = "scheduled"
	StatusInService  Status = "in_service"
	StatusClosed     Status = "closed"
)

// StatusOrder is the fixed progression of ticket sub-steps.
var StatusOrder = []Status{StatusOpen, StatusEvaluation, StatusScheduled, StatusInService, StatusClosed}

// Priority of a ticket.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// DefaultSLADays is the cumulative business-day SLA from ticket creation,
// unless overridden per ticket.
const DefaultSLADays = 31

// Ticket is a technical-assistance work item. It references the workflow
// world by project and batch id but lives outside the batch state machine.
type Ticket struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenant_id"`
	ProjectID     string     `json:"project_id"`
	BatchID       *string    `json:"batch_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Priority      Priority   `json:"priority"`
	Status        Status     `json:"status"`
	TeamID        *string    `json:"team_id,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	EstimatedDays *int       `json:"estimated_days,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SLADays is the ticket's effective SLA in business days.
func (t *Ticket) SLADays() int {
	if t.EstimatedDays != nil && *t.EstimatedDays > 0 {
		return *t.EstimatedDays
	}
	return DefaultSLADays
}

// NextStatus returns the following sub-step, or false at closed.
func NextStatus(current Status) (Status, bool) {
	for i, st := range StatusOrder {
		if st == current && i+1 < len(StatusOrder) {
			return StatusOrder[i+1], true
		}
	}
	return "", false
}

package batch

import "time"

// AssemblyStatus is the tagged state of a batch's assembly schedule. The
// status carries its own date requirements: NoForecast holds no dates,
// Forecast a tentative date, Scheduled a firm date and team, Done is final
// and holds no dates either.
type AssemblyStatus string

const (
	AssemblyNoForecast AssemblyStatus = "no_forecast"
	AssemblyForecast   AssemblyStatus = "forecast"
	AssemblyScheduled  AssemblyStatus = "scheduled"
	AssemblyDone       AssemblyStatus = "done"
)

// AssemblySchedule is the scheduling sub-record of a batch.
type AssemblySchedule struct {
	Status        AssemblyStatus `json:"status"`
	ForecastDate  *time.Time     `json:"forecast_date,omitempty"`
	ScheduledDate *time.Time     `json:"scheduled_date,omitempty"`
	EstimatedDays int            `json:"estimated_days,omitempty"`
	TeamID        *string        `json:"team_id,omitempty"`
	Notes         string         `json:"notes,omitempty"`
}

// estimatedDaysPerEnvironment is the default assembly estimate when none is
// given: three business days per environment in scope.
const estimatedDaysPerEnvironment = 3

// Batch is a unit of a project's work scoped to a subset of environments,
// sitting at exactly one workflow step at a time. LastUpdated marks entry
// into the current phase and is the SLA reference point; it is reset on
// every phase transition, as is the price-confirmation stamp.
type Batch struct {
	ID                string           `json:"id"`
	TenantID          string           `json:"tenant_id"`
	ProjectID         string           `json:"project_id"`
	EnvironmentIDs    []string         `json:"environment_ids"`
	Phase             string           `json:"phase"`
	LastUpdated       time.Time        `json:"last_updated"`
	PricesConfirmedAt *time.Time       `json:"prices_confirmed_at,omitempty"`
	Assembly          AssemblySchedule `json:"assembly"`
	AssemblyDeadline  *time.Time       `json:"assembly_deadline,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// HasEnvironment reports whether the environment is in the batch's scope.
func (b *Batch) HasEnvironment(id string) bool {
	for _, envID := range b.EnvironmentIDs {
		if envID == id {
			return true
		}
	}
	return false
}

// DefaultEstimatedDays is the assembly estimate derived from scope size.
func (b *Batch) DefaultEstimatedDays() int {
	return len(b.EnvironmentIDs) * estimatedDaysPerEnvironment
}

package note

import "time"

// Kind distinguishes manual notes from system-recorded pipeline events.
type Kind string

const (
	KindManual            Kind = "manual"
	KindPhaseChange       Kind = "phase_change"
	KindSplit             Kind = "split"
	KindLoss              Kind = "loss"
	KindReactivation      Kind = "reactivation"
	KindPriceConfirmation Kind = "price_confirmation"
	KindAssemblySchedule  Kind = "assembly_schedule"
)

// Note is one entry of a project's append-only audit trail.
type Note struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ProjectID string    `json:"project_id"`
	BatchID   *string   `json:"batch_id,omitempty"`
	Kind      Kind      `json:"kind"`
	Author    string    `json:"author,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

package mcp

import (
	"github.com/mobiplan/mobiplan/internal/domain/assistance"
	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/domain/team"
	"github.com/mobiplan/mobiplan/internal/schedule"
	"github.com/mobiplan/mobiplan/internal/sla"
	"github.com/mobiplan/mobiplan/internal/workflow"
)

// Dates cross the wire as ISO strings ("2006-01-02").

type EnvironmentInput struct {
	Name           string  `json:"name" jsonschema:"environment name, e.g. Kitchen"`
	EstimatedValue float64 `json:"estimated_value,omitempty" jsonschema:"estimated value in BRL"`
}

type CreateProjectParams struct {
	ClientName    string             `json:"client_name" jsonschema:"client's full name"`
	ClientPhone   string             `json:"client_phone,omitempty" jsonschema:"phone in E.164 form, used for schedule notifications"`
	ClientEmail   string             `json:"client_email,omitempty"`
	ClientAddress string             `json:"client_address,omitempty"`
	Briefing      string             `json:"briefing,omitempty" jsonschema:"free-form briefing notes"`
	BudgetTarget  float64            `json:"budget_target,omitempty"`
	Environments  []EnvironmentInput `json:"environments" jsonschema:"rooms or areas in scope, at least one"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type ListProjectsParams struct{}

type ListProjectsResult struct {
	Projects []project.Summary `json:"projects"`
}

type ProjectOverviewParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

// BatchOverview pairs a batch with its current-step SLA report. SLA is
// omitted for terminal batches.
type BatchOverview struct {
	batch.Batch
	SLA *sla.Report `json:"sla,omitempty"`
}

type ProjectOverviewResult struct {
	Project     *project.Project    `json:"project"`
	Batches     []BatchOverview     `json:"batches"`
	OpenTickets []assistance.Ticket `json:"open_tickets,omitempty"`
}

type AddNoteParams struct {
	ProjectID string  `json:"project_id"`
	BatchID   *string `json:"batch_id,omitempty" jsonschema:"attach the note to a specific batch"`
	Author    string  `json:"author,omitempty"`
	Body      string  `json:"body"`
}

type ListNotesParams struct {
	ProjectID string      `json:"project_id"`
	BatchID   *string     `json:"batch_id,omitempty"`
	Kinds     []note.Kind `json:"kinds,omitempty" jsonschema:"filter by note kind"`
	Limit     int         `json:"limit,omitempty"`
	Offset    int         `json:"offset,omitempty"`
}

type ListNotesResult struct {
	Notes []note.Note `json:"notes"`
}

type GetBatchParams struct {
	ID string `json:"id" jsonschema:"batch ID"`
}

type ListBatchesParams struct {
	ProjectID        string                 `json:"project_id,omitempty" jsonschema:"restrict to one project"`
	Phases           []string               `json:"phases,omitempty" jsonschema:"filter by workflow step IDs"`
	AssemblyStatuses []batch.AssemblyStatus `json:"assembly_statuses,omitempty"`
	Limit            int                    `json:"limit,omitempty"`
	Offset           int                    `json:"offset,omitempty"`
}

type ListBatchesResult struct {
	Batches []batch.Batch `json:"batches"`
}

type AdvanceBatchParams struct {
	ID string `json:"id" jsonschema:"batch ID"`
}

type DecideBatchParams struct {
	ID         string `json:"id" jsonschema:"batch ID"`
	TargetStep string `json:"target_step" jsonschema:"the chosen branch option's target step ID"`
}

type MoveBatchParams struct {
	ID         string `json:"id" jsonschema:"batch ID"`
	TargetStep string `json:"target_step" jsonschema:"any workflow step ID"`
}

type ConfirmPricesParams struct {
	ID     string             `json:"id" jsonschema:"batch ID"`
	Values map[string]float64 `json:"values" jsonschema:"confirmed value per environment ID, must cover the batch's full scope"`
}

type SplitBatchParams struct {
	ID             string   `json:"id" jsonschema:"source batch ID"`
	EnvironmentIDs []string `json:"environment_ids" jsonschema:"environments that move to the new batch"`
}

type MarkLostParams struct {
	ProjectID string `json:"project_id"`
	Reason    string `json:"reason" jsonschema:"why the client was lost, recorded on the audit trail"`
}

type ReactivateParams struct {
	ProjectID string `json:"project_id"`
}

type BatchesResult struct {
	Batches []batch.Batch `json:"batches"`
}

type BatchSLAParams struct {
	ID string `json:"id" jsonschema:"batch ID"`
}

type SLAResult struct {
	Report sla.Report `json:"report"`
}

type ListWorkflowStepsParams struct{}

type ListWorkflowStepsResult struct {
	Steps []workflow.Step `json:"steps"`
}

type CreateTeamParams struct {
	Name         string             `json:"name"`
	Color        string             `json:"color" jsonschema:"palette color key: blue, green, orange, purple, red, teal, amber, slate"`
	Members      []string           `json:"members,omitempty"`
	ServiceTypes []team.ServiceType `json:"service_types,omitempty" jsonschema:"assembly and/or assistance; empty means assembly-only"`
}

type UpdateTeamParams struct {
	ID           string             `json:"id"`
	Name         *string            `json:"name,omitempty"`
	Color        *string            `json:"color,omitempty"`
	Members      []string           `json:"members,omitempty"`
	ServiceTypes []team.ServiceType `json:"service_types,omitempty"`
}

type ListTeamsParams struct {
	ServiceType team.ServiceType `json:"service_type,omitempty" jsonschema:"restrict to teams serving one timeline"`
}

type ListTeamsResult struct {
	Teams []team.Team `json:"teams"`
}

type DeleteTeamParams struct {
	ID string `json:"id"`
}

type DeleteTeamResult struct {
	Deleted bool `json:"deleted"`
}

type SetForecastParams struct {
	ID            string `json:"id" jsonschema:"batch ID"`
	Date          string `json:"date" jsonschema:"tentative assembly date, 2006-01-02"`
	EstimatedDays int    `json:"estimated_days,omitempty" jsonschema:"assembly estimate in business days; defaults from scope size"`
}

type ScheduleAssemblyParams struct {
	ID            string `json:"id" jsonschema:"batch ID"`
	TeamID        string `json:"team_id"`
	Date          string `json:"date" jsonschema:"firm assembly date, 2006-01-02"`
	EstimatedDays int    `json:"estimated_days,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type CompleteAssemblyParams struct {
	ID string `json:"id" jsonschema:"batch ID"`
}

type ClearScheduleParams struct {
	ID string `json:"id" jsonschema:"batch ID"`
}

type TimelineParams struct {
	Anchor string `json:"anchor,omitempty" jsonschema:"window anchor date, 2006-01-02; defaults to today"`
	Weeks  int    `json:"weeks,omitempty" jsonschema:"nominal window width in weeks, default 2"`
}

type TimelineResult struct {
	Layout schedule.Layout `json:"layout"`
}

type CreateTicketParams struct {
	ProjectID     string              `json:"project_id"`
	BatchID       *string             `json:"batch_id,omitempty"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	Priority      assistance.Priority `json:"priority,omitempty" jsonschema:"normal or urgent, default normal"`
	EstimatedDays *int                `json:"estimated_days,omitempty" jsonschema:"overrides the default ticket SLA"`
}

type GetTicketParams struct {
	ID string `json:"id" jsonschema:"ticket ID"`
}

type TicketSLAParams struct {
	ID string `json:"id" jsonschema:"ticket ID"`
}

type AdvanceTicketParams struct {
	ID string `json:"id" jsonschema:"ticket ID"`
}

type ScheduleTicketParams struct {
	ID            string `json:"id" jsonschema:"ticket ID"`
	TeamID        string `json:"team_id"`
	Date          string `json:"date" jsonschema:"visit date, 2006-01-02"`
	EstimatedDays *int   `json:"estimated_days,omitempty"`
}

type ListTicketsParams struct {
	ProjectID  string                `json:"project_id,omitempty"`
	Statuses   []assistance.Status   `json:"statuses,omitempty"`
	Priorities []assistance.Priority `json:"priorities,omitempty"`
	Limit      int                   `json:"limit,omitempty"`
	Offset     int                   `json:"offset,omitempty"`
}

type ListTicketsResult struct {
	Tickets []assistance.Ticket `json:"tickets"`
}

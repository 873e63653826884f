package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `mobiplan coordinates a custom furniture pipeline: Projects → Batches → Teams.

Core concepts:
- Project: one client engagement holding environments (rooms/areas), each independently priced with an append-only value history.
- Batch: a unit of work scoped to a subset of environments, sitting at exactly one workflow step. A project starts with one batch covering everything; split_batch carves off environments that move at a different pace.
- Workflow: a fixed step graph ("1.1" First contact through "9.1" Closure, plus the completed/lost terminals). Most steps have one successor (advance_batch); branching steps need decide_batch.
- SLA: each step carries a business-day budget counted from the batch's last phase change, holiday-aware. batch_sla reports the signed remaining count; negative means overdue.
- Assembly: batches get a forecast date, then a firm schedule bound to a team, then completion. schedule_assembly derives the completion deadline from the business-day estimate.
- Assistance: post-delivery tickets with their own fixed sub-steps and a cumulative SLA from creation.

Rules of engagement:
1) Orient: list_projects, then get_project / list_batches for detail.
2) Progress work: advance_batch for linear steps; decide_batch where the step branches; move_batch only for corrections.
3) Budgeting gate: a batch cannot leave step 2.3 until confirm_prices has covered its full scope.
4) Scheduling: set_assembly_forecast → schedule_assembly → complete_assembly; assembly_timeline / assistance_timeline return renderable layouts.
5) Losing and recovering clients: mark_lost records the reason; reactivate_project restarts lost batches at the first step.

Dates cross the wire as "2006-01-02" strings. All mutations are recorded on the project audit trail (list_notes).

Docs (progressive disclosure):
- mobiplan://docs/workflow (the step graph and its gates)
- mobiplan://docs/scheduling (timelines, windows, deadlines)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "mobiplan://docs/workflow",
		Name:        "docs_workflow",
		Title:       "Workflow guide",
		Description: "The step graph, how batches move through it, and the budgeting gate.",
		Content: `# Workflow guide

Batches move through a fixed graph of steps, grouped into stages (1 contact … 9 closure). Use ` + "`list_workflow_steps`" + ` for the authoritative list.

## Moving batches

- ` + "`advance_batch`" + `: follows the step's single successor. Rejected on branching steps.
- ` + "`decide_batch`" + `: picks one of a branching step's options (e.g. budgeting approval vs. revision).
- ` + "`move_batch`" + `: jumps anywhere. Reserved for corrections; it still stamps the phase change.

Every phase change resets the batch's SLA clock and clears any price confirmation.

## The budgeting gate

Step 2.3 (Budgeting) cannot be left — by advance or decide — until ` + "`confirm_prices`" + ` has recorded a value for every environment in the batch's scope. Confirmations append to each environment's value history; old values are never rewritten.

## Splitting

` + "`split_batch`" + ` moves chosen environments into a new batch at the same phase. The two scopes partition the original exactly. Selecting the full scope replaces the batch.

## Losing and recovering

` + "`mark_lost`" + ` sends all non-terminal batches of a project to the lost terminal with a recorded reason. ` + "`reactivate_project`" + ` restarts the lost ones at the first step.
`,
	},
	{
		URI:         "mobiplan://docs/scheduling",
		Name:        "docs_scheduling",
		Title:       "Scheduling guide",
		Description: "Assembly and assistance timelines: windows, lanes, bars, deadlines.",
		Content: `# Scheduling guide

## Assembly lifecycle

1. ` + "`set_assembly_forecast`" + `: tentative date, no team. The batch appears on the timeline's unassigned lane.
2. ` + "`schedule_assembly`" + `: firm date + team. The completion deadline is the date plus the business-day estimate (default: three days per environment).
3. ` + "`complete_assembly`" + ` or ` + "`clear_assembly_schedule`" + `.

Scheduling notifies the client over the configured channel; a notification failure never rolls back the schedule.

## Timeline layouts

` + "`assembly_timeline`" + ` and ` + "`assistance_timeline`" + ` return renderable data, not pixels:

- The window is anchor + weeks, rendered 20% wider than asked for.
- One lane per serving team; an unassigned lane collects teamless jobs (always present for assembly, only when occupied for assistance).
- Bars span the calendar days their business-day estimate covers, so weekends and holidays widen them. Sub-pixel bars are floored to stay clickable.
- Each bar carries its deadline marker as a percentage within the bar, capped so it never renders outside.
- Jobs without a date sit in the unscheduled queue below the grid.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

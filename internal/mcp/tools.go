package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mobiplan/mobiplan/internal/domain/assistance"
	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/domain/team"
	"github.com/mobiplan/mobiplan/internal/schedule"
)

const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &APIError{Code: "INVALID_ARGUMENT", Message: fmt.Sprintf("invalid date %q, expected %s", value, dateLayout)}
	}
	return t, nil
}

// registerTools wires every tool onto the server. Handlers read the tenant
// from the request context, call the domain service, and map domain errors
// to API codes.
func registerTools(server *sdkmcp.Server, cfg Config) {
	svcs := cfg.Services

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project with its client and environment scope; an initial batch covering all environments starts at the workflow's first step",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, *project.CreateResult, error) {
		envs := make([]project.EnvironmentInput, 0, len(in.Environments))
		for _, env := range in.Environments {
			envs = append(envs, project.EnvironmentInput{Name: env.Name, EstimatedValue: env.EstimatedValue})
		}
		result, err := svcs.Projects.Create(ctx, getTenantID(ctx), project.CreateRequest{
			Client: project.Client{
				Name:         in.ClientName,
				Phone:        in.ClientPhone,
				Email:        in.ClientEmail,
				Address:      in.ClientAddress,
				Briefing:     in.Briefing,
				BudgetTarget: in.BudgetTarget,
			},
			Environments: envs,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, result, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its environments and confirmed price history",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := svcs.Projects.Get(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, proj, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with environment, batch, and value summaries",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, *ListProjectsResult, error) {
		summaries, err := svcs.Projects.List(ctx, getTenantID(ctx))
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &ListProjectsResult{Projects: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_overview",
		Description: "Get a project with all its batches (current step and SLA status each) and open assistance tickets",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ProjectOverviewParams) (*sdkmcp.CallToolResult, *ProjectOverviewResult, error) {
		tenantID := getTenantID(ctx)
		proj, err := svcs.Projects.Get(ctx, tenantID, in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		batches, err := svcs.Batches.ListByProject(ctx, tenantID, in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		now := time.Now()
		overviews := make([]BatchOverview, 0, len(batches))
		for _, b := range batches {
			ov := BatchOverview{Batch: b}
			if !cfg.Graph.IsTerminal(b.Phase) {
				report, err := svcs.Batches.SLAStatus(ctx, tenantID, b.ID, now)
				if err != nil {
					return nil, nil, MapError(err)
				}
				ov.SLA = &report
			}
			overviews = append(overviews, ov)
		}
		tickets, err := svcs.Assistance.List(ctx, tenantID, assistance.ListOptions{
			ProjectID: in.ID,
			Statuses: []assistance.Status{
				assistance.StatusOpen, assistance.StatusEvaluation,
				assistance.StatusScheduled, assistance.StatusInService,
			},
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &ProjectOverviewResult{Project: proj, Batches: overviews, OpenTickets: tickets}, nil
	})

	// Audit trail
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_note",
		Description: "Add a manual note to a project's audit trail, optionally attached to a batch",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in AddNoteParams) (*sdkmcp.CallToolResult, *note.Note, error) {
		n, err := svcs.Notes.Append(ctx, getTenantID(ctx), in.ProjectID, in.Author, in.Body, in.BatchID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, n, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_notes",
		Description: "List a project's audit trail, newest first; covers manual notes and recorded pipeline events",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ListNotesParams) (*sdkmcp.CallToolResult, *ListNotesResult, error) {
		notes, err := svcs.Notes.List(ctx, getTenantID(ctx), note.ListOptions{
			ProjectID: in.ProjectID,
			BatchID:   in.BatchID,
			Kinds:     in.Kinds,
			Limit:     in.Limit,
			Offset:    in.Offset,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &ListNotesResult{Notes: notes}, nil
	})

	// Batch lifecycle
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_batch",
		Description: "Get a batch with its phase, scope, and assembly schedule",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetBatchParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		b, err := svcs.Batches.Get(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_batches",
		Description: "List batches, optionally restricted to one project or filtered by phase and assembly status",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ListBatchesParams) (*sdkmcp.CallToolResult, *ListBatchesResult, error) {
		tenantID := getTenantID(ctx)
		var batches []batch.Batch
		var err error
		if in.ProjectID != "" && len(in.Phases) == 0 && len(in.AssemblyStatuses) == 0 {
			batches, err = svcs.Batches.ListByProject(ctx, tenantID, in.ProjectID)
		} else {
			batches, err = svcs.Batches.List(ctx, tenantID, batch.ListOptions{
				Phases:           in.Phases,
				AssemblyStatuses: in.AssemblyStatuses,
				Limit:            in.Limit,
				Offset:           in.Offset,
			})
			if err == nil && in.ProjectID != "" {
				filtered := batches[:0]
				for _, b := range batches {
					if b.ProjectID == in.ProjectID {
						filtered = append(filtered, b)
					}
				}
				batches = filtered
			}
		}
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &ListBatchesResult{Batches: batches}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "advance_batch",
		Description: "Move a batch to its single successor step; fails when the current step branches or when budgeting prices are unconfirmed",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in AdvanceBatchParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		b, err := svcs.Batches.Advance(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "decide_batch",
		Description: "Resolve a branching step by choosing one of its options' target steps",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in DecideBatchParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		b, err := svcs.Batches.Decide(ctx, getTenantID(ctx), in.ID, in.TargetStep)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_batch",
		Description: "Move a batch to any workflow step, outside the normal progression",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in MoveBatchParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		b, err := svcs.Batches.MoveToStep(ctx, getTenantID(ctx), in.ID, in.TargetStep)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "confirm_prices",
		Description: "Confirm prices for every environment in a batch's scope, appending to each environment's value history and unlocking the budgeting step",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ConfirmPricesParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		b, err := svcs.Batches.ConfirmPrices(ctx, getTenantID(ctx), in.ID, in.Values)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "split_batch",
		Description: "Move a subset of a batch's environments into a new batch at the same phase",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in SplitBatchParams) (*sdkmcp.CallToolResult, *batch.SplitResult, error) {
		result, err := svcs.Batches.Split(ctx, getTenantID(ctx), batch.SplitRequest{
			BatchID:        in.ID,
			EnvironmentIDs: in.EnvironmentIDs,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, result, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "mark_lost",
		Description: "Mark a project as lost: all its non-terminal batches move to the lost step and the reason is recorded",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in MarkLostParams) (*sdkmcp.CallToolResult, *BatchesResult, error) {
		batches, err := svcs.Batches.MarkLost(ctx, getTenantID(ctx), in.ProjectID, in.Reason)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &BatchesResult{Batches: batches}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reactivate_project",
		Description: "Bring a lost project back: its lost batches return to the workflow's first step",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ReactivateParams) (*sdkmcp.CallToolResult, *BatchesResult, error) {
		batches, err := svcs.Batches.Reactivate(ctx, getTenantID(ctx), in.ProjectID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &BatchesResult{Batches: batches}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "batch_sla",
		Description: "Report a batch's current-step SLA: deadline, signed business days remaining, and status",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in BatchSLAParams) (*sdkmcp.CallToolResult, *SLAResult, error) {
		report, err := svcs.Batches.SLAStatus(ctx, getTenantID(ctx), in.ID, time.Now())
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &SLAResult{Report: report}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_workflow_steps",
		Description: "List the workflow's steps in order, with stages, roles, SLAs, and branch options",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ListWorkflowStepsParams) (*sdkmcp.CallToolResult, *ListWorkflowStepsResult, error) {
		return nil, &ListWorkflowStepsResult{Steps: cfg.Graph.Steps()}, nil
	})

	// Teams
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_team",
		Description: "Create a field team with a palette color and the timelines it serves",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateTeamParams) (*sdkmcp.CallToolResult, *team.Team, error) {
		t, err := svcs.Teams.Create(ctx, getTenantID(ctx), team.CreateRequest{
			Name:         in.Name,
			Color:        in.Color,
			Members:      in.Members,
			ServiceTypes: in.ServiceTypes,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, t, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_team",
		Description: "Update a team's name, color, members, or service types",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in UpdateTeamParams) (*sdkmcp.CallToolResult, *team.Team, error) {
		t, err := svcs.Teams.Update(ctx, getTenantID(ctx), team.UpdateRequest{
			ID:           in.ID,
			Name:         in.Name,
			Color:        in.Color,
			Members:      in.Members,
			ServiceTypes: in.ServiceTypes,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, t, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_teams",
		Description: "List teams, optionally only those serving one timeline",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ListTeamsParams) (*sdkmcp.CallToolResult, *ListTeamsResult, error) {
		tenantID := getTenantID(ctx)
		var teams []team.Team
		var err error
		if in.ServiceType != "" {
			teams, err = svcs.Teams.ListServing(ctx, tenantID, in.ServiceType)
		} else {
			teams, err = svcs.Teams.List(ctx, tenantID)
		}
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &ListTeamsResult{Teams: teams}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_team",
		Description: "Delete a team; fails while a scheduled batch or ticket still references it",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in DeleteTeamParams) (*sdkmcp.CallToolResult, *DeleteTeamResult, error) {
		if err := svcs.Teams.Delete(ctx, getTenantID(ctx), in.ID); err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &DeleteTeamResult{Deleted: true}, nil
	})

	// Assembly scheduling
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_assembly_forecast",
		Description: "Record a tentative assembly date for a batch, without binding a team",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in SetForecastParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		date, err := parseDate(in.Date)
		if err != nil {
			return nil, nil, err
		}
		b, err := svcs.Batches.SetForecast(ctx, getTenantID(ctx), in.ID, date, in.EstimatedDays)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "schedule_assembly",
		Description: "Bind a batch's assembly to a team on a firm date; the completion deadline follows from the business-day estimate and the client is notified",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ScheduleAssemblyParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		date, err := parseDate(in.Date)
		if err != nil {
			return nil, nil, err
		}
		b, err := svcs.Batches.Schedule(ctx, getTenantID(ctx), batch.ScheduleRequest{
			BatchID:       in.ID,
			TeamID:        in.TeamID,
			Date:          date,
			EstimatedDays: in.EstimatedDays,
			Notes:         in.Notes,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_assembly",
		Description: "Mark a scheduled assembly as done",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in CompleteAssemblyParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		b, err := svcs.Batches.CompleteAssembly(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_assembly_schedule",
		Description: "Drop a batch's assembly forecast or schedule, returning it to the unscheduled queue",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ClearScheduleParams) (*sdkmcp.CallToolResult, *batch.Batch, error) {
		b, err := svcs.Batches.ClearSchedule(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, b, nil
	})

	// Timelines
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assembly_timeline",
		Description: "Compute the assembly timeline layout: one lane per assembly team plus an unassigned lane, bars sized by calendar span, deadline markers, and the unscheduled queue",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in TimelineParams) (*sdkmcp.CallToolResult, *TimelineResult, error) {
		layout, err := buildAssemblyTimeline(ctx, cfg, in)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &TimelineResult{Layout: *layout}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assistance_timeline",
		Description: "Compute the assistance timeline layout over scheduled ticket visits; the unassigned lane appears only when occupied",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in TimelineParams) (*sdkmcp.CallToolResult, *TimelineResult, error) {
		layout, err := buildAssistanceTimeline(ctx, cfg, in)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &TimelineResult{Layout: *layout}, nil
	})

	// Assistance tickets
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_ticket",
		Description: "Open a technical-assistance ticket on a project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateTicketParams) (*sdkmcp.CallToolResult, *assistance.Ticket, error) {
		t, err := svcs.Assistance.Create(ctx, getTenantID(ctx), assistance.CreateRequest{
			ProjectID:     in.ProjectID,
			BatchID:       in.BatchID,
			Title:         in.Title,
			Description:   in.Description,
			Priority:      in.Priority,
			EstimatedDays: in.EstimatedDays,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, t, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_ticket",
		Description: "Get an assistance ticket",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetTicketParams) (*sdkmcp.CallToolResult, *assistance.Ticket, error) {
		t, err := svcs.Assistance.Get(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, t, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ticket_sla",
		Description: "Report a ticket's cumulative SLA from creation: deadline, signed business days remaining, and status",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in TicketSLAParams) (*sdkmcp.CallToolResult, *SLAResult, error) {
		report, err := svcs.Assistance.SLAStatus(ctx, getTenantID(ctx), in.ID, time.Now())
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &SLAResult{Report: report}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "advance_ticket",
		Description: "Move a ticket to its next sub-step; tickets only move forward",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in AdvanceTicketParams) (*sdkmcp.CallToolResult, *assistance.Ticket, error) {
		t, err := svcs.Assistance.Advance(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, t, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "schedule_ticket",
		Description: "Assign a ticket visit to a team on a date",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ScheduleTicketParams) (*sdkmcp.CallToolResult, *assistance.Ticket, error) {
		date, err := parseDate(in.Date)
		if err != nil {
			return nil, nil, err
		}
		t, err := svcs.Assistance.Schedule(ctx, getTenantID(ctx), assistance.ScheduleRequest{
			TicketID:      in.ID,
			TeamID:        in.TeamID,
			Date:          date,
			EstimatedDays: in.EstimatedDays,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, t, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tickets",
		Description: "List assistance tickets, optionally filtered by project, status, or priority",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ListTicketsParams) (*sdkmcp.CallToolResult, *ListTicketsResult, error) {
		tickets, err := svcs.Assistance.List(ctx, getTenantID(ctx), assistance.ListOptions{
			ProjectID:  in.ProjectID,
			Statuses:   in.Statuses,
			Priorities: in.Priorities,
			Limit:      in.Limit,
			Offset:     in.Offset,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, &ListTicketsResult{Tickets: tickets}, nil
	})
}

func timelineWindow(in TimelineParams) (schedule.Window, error) {
	anchor := time.Now()
	if in.Anchor != "" {
		parsed, err := parseDate(in.Anchor)
		if err != nil {
			return schedule.Window{}, err
		}
		anchor = parsed
	}
	weeks := in.Weeks
	if weeks == 0 {
		weeks = 2
	}
	return schedule.NewWindow(anchor, weeks), nil
}

func buildAssemblyTimeline(ctx context.Context, cfg Config, in TimelineParams) (*schedule.Layout, error) {
	tenantID := getTenantID(ctx)
	win, err := timelineWindow(in)
	if err != nil {
		return nil, err
	}

	teams, err := cfg.Services.Teams.ListServing(ctx, tenantID, team.ServiceAssembly)
	if err != nil {
		return nil, err
	}
	lanes := make([]schedule.Team, 0, len(teams))
	for _, t := range teams {
		lanes = append(lanes, schedule.Team{ID: t.ID, Name: t.Name, Color: t.Color})
	}

	batches, err := cfg.Services.Batches.List(ctx, tenantID, batch.ListOptions{
		AssemblyStatuses: []batch.AssemblyStatus{batch.AssemblyForecast, batch.AssemblyScheduled},
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]schedule.Job, 0, len(batches))
	for _, b := range batches {
		job := schedule.Job{
			ID:           b.ID,
			Kind:         schedule.KindAssembly,
			Label:        fmt.Sprintf("%d environments", len(b.EnvironmentIDs)),
			DurationDays: b.Assembly.EstimatedDays,
			Deadline:     b.AssemblyDeadline,
		}
		if job.DurationDays == 0 {
			job.DurationDays = b.DefaultEstimatedDays()
		}
		switch b.Assembly.Status {
		case batch.AssemblyScheduled:
			if b.Assembly.ScheduledDate != nil {
				job.Start = *b.Assembly.ScheduledDate
			}
			if b.Assembly.TeamID != nil {
				job.TeamID = *b.Assembly.TeamID
			}
		case batch.AssemblyForecast:
			if b.Assembly.ForecastDate != nil {
				job.Start = *b.Assembly.ForecastDate
			}
		}
		jobs = append(jobs, job)
	}

	layout := schedule.Build(win, schedule.KindAssembly, lanes, jobs, cfg.Calendar, time.Now())
	return &layout, nil
}

func buildAssistanceTimeline(ctx context.Context, cfg Config, in TimelineParams) (*schedule.Layout, error) {
	tenantID := getTenantID(ctx)
	win, err := timelineWindow(in)
	if err != nil {
		return nil, err
	}

	teams, err := cfg.Services.Teams.ListServing(ctx, tenantID, team.ServiceAssistance)
	if err != nil {
		return nil, err
	}
	lanes := make([]schedule.Team, 0, len(teams))
	for _, t := range teams {
		lanes = append(lanes, schedule.Team{ID: t.ID, Name: t.Name, Color: t.Color})
	}

	tickets, err := cfg.Services.Assistance.List(ctx, tenantID, assistance.ListOptions{
		Statuses: []assistance.Status{assistance.StatusScheduled, assistance.StatusInService},
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]schedule.Job, 0, len(tickets))
	for _, t := range tickets {
		deadline, err := cfg.Calendar.AddBusinessDays(t.CreatedAt, t.SLADays())
		if err != nil {
			return nil, err
		}
		job := schedule.Job{
			ID:           t.ID,
			Kind:         schedule.KindAssistance,
			Label:        t.Title,
			DurationDays: 1,
			Deadline:     &deadline,
		}
		if t.EstimatedDays != nil && *t.EstimatedDays > 0 {
			job.DurationDays = *t.EstimatedDays
		}
		if t.ScheduledDate != nil {
			job.Start = *t.ScheduledDate
		}
		if t.TeamID != nil {
			job.TeamID = *t.TeamID
		}
		jobs = append(jobs, job)
	}

	layout := schedule.Build(win, schedule.KindAssistance, lanes, jobs, cfg.Calendar, time.Now())
	return &layout, nil
}

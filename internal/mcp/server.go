package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mobiplan/mobiplan/internal/calendar"
	"github.com/mobiplan/mobiplan/internal/domain/assistance"
	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/domain/team"
	"github.com/mobiplan/mobiplan/internal/sla"
	"github.com/mobiplan/mobiplan/internal/workflow"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, tenantID string, req project.CreateRequest) (*project.CreateResult, error)
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
	List(ctx context.Context, tenantID string) ([]project.Summary, error)
}

// BatchService defines batch lifecycle operations needed by MCP.
type BatchService interface {
	Get(ctx context.Context, tenantID, id string) (*batch.Batch, error)
	ListByProject(ctx context.Context, tenantID, projectID string) ([]batch.Batch, error)
	List(ctx context.Context, tenantID string, opts batch.ListOptions) ([]batch.Batch, error)
	Advance(ctx context.Context, tenantID, batchID string) (*batch.Batch, error)
	Decide(ctx context.Context, tenantID, batchID, targetStepID string) (*batch.Batch, error)
	MoveToStep(ctx context.Context, tenantID, batchID, targetStepID string) (*batch.Batch, error)
	ConfirmPrices(ctx context.Context, tenantID, batchID string, values map[string]float64) (*batch.Batch, error)
	Split(ctx context.Context, tenantID string, req batch.SplitRequest) (*batch.SplitResult, error)
	MarkLost(ctx context.Context, tenantID, projectID, reason string) ([]batch.Batch, error)
	Reactivate(ctx context.Context, tenantID, projectID string) ([]batch.Batch, error)
	SLAStatus(ctx context.Context, tenantID, batchID string, now time.Time) (sla.Report, error)
	SetForecast(ctx context.Context, tenantID, batchID string, date time.Time, estimatedDays int) (*batch.Batch, error)
	Schedule(ctx context.Context, tenantID string, req batch.ScheduleRequest) (*batch.Batch, error)
	CompleteAssembly(ctx context.Context, tenantID, batchID string) (*batch.Batch, error)
	ClearSchedule(ctx context.Context, tenantID, batchID string) (*batch.Batch, error)
}

// TeamService defines team operations needed by MCP.
type TeamService interface {
	Create(ctx context.Context, tenantID string, req team.CreateRequest) (*team.Team, error)
	Update(ctx context.Context, tenantID string, req team.UpdateRequest) (*team.Team, error)
	Get(ctx context.Context, tenantID, id string) (*team.Team, error)
	List(ctx context.Context, tenantID string) ([]team.Team, error)
	ListServing(ctx context.Context, tenantID string, st team.ServiceType) ([]team.Team, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// AssistanceService defines assistance ticket operations needed by MCP.
type AssistanceService interface {
	Create(ctx context.Context, tenantID string, req assistance.CreateRequest) (*assistance.Ticket, error)
	Get(ctx context.Context, tenantID, id string) (*assistance.Ticket, error)
	Advance(ctx context.Context, tenantID, id string) (*assistance.Ticket, error)
	Schedule(ctx context.Context, tenantID string, req assistance.ScheduleRequest) (*assistance.Ticket, error)
	List(ctx context.Context, tenantID string, opts assistance.ListOptions) ([]assistance.Ticket, error)
	SLAStatus(ctx context.Context, tenantID, id string, now time.Time) (sla.Report, error)
}

// NoteService defines audit trail operations needed by MCP.
type NoteService interface {
	Append(ctx context.Context, tenantID, projectID, author, body string, batchID *string) (*note.Note, error)
	List(ctx context.Context, tenantID string, opts note.ListOptions) ([]note.Note, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects   ProjectService
	Batches    BatchService
	Teams      TeamService
	Assistance AssistanceService
	Notes      NoteService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Graph         *workflow.Graph
	Calendar      *calendar.Calendar
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "mobiplan",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg)

	return server
}

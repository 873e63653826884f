package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mobiplan/mobiplan/internal/domain/assistance"
	"github.com/mobiplan/mobiplan/internal/repository"
)

// TicketRepository implements assistance.Repository for SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, tenant_id, project_id, batch_id, title, description,
	priority, status, team_id, scheduled_date, estimated_days, created_at, updated_at`

// Create creates a new assistance ticket
func (r *TicketRepository) Create(ctx context.Context, tenantID string, t *assistance.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		tenantID,
		t.ProjectID,
		t.BatchID,
		t.Title,
		t.Description,
		t.Priority,
		t.Status,
		t.TeamID,
		t.ScheduledDate,
		t.EstimatedDays,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// Get retrieves a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, tenantID, id string) (*assistance.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE id = ? AND tenant_id = ?`,
		id, tenantID)

	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return t, nil
}

func scanTicket(row rowScanner) (*assistance.Ticket, error) {
	var t assistance.Ticket
	var batchID, teamID, description sql.NullString
	var scheduled sql.NullTime
	var estimatedDays sql.NullInt64

	err := row.Scan(
		&t.ID,
		&t.TenantID,
		&t.ProjectID,
		&batchID,
		&t.Title,
		&description,
		&t.Priority,
		&t.Status,
		&teamID,
		&scheduled,
		&estimatedDays,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if batchID.Valid {
		t.BatchID = &batchID.String
	}
	if description.Valid {
		t.Description = description.String
	}
	if teamID.Valid {
		t.TeamID = &teamID.String
	}
	if scheduled.Valid {
		t.ScheduledDate = &scheduled.Time
	}
	if estimatedDays.Valid {
		days := int(estimatedDays.Int64)
		t.EstimatedDays = &days
	}

	return &t, nil
}

// Update persists changes to a ticket
func (r *TicketRepository) Update(ctx context.Context, tenantID string, t *assistance.Ticket) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		SET title = ?, description = ?, priority = ?, status = ?, team_id = ?,
			scheduled_date = ?, estimated_days = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?`,
		t.Title,
		t.Description,
		t.Priority,
		t.Status,
		t.TeamID,
		t.ScheduledDate,
		t.EstimatedDays,
		t.UpdatedAt,
		t.ID, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	return requireRow(result)
}

// List returns tickets filtered per options, oldest first
func (r *TicketRepository) List(ctx context.Context, tenantID string, opts assistance.ListOptions) ([]assistance.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE tenant_id = ?`
	args := []any{tenantID}

	if opts.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, opts.ProjectID)
	}
	if len(opts.Statuses) > 0 {
		query += ` AND status IN (` + placeholders(len(opts.Statuses)) + `)`
		for _, s := range opts.Statuses {
			args = append(args, string(s))
		}
	}
	if len(opts.Priorities) > 0 {
		query += ` AND priority IN (` + placeholders(len(opts.Priorities)) + `)`
		for _, p := range opts.Priorities {
			args = append(args, string(p))
		}
	}

	query += ` ORDER BY created_at`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, opts.Limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []assistance.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}

	return tickets, rows.Err()
}

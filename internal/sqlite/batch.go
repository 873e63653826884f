package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/repository"
)

// BatchRepository implements batch.Repository for SQLite
type BatchRepository struct {
	db *DB
}

// NewBatchRepository creates a new BatchRepository
func NewBatchRepository(db *DB) *BatchRepository {
	return &BatchRepository{db: db}
}

const batchColumns = `id, tenant_id, project_id, phase, last_updated, prices_confirmed_at,
	assembly_status, forecast_date, scheduled_date, estimated_days, team_id,
	assembly_notes, assembly_deadline, created_at`

// Create creates a new batch together with its environment scope
func (r *BatchRepository) Create(ctx context.Context, tenantID string, b *batch.Batch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertBatch(ctx, tx, tenantID, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, tenantID string, b *batch.Batch) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO batches (`+batchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		tenantID,
		b.ProjectID,
		b.Phase,
		b.LastUpdated,
		b.PricesConfirmedAt,
		b.Assembly.Status,
		b.Assembly.ForecastDate,
		b.Assembly.ScheduledDate,
		b.Assembly.EstimatedDays,
		b.Assembly.TeamID,
		b.Assembly.Notes,
		b.AssemblyDeadline,
		b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create batch: %w", err)
	}

	return replaceScope(ctx, tx, b.ID, b.EnvironmentIDs)
}

func replaceScope(ctx context.Context, tx *sql.Tx, batchID string, environmentIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM batch_environments WHERE batch_id = ?`, batchID); err != nil {
		return fmt.Errorf("failed to clear batch scope: %w", err)
	}
	for _, envID := range environmentIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO batch_environments (batch_id, environment_id) VALUES (?, ?)`,
			batchID, envID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to add environment to batch: %w", err)
		}
	}
	return nil
}

// Get retrieves a batch by ID
func (r *BatchRepository) Get(ctx context.Context, tenantID, id string) (*batch.Batch, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+batchColumns+` FROM batches
		WHERE id = ? AND tenant_id = ?`,
		id, tenantID)

	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	b.EnvironmentIDs, err = r.scope(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*batch.Batch, error) {
	var b batch.Batch
	var pricesConfirmed, forecast, scheduled, deadline sql.NullTime
	var teamID, notes sql.NullString

	err := row.Scan(
		&b.ID,
		&b.TenantID,
		&b.ProjectID,
		&b.Phase,
		&b.LastUpdated,
		&pricesConfirmed,
		&b.Assembly.Status,
		&forecast,
		&scheduled,
		&b.Assembly.EstimatedDays,
		&teamID,
		&notes,
		&deadline,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pricesConfirmed.Valid {
		b.PricesConfirmedAt = &pricesConfirmed.Time
	}
	if forecast.Valid {
		b.Assembly.ForecastDate = &forecast.Time
	}
	if scheduled.Valid {
		b.Assembly.ScheduledDate = &scheduled.Time
	}
	if deadline.Valid {
		b.AssemblyDeadline = &deadline.Time
	}
	if teamID.Valid {
		b.Assembly.TeamID = &teamID.String
	}
	if notes.Valid {
		b.Assembly.Notes = notes.String
	}

	return &b, nil
}

func (r *BatchRepository) scope(ctx context.Context, batchID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT be.environment_id
		FROM batch_environments be
		JOIN environments e ON e.id = be.environment_id
		WHERE be.batch_id = ?
		ORDER BY e.position`,
		batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch scope: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan environment id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListByProject returns all batches of a project ordered by creation
func (r *BatchRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]batch.Batch, error) {
	return r.list(ctx, `
		SELECT `+batchColumns+` FROM batches
		WHERE tenant_id = ? AND project_id = ?
		ORDER BY created_at`,
		tenantID, projectID)
}

// List returns batches across projects, filtered per options
func (r *BatchRepository) List(ctx context.Context, tenantID string, opts batch.ListOptions) ([]batch.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE tenant_id = ?`
	args := []any{tenantID}

	if len(opts.Phases) > 0 {
		query += ` AND phase IN (` + placeholders(len(opts.Phases)) + `)`
		for _, p := range opts.Phases {
			args = append(args, p)
		}
	}
	if len(opts.AssemblyStatuses) > 0 {
		query += ` AND assembly_status IN (` + placeholders(len(opts.AssemblyStatuses)) + `)`
		for _, s := range opts.AssemblyStatuses {
			args = append(args, string(s))
		}
	}

	query += ` ORDER BY created_at`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, opts.Limit, opts.Offset)
	}

	return r.list(ctx, query, args...)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (r *BatchRepository) list(ctx context.Context, query string, args ...any) ([]batch.Batch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []batch.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range batches {
		batches[i].EnvironmentIDs, err = r.scope(ctx, batches[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return batches, nil
}

// UpdatePhase persists the batch's workflow position and the timestamps
// that travel with it
func (r *BatchRepository) UpdatePhase(ctx context.Context, tenantID string, b *batch.Batch) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE batches
		SET phase = ?, last_updated = ?, prices_confirmed_at = ?
		WHERE id = ? AND tenant_id = ?`,
		b.Phase, b.LastUpdated, b.PricesConfirmedAt, b.ID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update batch phase: %w", err)
	}

	return requireRow(result)
}

// UpdateAssembly persists the batch's assembly schedule and deadline
func (r *BatchRepository) UpdateAssembly(ctx context.Context, tenantID string, b *batch.Batch) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE batches
		SET assembly_status = ?, forecast_date = ?, scheduled_date = ?,
			estimated_days = ?, team_id = ?, assembly_notes = ?, assembly_deadline = ?
		WHERE id = ? AND tenant_id = ?`,
		b.Assembly.Status,
		b.Assembly.ForecastDate,
		b.Assembly.ScheduledDate,
		b.Assembly.EstimatedDays,
		b.Assembly.TeamID,
		b.Assembly.Notes,
		b.AssemblyDeadline,
		b.ID, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update batch assembly: %w", err)
	}

	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Split applies a scope split in one transaction: the created batch is
// inserted, and the source either keeps the remaining scope or is removed
// when nothing remains
func (r *BatchRepository) Split(ctx context.Context, tenantID string, source *batch.Batch, created *batch.Batch, removeSource bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if removeSource {
		if _, err := tx.ExecContext(ctx, `DELETE FROM batch_environments WHERE batch_id = ?`, source.ID); err != nil {
			return fmt.Errorf("failed to clear source scope: %w", err)
		}
		result, err := tx.ExecContext(ctx, `
			DELETE FROM batches WHERE id = ? AND tenant_id = ?`,
			source.ID, tenantID)
		if err != nil {
			return fmt.Errorf("failed to remove source batch: %w", err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
	} else {
		if err := replaceScope(ctx, tx, source.ID, source.EnvironmentIDs); err != nil {
			return err
		}
	}

	if err := insertBatch(ctx, tx, tenantID, created); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit split: %w", err)
	}

	return nil
}

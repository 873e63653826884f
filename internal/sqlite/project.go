package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/repository"
)

// ProjectRepository implements project.Repository and batch.ProjectDirectory for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project together with its environments
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, tenant_id, client_name, client_phone, client_email,
			client_address, client_briefing, budget_target, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proj.ID,
		tenantID,
		proj.Client.Name,
		proj.Client.Phone,
		proj.Client.Email,
		proj.Client.Address,
		proj.Client.Briefing,
		proj.Client.BudgetTarget,
		proj.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	for i, env := range proj.Environments {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO environments (id, tenant_id, project_id, name, estimated_value, version, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			env.ID, tenantID, proj.ID, env.Name, env.EstimatedValue, env.Version, i,
		)
		if err != nil {
			return fmt.Errorf("failed to create environment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID, including environments and their price history
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	var proj project.Project
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, client_name, client_phone, client_email,
			client_address, client_briefing, budget_target, created_at
		FROM projects
		WHERE id = ? AND tenant_id = ?`,
		id, tenantID).Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Client.Name,
		&proj.Client.Phone,
		&proj.Client.Email,
		&proj.Client.Address,
		&proj.Client.Briefing,
		&proj.Client.BudgetTarget,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	proj.Environments, err = r.environments(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	return &proj, nil
}

func (r *ProjectRepository) environments(ctx context.Context, tenantID, projectID string) ([]project.Environment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, estimated_value, version
		FROM environments
		WHERE project_id = ? AND tenant_id = ?
		ORDER BY position`,
		projectID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	defer rows.Close()

	var envs []project.Environment
	for rows.Next() {
		var env project.Environment
		if err := rows.Scan(&env.ID, &env.Name, &env.EstimatedValue, &env.Version); err != nil {
			return nil, fmt.Errorf("failed to scan environment: %w", err)
		}
		env.ValueHistory, err = r.valueHistory(ctx, tenantID, env.ID)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}

	return envs, rows.Err()
}

func (r *ProjectRepository) valueHistory(ctx context.Context, tenantID, environmentID string) ([]project.ValueEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT version, value, recorded_at
		FROM environment_values
		WHERE environment_id = ? AND tenant_id = ?
		ORDER BY version`,
		environmentID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list value history: %w", err)
	}
	defer rows.Close()

	var entries []project.ValueEntry
	for rows.Next() {
		var entry project.ValueEntry
		if err := rows.Scan(&entry.Version, &entry.Value, &entry.Date); err != nil {
			return nil, fmt.Errorf("failed to scan value entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// List returns all projects for a tenant with summary information
func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			p.id,
			p.client_name,
			p.created_at,
			(SELECT COUNT(*) FROM environments e WHERE e.project_id = p.id) as environment_count,
			(SELECT COUNT(*) FROM batches b WHERE b.project_id = p.id) as batch_count,
			(SELECT COALESCE(SUM(e.estimated_value), 0) FROM environments e WHERE e.project_id = p.id) as estimated_total
		FROM projects p
		WHERE p.tenant_id = ?
		ORDER BY p.created_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var s project.Summary
		err := rows.Scan(&s.ID, &s.ClientName, &s.CreatedAt, &s.EnvironmentCount, &s.BatchCount, &s.EstimatedTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// EnvironmentIDs returns the IDs of a project's environments in stored order
func (r *ProjectRepository) EnvironmentIDs(ctx context.Context, tenantID, projectID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM environments
		WHERE project_id = ? AND tenant_id = ?
		ORDER BY position`,
		projectID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list environment ids: %w", err)
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

// ClientPhone returns the project's client phone number
func (r *ProjectRepository) ClientPhone(ctx context.Context, tenantID, projectID string) (string, error) {
	var phone string
	err := r.db.QueryRowContext(ctx, `
		SELECT client_phone FROM projects
		WHERE id = ? AND tenant_id = ?`,
		projectID, tenantID).Scan(&phone)

	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get client phone: %w", err)
	}

	return phone, nil
}

// AppendEnvironmentValue bumps the environment version, records the
// confirmed price on the history, and makes it the environment's current
// estimated value. History rows are never rewritten.
func (r *ProjectRepository) AppendEnvironmentValue(ctx context.Context, tenantID, projectID, environmentID string, value float64, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRowContext(ctx, `
		SELECT version FROM environments
		WHERE id = ? AND project_id = ? AND tenant_id = ?`,
		environmentID, projectID, tenantID).Scan(&version)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get environment version: %w", err)
	}

	version++
	_, err = tx.ExecContext(ctx, `
		UPDATE environments SET version = ?, estimated_value = ? WHERE id = ?`,
		version, value, environmentID)
	if err != nil {
		return fmt.Errorf("failed to bump environment version: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO environment_values (tenant_id, environment_id, version, value, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		tenantID, environmentID, version, value, at)
	if err != nil {
		return fmt.Errorf("failed to append environment value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit environment value: %w", err)
	}

	return nil
}

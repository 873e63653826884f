package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mobiplan/mobiplan/internal/domain/team"
	"github.com/mobiplan/mobiplan/internal/repository"
)

// TeamRepository implements team.Repository and the TeamDirectory contracts for SQLite
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, tenantID string, t *team.Team) error {
	members, serviceTypes, err := encodeTeamLists(t)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO teams (id, tenant_id, name, color, members, service_types, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, tenantID, t.Name, t.Color, members, serviceTypes, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

func encodeTeamLists(t *team.Team) (string, string, error) {
	members, err := json.Marshal(t.Members)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode members: %w", err)
	}
	serviceTypes, err := json.Marshal(t.ServiceTypes)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode service types: %w", err)
	}
	return string(members), string(serviceTypes), nil
}

// Get retrieves a team by ID
func (r *TeamRepository) Get(ctx context.Context, tenantID, id string) (*team.Team, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, color, members, service_types, created_at
		FROM teams
		WHERE id = ? AND tenant_id = ?`,
		id, tenantID)

	t, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return t, nil
}

func scanTeam(row rowScanner) (*team.Team, error) {
	var t team.Team
	var members, serviceTypes string

	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.Color, &members, &serviceTypes, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(members), &t.Members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	if err := json.Unmarshal([]byte(serviceTypes), &t.ServiceTypes); err != nil {
		return nil, fmt.Errorf("failed to decode service types: %w", err)
	}

	return &t, nil
}

// List returns all teams for a tenant ordered by name
func (r *TeamRepository) List(ctx context.Context, tenantID string) ([]team.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, color, members, service_types, created_at
		FROM teams
		WHERE tenant_id = ?
		ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []team.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *t)
	}

	return teams, rows.Err()
}

// Update persists changes to a team
func (r *TeamRepository) Update(ctx context.Context, tenantID string, t *team.Team) error {
	members, serviceTypes, err := encodeTeamLists(t)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE teams
		SET name = ?, color = ?, members = ?, service_types = ?
		WHERE id = ? AND tenant_id = ?`,
		t.Name, t.Color, members, serviceTypes, t.ID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	return requireRow(result)
}

// Delete removes a team. Teams referenced by a scheduled batch or ticket
// cannot be removed.
func (r *TeamRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM teams WHERE id = ? AND tenant_id = ?`,
		id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return requireRow(result)
}

// HasTeam reports whether a team exists for the tenant
func (r *TeamRepository) HasTeam(ctx context.Context, tenantID, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM teams WHERE id = ? AND tenant_id = ?`,
		id, tenantID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check team: %w", err)
	}

	return count > 0, nil
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/repository"
	"github.com/stretchr/testify/require"
)

func insertProject(t *testing.T, db *DB, id, tenantID string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO projects (id, tenant_id, client_name, client_phone) VALUES (?, ?, ?, ?)`,
		id, tenantID, "Client "+id, "+5511999990000")
	require.NoError(t, err)
}

func insertEnvironment(t *testing.T, db *DB, id, projectID, tenantID string, value float64) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO environments (id, tenant_id, project_id, name, estimated_value) VALUES (?, ?, ?, ?, ?)`,
		id, tenantID, projectID, "Env "+id, value)
	require.NoError(t, err)
}

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewProjectRepository(db)
	proj := &project.Project{
		ID: "p1",
		Client: project.Client{
			Name:         "Ana Souza",
			Phone:        "+5511988887777",
			Briefing:     "Full apartment",
			BudgetTarget: 85000,
		},
		Environments: []project.Environment{
			{ID: "e1", Name: "Kitchen", EstimatedValue: 42000},
			{ID: "e2", Name: "Master bedroom", EstimatedValue: 28000},
		},
		CreatedAt: time.Now(),
	}

	err := repo.Create(ctx, "tenant1", proj)
	require.NoError(t, err)

	loaded, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "tenant1", loaded.TenantID)
	require.Equal(t, "Ana Souza", loaded.Client.Name)
	require.Len(t, loaded.Environments, 2)
	require.Equal(t, "Kitchen", loaded.Environments[0].Name)
	require.Equal(t, 0, loaded.Environments[0].Version)
}

func TestProjectRepository_TenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1")

	repo := NewProjectRepository(db)
	_, err := repo.Get(ctx, "tenant2", "p1")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1")
	insertEnvironment(t, db, "e1", "p1", "tenant1", 10000)
	insertEnvironment(t, db, "e2", "p1", "tenant1", 10000)

	repo := NewProjectRepository(db)
	summaries, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 2, summaries[0].EnvironmentCount)
	require.Equal(t, 20000.0, summaries[0].EstimatedTotal)
}

func TestProjectRepository_EnvironmentIDs(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1")
	insertEnvironment(t, db, "e1", "p1", "tenant1", 0)
	insertEnvironment(t, db, "e2", "p1", "tenant1", 0)

	repo := NewProjectRepository(db)
	ids, err := repo.EnvironmentIDs(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, []string{"e1", "e2"}, ids)
}

func TestProjectRepository_ClientPhone(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1")

	repo := NewProjectRepository(db)
	phone, err := repo.ClientPhone(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "+5511999990000", phone)

	_, err = repo.ClientPhone(ctx, "tenant1", "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectRepository_AppendEnvironmentValue(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1")
	insertEnvironment(t, db, "e1", "p1", "tenant1", 42000)

	repo := NewProjectRepository(db)
	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	err := repo.AppendEnvironmentValue(ctx, "tenant1", "p1", "e1", 45000, at)
	require.NoError(t, err)
	err = repo.AppendEnvironmentValue(ctx, "tenant1", "p1", "e1", 43500, at.AddDate(0, 0, 7))
	require.NoError(t, err)

	loaded, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Environments[0].Version)
	require.Len(t, loaded.Environments[0].ValueHistory, 2)
	require.Equal(t, 1, loaded.Environments[0].ValueHistory[0].Version)
	require.Equal(t, 45000.0, loaded.Environments[0].ValueHistory[0].Value)
	require.Equal(t, 43500.0, loaded.Environments[0].ValueHistory[1].Value)

	// The latest confirmed price replaces the estimate.
	require.Equal(t, 43500.0, loaded.Environments[0].EstimatedValue)
	summaries, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, 43500.0, summaries[0].EstimatedTotal)

	err = repo.AppendEnvironmentValue(ctx, "tenant1", "p1", "missing", 100, at)
	require.Equal(t, repository.ErrNotFound, err)
}

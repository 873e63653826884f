package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations runs the migrations directly. The schema is small enough to
// live inline; a migration tool can take over if it ever grows versions.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE projects (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    client_name TEXT NOT NULL,
    client_phone TEXT,
    client_email TEXT,
    client_address TEXT,
    client_briefing TEXT,
    budget_target REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_projects ON projects(tenant_id);

-- Environments table (candidate scope of a project)
CREATE TABLE environments (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    estimated_value REAL NOT NULL DEFAULT 0,
    version INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX idx_project_environments ON environments(project_id);

-- Confirmed price history (append-only)
CREATE TABLE environment_values (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    environment_id TEXT NOT NULL,
    version INTEGER NOT NULL,
    value REAL NOT NULL,
    recorded_at TIMESTAMP NOT NULL,
    FOREIGN KEY (environment_id) REFERENCES environments(id)
);
CREATE INDEX idx_environment_values ON environment_values(environment_id);

-- Teams table
CREATE TABLE teams (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    color TEXT NOT NULL,
    members TEXT NOT NULL DEFAULT '[]',
    service_types TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_teams ON teams(tenant_id);

-- Batches table
CREATE TABLE batches (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    phase TEXT NOT NULL,
    last_updated TIMESTAMP NOT NULL,
    prices_confirmed_at TIMESTAMP,
    assembly_status TEXT NOT NULL DEFAULT 'no_forecast'
        CHECK(assembly_status IN ('no_forecast', 'forecast', 'scheduled', 'done')),
    forecast_date TIMESTAMP,
    scheduled_date TIMESTAMP,
    estimated_days INTEGER NOT NULL DEFAULT 0,
    team_id TEXT,
    assembly_notes TEXT,
    assembly_deadline TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id),
    FOREIGN KEY (team_id) REFERENCES teams(id)
);
CREATE INDEX idx_tenant_batches ON batches(tenant_id);
CREATE INDEX idx_project_batches ON batches(project_id);
CREATE INDEX idx_batch_phase ON batches(phase);
CREATE INDEX idx_batch_assembly ON batches(assembly_status);

-- Batch scope (many-to-many with environments)
CREATE TABLE batch_environments (
    batch_id TEXT NOT NULL,
    environment_id TEXT NOT NULL,
    PRIMARY KEY (batch_id, environment_id),
    FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE,
    FOREIGN KEY (environment_id) REFERENCES environments(id)
);

-- Assistance tickets
CREATE TABLE tickets (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    batch_id TEXT,
    title TEXT NOT NULL,
    description TEXT,
    priority TEXT NOT NULL CHECK(priority IN ('normal', 'urgent')),
    status TEXT NOT NULL
        CHECK(status IN ('open', 'evaluation', 'scheduled', 'in_service', 'closed')),
    team_id TEXT,
    scheduled_date TIMESTAMP,
    estimated_days INTEGER,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(id),
    FOREIGN KEY (team_id) REFERENCES teams(id)
);
CREATE INDEX idx_tenant_tickets ON tickets(tenant_id);
CREATE INDEX idx_project_tickets ON tickets(project_id);
CREATE INDEX idx_ticket_status ON tickets(status);

-- Audit trail (append-only)
CREATE TABLE notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    batch_id TEXT,
    kind TEXT NOT NULL,
    author TEXT,
    body TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX idx_tenant_notes ON notes(tenant_id);
CREATE INDEX idx_project_notes ON notes(project_id);
CREATE INDEX idx_note_created ON notes(created_at);

-- API keys for authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX idx_tenant_keys ON api_keys(tenant_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

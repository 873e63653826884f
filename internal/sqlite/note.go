package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/repository"
)

// NoteRepository implements note.Repository and batch.NoteRepository for SQLite
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Append records a note on the audit trail and fills in its assigned ID
func (r *NoteRepository) Append(ctx context.Context, tenantID string, n *note.Note) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (tenant_id, project_id, batch_id, kind, author, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tenantID, n.ProjectID, n.BatchID, n.Kind, n.Author, n.Body, n.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to append note: %w", err)
	}

	n.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read note id: %w", err)
	}

	return nil
}

// List returns audit trail entries, newest first
func (r *NoteRepository) List(ctx context.Context, tenantID string, opts note.ListOptions) ([]note.Note, error) {
	query := `
		SELECT id, tenant_id, project_id, batch_id, kind, author, body, created_at
		FROM notes WHERE tenant_id = ?`
	args := []any{tenantID}

	if opts.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, opts.ProjectID)
	}
	if opts.BatchID != nil {
		query += ` AND batch_id = ?`
		args = append(args, *opts.BatchID)
	}
	if len(opts.Kinds) > 0 {
		query += ` AND kind IN (` + placeholders(len(opts.Kinds)) + `)`
		for _, k := range opts.Kinds {
			args = append(args, string(k))
		}
	}

	query += ` ORDER BY created_at DESC, id DESC`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, opts.Limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []note.Note
	for rows.Next() {
		var n note.Note
		var batchID, author sql.NullString
		err := rows.Scan(&n.ID, &n.TenantID, &n.ProjectID, &batchID, &n.Kind, &author, &n.Body, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if batchID.Valid {
			n.BatchID = &batchID.String
		}
		if author.Valid {
			n.Author = author.String
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

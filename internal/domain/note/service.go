package note

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service handles audit trail operations. The trail is append-only; entries
// are never edited or removed.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new note service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Append records a manual note on a project.
func (s *Service) Append(ctx context.Context, tenantID, projectID, author, body string, batchID *string) (*Note, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(body) == "" {
		return nil, ErrInvalidInput
	}

	n := &Note{
		TenantID:  tenantID,
		ProjectID: projectID,
		BatchID:   batchID,
		Kind:      KindManual,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Append(ctx, tenantID, n); err != nil {
		return nil, fmt.Errorf("appending note: %w", err)
	}
	return n, nil
}

// List returns audit trail entries for a project.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Note, error) {
	return s.repo.List(ctx, tenantID, opts)
}

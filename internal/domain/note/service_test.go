package note_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NoteRepository{}
	repo.On("Append", ctx, "tenant1", mock.Anything).Return(nil)

	svc := note.NewService(repo, testLogger())
	batchID := "b1"
	n, err := svc.Append(ctx, "tenant1", "p1", "vendor-ana", "client asked to delay delivery", &batchID)
	require.NoError(t, err)
	require.Equal(t, note.KindManual, n.Kind)
	require.Equal(t, "vendor-ana", n.Author)
	require.Equal(t, "b1", *n.BatchID)
	repo.AssertExpectations(t)
}

func TestAppend_Validation(t *testing.T) {
	svc := note.NewService(&mocks.NoteRepository{}, testLogger())

	_, err := svc.Append(context.Background(), "tenant1", "", "vendor-ana", "orphan note", nil)
	require.ErrorIs(t, err, note.ErrInvalidInput)

	_, err = svc.Append(context.Background(), "tenant1", "p1", "vendor-ana", "   ", nil)
	require.ErrorIs(t, err, note.ErrInvalidInput)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NoteRepository{}
	repo.On("List", ctx, "tenant1", mock.Anything).Return([]note.Note{
		{ID: 2, ProjectID: "p1", Kind: note.KindPhaseChange, Body: "advanced to step 1.2"},
		{ID: 1, ProjectID: "p1", Kind: note.KindManual, Body: "first contact"},
	}, nil)

	svc := note.NewService(repo, testLogger())
	notes, err := svc.List(ctx, "tenant1", note.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, int64(2), notes[0].ID)
}

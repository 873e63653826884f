package mcp

import (
	"errors"
	"testing"

	"github.com/mobiplan/mobiplan/internal/domain/assistance"
	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/domain/team"
	"github.com/mobiplan/mobiplan/internal/workflow"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"project not found", project.ErrProjectNotFound, "PROJECT_NOT_FOUND"},
		{"batch not found", batch.ErrBatchNotFound, "BATCH_NOT_FOUND"},
		{"team not found", team.ErrTeamNotFound, "TEAM_NOT_FOUND"},
		{"ticket not found", assistance.ErrTicketNotFound, "TICKET_NOT_FOUND"},
		{"unknown step", workflow.ErrUnknownStep, "UNKNOWN_STEP"},
		{"decision required", batch.ErrDecisionRequired, "DECISION_REQUIRED"},
		{"prices not confirmed", batch.ErrPricesNotConfirmed, "PRICES_NOT_CONFIRMED"},
		{"invalid batch transition", batch.ErrInvalidTransition, "INVALID_TRANSITION"},
		{"invalid ticket transition", assistance.ErrInvalidTransition, "INVALID_TRANSITION"},
		{"invalid project input", project.ErrInvalidInput, "INVALID_ARGUMENT"},
		{"invalid batch input", batch.ErrInvalidInput, "INVALID_ARGUMENT"},
		{"invalid team input", team.ErrInvalidInput, "INVALID_ARGUMENT"},
		{"invalid ticket input", assistance.ErrInvalidInput, "INVALID_ARGUMENT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)
			var apiErr *APIError
			require.ErrorAs(t, mapped, &apiErr)
			require.Equal(t, tc.code, apiErr.Code)
			require.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestMapError_WrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), batch.ErrDecisionRequired)
	var apiErr *APIError
	require.ErrorAs(t, MapError(wrapped), &apiErr)
	require.Equal(t, "DECISION_REQUIRED", apiErr.Code)
}

func TestMapError_Passthrough(t *testing.T) {
	plain := errors.New("disk full")
	require.Equal(t, plain, MapError(plain))
}

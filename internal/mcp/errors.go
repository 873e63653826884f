package mcp

import (
	"errors"
	"fmt"

	"github.com/mobiplan/mobiplan/internal/domain/assistance"
	"github.com/mobiplan/mobiplan/internal/domain/batch"
	"github.com/mobiplan/mobiplan/internal/domain/note"
	"github.com/mobiplan/mobiplan/internal/domain/project"
	"github.com/mobiplan/mobiplan/internal/domain/team"
	"github.com/mobiplan/mobiplan/internal/workflow"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors pass
// through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, batch.ErrBatchNotFound):
		return &APIError{Code: "BATCH_NOT_FOUND", Message: "batch not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, team.ErrTeamNotFound):
		return &APIError{Code: "TEAM_NOT_FOUND", Message: "team not found", RecoveryHint: "List teams to see valid IDs"}
	case errors.Is(err, assistance.ErrTicketNotFound):
		return &APIError{Code: "TICKET_NOT_FOUND", Message: "ticket not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, workflow.ErrUnknownStep):
		return &APIError{Code: "UNKNOWN_STEP", Message: err.Error(), RecoveryHint: "List workflow steps to see valid IDs"}
	case errors.Is(err, batch.ErrDecisionRequired):
		return &APIError{Code: "DECISION_REQUIRED", Message: "current step branches; a decision is required", RecoveryHint: "Call decide_batch with one of the step's options"}
	case errors.Is(err, batch.ErrPricesNotConfirmed):
		return &APIError{Code: "PRICES_NOT_CONFIRMED", Message: "environment prices must be confirmed before leaving budgeting", RecoveryHint: "Call confirm_prices first"}
	case errors.Is(err, batch.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: err.Error(), RecoveryHint: "Check the step's branch options"}
	case errors.Is(err, assistance.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: err.Error(), RecoveryHint: "Tickets only move forward through their sub-steps"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, batch.ErrInvalidInput),
		errors.Is(err, team.ErrInvalidInput),
		errors.Is(err, assistance.ErrInvalidInput),
		errors.Is(err, note.ErrInvalidInput):
		return &APIError{Code: "INVALID_ARGUMENT", Message: err.Error()}
	default:
		return err
	}
}

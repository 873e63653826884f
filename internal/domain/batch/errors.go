package batch

import "errors"

var (
	// ErrBatchNotFound indicates the batch doesn't exist.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrInvalidTransition indicates a transition the workflow graph does
	// not allow from the batch's current phase.
	ErrInvalidTransition = errors.New("invalid workflow transition")
	// ErrDecisionRequired indicates Advance was called on a step whose
	// successors are decided manually.
	ErrDecisionRequired = errors.New("step has branching options, a decision is required")
	// ErrPricesNotConfirmed indicates the budgeting step was left before
	// environment prices were confirmed.
	ErrPricesNotConfirmed = errors.New("environment prices not confirmed")
	// ErrInvalidInput indicates invalid batch input.
	ErrInvalidInput = errors.New("invalid batch input")
)

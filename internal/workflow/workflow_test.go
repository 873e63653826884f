package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultDefinitionIsValid(t *testing.T) {
	graph := Default()

	require.Equal(t, "1.1", graph.InitialStep())
	require.Len(t, graph.Steps(), 20)

	budgeting, err := graph.Step("2.3")
	require.NoError(t, err)
	require.Equal(t, 2, budgeting.Stage)
	require.Equal(t, 5, budgeting.SLA)
	require.Equal(t, "seller", budgeting.Role)
}

func TestStepUnknown(t *testing.T) {
	graph := Default()
	_, err := graph.Step("7.9")
	require.ErrorIs(t, err, ErrUnknownStep)
	require.False(t, graph.Has("7.9"))
}

func TestSuccessor(t *testing.T) {
	graph := Default()

	next, ok := graph.Successor("1.1")
	require.True(t, ok)
	require.Equal(t, "1.2", next)

	// Last stage step flows into the completed terminal.
	next, ok = graph.Successor("9.1")
	require.True(t, ok)
	require.Equal(t, StepCompleted, next)

	_, ok = graph.Successor(StepCompleted)
	require.False(t, ok)
	_, ok = graph.Successor(StepLost)
	require.False(t, ok)
}

func TestBranches(t *testing.T) {
	graph := Default()

	options := graph.Branches("2.3")
	require.Len(t, options, 2)
	targets := []string{options[0].Target, options[1].Target}
	require.Contains(t, targets, "3.1")
	require.Contains(t, targets, "2.1")

	require.Nil(t, graph.Branches("1.1"))

	// Every branch target resolves to a real step.
	for stepID, opts := range graph.branches {
		require.True(t, graph.Has(stepID))
		for _, opt := range opts {
			require.True(t, graph.Has(opt.Target), "branch %s -> %s", stepID, opt.Target)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	graph := Default()
	require.True(t, graph.IsTerminal(StepCompleted))
	require.True(t, graph.IsTerminal(StepLost))
	require.False(t, graph.IsTerminal("2.3"))
}

func TestParseRejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no steps", `steps: []`},
		{"duplicate id", `
steps:
  - {id: "1.1", label: A, role: r, stage: 1, sla: 1}
  - {id: "1.1", label: B, role: r, stage: 1, sla: 1}
  - {id: completed, label: C, role: r, stage: 9, sla: 0}
  - {id: lost, label: L, role: r, stage: 9, sla: 0}
`},
		{"stage out of range", `
steps:
  - {id: "1.1", label: A, role: r, stage: 10, sla: 1}
  - {id: completed, label: C, role: r, stage: 9, sla: 0}
  - {id: lost, label: L, role: r, stage: 9, sla: 0}
`},
		{"negative sla", `
steps:
  - {id: "1.1", label: A, role: r, stage: 1, sla: -2}
  - {id: completed, label: C, role: r, stage: 9, sla: 0}
  - {id: lost, label: L, role: r, stage: 9, sla: 0}
`},
		{"missing terminals", `
steps:
  - {id: "1.1", label: A, role: r, stage: 1, sla: 1}
`},
		{"branch target missing", `
steps:
  - {id: "1.1", label: A, role: r, stage: 1, sla: 1}
  - {id: completed, label: C, role: r, stage: 9, sla: 0}
  - {id: lost, label: L, role: r, stage: 9, sla: 0}
branches:
  "1.1":
    - {label: go, target: "5.5"}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

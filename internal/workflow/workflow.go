// Package workflow holds the static, validated configuration of the order
// pipeline: the step table, the total ordering used for listings, and the
// branching table of manual decision options. The graph is loaded once and
// never mutated; unknown step ids are rejected at load time.
package workflow

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Terminal step ids. A lost batch can be reactivated; a completed one cannot.
const (
	StepCompleted = "completed"
	StepLost      = "lost"
)

// StepBudgeting is the step whose exit is gated on price confirmation: the
// branch decision there is only meaningful once every environment in scope
// has a confirmed price.
const StepBudgeting = "2.3"

// ErrUnknownStep indicates a step id not present in the graph.
var ErrUnknownStep = errors.New("unknown workflow step")

// Step is one named step of the pipeline, owned by a role and governed by
// an SLA measured in business days.
type Step struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Role  string `yaml:"role" json:"role"`
	Stage int    `yaml:"stage" json:"stage"`
	SLA   int    `yaml:"sla" json:"sla"`
}

// BranchOption is one manually chosen successor for a branching step.
type BranchOption struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Target      string `yaml:"target" json:"target"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Tone        string `yaml:"tone,omitempty" json:"tone,omitempty"`
}

// Graph is the validated workflow configuration.
type Graph struct {
	steps    map[string]Step
	order    []string
	indexOf  map[string]int
	branches map[string][]BranchOption
}

type definition struct {
	Steps    []Step                    `yaml:"steps"`
	Branches map[string][]BranchOption `yaml:"branches"`
}

//go:embed workflow.yaml
var defaultDefinition []byte

// Default returns the built-in pipeline definition.
func Default() *Graph {
	graph, err := Parse(defaultDefinition)
	if err != nil {
		panic(err) // the embedded definition is validated by tests
	}
	return graph
}

// Parse loads and validates a YAML workflow definition.
func Parse(data []byte) (*Graph, error) {
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow definition: %w", err)
	}
	if len(def.Steps) == 0 {
		return nil, errors.New("workflow definition has no steps")
	}

	graph := &Graph{
		steps:    make(map[string]Step, len(def.Steps)),
		order:    make([]string, 0, len(def.Steps)),
		indexOf:  make(map[string]int, len(def.Steps)),
		branches: def.Branches,
	}
	for i, step := range def.Steps {
		if step.ID == "" {
			return nil, fmt.Errorf("step %d has no id", i)
		}
		if _, dup := graph.steps[step.ID]; dup {
			return nil, fmt.Errorf("duplicate step id %q", step.ID)
		}
		if step.Stage < 1 || step.Stage > 9 {
			return nil, fmt.Errorf("step %q: stage %d out of range 1-9", step.ID, step.Stage)
		}
		if step.SLA < 0 {
			return nil, fmt.Errorf("step %q: negative sla %d", step.ID, step.SLA)
		}
		graph.steps[step.ID] = step
		graph.indexOf[step.ID] = i
		graph.order = append(graph.order, step.ID)
	}
	for _, terminal := range []string{StepCompleted, StepLost} {
		if _, ok := graph.steps[terminal]; !ok {
			return nil, fmt.Errorf("workflow definition missing terminal step %q", terminal)
		}
	}
	for stepID, options := range def.Branches {
		if _, ok := graph.steps[stepID]; !ok {
			return nil, fmt.Errorf("branching table references unknown step %q", stepID)
		}
		if len(options) == 0 {
			return nil, fmt.Errorf("step %q has an empty branching option list", stepID)
		}
		for _, opt := range options {
			if _, ok := graph.steps[opt.Target]; !ok {
				return nil, fmt.Errorf("step %q: branch target %q does not exist", stepID, opt.Target)
			}
		}
	}
	return graph, nil
}

// Step returns the step for an id.
func (g *Graph) Step(id string) (Step, error) {
	step, ok := g.steps[id]
	if !ok {
		return Step{}, fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	return step, nil
}

// Has reports whether the id is a known step.
func (g *Graph) Has(id string) bool {
	_, ok := g.steps[id]
	return ok
}

// Steps returns every step in workflow order.
func (g *Graph) Steps() []Step {
	steps := make([]Step, 0, len(g.order))
	for _, id := range g.order {
		steps = append(steps, g.steps[id])
	}
	return steps
}

// InitialStep is the entry step for new batches.
func (g *Graph) InitialStep() string {
	return g.order[0]
}

// Branches returns the decision options for a step, nil when the step has a
// single implicit successor.
func (g *Graph) Branches(id string) []BranchOption {
	return g.branches[id]
}

// Successor returns the implicit next step for a non-branching step: the
// following id in workflow order. Terminal steps have none.
func (g *Graph) Successor(id string) (string, bool) {
	if g.IsTerminal(id) {
		return "", false
	}
	idx, ok := g.indexOf[id]
	if !ok || idx+1 >= len(g.order) {
		return "", false
	}
	next := g.order[idx+1]
	if next == StepLost {
		return "", false
	}
	return next, true
}

// IsTerminal reports whether a batch at this step has left the pipeline:
// either of the two terminal ids, or a step with no defined successor.
func (g *Graph) IsTerminal(id string) bool {
	if id == StepCompleted || id == StepLost {
		return true
	}
	idx, ok := g.indexOf[id]
	return ok && idx+1 >= len(g.order)
}

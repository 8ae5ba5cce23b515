// Package spec loads declarative action and goal definitions from YAML.
// It is the registration surface for agents authored as data rather than
// code: a document maps action names to precondition/effect/cost tuples
// and goal names to required conditions, and builds a planning system out
// of them. Document order is preserved, which fixes the planner's
// tie-breaking.
package spec

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"upside-down-research.com/oss/stratagem/internal/goap"
)

// ActionSpec declares one action.
type ActionSpec struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Preconditions map[string]string `yaml:"preconditions"`
	Effects       map[string]string `yaml:"effects"`
	Cost          float64           `yaml:"cost"`
}

// GoalSpec declares one goal.
type GoalSpec struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Requires    []string `yaml:"requires"`
	Value       float64  `yaml:"value"`
}

// Document is a full agent definition: its actions, its goals and the
// initially observed determinations.
type Document struct {
	Actions []ActionSpec      `yaml:"actions"`
	Goals   []GoalSpec        `yaml:"goals"`
	Initial map[string]string `yaml:"initial"`
}

// Load reads and parses a document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	return Parse(data)
}

// Parse parses a document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if len(d.Actions) == 0 {
		return fmt.Errorf("spec declares no actions")
	}
	if len(d.Goals) == 0 {
		return fmt.Errorf("spec declares no goals")
	}

	seen := make(map[string]bool)
	for _, a := range d.Actions {
		if a.Name == "" {
			return fmt.Errorf("action with empty name")
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate action name %q", a.Name)
		}
		seen[a.Name] = true
		if a.Cost < 0 {
			return fmt.Errorf("action %q has negative cost", a.Name)
		}
	}
	for _, g := range d.Goals {
		if g.Name == "" {
			return fmt.Errorf("goal with empty name")
		}
		if len(g.Requires) == 0 {
			return fmt.Errorf("goal %q requires no conditions", g.Name)
		}
	}
	return nil
}

// BuildSystem registers every declared action and goal, in document order,
// into a fresh planning system.
func (d *Document) BuildSystem() (*goap.PlanningSystem, error) {
	system := goap.NewPlanningSystem()

	for _, a := range d.Actions {
		pre, err := parseState(a.Preconditions)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", a.Name, err)
		}
		eff, err := parseState(a.Effects)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", a.Name, err)
		}

		cost := a.Cost
		if cost == 0 {
			cost = goap.DefaultActionCost
		}
		system.RegisterAction(goap.NewAction(a.Name, a.Description, pre, eff, cost))
	}

	for _, g := range d.Goals {
		system.RegisterGoal(goap.NewGoal(g.Name, g.Description, g.Requires, g.Value))
	}
	return system, nil
}

// InitialState parses the document's initial determinations.
func (d *Document) InitialState() (goap.WorldState, error) {
	state, err := parseState(d.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	return state, nil
}

// ConditionNames returns every condition name the document mentions, in
// first-mention order. This is the condition registry a run's determiner
// observes.
func (d *Document) ConditionNames() []string {
	seen := make(map[string]bool)
	names := []string{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, a := range d.Actions {
		for _, name := range sortedKeys(a.Preconditions) {
			add(name)
		}
		for _, name := range sortedKeys(a.Effects) {
			add(name)
		}
	}
	for _, g := range d.Goals {
		for _, name := range g.Requires {
			add(name)
		}
	}
	for _, name := range sortedKeys(d.Initial) {
		add(name)
	}
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseState(m map[string]string) (goap.WorldState, error) {
	state := goap.NewWorldState()
	for name, raw := range m {
		det, err := ParseDetermination(raw)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", name, err)
		}
		state = state.With(name, det)
	}
	return state, nil
}

// ParseDetermination maps the YAML strings true/false/unknown onto
// determinations.
func ParseDetermination(s string) (goap.Determination, error) {
	switch s {
	case "true":
		return goap.True, nil
	case "false":
		return goap.False, nil
	case "unknown", "":
		return goap.Unknown, nil
	default:
		return goap.Unknown, fmt.Errorf("invalid determination %q (want true, false or unknown)", s)
	}
}

package spec

import (
	"testing"

	"upside-down-research.com/oss/stratagem/internal/goap"
)

const brewDoc = `
actions:
  - name: grind
    description: Grind the beans
    preconditions:
      has_beans: "true"
    effects:
      has_grounds: "true"
    cost: 1
  - name: boil
    preconditions:
      has_water: "true"
    effects:
      water_hot: "true"
    cost: 1
  - name: brew
    preconditions:
      has_grounds: "true"
      water_hot: "true"
    effects:
      coffee_ready: "true"
    cost: 2

goals:
  - name: coffee
    description: A cup of coffee
    requires: [coffee_ready]
    value: 10

initial:
  has_beans: "true"
  has_water: "true"
  coffee_ready: "false"
`

func TestParseAndPlan(t *testing.T) {
	doc, err := Parse([]byte(brewDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	system, err := doc.BuildSystem()
	if err != nil {
		t.Fatalf("BuildSystem failed: %v", err)
	}
	if len(system.Actions()) != 3 || len(system.Goals()) != 1 {
		t.Fatalf("Expected 3 actions and 1 goal, got %d and %d",
			len(system.Actions()), len(system.Goals()))
	}

	initial, err := doc.InitialState()
	if err != nil {
		t.Fatalf("InitialState failed: %v", err)
	}
	if initial.Get("has_beans") != goap.True || initial.Get("coffee_ready") != goap.False {
		t.Errorf("Initial state wrong: %s", initial)
	}

	plan := system.Planner().FindPlan(initial, system.GoalNamed("coffee"))
	if plan == nil {
		t.Fatal("Expected a plan")
	}
	if plan.Len() != 3 || plan.Cost() != 4 {
		t.Errorf("Expected 3 actions at cost 4, got %d at %f", plan.Len(), plan.Cost())
	}
}

func TestConditionNames(t *testing.T) {
	doc, err := Parse([]byte(brewDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	names := doc.ConditionNames()
	want := map[string]bool{
		"has_beans": true, "has_grounds": true, "has_water": true,
		"water_hot": true, "coffee_ready": true,
	}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %v", len(want), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("Unexpected condition name %q", n)
		}
	}
}

func TestDefaultCost(t *testing.T) {
	doc, err := Parse([]byte(brewDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	system, _ := doc.BuildSystem()
	for _, a := range system.Actions() {
		if a.Name() == "boil" && a.Cost() != 1 {
			t.Errorf("Expected declared cost kept, got %f", a.Cost())
		}
	}

	// A zero cost in the document means unit cost.
	free, err := Parse([]byte(`
actions:
  - name: blink
    effects:
      blinked: "true"
goals:
  - name: g
    requires: [blinked]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sys, err := free.BuildSystem()
	if err != nil {
		t.Fatalf("BuildSystem failed: %v", err)
	}
	if got := sys.Actions()[0].Cost(); got != goap.DefaultActionCost {
		t.Errorf("Expected default cost, got %f", got)
	}
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"no actions": `
goals:
  - name: g
    requires: [x]
`,
		"no goals": `
actions:
  - name: a
    effects: {x: "true"}
`,
		"duplicate action": `
actions:
  - name: a
    effects: {x: "true"}
  - name: a
    effects: {y: "true"}
goals:
  - name: g
    requires: [x]
`,
		"bad determination": `
actions:
  - name: a
    effects: {x: "maybe"}
goals:
  - name: g
    requires: [x]
`,
		"goal missing requires": `
actions:
  - name: a
    effects: {x: "true"}
goals:
  - name: g
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			parsed, err := Parse([]byte(doc))
			if err != nil {
				return // rejected at parse time, fine
			}
			if _, err := parsed.BuildSystem(); err == nil {
				t.Errorf("Expected %s to be rejected", name)
			}
		})
	}
}

func TestParseDetermination(t *testing.T) {
	cases := map[string]goap.Determination{
		"true":    goap.True,
		"false":   goap.False,
		"unknown": goap.Unknown,
		"":        goap.Unknown,
	}
	for in, want := range cases {
		got, err := ParseDetermination(in)
		if err != nil || got != want {
			t.Errorf("%q: expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseDetermination("yes"); err == nil {
		t.Error("Expected an error for an invalid determination")
	}
}

package goap

import (
	"fmt"
)

// DefaultActionCost is the unit cost assigned when an action does not care
// about relative expense.
const DefaultActionCost = 1.0

// Action is a declarative planning operator: preconditions that must hold
// for it to run, effects it produces when it runs, and a non-negative cost.
// Actions are immutable value objects, constructed once per agent definition
// and shared freely across planning sessions.
//
// The actual side effect behind an action (an LLM call, a tool, pure logic)
// lives with the execution collaborator, not here; the planner only reasons
// over the declared preconditions and effects.
type Action struct {
	name          string
	description   string
	preconditions WorldState
	effects       WorldState
	cost          float64
}

// NewAction creates an Action. Preconditions and effects are copied, so the
// caller's maps stay independent. A negative cost is clamped to zero.
func NewAction(name, description string, preconditions, effects WorldState, cost float64) Action {
	if cost < 0 {
		cost = 0
	}
	return Action{
		name:          name,
		description:   description,
		preconditions: WorldStateOf(preconditions),
		effects:       WorldStateOf(effects),
		cost:          cost,
	}
}

// NewUnitAction creates an Action with DefaultActionCost.
func NewUnitAction(name, description string, preconditions, effects WorldState) Action {
	return NewAction(name, description, preconditions, effects, DefaultActionCost)
}

// Name returns the action's name.
func (a Action) Name() string { return a.name }

// Description returns what this action does.
func (a Action) Description() string { return a.description }

// Preconditions returns a copy of the required determinations.
func (a Action) Preconditions() WorldState { return WorldStateOf(a.preconditions) }

// Effects returns a copy of the determinations this action produces.
func (a Action) Effects() WorldState { return WorldStateOf(a.effects) }

// Cost returns the planning cost of this action.
func (a Action) Cost() float64 { return a.cost }

// AchievableIn checks whether every precondition holds exactly in the given
// state. Unknown in the state never satisfies a required True or False.
func (a Action) AchievableIn(state WorldState) bool {
	return state.Matches(a.preconditions)
}

// Apply returns the state that results from executing this action: the
// given state with each effect written over it. The input is unchanged.
func (a Action) Apply(state WorldState) WorldState {
	next := state
	for name, d := range a.effects {
		next = next.With(name, d)
	}
	return next
}

// String returns a short description for logs. Condition names are sorted
// so the output is stable across runs.
func (a Action) String() string {
	return fmt.Sprintf("Action[%s cost=%.2f pre=%s eff=%s]",
		a.name, a.cost, a.preconditions.Key(), a.effects.Key())
}

package goap

import (
	"fmt"
	"strings"
)

// Plan is an ordered, costed sequence of actions that achieves a goal from
// a given state. Plans are immutable once produced; callers that want a new
// plan after acting re-invoke the planner.
//
// A nil *Plan means "no plan exists". A non-nil Plan with zero actions means
// the initial state already satisfied the goal. The two are distinct
// outcomes and callers must not conflate them.
type Plan struct {
	actions []Action
	cost    float64
	value   float64
}

func newPlan(actions []Action, cost, value float64) *Plan {
	owned := make([]Action, len(actions))
	copy(owned, actions)
	return &Plan{actions: owned, cost: cost, value: value}
}

// Actions returns a copy of the plan's actions in execution order.
func (p *Plan) Actions() []Action {
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

// First returns the next action to execute and true, or a zero Action and
// false when the plan is empty.
func (p *Plan) First() (Action, bool) {
	if len(p.actions) == 0 {
		return Action{}, false
	}
	return p.actions[0], true
}

// Len returns the number of actions in the plan.
func (p *Plan) Len() int { return len(p.actions) }

// Empty reports whether the plan contains no actions.
func (p *Plan) Empty() bool { return len(p.actions) == 0 }

// Cost returns the summed cost of the plan's actions.
func (p *Plan) Cost() float64 { return p.cost }

// Value returns the value of the goal this plan achieves.
func (p *Plan) Value() float64 { return p.value }

// String returns a string representation of the plan.
func (p *Plan) String() string {
	if len(p.actions) == 0 {
		return "Empty Plan"
	}

	parts := make([]string, len(p.actions))
	for i, action := range p.actions {
		parts[i] = fmt.Sprintf("%d. %s", i+1, action.Name())
	}

	return fmt.Sprintf("Plan (cost: %.2f):\n%s", p.cost, strings.Join(parts, "\n"))
}

package goap

import (
	"fmt"
	"sort"
	"strings"
)

// Goal names a set of conditions that must all be True in the terminal
// state. Goals carry a value for prioritization when an agent has several
// competing objectives; selection among goals is the caller's business,
// the planner receives one goal at a time.
type Goal struct {
	name        string
	description string
	required    []string
	value       float64
}

// NewGoal creates a Goal. The required names are the conditions that must
// come out True; duplicates are dropped and order is normalized.
func NewGoal(name, description string, required []string, value float64) *Goal {
	seen := make(map[string]bool, len(required))
	uniq := make([]string, 0, len(required))
	for _, r := range required {
		if !seen[r] {
			seen[r] = true
			uniq = append(uniq, r)
		}
	}
	sort.Strings(uniq)

	return &Goal{
		name:        name,
		description: description,
		required:    uniq,
		value:       value,
	}
}

// Name returns the goal's name.
func (g *Goal) Name() string { return g.name }

// Description returns what this goal accomplishes.
func (g *Goal) Description() string { return g.description }

// Value returns the goal's value for prioritization.
func (g *Goal) Value() float64 { return g.value }

// RequiredConditions returns a copy of the condition names this goal needs.
func (g *Goal) RequiredConditions() []string {
	out := make([]string, len(g.required))
	copy(out, g.required)
	return out
}

// RequiredState returns the goal as a WorldState requiring True for every
// named condition.
func (g *Goal) RequiredState() WorldState {
	ws := make(WorldState, len(g.required))
	for _, name := range g.required {
		ws[name] = True
	}
	return ws
}

// IsSatisfied checks if every required condition is True in the state.
func (g *Goal) IsSatisfied(state WorldState) bool {
	for _, name := range g.required {
		if state.Get(name) != True {
			return false
		}
	}
	return true
}

// Distance counts the required conditions not yet True in the state.
func (g *Goal) Distance(state WorldState) int {
	distance := 0
	for _, name := range g.required {
		if state.Get(name) != True {
			distance++
		}
	}
	return distance
}

// String returns a string representation of the goal.
func (g *Goal) String() string {
	return fmt.Sprintf("Goal[%s: requires=[%s], value=%.2f]",
		g.name, strings.Join(g.required, ","), g.value)
}

// GoalSet is a collection of goals an agent might pursue.
type GoalSet struct {
	goals []*Goal
}

// NewGoalSet creates a new empty GoalSet.
func NewGoalSet() *GoalSet {
	return &GoalSet{goals: make([]*Goal, 0)}
}

// Add adds a goal to the set.
func (gs *GoalSet) Add(goal *Goal) {
	gs.goals = append(gs.goals, goal)
}

// Goals returns all goals in insertion order.
func (gs *GoalSet) Goals() []*Goal {
	return gs.goals
}

// HighestValue returns the goal with the highest value, or nil if the set
// is empty. Ties keep the earlier-added goal.
func (gs *GoalSet) HighestValue() *Goal {
	if len(gs.goals) == 0 {
		return nil
	}

	highest := gs.goals[0]
	for _, goal := range gs.goals[1:] {
		if goal.value > highest.value {
			highest = goal
		}
	}
	return highest
}

// MostAchievable returns the goal closest to being satisfied in the given
// state, by the distance heuristic. Returns nil if the set is empty.
func (gs *GoalSet) MostAchievable(state WorldState) *Goal {
	if len(gs.goals) == 0 {
		return nil
	}

	best := gs.goals[0]
	minDistance := best.Distance(state)

	for _, goal := range gs.goals[1:] {
		distance := goal.Distance(state)
		if distance < minDistance {
			minDistance = distance
			best = goal
		}
	}
	return best
}

// Satisfied returns the goals currently satisfied by the state.
func (gs *GoalSet) Satisfied(state WorldState) []*Goal {
	satisfied := make([]*Goal, 0)
	for _, goal := range gs.goals {
		if goal.IsSatisfied(state) {
			satisfied = append(satisfied, goal)
		}
	}
	return satisfied
}

// Unsatisfied returns the goals not yet satisfied by the state.
func (gs *GoalSet) Unsatisfied(state WorldState) []*Goal {
	unsatisfied := make([]*Goal, 0)
	for _, goal := range gs.goals {
		if !goal.IsSatisfied(state) {
			unsatisfied = append(unsatisfied, goal)
		}
	}
	return unsatisfied
}

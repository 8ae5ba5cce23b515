package goap

import "github.com/charmbracelet/log"

// PlanningSystem groups the actions and goals known to a planning session.
// It is a registry and query surface only: nothing here executes actions.
// Registration order is significant — it is the planner's final tie-break —
// so the declarative tables that feed a system should be stable.
type PlanningSystem struct {
	actions []Action
	goals   *GoalSet
}

// NewPlanningSystem creates an empty PlanningSystem.
func NewPlanningSystem() *PlanningSystem {
	return &PlanningSystem{
		actions: make([]Action, 0),
		goals:   NewGoalSet(),
	}
}

// RegisterAction adds an action to the system.
func (s *PlanningSystem) RegisterAction(action Action) {
	s.actions = append(s.actions, action)
}

// RegisterActions adds multiple actions, preserving order.
func (s *PlanningSystem) RegisterActions(actions []Action) {
	s.actions = append(s.actions, actions...)
}

// RegisterGoal adds a goal to the system.
func (s *PlanningSystem) RegisterGoal(goal *Goal) {
	s.goals.Add(goal)
}

// Actions returns the registered actions in registration order.
func (s *PlanningSystem) Actions() []Action {
	return s.actions
}

// Goals returns the registered goals in registration order.
func (s *PlanningSystem) Goals() []*Goal {
	return s.goals.Goals()
}

// GoalSet returns the system's goals as a set for selection queries.
func (s *PlanningSystem) GoalSet() *GoalSet {
	return s.goals
}

// GoalNamed returns the goal with the given name, or nil.
func (s *PlanningSystem) GoalNamed(name string) *Goal {
	for _, g := range s.goals.Goals() {
		if g.Name() == name {
			return g
		}
	}
	return nil
}

// Planner builds a planner over the system's actions.
func (s *PlanningSystem) Planner() *Planner {
	return NewPlanner(s.actions)
}

// AchievablePlans returns, in goal registration order, a plan for every
// registered goal that is reachable from the given state. Goals with no
// plan are skipped. Nothing is executed.
func (s *PlanningSystem) AchievablePlans(state WorldState) []*Plan {
	planner := s.Planner()

	plans := make([]*Plan, 0, len(s.goals.Goals()))
	for _, goal := range s.goals.Goals() {
		plan := planner.FindPlan(state, goal)
		if plan == nil {
			log.Debug("Goal not achievable from state", "goal", goal.Name())
			continue
		}
		plans = append(plans, plan)
	}
	return plans
}

package agent

import "fmt"

// History summarizes what a run has done so far. Policies receive a copy,
// never the live counters.
type History struct {
	Ticks           int
	ActionsExecuted int
	CostSpent       float64
	LastAction      string
}

// TerminationPolicy is a composable predicate over a run's history,
// evaluated before each tick. The first policy to fire ends the run as
// Terminated with the policy's reason attached; this is a deliberate stop,
// not a failure.
type TerminationPolicy interface {
	// Name identifies the policy in the termination reason.
	Name() string

	// ShouldStop reports whether the run must stop before the next tick.
	ShouldStop(h History) bool
}

// MaxActionsPolicy stops a run once it has executed a number of actions.
type MaxActionsPolicy struct {
	Limit int
}

func (p MaxActionsPolicy) Name() string {
	return fmt.Sprintf("max-actions(%d)", p.Limit)
}

func (p MaxActionsPolicy) ShouldStop(h History) bool {
	return h.ActionsExecuted >= p.Limit
}

// CostBudgetPolicy stops a run once its summed action cost exceeds a budget.
type CostBudgetPolicy struct {
	Budget float64
}

func (p CostBudgetPolicy) Name() string {
	return fmt.Sprintf("cost-budget(%.2f)", p.Budget)
}

func (p CostBudgetPolicy) ShouldStop(h History) bool {
	return h.CostSpent > p.Budget
}

// PolicyFunc adapts a named function into a TerminationPolicy.
type PolicyFunc struct {
	PolicyName string
	Fn         func(h History) bool
}

func (p PolicyFunc) Name() string { return p.PolicyName }

func (p PolicyFunc) ShouldStop(h History) bool {
	if p.Fn == nil {
		return false
	}
	return p.Fn(h)
}

package agent

import (
	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/stratagem/internal/goap"
)

// StateDeterminer derives a fresh WorldState from a Blackboard by
// evaluating its registered conditions. A new state is produced every
// planning cycle; nothing is cached between ticks, because action
// execution may have changed the board in ways the plan did not predict.
type StateDeterminer struct {
	conditions []goap.Condition
}

// NewStateDeterminer creates a determiner over the given conditions.
func NewStateDeterminer(conditions ...goap.Condition) *StateDeterminer {
	return &StateDeterminer{conditions: conditions}
}

// AddCondition registers another condition to evaluate each cycle.
func (d *StateDeterminer) AddCondition(c goap.Condition) {
	d.conditions = append(d.conditions, c)
}

// Conditions returns the registered conditions.
func (d *StateDeterminer) Conditions() []goap.Condition {
	return d.conditions
}

// Determine evaluates every condition against the board and returns the
// resulting WorldState.
func (d *StateDeterminer) Determine(board *Blackboard) goap.WorldState {
	state := goap.NewWorldState()
	for _, c := range d.conditions {
		det := c.Evaluate(board)
		state = state.With(c.Name(), det)
		log.Debug("Determined condition", "condition", c.Name(), "determination", det)
	}
	return state
}

// BoundCondition builds the usual blackboard-backed condition: a bound
// boolean reports its value, a bound nil or false-y marker reports False,
// any other bound value reports True, and an unbound name is Unknown.
func BoundCondition(name string, cost float64) goap.Condition {
	return goap.NewCondition(name, cost, func(src goap.Source) goap.Determination {
		v, ok := src.Lookup(name)
		if !ok {
			return goap.Unknown
		}
		switch val := v.(type) {
		case nil:
			return goap.False
		case bool:
			if val {
				return goap.True
			}
			return goap.False
		case goap.Determination:
			return val
		default:
			return goap.True
		}
	})
}

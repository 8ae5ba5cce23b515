package goap

import "fmt"

// Source supplies bound values to condition evaluation. The agent package's
// Blackboard implements it; tests can use a plain map wrapper.
type Source interface {
	// Lookup returns the value bound under a name, if any.
	Lookup(name string) (interface{}, bool)
}

// Condition is a named, costed predicate over a Source. Evaluation must be
// pure given the source: no side effects, same source means same result.
//
// Condition names are the dimensions of the planner's state space, so two
// structurally identical condition expressions must produce identical names.
type Condition interface {
	// Name returns the deterministic identifier of this condition.
	Name() string

	// Cost estimates how expensive Evaluate is, in [0.0, 1.0].
	// Cheaper conditions are evaluated first by the combinators.
	Cost() float64

	// Evaluate determines the condition's truth value against the source.
	Evaluate(src Source) Determination
}

// EvalFunc is the evaluation function backing a simple condition.
type EvalFunc func(src Source) Determination

type condition struct {
	name string
	cost float64
	eval EvalFunc
}

// NewCondition creates a condition from a name, an evaluation cost and an
// evaluation function. This is the registration API for leaf conditions;
// composite conditions are built with Not, And and Or.
func NewCondition(name string, cost float64, fn EvalFunc) Condition {
	return &condition{name: name, cost: cost, eval: fn}
}

func (c *condition) Name() string  { return c.name }
func (c *condition) Cost() float64 { return c.cost }

func (c *condition) Evaluate(src Source) Determination {
	if c.eval == nil {
		return Unknown
	}
	return c.eval(src)
}

type notCondition struct {
	inner Condition
}

// Not negates a condition. True and False flip, Unknown stays Unknown.
// The name is "!" + the inner name; the cost is unchanged.
func Not(c Condition) Condition {
	return &notCondition{inner: c}
}

func (c *notCondition) Name() string  { return fmt.Sprintf("!%s", c.inner.Name()) }
func (c *notCondition) Cost() float64 { return c.inner.Cost() }

func (c *notCondition) Evaluate(src Source) Determination {
	return c.inner.Evaluate(src).Not()
}

type andCondition struct {
	left  Condition
	right Condition
}

// And conjoins two conditions with short-circuit evaluation. The cheaper
// operand is evaluated first; if it comes out False the other operand is
// never evaluated. Evaluation may call into arbitrary external logic, so
// skipping the expensive operand matters.
func And(a, b Condition) Condition {
	return &andCondition{left: a, right: b}
}

func (c *andCondition) Name() string {
	return fmt.Sprintf("(%s AND %s)", c.left.Name(), c.right.Name())
}

// Cost reports the cheapest way to begin deciding the conjunction, which is
// the cost actually paid when the first operand short-circuits.
func (c *andCondition) Cost() float64 {
	return minCost(c.left.Cost(), c.right.Cost())
}

func (c *andCondition) Evaluate(src Source) Determination {
	first, second := orderByCost(c.left, c.right)

	d := first.Evaluate(src)
	if d == False {
		return False
	}
	return d.And(second.Evaluate(src))
}

type orCondition struct {
	left  Condition
	right Condition
}

// Or disjoins two conditions, short-circuiting symmetrically to And: the
// cheaper operand goes first, and a True result skips the other operand.
func Or(a, b Condition) Condition {
	return &orCondition{left: a, right: b}
}

func (c *orCondition) Name() string {
	return fmt.Sprintf("(%s OR %s)", c.left.Name(), c.right.Name())
}

func (c *orCondition) Cost() float64 {
	return minCost(c.left.Cost(), c.right.Cost())
}

func (c *orCondition) Evaluate(src Source) Determination {
	first, second := orderByCost(c.left, c.right)

	d := first.Evaluate(src)
	if d == True {
		return True
	}
	return d.Or(second.Evaluate(src))
}

func orderByCost(a, b Condition) (Condition, Condition) {
	if b.Cost() < a.Cost() {
		return b, a
	}
	return a, b
}

func minCost(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

package goap

import (
	"container/heap"
	"math"

	"github.com/charmbracelet/log"
)

// DefaultMaxIterations bounds the search frontier expansion. Exhausting it
// is reported as "no plan".
const DefaultMaxIterations = 10000

// Heuristic estimates the remaining cost from a state to a goal. It must
// never overestimate, or the returned plan may be suboptimal. The zero
// heuristic is always safe and degrades the search to uniform cost.
type Heuristic func(state WorldState, goal *Goal) float64

// ZeroHeuristic estimates nothing, turning A* into Dijkstra.
func ZeroHeuristic(state WorldState, goal *Goal) float64 {
	return 0
}

// Planner finds a minimal-cost sequence of actions that transforms a world
// state into one satisfying a goal, using A* over the discrete state space.
//
// A Planner is a pure, synchronous computation over immutable inputs: it is
// safe to call FindPlan concurrently from independent runs, as long as the
// action list is not modified after construction.
type Planner struct {
	actions       []Action
	heuristic     Heuristic
	maxIterations int
}

// NewPlanner creates a Planner with the given available actions. Action
// order matters: among equal-cost alternatives, earlier-registered actions
// win, which keeps plans reproducible.
func NewPlanner(actions []Action) *Planner {
	return &Planner{
		actions:       actions,
		maxIterations: DefaultMaxIterations,
	}
}

// AddAction appends an action to the available actions.
func (p *Planner) AddAction(action Action) {
	p.actions = append(p.actions, action)
}

// Actions returns the list of available actions.
func (p *Planner) Actions() []Action {
	return p.actions
}

// SetMaxIterations overrides the search expansion budget.
func (p *Planner) SetMaxIterations(n int) {
	if n > 0 {
		p.maxIterations = n
	}
}

// SetHeuristic overrides the remaining-cost estimate. Passing nil restores
// the default goal-distance heuristic.
func (p *Planner) SetHeuristic(h Heuristic) {
	p.heuristic = h
}

// goalDistanceHeuristic builds the default estimate: the count of unmet
// goal conditions scaled by the cheapest per-effect rate across the
// registered actions. A single action writes at most len(effects)
// conditions for cost/len(effects) apiece, so any plan closing d
// conditions costs at least d times that rate; the estimate never
// overshoots no matter how cheap the actions are.
func (p *Planner) goalDistanceHeuristic() Heuristic {
	rate := math.Inf(1)
	for i := range p.actions {
		action := &p.actions[i]
		if len(action.effects) == 0 {
			continue
		}
		if r := action.cost / float64(len(action.effects)); r < rate {
			rate = r
		}
	}
	if math.IsInf(rate, 1) {
		rate = 0
	}
	return func(state WorldState, goal *Goal) float64 {
		return float64(goal.Distance(state)) * rate
	}
}

// node is one expanded point of the search. The action sequence is not
// stored per node; on success the plan is rebuilt by walking parent
// pointers back to the start.
type node struct {
	state  WorldState
	key    string
	gCost  float64
	hCost  float64
	parent *node
	action *Action // action that produced this node, nil at the start
	depth  int     // actions taken so far
	seq    int     // frontier insertion order, last tie-break
	index  int     // heap bookkeeping
}

func (n *node) fCost() float64 {
	return n.gCost + n.hCost
}

// FindPlan searches for the lowest-cost action sequence from the current
// state to a state satisfying the goal. It returns nil when no plan exists,
// which callers must treat as a distinct outcome from an empty plan (the
// goal already holds).
//
// Only actions whose preconditions are fully satisfied by a node's state
// are expanded from it, so actions irrelevant to the goal's dependency
// closure never enter a plan no matter how many are registered. A closed
// set keyed on structural state identity keeps the best known cost per
// state, which is what stops effect-reversing action pairs from looping.
func (p *Planner) FindPlan(current WorldState, goal *Goal) *Plan {
	log.Debug("Starting plan search", "goal", goal.Name(), "current", current.Key())

	if goal.IsSatisfied(current) {
		log.Debug("Goal already satisfied, no actions needed", "goal", goal.Name())
		return newPlan(nil, 0, goal.Value())
	}

	h := p.heuristic
	if h == nil {
		h = p.goalDistanceHeuristic()
	}

	openSet := &priorityQueue{}
	heap.Init(openSet)

	seq := 0
	start := &node{
		state: current,
		key:   current.Key(),
		gCost: 0,
		hCost: h(current, goal),
	}
	heap.Push(openSet, start)

	// Best known g per distinct state. A state rediscovered at equal or
	// higher cost is discarded; only a strictly cheaper path reopens it.
	bestCost := map[string]float64{start.key: 0}

	iterations := 0
	for openSet.Len() > 0 && iterations < p.maxIterations {
		iterations++

		curr := heap.Pop(openSet).(*node)
		if g, seen := bestCost[curr.key]; seen && curr.gCost > g {
			continue // stale frontier entry, a cheaper path got here first
		}

		log.Debug("Exploring node", "depth", curr.depth, "fCost", curr.fCost(), "state", curr.key)

		if goal.IsSatisfied(curr.state) {
			actions := reconstruct(curr)
			log.Debug("Plan found",
				"goal", goal.Name(),
				"actions", len(actions),
				"cost", curr.gCost,
				"iterations", iterations)
			return newPlan(actions, curr.gCost, goal.Value())
		}

		for i := range p.actions {
			action := &p.actions[i]
			if !action.AchievableIn(curr.state) {
				continue
			}

			nextState := action.Apply(curr.state)
			nextKey := nextState.Key()
			nextG := curr.gCost + action.Cost()

			if g, seen := bestCost[nextKey]; seen && nextG >= g {
				continue
			}
			bestCost[nextKey] = nextG

			seq++
			heap.Push(openSet, &node{
				state:  nextState,
				key:    nextKey,
				gCost:  nextG,
				hCost:  h(nextState, goal),
				parent: curr,
				action: action,
				depth:  curr.depth + 1,
				seq:    seq,
			})
		}
	}

	if iterations >= p.maxIterations {
		log.Warn("Plan search exhausted iteration budget", "goal", goal.Name(), "maxIterations", p.maxIterations)
	} else {
		log.Warn("No plan found to achieve goal", "goal", goal.Name())
	}
	return nil
}

// reconstruct walks parent pointers from the goal node back to the start
// and returns the actions in execution order.
func reconstruct(goalNode *node) []Action {
	actions := make([]Action, goalNode.depth)
	for n := goalNode; n.action != nil; n = n.parent {
		actions[n.depth-1] = *n.action
	}
	return actions
}

// priorityQueue is a min-heap of search nodes. Ordering is f-cost, then
// fewer actions, then frontier insertion order, so that among equal-cost
// plans the one built from earlier-registered actions always wins.
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].fCost() != pq[j].fCost() {
		return pq[i].fCost() < pq[j].fCost()
	}
	if pq[i].depth != pq[j].depth {
		return pq[i].depth < pq[j].depth
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	nd := x.(*node)
	nd.index = n
	*pq = append(*pq, nd)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	nd := old[n-1]
	old[n-1] = nil
	nd.index = -1
	*pq = old[0 : n-1]
	return nd
}

// Package agent drives goal-oriented runs: it observes the world through a
// blackboard, derives a planning state, asks the planner for a plan and
// executes it one action per tick, re-planning after every step.
package agent

import "sync"

// BoundEntry is one named value on a Blackboard, in binding order.
type BoundEntry struct {
	Name  string
	Value interface{}
}

// Blackboard is the shared store of bound values that a run's conditions
// read to determine their truth. Each run owns its own Blackboard; the
// store is safe for a status poller on another goroutine, but the run
// itself is single-threaded.
type Blackboard struct {
	mu      sync.RWMutex
	entries map[string]interface{}
	order   []string
}

// NewBlackboard creates an empty Blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{
		entries: make(map[string]interface{}),
	}
}

// Bind stores a value under a name. Rebinding an existing name replaces the
// value but keeps its original position in the bound order.
func (b *Blackboard) Bind(name string, value interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.entries[name]; !exists {
		b.order = append(b.order, name)
	}
	b.entries[name] = value
}

// Get returns the value bound under a name, if any.
func (b *Blackboard) Get(name string) (interface{}, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.entries[name]
	return v, ok
}

// Lookup satisfies goap.Source.
func (b *Blackboard) Lookup(name string) (interface{}, bool) {
	return b.Get(name)
}

// Unbind removes a name from the board.
func (b *Blackboard) Unbind(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.entries[name]; !exists {
		return
	}
	delete(b.entries, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Bound returns the bound entries in binding order.
func (b *Blackboard) Bound() []BoundEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]BoundEntry, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, BoundEntry{Name: name, Value: b.entries[name]})
	}
	return out
}

// Len returns the number of bound entries.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

package goap

import (
	"fmt"
	"sort"
	"strings"
)

// WorldState is a snapshot of condition determinations, keyed by condition
// name. It is treated as an immutable value: every transformation returns a
// new WorldState and never mutates the receiver. A name absent from the map
// reads as Unknown.
type WorldState map[string]Determination

// NewWorldState creates a new empty WorldState.
func NewWorldState() WorldState {
	return make(WorldState)
}

// WorldStateOf copies the given determinations into a fresh WorldState.
func WorldStateOf(conds map[string]Determination) WorldState {
	ws := make(WorldState, len(conds))
	for k, v := range conds {
		ws[k] = v
	}
	return ws
}

// Get returns the determination for a condition name.
// An absent name is Unknown.
func (ws WorldState) Get(name string) Determination {
	return ws[name]
}

// Has checks if a name is explicitly present in the state.
func (ws WorldState) Has(name string) bool {
	_, exists := ws[name]
	return exists
}

// With returns a new WorldState identical to this one except that the named
// condition has the given determination. The receiver is unchanged.
func (ws WorldState) With(name string, d Determination) WorldState {
	next := ws.clone()
	next[name] = d
	return next
}

func (ws WorldState) clone() WorldState {
	next := make(WorldState, len(ws)+1)
	for k, v := range ws {
		next[k] = v
	}
	return next
}

// UnknownConditions returns the sorted names whose determination is Unknown.
func (ws WorldState) UnknownConditions() []string {
	names := []string{}
	for name, d := range ws {
		if d == Unknown {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Variants branches over the uncertainty of a single Unknown condition:
// it returns exactly two new states, identical to this one except that the
// named condition is forced True in the first and False in the second.
func (ws WorldState) Variants(name string) []WorldState {
	return []WorldState{
		ws.With(name, True),
		ws.With(name, False),
	}
}

// WithOneChange returns every state reachable by changing one condition to
// each of the other two determinations. For a state with K conditions this
// is exactly 2K neighbors, in sorted name order for reproducibility.
func (ws WorldState) WithOneChange() []WorldState {
	names := make([]string, 0, len(ws))
	for name := range ws {
		names = append(names, name)
	}
	sort.Strings(names)

	neighbors := make([]WorldState, 0, 2*len(names))
	for _, name := range names {
		for _, d := range []Determination{Unknown, True, False} {
			if d == ws[name] {
				continue
			}
			neighbors = append(neighbors, ws.With(name, d))
		}
	}
	return neighbors
}

// Matches checks if this state satisfies every required determination.
// The match is exact: Unknown in the state never satisfies a required True
// or False, and a required Unknown matches only Unknown (including absence).
func (ws WorldState) Matches(required WorldState) bool {
	for name, want := range required {
		if ws.Get(name) != want {
			return false
		}
	}
	return true
}

// Distance counts the required determinations this state does not meet.
// Used as the planning heuristic.
func (ws WorldState) Distance(required WorldState) int {
	distance := 0
	for name, want := range required {
		if ws.Get(name) != want {
			distance++
		}
	}
	return distance
}

// Key returns a deterministic structural key for this state. Two states with
// the same name→determination mapping produce the same key, which is what
// the planner's closed set relies on.
func (ws WorldState) Key() string {
	if len(ws) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(ws))
	for k := range ws {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(ws))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, ws[k]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// String returns a string representation of the WorldState.
func (ws WorldState) String() string {
	return ws.Key()
}

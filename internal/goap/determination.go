package goap

// Determination is the truth value of a named condition. Planning uses
// Kleene three-valued logic: a condition that has not been evaluated yet is
// Unknown, which is distinct from an evaluated False. Unknown is the zero
// value so that a condition absent from a WorldState reads as Unknown.
type Determination int

const (
	Unknown Determination = iota
	True
	False
)

// String returns a lowercase name suitable for state keys and logs.
func (d Determination) String() string {
	switch d {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Not flips True and False. Unknown stays Unknown.
func (d Determination) Not() Determination {
	switch d {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// And combines two determinations per the Kleene truth table:
// any False wins, True requires both True, everything else is Unknown.
func (d Determination) And(other Determination) Determination {
	if d == False || other == False {
		return False
	}
	if d == True && other == True {
		return True
	}
	return Unknown
}

// Or combines two determinations per the Kleene truth table:
// any True wins, False requires both False, everything else is Unknown.
func (d Determination) Or(other Determination) Determination {
	if d == True || other == True {
		return True
	}
	if d == False && other == False {
		return False
	}
	return Unknown
}

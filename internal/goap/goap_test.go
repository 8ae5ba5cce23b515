package goap

import "testing"

func TestWorldState(t *testing.T) {
	t.Run("Absent key reads as Unknown", func(t *testing.T) {
		ws := NewWorldState()
		if got := ws.Get("missing"); got != Unknown {
			t.Errorf("Expected Unknown, got %s", got)
		}
		if ws.Has("missing") {
			t.Error("Missing key should not be present")
		}
	})

	t.Run("With does not mutate the receiver", func(t *testing.T) {
		ws := NewWorldState().With("a", True)
		next := ws.With("b", False)

		if ws.Has("b") {
			t.Error("Original should not have key b after With")
		}
		if next.Get("a") != True || next.Get("b") != False {
			t.Errorf("Derived state wrong: %s", next)
		}

		overwritten := next.With("a", False)
		if next.Get("a") != True {
			t.Error("With must not overwrite in place")
		}
		if overwritten.Get("a") != False {
			t.Error("With should overwrite in the new state")
		}
	})

	t.Run("UnknownConditions", func(t *testing.T) {
		ws := WorldStateOf(map[string]Determination{
			"b": Unknown,
			"a": Unknown,
			"c": True,
			"d": False,
		})

		got := ws.UnknownConditions()
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("Expected [a b], got %v", got)
		}
	})

	t.Run("Variants force the condition both ways", func(t *testing.T) {
		ws := WorldStateOf(map[string]Determination{"x": Unknown, "y": True})

		variants := ws.Variants("x")
		if len(variants) != 2 {
			t.Fatalf("Expected exactly 2 variants, got %d", len(variants))
		}
		if variants[0].Get("x") != True || variants[1].Get("x") != False {
			t.Errorf("Expected x forced True then False, got %s / %s", variants[0], variants[1])
		}
		for _, v := range variants {
			if v.Get("y") != True {
				t.Error("Variants must leave other conditions unchanged")
			}
		}
		if ws.Get("x") != Unknown {
			t.Error("Variants must not mutate the source state")
		}
	})

	t.Run("WithOneChange yields 2K neighbors", func(t *testing.T) {
		ws := WorldStateOf(map[string]Determination{
			"a": True,
			"b": False,
			"c": Unknown,
			"d": True,
		})

		neighbors := ws.WithOneChange()
		if len(neighbors) != 2*len(ws) {
			t.Fatalf("Expected %d neighbors, got %d", 2*len(ws), len(neighbors))
		}

		seen := make(map[string]bool)
		for _, n := range neighbors {
			if n.Distance(ws)+ws.Distance(n) != 2 {
				// each neighbor differs from the source in exactly one key
				t.Errorf("Neighbor %s differs in more than one condition", n)
			}
			if seen[n.Key()] {
				t.Errorf("Duplicate neighbor %s", n)
			}
			seen[n.Key()] = true
		}
	})

	t.Run("Matches is exact", func(t *testing.T) {
		ws := WorldStateOf(map[string]Determination{"a": True, "b": Unknown})

		if !ws.Matches(WorldState{"a": True}) {
			t.Error("True should match required True")
		}
		if ws.Matches(WorldState{"b": True}) {
			t.Error("Unknown must not satisfy required True")
		}
		if ws.Matches(WorldState{"b": False}) {
			t.Error("Unknown must not satisfy required False")
		}
		if !ws.Matches(WorldState{"b": Unknown}) {
			t.Error("Required Unknown should match Unknown")
		}
		if !ws.Matches(WorldState{"absent": Unknown}) {
			t.Error("Required Unknown should match an absent key")
		}
	})

	t.Run("Key is deterministic", func(t *testing.T) {
		a := WorldStateOf(map[string]Determination{"x": True, "y": False})
		b := NewWorldState().With("y", False).With("x", True)

		if a.Key() != b.Key() {
			t.Errorf("Structurally equal states must share a key: %q vs %q", a.Key(), b.Key())
		}
	})
}

func TestAction(t *testing.T) {
	t.Run("AchievableIn requires exact determinations", func(t *testing.T) {
		action := NewAction("send", "send the report",
			WorldState{"report_ready": True, "queue_empty": False},
			WorldState{"report_sent": True}, 1.0)

		ok := WorldStateOf(map[string]Determination{"report_ready": True, "queue_empty": False})
		if !action.AchievableIn(ok) {
			t.Error("Action should be achievable when preconditions hold")
		}

		unknown := WorldStateOf(map[string]Determination{"report_ready": Unknown, "queue_empty": False})
		if action.AchievableIn(unknown) {
			t.Error("Unknown must not satisfy a required True precondition")
		}
	})

	t.Run("Apply returns a new state", func(t *testing.T) {
		action := NewAction("build", "", WorldState{}, WorldState{"built": True, "dirty": False}, 1.0)
		before := WorldStateOf(map[string]Determination{"dirty": True})

		after := action.Apply(before)
		if before.Get("dirty") != True || before.Has("built") {
			t.Error("Apply must not mutate the input state")
		}
		if after.Get("built") != True || after.Get("dirty") != False {
			t.Errorf("Effects not applied: %s", after)
		}
	})

	t.Run("String sorts condition names", func(t *testing.T) {
		action := NewAction("send", "",
			WorldState{"queue_empty": False, "report_ready": True},
			WorldState{"report_sent": True}, 1.0)

		want := "Action[send cost=1.00 pre={queue_empty=false, report_ready=true} eff={report_sent=true}]"
		for i := 0; i < 20; i++ {
			if got := action.String(); got != want {
				t.Fatalf("Expected %q, got %q", want, got)
			}
		}
	})

	t.Run("Negative cost clamps to zero", func(t *testing.T) {
		action := NewAction("a", "", WorldState{}, WorldState{}, -3)
		if action.Cost() != 0 {
			t.Errorf("Expected cost 0, got %f", action.Cost())
		}
	})

	t.Run("Constructor copies condition maps", func(t *testing.T) {
		pre := WorldState{"p": True}
		action := NewAction("a", "", pre, WorldState{}, 1)
		pre["p"] = False

		if action.Preconditions().Get("p") != True {
			t.Error("Action must own a copy of its preconditions")
		}
	})
}

func TestGoal(t *testing.T) {
	t.Run("Satisfaction and distance", func(t *testing.T) {
		goal := NewGoal("deliver", "deliver the thing", []string{"built", "tested"}, 10)

		state := WorldStateOf(map[string]Determination{"built": True, "tested": Unknown})
		if goal.IsSatisfied(state) {
			t.Error("Goal should not be satisfied with an Unknown requirement")
		}
		if got := goal.Distance(state); got != 1 {
			t.Errorf("Expected distance 1, got %d", got)
		}

		done := state.With("tested", True)
		if !goal.IsSatisfied(done) {
			t.Error("Goal should be satisfied")
		}
		if got := goal.Distance(done); got != 0 {
			t.Errorf("Expected distance 0, got %d", got)
		}
	})

	t.Run("Required names are deduplicated", func(t *testing.T) {
		goal := NewGoal("g", "", []string{"b", "a", "b"}, 1)
		required := goal.RequiredConditions()
		if len(required) != 2 || required[0] != "a" || required[1] != "b" {
			t.Errorf("Expected [a b], got %v", required)
		}
	})

	t.Run("RequiredState requires True everywhere", func(t *testing.T) {
		goal := NewGoal("g", "", []string{"a", "b"}, 1)
		rs := goal.RequiredState()
		if rs.Get("a") != True || rs.Get("b") != True {
			t.Errorf("Expected all-True required state, got %s", rs)
		}
	})
}

func TestGoalSet(t *testing.T) {
	primary := NewGoal("primary", "", []string{"done"}, 100)
	fallback := NewGoal("fallback", "", []string{"partial"}, 10)

	gs := NewGoalSet()
	gs.Add(primary)
	gs.Add(fallback)

	t.Run("HighestValue", func(t *testing.T) {
		if got := gs.HighestValue(); got != primary {
			t.Errorf("Expected primary, got %v", got)
		}
	})

	t.Run("MostAchievable", func(t *testing.T) {
		state := WorldStateOf(map[string]Determination{"partial": True})
		if got := gs.MostAchievable(state); got != fallback {
			t.Errorf("Expected fallback, got %v", got)
		}
	})

	t.Run("Satisfied and Unsatisfied", func(t *testing.T) {
		state := WorldStateOf(map[string]Determination{"partial": True})
		if sat := gs.Satisfied(state); len(sat) != 1 || sat[0] != fallback {
			t.Errorf("Expected [fallback], got %v", sat)
		}
		if unsat := gs.Unsatisfied(state); len(unsat) != 1 || unsat[0] != primary {
			t.Errorf("Expected [primary], got %v", unsat)
		}
	})

	t.Run("Empty set", func(t *testing.T) {
		empty := NewGoalSet()
		if empty.HighestValue() != nil || empty.MostAchievable(NewWorldState()) != nil {
			t.Error("Empty set selections should be nil")
		}
	})
}

func TestPlanningSystem(t *testing.T) {
	system := NewPlanningSystem()
	system.RegisterAction(NewAction("open", "", WorldState{"locked": False}, WorldState{"open": True}, 1))
	system.RegisterAction(NewAction("unlock", "", WorldState{"locked": True}, WorldState{"locked": False}, 1))
	system.RegisterGoal(NewGoal("enter", "", []string{"open"}, 5))
	system.RegisterGoal(NewGoal("fly", "", []string{"airborne"}, 50))

	state := WorldStateOf(map[string]Determination{"locked": True})

	t.Run("AchievablePlans skips unreachable goals", func(t *testing.T) {
		plans := system.AchievablePlans(state)
		if len(plans) != 1 {
			t.Fatalf("Expected 1 achievable plan, got %d", len(plans))
		}
		if plans[0].Len() != 2 {
			t.Errorf("Expected 2-action plan, got %d", plans[0].Len())
		}
	})

	t.Run("GoalNamed", func(t *testing.T) {
		if system.GoalNamed("enter") == nil {
			t.Error("Expected to find goal 'enter'")
		}
		if system.GoalNamed("warp") != nil {
			t.Error("Unknown goal name should return nil")
		}
	})
}

package commands

import (
	"fmt"

	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/stratagem/internal/config"
	"upside-down-research.com/oss/stratagem/internal/spec"
)

// PlanCommand computes and prints a plan without executing anything.
type PlanCommand struct {
	SpecPath string `arg:"" name:"spec" help:"Agent definition file to plan from." type:"path"`
	Goal     string `name:"goal" help:"Goal to plan for (default: first declared goal)."`
	Config   string `name:"config" help:"Configuration file path." default:"stratagem.yaml"`
	All      bool   `name:"all" help:"Show a plan for every achievable goal."`
}

// Run executes the plan command
func (cmd *PlanCommand) Run() error {
	cfg, err := config.LoadConfig(cmd.Config)
	if err != nil {
		return err
	}

	doc, err := spec.Load(cmd.SpecPath)
	if err != nil {
		return err
	}

	system, err := doc.BuildSystem()
	if err != nil {
		return err
	}

	initial, err := doc.InitialState()
	if err != nil {
		return err
	}

	log.Info("Planning", "spec", cmd.SpecPath, "actions", len(system.Actions()), "goals", len(system.Goals()))

	if cmd.All {
		plans := system.AchievablePlans(initial)
		if len(plans) == 0 {
			fmt.Println("No goal is achievable from the initial state.")
			return nil
		}
		for _, plan := range plans {
			fmt.Println(plan)
			fmt.Println()
		}
		return nil
	}

	goal := system.Goals()[0]
	if cmd.Goal != "" {
		goal = system.GoalNamed(cmd.Goal)
		if goal == nil {
			return fmt.Errorf("no goal named %q in %s", cmd.Goal, cmd.SpecPath)
		}
	}

	planner := system.Planner()
	planner.SetMaxIterations(cfg.Planner.MaxIterations)

	plan := planner.FindPlan(initial, goal)
	if plan == nil {
		fmt.Printf("No plan found for goal %q.\n", goal.Name())
		return nil
	}

	fmt.Println(plan)
	return nil
}

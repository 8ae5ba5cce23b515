package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/stratagem/internal/agent"
	"upside-down-research.com/oss/stratagem/internal/config"
	"upside-down-research.com/oss/stratagem/internal/goap"
	"upside-down-research.com/oss/stratagem/internal/o11y"
	"upside-down-research.com/oss/stratagem/internal/spec"
)

// RunCommand drives an agent run to termination, executing actions by
// applying their declared effects to the run's blackboard.
type RunCommand struct {
	SpecPath   string  `arg:"" name:"spec" help:"Agent definition file to run." type:"path"`
	Goal       string  `name:"goal" help:"Goal to pursue (default: first declared goal)."`
	Config     string  `name:"config" help:"Configuration file path." default:"stratagem.yaml"`
	MaxActions int     `name:"max-actions" help:"Override the max-actions termination policy."`
	CostBudget float64 `name:"cost-budget" help:"Override the cost-budget termination policy."`
}

// Run executes the run command
func (cmd *RunCommand) Run() error {
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

	board := agent.NewBlackboard()
	initial, err := doc.InitialState()
	if err != nil {
		return err
	}
	for name, det := range initial {
		switch det {
		case goap.True:
			board.Bind(name, true)
		case goap.False:
			board.Bind(name, false)
		}
	}

	determiner := agent.NewStateDeterminer()
	for _, name := range doc.ConditionNames() {
		determiner.AddCondition(agent.BoundCondition(name, 0.1))
	}

	planner := system.Planner()
	planner.SetMaxIterations(cfg.Planner.MaxIterations)

	proc := agent.NewProcess(planner, determiner, board, agent.ApplyEffectsExecutor())

	if cmd.Goal != "" {
		goal := system.GoalNamed(cmd.Goal)
		if goal == nil {
			return fmt.Errorf("no goal named %q in %s", cmd.Goal, cmd.SpecPath)
		}
		proc.AddGoal(goal)
	} else {
		for _, goal := range system.Goals() {
			proc.AddGoal(goal)
		}
	}

	maxActions := cfg.Run.MaxActions
	if cmd.MaxActions > 0 {
		maxActions = cmd.MaxActions
	}
	if maxActions > 0 {
		proc.AddPolicy(agent.MaxActionsPolicy{Limit: maxActions})
	}

	costBudget := cfg.Run.CostBudget
	if cmd.CostBudget > 0 {
		costBudget = cmd.CostBudget
	}
	if costBudget > 0 {
		proc.AddPolicy(agent.CostBudgetPolicy{Budget: costBudget})
	}

	if cfg.Output.PreserveHistory {
		proc.SetJournal(agent.NewFileJournal(cfg.Output.Directory, proc.ID()))
	}

	if cfg.Metrics.Enabled {
		o11y.Init(cfg.Metrics.PushgatewayURL)
	}

	log.Info("Starting run", "runID", proc.ID(), "spec", cmd.SpecPath)

	started := time.Now()
	status := proc.Run(context.Background())
	elapsed := time.Since(started)

	history := proc.History()
	fmt.Printf("Run %s finished: %s\n", proc.ID(), status)
	if reason := proc.Reason(); reason != "" {
		fmt.Printf("Reason: %s\n", reason)
	}
	fmt.Printf("Ticks: %d, actions executed: %d, cost spent: %.2f, elapsed: %s\n",
		history.Ticks, history.ActionsExecuted, history.CostSpent, elapsed.Round(time.Millisecond))

	if cfg.Metrics.Enabled {
		o11y.WriteData("plan_search_duration", map[string]string{"goal": cmd.Goal}, float32(elapsed.Seconds()))
		o11y.RunCounter.WithLabelValues(cmd.Goal, proc.ID(), string(status)).Inc()
		o11y.Record(o11y.InfluxTarget{
			URL:    cfg.Metrics.InfluxURL,
			Token:  cfg.Metrics.InfluxToken,
			Org:    cfg.Metrics.InfluxOrg,
			Bucket: cfg.Metrics.InfluxBucket,
		}, "agent_run", map[string]string{
			"run_id": proc.ID(),
			"status": string(status),
		}, map[string]interface{}{
			"ticks":      history.Ticks,
			"actions":    history.ActionsExecuted,
			"cost":       history.CostSpent,
			"elapsed_ms": elapsed.Milliseconds(),
		})
	}

	if status == agent.StatusFailed {
		return fmt.Errorf("run failed: %s", proc.Reason())
	}
	return nil
}

package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/stratagem/internal/commands"
)

var CLI struct {
	Plan   commands.PlanCommand   `cmd:"" help:"Compute a plan from an agent definition"`
	Run    commands.RunCommand    `cmd:"" help:"Drive an agent run to termination"`
	Config commands.ConfigCommand `cmd:"" help:"Manage configuration"`

	Verbose bool `name:"verbose" short:"v" help:"Enable debug logging."`
}

func main() {
	log.SetLevel(log.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("stratagem"),
		kong.Description("Stratagem - goal-oriented action planning\n\nPlan and execute action sequences from declarative agent definitions."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: false,
			Summary: true,
		}),
	)

	if CLI.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	err := ctx.Run()
	if err != nil {
		log.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

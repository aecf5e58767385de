package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/publisher/internal/command"
	"github.com/danieljhkim/publisher/internal/config"
	"github.com/danieljhkim/publisher/internal/console"
	"github.com/danieljhkim/publisher/internal/engine"
	"github.com/danieljhkim/publisher/internal/planner"
)

var planNoChecks bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the pipeline a publish run would execute",
	Long: `Locate the project, load its configuration and print the ordered commands a
publish run would execute, without running any of them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine(cmd)
		cwd, err := config.StartDir()
		if err != nil {
			return err
		}

		result, err := eng.Plan(cmd.Context(), &engine.PlanRequest{
			CWD:    cwd,
			Checks: !planNoChecks,
		})
		if err != nil {
			return err
		}

		printPlan(newPrinter(cmd), result)
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVar(&planNoChecks, "no-checks", false, "Skip the lint and test steps")
}

func printPlan(p *console.Printer, result *engine.PlanResult) {
	plan := result.Plan

	p.Section("Project")
	p.Printf("  Root:     %s\n", plan.Root)
	p.Printf("  Out dir:  %s\n", plan.OutDir)
	p.Printf("  Publish:  %t (%s)\n", result.Config.Publish, result.Config.PackageManager)

	p.Section(fmt.Sprintf("Pipeline (%s)", console.Count(len(plan.Commands), "command", "commands")))
	if plan.IsEmpty() {
		p.Println("  nothing to run")
	} else {
		labels := make([]string, 0, len(plan.Commands))
		for _, c := range plan.Commands {
			labels = append(labels, command.Label(c))
		}
		p.NumberedList(labels, 1)
	}

	if plan.Inferred && !plan.BuildFound {
		p.Println()
		p.Warning(fmt.Sprintf("No build step found: publish will refuse to run without one of %s or a %s dependency",
			strings.Join(planner.BuildScripts, ", "), planner.CompilerDependency))
	}
}

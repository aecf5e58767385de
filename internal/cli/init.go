package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/publisher/internal/config"
	"github.com/danieljhkim/publisher/internal/engine"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the project for publisher",
	Long: `Prepare the current project for publisher.

This adds a prepublishOnly script to package.json that blocks a direct
"npm publish", adds a "publisher" script, and writes a starter
.publisherrc.json whose recognised keys are commented out. Existing
scripts and configuration files are left untouched.

Equivalent to "publisher --init".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine(cmd)
		cwd, err := config.StartDir()
		if err != nil {
			return err
		}
		return initProject(cmd.Context(), eng, cwd)
	},
}

func initProject(ctx context.Context, eng *engine.Engine, cwd string) error {
	_, err := eng.Init(ctx, &engine.InitRequest{CWD: cwd})
	return err
}

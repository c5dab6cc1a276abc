package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/sectionforge/internal/app"
)

func newWatchCmd() *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild section templates on change",
		Long: `Build once, then rebuild whenever a template, a referenced schema file,
or the file list of a schema directory changes. Stop with Ctrl+C.

Examples:
  sectionforge watch
  sectionforge watch --interval 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, &flags)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func runWatch(cmd *cobra.Command, flags *watchFlags) error {
	printProgress("Watching section templates (press Ctrl+C to stop)...")

	builds := 0
	err := app.Watch(cmd.Context(), app.WatchOptions{
		BuildOptions: flags.options(),
		Interval:     flags.interval,
		OnBuild: func(result *app.BuildResult, err error) {
			builds++
			if builds > 1 {
				printProgress("Change detected, rebuilt")
			}
			if err != nil {
				printErrorMsg(fmt.Sprintf("Build failed: %v", err))
				return
			}
			printBuildResult(result, flags.dryRun)
		},
	})
	if err != nil {
		printErrorMsg(fmt.Sprintf("Watch failed: %v", err))
		return err
	}

	printInfo("Stopped watching.")
	return nil
}

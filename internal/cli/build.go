package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/sectionforge/internal/app"
)

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build section templates once",
		Long: `Build every template of the source directory into the output directory.

Templates that fail are reported and skipped; the others are still written.
The command exits non-zero when any template failed.

Examples:
  sectionforge build
  sectionforge build --config sectionforge.yaml
  sectionforge build --from-liquid src/sections --from-schema src/schema --output dist
  sectionforge build --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, &flags)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func runBuild(cmd *cobra.Command, flags *buildFlags) error {
	if flags.dryRun {
		printInfo("[DRY RUN] Would build section templates")
	} else {
		printProgress("Building section templates...")
	}

	result, err := app.Build(cmd.Context(), flags.options())
	if err != nil {
		printErrorMsg(fmt.Sprintf("Build failed: %v", err))
		return err
	}

	printBuildResult(result, flags.dryRun)
	if result.HasErrors() {
		return errDiagnostics
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/version"
)

// Version metadata shown by the version command. Initialized from
// internal/version, which carries the ldflags values; tests override these.
var (
	Version   = version.Version
	GitCommit = version.GitCommit
	BuildDate = version.BuildDate
)

// Global flags
var (
	globalNoColor bool
	globalQuiet   bool
	globalDebug   bool
)

// NewRootCommand builds the command tree. Each call binds fresh flag values.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sectionforge",
		Short: "Liquid section template builder",
		Long: `sectionforge builds Liquid section templates.

Each template in the source directory may reference an external schema with
{% schema 'path' %}. The schema is loaded from a JSON, JSONC, YAML or HCL file
under from.schema, or from '@name', which is <name>.hcl under from.generators.
HCL files see the template name and the inline override body, and the result
is written back as a canonical {% schema %} JSON block. A
{% duplicate %}["a", "b"]{% endduplicate %} block emits one copy of the
template per name, with -{{title_section}}- replaced by that name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.SetDebug(globalDebug)
			debug.SetNoColor(globalNoColor)
			debug.SetQuiet(globalQuiet)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	rootCmd.PersistentFlags().BoolVar(&globalDebug, FlagDebug, false, DescDebug)

	// Add subcommands
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command line and exits non-zero on failure. Interrupts
// cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError prints an error message to stderr. Template failures were
// already reported by the build summary.
func printError(err error) {
	if globalQuiet || errors.Is(err, errDiagnostics) {
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}

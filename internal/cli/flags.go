package cli

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/tacogips/sectionforge/internal/app"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig      = "config"
	FlagFromLiquid  = "from-liquid"
	FlagFromSchema  = "from-schema"
	FlagGenerators  = "from-generators"
	FlagTo          = "to"
	FlagOutput      = "output"
	FlagConcurrency = "concurrency"
	FlagDryRun      = "dry-run"
	FlagInterval    = "interval"
	FlagNoColor     = "no-color"
	FlagQuiet       = "quiet"
	FlagDebug       = "debug"

	// Flag descriptions
	DescConfig      = "Path to config file (default: sectionforge.json/.jsonc/.yaml in the working directory)"
	DescFromLiquid  = "Template source directory"
	DescFromSchema  = "Schema base directory"
	DescGenerators  = "Directory of HCL generators referenced as '@name'"
	DescTo          = "Output root, relative to the output directory"
	DescOutput      = "Output directory"
	DescConcurrency = "Maximum templates processed in parallel (0 = number of CPUs)"
	DescDryRun      = "Show what would be written without writing files"
	DescInterval    = "Polling interval (default from config, 1s)"
	DescNoColor     = "Disable colored output"
	DescQuiet       = "Suppress non-error output"
	DescDebug       = "Enable debug logging"
)

// buildFlags holds the flags shared by build and watch.
type buildFlags struct {
	config      string
	fromLiquid  string
	fromSchema  string
	generators  string
	to          string
	output      string
	concurrency int
	dryRun      bool
}

// register adds the shared flags to fs.
func (f *buildFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.config, FlagConfig, "c", "", DescConfig)
	fs.StringVar(&f.fromLiquid, FlagFromLiquid, "", DescFromLiquid)
	fs.StringVar(&f.fromSchema, FlagFromSchema, "", DescFromSchema)
	fs.StringVar(&f.generators, FlagGenerators, "", DescGenerators)
	fs.StringVar(&f.to, FlagTo, "", DescTo)
	fs.StringVarP(&f.output, FlagOutput, "o", "", DescOutput)
	fs.IntVarP(&f.concurrency, FlagConcurrency, "j", 0, DescConcurrency)
	fs.BoolVarP(&f.dryRun, FlagDryRun, "d", false, DescDryRun)
}

// options converts the flags into app options.
func (f *buildFlags) options() app.BuildOptions {
	return app.BuildOptions{
		ConfigPath:     f.config,
		FromLiquid:     f.fromLiquid,
		FromSchema:     f.fromSchema,
		FromGenerators: f.generators,
		To:             f.to,
		OutputDir:      f.output,
		Concurrency:    f.concurrency,
		DryRun:         f.dryRun,
	}
}

// watchFlags adds the watch-only flags to the shared ones.
type watchFlags struct {
	buildFlags
	interval time.Duration
}

func (f *watchFlags) register(fs *pflag.FlagSet) {
	f.buildFlags.register(fs)
	fs.DurationVar(&f.interval, FlagInterval, 0, DescInterval)
}

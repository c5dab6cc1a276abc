package config

// Config represents a sectionforge project configuration.
type Config struct {
	// From holds the source directories.
	From FromConfig `json:"from" yaml:"from"`
	// To is the output root for generated templates, relative to OutputDir
	// unless absolute.
	To string `json:"to" yaml:"to"`
	// OutputDir is the directory output keys are relative to and files are
	// written under.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	// Extension selects template files in From.Liquid.
	Extension string `json:"extension" yaml:"extension"`
	// Concurrency bounds parallel file pipelines (0 = number of CPUs).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// IgnorePatterns are glob patterns of template file names to skip.
	IgnorePatterns []string `json:"ignore_patterns" yaml:"ignore_patterns"`
	// Watch configures the watch workflow.
	Watch WatchConfig `json:"watch" yaml:"watch"`

	// BaseDir is the directory relative paths are resolved against. It is
	// set by the loader to the directory of the configuration file.
	BaseDir string `json:"-" yaml:"-"`
}

// FromConfig represents the source directories.
type FromConfig struct {
	// Liquid is the template source directory.
	Liquid string `json:"liquid" yaml:"liquid"`
	// Schema is the base directory of schema reference paths.
	Schema string `json:"schema" yaml:"schema"`
	// Generators holds HCL generators reachable as '@name', where name is
	// the file name without ".hcl". Optional.
	Generators string `json:"generators,omitempty" yaml:"generators,omitempty"`
}

// WatchConfig represents watch settings.
type WatchConfig struct {
	// Interval is the polling interval as a Go duration string.
	Interval string `json:"interval" yaml:"interval"`
}

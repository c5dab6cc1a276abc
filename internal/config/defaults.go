package config

// DefaultConfigFileNames lists the file names searched for, in order.
var DefaultConfigFileNames = []string{
	"sectionforge.json",
	"sectionforge.jsonc",
	"sectionforge.yaml",
	"sectionforge.yml",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		From: FromConfig{
			Liquid: "src/sections",
			Schema: "src/schema",
		},
		To:             "sections",
		OutputDir:      "dist",
		Extension:      ".liquid",
		Concurrency:    0,
		IgnorePatterns: DefaultIgnorePatterns(),
		Watch: WatchConfig{
			Interval: "1s",
		},
		BaseDir: ".",
	}
}

// DefaultIgnorePatterns returns the default ignore patterns: editor lock and
// backup files.
func DefaultIgnorePatterns() []string {
	return []string{
		".#*",
		"*~",
	}
}

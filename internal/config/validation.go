package config

import (
	"fmt"
	"os"
)

// Validate validates the configuration.
func Validate(config *Config) error {
	loader := NewLoader()
	return loader.Validate(config)
}

// ValidateDirectories checks that the template directory and, when set, the
// generator directory exist. The schema directory may be missing; templates
// that reference it fail individually.
func ValidateDirectories(config *Config) error {
	if err := requireDir(config, "from.liquid", "template source", config.From.Liquid); err != nil {
		return err
	}
	if config.From.Generators != "" {
		return requireDir(config, "from.generators", "generator", config.From.Generators)
	}
	return nil
}

func requireDir(config *Config, field, what, path string) error {
	dir, err := config.Resolve(path)
	if err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", field, err.Error())
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field,
				fmt.Sprintf("%s directory does not exist: %s", what, dir))
		}
		return NewConfigErrorWithField(ConfigValidationFailed, "", field, err.Error())
	}
	if !info.IsDir() {
		return NewConfigErrorWithField(ConfigValidationFailed, "", field,
			fmt.Sprintf("%s path is not a directory: %s", what, dir))
	}
	return nil
}

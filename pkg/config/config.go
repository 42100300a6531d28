// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// EnvOverrider lets a configuration pick up values from the environment
// after the file is applied and before validation.
type EnvOverrider interface {
	ApplyEnv(lookup func(string) (string, bool))
}

// Load loads configuration from a YAML file with environment variable expansion.
// A missing file keeps the values already in target. Unknown keys are errors.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		data = nil
	case err != nil:
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if len(data) > 0 {
		expandedData := os.ExpandEnv(string(data))

		dec := yaml.NewDecoder(bytes.NewReader([]byte(expandedData)))
		dec.KnownFields(true)
		if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	}

	if o, ok := any(target).(EnvOverrider); ok {
		o.ApplyEnv(os.LookupEnv)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

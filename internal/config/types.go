// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOutputDirPath is the sentinel error wrapped by InvalidOutputDirPathError.
	ErrInvalidOutputDirPath = errors.New("invalid output dir path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputDirPath represents a filesystem path build units are published
	// under. The zero value ("") is valid and means "use the default runes
	// directory". Non-zero values must not be whitespace-only.
	OutputDirPath string

	// InvalidOutputDirPathError is returned when an OutputDirPath value is
	// non-empty but whitespace-only. It wraps ErrInvalidOutputDirPath for
	// errors.Is() compatibility.
	InvalidOutputDirPathError struct {
		Value OutputDirPath
	}

	// Config is the application configuration.
	Config struct {
		// OutputDir is where published build units land, as OutputDir/<name>.
		OutputDir OutputDirPath `mapstructure:"output_dir"`
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when a Config fails validation.
	// It wraps ErrInvalidConfig plus the individual field failures.
	InvalidConfigError struct {
		Errs []error
	}
)

// Error implements the error interface.
func (e *InvalidOutputDirPathError) Error() string {
	return fmt.Sprintf("output dir path %q must not be whitespace-only", string(e.Value))
}

// Unwrap returns ErrInvalidOutputDirPath so callers can use errors.Is.
func (e *InvalidOutputDirPathError) Unwrap() error { return ErrInvalidOutputDirPath }

// Validate checks that the path is usable.
func (p OutputDirPath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidOutputDirPathError{Value: p}
	}
	return nil
}

// String returns the path as a plain string.
func (p OutputDirPath) String() string { return string(p) }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns the sentinel plus every field failure for errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.Errs...)
}

// Validate checks every field of the configuration.
func (c *Config) Validate() error {
	var errs []error
	if err := c.OutputDir.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{Errs: errs}
	}
	return nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "",
		Verbose:   false,
	}
}

// SPDX-License-Identifier: MPL-2.0

package config

import "context"

var (
	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride forces loading from a specific config file,
	// set from the --config flag.
	configFilePathOverride string
)

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride forces loading from a specific config file.
// Set from the CLI's --config flag before the first Load call.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// Load reads the configuration using the package-level overrides. It is the
// convenience entry point for the CLI layer; code that wants explicit
// options should use a Provider instead.
func Load() (*Config, error) {
	return NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
}

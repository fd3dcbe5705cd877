// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is loaded from ~/.config/runec/config.toml (or XDG equivalent on Linux,
// ~/Library/Application Support/runec/config.toml on macOS, %APPDATA%\runec\config.toml
// on Windows). The package provides type-safe configuration access covering the output
// directory for published build units and verbosity.
package config

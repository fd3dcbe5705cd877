// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for runec.
//
// This package implements the Cobra command hierarchy for the runec CLI:
// the root command, the build command that compiles a Runefile into a
// published build unit, and the check command that validates a Runefile
// without emitting anything.
package cmd

// SPDX-License-Identifier: MPL-2.0

// Package issue turns compile failures into guidance: a catalog of
// Markdown cards describing each failure class and how to fix it, plus
// ActionableError for attaching operation context and remediation hints
// to errors on their way to the CLI.
package issue

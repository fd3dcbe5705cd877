// SPDX-License-Identifier: MPL-2.0

package runefile

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel error wrapped by SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError is returned when source text doesn't match the Runefile
// grammar. It wraps ErrSyntax and carries the offending source region so
// callers can point at the exact problem without re-running with tracing.
type SyntaxError struct {
	// Msg describes the grammar mismatch.
	Msg string
	// Span is the offending source region.
	Span Span
	// Text is the offending text itself.
	Text string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("syntax error at %s: %s (found %q)", e.Span, e.Msg, e.Text)
	}
	return fmt.Sprintf("syntax error at %s: %s", e.Span, e.Msg)
}

// Unwrap returns ErrSyntax so callers can use errors.Is.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntaxError(msg string, span Span, text string) error {
	return &SyntaxError{Msg: msg, Span: span, Text: text}
}

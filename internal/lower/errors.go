// SPDX-License-Identifier: MPL-2.0

package lower

import (
	"errors"
	"fmt"

	"runec/internal/resolve"
	"runec/pkg/runefile"
)

var (
	// ErrDanglingReference is the sentinel error wrapped by DanglingReferenceError.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrDuplicateStage is the sentinel error wrapped by DuplicateStageError.
	ErrDuplicateStage = errors.New("duplicate stage")
	// ErrConflictingDependency is the sentinel error wrapped by ConflictingDependencyError.
	ErrConflictingDependency = errors.New("conflicting dependency")
	// ErrInvalidStageType is the sentinel error wrapped by InvalidStageTypeError.
	ErrInvalidStageType = errors.New("invalid stage type")
)

type (
	// DanglingReferenceError is returned when a RUN step names a stage that
	// was never declared.
	DanglingReferenceError struct {
		// Name is the missing stage name, with the span of its use.
		Name runefile.Ident
		// RunSpan is the span of the RUN instruction holding the use.
		RunSpan runefile.Span
	}

	// DuplicateStageError is returned when two stages declare the same name.
	// Shadowing an earlier stage is rejected rather than silently resolved.
	DuplicateStageError struct {
		// Name is the offending re-declaration.
		Name runefile.Ident
		// Previous is the span of the earlier declaration.
		Previous runefile.Span
	}

	// ConflictingDependencyError is returned when one dependency key would
	// be bound to two different resolutions within a single compile.
	ConflictingDependencyError struct {
		Name   string
		First  resolve.Dependency
		Second resolve.Dependency
	}

	// InvalidStageTypeError is returned when a stage's buffer type
	// annotation doesn't survive shape validation.
	InvalidStageTypeError struct {
		// Stage is the stage carrying the bad annotation.
		Stage runefile.Ident
		// Span is the annotation's source region.
		Span runefile.Span
		// Err is the underlying shape failure.
		Err error
	}
)

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("RUN at %s references undefined stage %q (at %s)", e.RunSpan, e.Name.Value, e.Name.Span)
}

// Unwrap returns ErrDanglingReference so callers can use errors.Is.
func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// Error implements the error interface.
func (e *DuplicateStageError) Error() string {
	return fmt.Sprintf("stage %q at %s was already declared at %s", e.Name.Value, e.Name.Span, e.Previous)
}

// Unwrap returns ErrDuplicateStage so callers can use errors.Is.
func (e *DuplicateStageError) Unwrap() error { return ErrDuplicateStage }

// Error implements the error interface.
func (e *ConflictingDependencyError) Error() string {
	return fmt.Sprintf("dependency %q resolves to both %s and %s", e.Name, e.First, e.Second)
}

// Unwrap returns ErrConflictingDependency so callers can use errors.Is.
func (e *ConflictingDependencyError) Unwrap() error { return ErrConflictingDependency }

// Error implements the error interface.
func (e *InvalidStageTypeError) Error() string {
	return fmt.Sprintf("stage %q has an invalid type at %s: %v", e.Stage.Value, e.Span, e.Err)
}

// Unwrap returns the underlying shape failure; errors.Is also matches
// ErrInvalidStageType.
func (e *InvalidStageTypeError) Unwrap() []error {
	return []error{ErrInvalidStageType, e.Err}
}

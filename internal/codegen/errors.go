// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant is the sentinel error wrapped by InvariantError.
	ErrInvariant = errors.New("codegen invariant violated")
	// ErrArtifactWrite is the sentinel error wrapped by ArtifactWriteError.
	ErrArtifactWrite = errors.New("artifact write failed")
)

type (
	// InvariantError reports a graph that violates a guarantee lowering is
	// supposed to enforce. It marks a defect in the compiler, not a problem
	// with the user's Runefile.
	InvariantError struct {
		// Stage is the execution-order entry with no resolvable node.
		Stage string
	}

	// ArtifactWriteError reports a failed write during publish. Publish is
	// transactional, so a write failure leaves no partial output behind.
	ArtifactWriteError struct {
		// Path is the file or directory the write targeted.
		Path string
		// Err is the underlying filesystem failure.
		Err error
	}
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("execution order references stage %q with no node in the pipeline graph", e.Stage)
}

// Unwrap returns ErrInvariant so callers can use errors.Is.
func (e *InvariantError) Unwrap() error { return ErrInvariant }

// Error implements the error interface.
func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying failure; errors.Is also matches
// ErrArtifactWrite.
func (e *ArtifactWriteError) Unwrap() []error {
	return []error{ErrArtifactWrite, e.Err}
}

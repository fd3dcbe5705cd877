// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"runec/internal/build"
	"runec/internal/codegen"
	"runec/internal/issue"
	"runec/internal/lower"
	"runec/pkg/runefile"
	"runec/pkg/shape"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyCompileError maps compile failures to issue catalog IDs and
// returns a styled message for CLI rendering.
func classifyCompileError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	switch {
	case errors.Is(err, runefile.ErrSyntax):
		issueID = issue.SyntaxErrorId
	case errors.Is(err, runefile.ErrPathFormat):
		issueID = issue.PathFormatErrorId
	case errors.Is(err, lower.ErrDanglingReference):
		issueID = issue.DanglingReferenceId
	case errors.Is(err, lower.ErrDuplicateStage):
		issueID = issue.DuplicateStageId
	case errors.Is(err, lower.ErrConflictingDependency):
		issueID = issue.ConflictingDependencyId
	case errors.Is(err, lower.ErrInvalidStageType),
		errors.Is(err, shape.ErrUnknownElementType),
		errors.Is(err, shape.ErrBadDimension):
		issueID = issue.InvalidStageTypeId
	case errors.Is(err, codegen.ErrArtifactWrite):
		issueID = issue.ArtifactWriteFailedId
	case errors.Is(err, build.ErrModelFile):
		issueID = issue.ModelFileNotFoundId
	case errors.Is(err, os.ErrNotExist):
		issueID = issue.RunefileNotFoundId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package runefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPathFormat is the sentinel error wrapped by PathFormatError.
var ErrPathFormat = errors.New("malformed dependency path")

type (
	// Path describes where an external dependency comes from. The full
	// syntax is "base@version#sub_path" where
	//
	//   - base is a bare name, an owner/repo GitHub-style reference, a URL,
	//     or a "."-prefixed local filesystem reference
	//   - version optionally pins a version (registry version or git tag)
	//   - sub_path optionally selects a directory inside repositories that
	//     hold several relevant items
	//
	// Version and SubPath are empty when absent. Resolution policy lives in
	// internal/resolve; a Path only captures the reference.
	Path struct {
		Base    string
		SubPath string
		Version string
		Span    Span
	}

	// PathFormatError is returned for text that doesn't follow the
	// base@version#sub_path syntax. It wraps ErrPathFormat and identifies
	// the offending substring.
	PathFormatError struct {
		// Found is the full text that failed to parse.
		Found string
		// Offending is the substring that made it invalid.
		Offending string
	}
)

// Error implements the error interface.
func (e *PathFormatError) Error() string {
	if e.Offending != "" && e.Offending != e.Found {
		return fmt.Sprintf("malformed dependency path %q: invalid %q", e.Found, e.Offending)
	}
	return fmt.Sprintf("malformed dependency path %q", e.Found)
}

// Unwrap returns ErrPathFormat so callers can use errors.Is.
func (e *PathFormatError) Unwrap() error { return ErrPathFormat }

// NewPath constructs a Path. Empty version/subPath mean "absent".
func NewPath(base, version, subPath string, span Span) Path {
	return Path{Base: base, Version: version, SubPath: subPath, Span: span}
}

// ParsePath parses the base@version#sub_path reference syntax. The span of
// the returned Path covers the whole text.
func ParsePath(s string, span Span) (Path, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Path{}, &PathFormatError{Found: s, Offending: s}
	}

	rest := text
	subPath := ""
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		subPath = rest[i+1:]
		rest = rest[:i]
		if subPath == "" {
			return Path{}, &PathFormatError{Found: text, Offending: "#"}
		}
		if strings.ContainsRune(subPath, '#') {
			return Path{}, &PathFormatError{Found: text, Offending: subPath}
		}
	}

	// The version separator is the last '@' so that ssh-style bases like
	// git@github.com:user/repo keep their '@'. A candidate version holding
	// a '/' is part of the base, not a version.
	version := ""
	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		candidate := rest[i+1:]
		if candidate == "" {
			return Path{}, &PathFormatError{Found: text, Offending: "@"}
		}
		if !strings.ContainsRune(candidate, '/') {
			version = candidate
			rest = rest[:i]
		}
	}

	if rest == "" {
		return Path{}, &PathFormatError{Found: text, Offending: text}
	}

	return NewPath(rest, version, subPath, span), nil
}

// IsLocal reports whether the path refers to the local filesystem.
func (p Path) IsLocal() bool { return strings.HasPrefix(p.Base, ".") }

// String renders the path back into base@version#sub_path form.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Base)
	if p.Version != "" {
		sb.WriteByte('@')
		sb.WriteString(p.Version)
	}
	if p.SubPath != "" {
		sb.WriteByte('#')
		sb.WriteString(p.SubPath)
	}
	return sb.String()
}

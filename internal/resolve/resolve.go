// SPDX-License-Identifier: MPL-2.0

// Package resolve classifies dependency paths into concrete resolution
// strategies: builtin, local filesystem, registry, or remote git. It never
// touches the network; the output is typed metadata that the manifest
// generator renders verbatim, so the policy is enforced by construction
// rather than by string formatting at emission time.
package resolve

import (
	"path/filepath"
	"slices"
	"strings"

	"runec/pkg/runefile"
)

const (
	// BuiltinBase is the path base that short-circuits to the compiler's
	// own pinned builtin distribution, regardless of version or sub path.
	BuiltinBase = "hotg-ai/rune"

	// BuiltinRepo is the git address of the builtin distribution.
	BuiltinRepo = "https://github.com/hotg-ai/rune"

	// BuiltinTag is the distribution tag every builtin reference pins to.
	BuiltinTag = "nightly"
)

// Dependency is the typed result of resolving a path. Exactly one strategy
// is populated; the TOML tags are the manifest wire format.
type Dependency struct {
	// Version pins a registry release.
	Version string `toml:"version,omitempty"`
	// Git is the address of a remote source-control dependency.
	Git string `toml:"git,omitempty"`
	// Tag pins a git dependency to a tag.
	Tag string `toml:"tag,omitempty"`
	// Path points at a local filesystem dependency.
	Path string `toml:"path,omitempty"`
	// Features activates optional functionality of the dependency.
	Features []string `toml:"features,omitempty"`
}

// Resolve applies the resolution policy, in priority order:
//
//  1. the builtin base pins to the builtin repo's distribution tag
//  2. a "."-prefixed base is a local path relative to workDir
//  3. a bare versioned name (no sub path, no '/') is a registry dependency
//  4. anything else is a git dependency derived from the base; a captured
//     version maps to a git tag
func Resolve(path runefile.Path, workDir string) Dependency {
	if path.Base == BuiltinBase {
		return Dependency{Git: BuiltinRepo, Tag: BuiltinTag}
	}

	if path.IsLocal() {
		return Dependency{Path: filepath.Join(workDir, path.Base)}
	}

	if path.SubPath == "" && !strings.Contains(path.Base, "/") && path.Version != "" {
		return Dependency{Version: path.Version}
	}

	dep := Dependency{Git: gitAddress(path.Base)}
	if path.Version != "" {
		// Treating the version as a git tag is a documented decision; see
		// DESIGN.md for the branch/revision ambiguity.
		dep.Tag = path.Version
	}
	return dep
}

// Builtin returns the pinned dependency every builtin reference resolves to.
func Builtin() Dependency {
	return Dependency{Git: BuiltinRepo, Tag: BuiltinTag}
}

// CrateName derives the dependency-table key for a reference: the last
// segment of the sub path when present, otherwise the last segment of the
// base. Two references naming the same crate therefore share one table
// entry, which is what makes conflicting resolutions detectable.
func CrateName(path runefile.Path) string {
	segments := path.Base
	if path.SubPath != "" {
		segments = path.SubPath
	}
	if idx := strings.LastIndexByte(segments, '/'); idx >= 0 {
		segments = segments[idx+1:]
	}
	return segments
}

// gitAddress derives a clone address from a path base. Full URLs pass
// through untouched; bare owner/repo references become GitHub addresses.
func gitAddress(base string) string {
	if strings.Contains(base, "://") || strings.HasPrefix(base, "git@") {
		return base
	}
	return "https://github.com/" + base + ".git"
}

// Equal reports whether two resolutions are identical. Lowering relies on
// this to tell a harmless duplicate insert from a conflicting one.
func (d Dependency) Equal(other Dependency) bool {
	return d.Version == other.Version &&
		d.Git == other.Git &&
		d.Tag == other.Tag &&
		d.Path == other.Path &&
		slices.Equal(d.Features, other.Features)
}

// String renders the resolution for diagnostics.
func (d Dependency) String() string {
	switch {
	case d.Git != "" && d.Tag != "":
		return d.Git + " (tag " + d.Tag + ")"
	case d.Git != "":
		return d.Git
	case d.Path != "":
		return d.Path
	case d.Version != "":
		return "registry " + d.Version
	default:
		return "(unresolved)"
	}
}

// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"runec/internal/lower"
	"runec/internal/resolve"
)

type (
	// Manifest is the Cargo.toml document describing the generated crate.
	// Field order is the serialization order; the dependency table is a map
	// and serializes key-sorted, so the dependency set rather than its
	// order is the wire contract.
	Manifest struct {
		Package      Package                       `toml:"package"`
		Lib          Product                       `toml:"lib"`
		Dependencies map[string]resolve.Dependency `toml:"dependencies"`
		Workspace    Workspace                     `toml:"workspace"`
	}

	// Package is the [package] section.
	Package struct {
		Name     string `toml:"name"`
		Version  string `toml:"version"`
		Edition  string `toml:"edition"`
		Publish  bool   `toml:"publish"`
		Resolver string `toml:"resolver"`
	}

	// Product is the [lib] section declaring the compiled library.
	Product struct {
		Path      string   `toml:"path"`
		CrateType []string `toml:"crate-type"`
	}

	// Workspace is the [workspace] section. The generated crate is always
	// its own single-member workspace so it never inherits settings from an
	// enclosing project.
	Workspace struct {
		Members        []string `toml:"members"`
		DefaultMembers []string `toml:"default-members"`
	}
)

// NewManifest builds the manifest for a lowered pipeline. The dependency
// table is the base set plus one entry per resolved external reference.
func NewManifest(graph *lower.Graph, name string) Manifest {
	dependencies := baseDependencies()
	for crate, dep := range graph.Dependencies {
		dependencies[crate] = dep
	}

	return Manifest{
		Package: Package{
			Name:     name,
			Version:  "0.0.0",
			Edition:  "2018",
			Publish:  false,
			Resolver: "2",
		},
		Lib: Product{
			Path:      "lib.rs",
			CrateType: []string{"cdylib"},
		},
		Dependencies: dependencies,
		Workspace: Workspace{
			Members:        []string{"."},
			DefaultMembers: []string{"."},
		},
	}
}

// Render serializes the manifest to TOML.
func (m Manifest) Render() ([]byte, error) {
	out, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serializing manifest: %w", err)
	}
	return out, nil
}

// baseDependencies returns the dependency set every generated crate starts
// from: the logging facade, the lazy initialization helper, and the pinned
// builtin runtime crates.
func baseDependencies() map[string]resolve.Dependency {
	deps := map[string]resolve.Dependency{
		"log": {
			Version:  "0.4",
			Features: []string{"max_level_debug", "release_max_level_info"},
		},
		"lazy_static": {
			Version:  "1.0",
			Features: []string{"spin_no_std"},
		},
	}
	for _, crate := range []string{"hotg-rune-core", "hotg-rune-proc-blocks", "hotg-runicos-base-wasm"} {
		deps[crate] = resolve.Builtin()
	}
	return deps
}

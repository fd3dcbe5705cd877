// SPDX-License-Identifier: MPL-2.0

package codegen

import "runec/internal/lower"

const (
	// ManifestFile is the dependency manifest's name inside the build unit.
	ManifestFile = "Cargo.toml"
	// SourceFile is the generated pipeline source's name inside the build unit.
	SourceFile = "lib.rs"
)

// Artifact is one generated file, held in memory until publish.
type Artifact struct {
	// Name is the file name relative to the build unit root.
	Name string
	// Contents is the complete file body.
	Contents []byte
}

// Generate produces the complete in-memory build unit for a lowered
// pipeline: the dependency manifest and the pipeline source.
func Generate(graph *lower.Graph, name string) ([]Artifact, error) {
	manifest, err := NewManifest(graph, name).Render()
	if err != nil {
		return nil, err
	}

	source, err := GenerateSource(graph)
	if err != nil {
		return nil, err
	}

	return []Artifact{
		{Name: ManifestFile, Contents: manifest},
		{Name: SourceFile, Contents: source},
	}, nil
}

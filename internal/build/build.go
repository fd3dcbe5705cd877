// SPDX-License-Identifier: MPL-2.0

// Package build orchestrates a full compile: read the Runefile, parse it,
// lower it into the pipeline graph, generate the build unit, and publish it
// atomically. It owns no policy of its own: every stage lives in its own
// package and this one only sequences them.
package build

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"runec/internal/codegen"
	"runec/internal/lower"
	"runec/pkg/runefile"
)

// DefaultName is the crate name used when the caller supplies none.
const DefaultName = "rune"

// ErrModelFile is the sentinel error wrapped by ModelFileError.
var ErrModelFile = errors.New("model file unavailable")

// ModelFileError reports a model file that could not be read for embedding.
type ModelFileError struct {
	// Stage is the model stage referencing the file.
	Stage string
	// File is the reference as written in the Runefile.
	File string
	// Err is the underlying filesystem failure.
	Err error
}

// Error implements the error interface.
func (e *ModelFileError) Error() string {
	return fmt.Sprintf("reading model %s for stage %q: %v", e.File, e.Stage, e.Err)
}

// Unwrap returns the underlying failure; errors.Is also matches ErrModelFile.
func (e *ModelFileError) Unwrap() []error {
	return []error{ErrModelFile, e.Err}
}

type (
	// Options configures one compile.
	Options struct {
		// RunefilePath is the pipeline description to compile.
		RunefilePath string
		// Name is the generated crate's name. Empty means DefaultName.
		Name string
		// OutputDir is the directory the build unit is published under,
		// as OutputDir/Name.
		OutputDir string
	}

	// Result describes a finished compile.
	Result struct {
		// ID uniquely identifies this compile run.
		ID string
		// Name is the generated crate's name.
		Name string
		// Dir is the published build unit's location.
		Dir string
		// Graph is the lowered pipeline, kept for reporting.
		Graph *lower.Graph
	}
)

// Compile runs the whole pipeline and publishes the build unit. Parsing and
// lowering failures abort before anything touches the filesystem.
func Compile(opts Options) (*Result, error) {
	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	id := uuid.NewString()
	logger := slog.With("build", id, "runefile", opts.RunefilePath)

	graph, err := Check(opts.RunefilePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("pipeline lowered", "stages", len(graph.Nodes), "sink", graph.Sink)

	artifacts, err := codegen.Generate(graph, name)
	if err != nil {
		return nil, err
	}

	models, err := modelArtifacts(graph, filepath.Dir(opts.RunefilePath))
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, models...)

	dir := filepath.Join(opts.OutputDir, name)
	if err := codegen.Publish(artifacts, dir); err != nil {
		return nil, err
	}
	logger.Debug("build unit published", "dir", dir)

	return &Result{ID: id, Name: name, Dir: dir, Graph: graph}, nil
}

// Check parses and lowers a Runefile without emitting anything. It backs
// both the compile path and the standalone validation command.
func Check(runefilePath string) (*lower.Graph, error) {
	src, err := os.ReadFile(runefilePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", runefilePath, err)
	}

	doc, err := runefile.Parse(string(src))
	if err != nil {
		return nil, err
	}

	return lower.Lower(doc, filepath.Dir(runefilePath))
}

// modelArtifacts loads every locally referenced model file so the generated
// source's include_bytes! targets travel with the build unit.
func modelArtifacts(graph *lower.Graph, workDir string) ([]codegen.Artifact, error) {
	var artifacts []codegen.Artifact
	for _, node := range graph.StagesInDeclarationOrder() {
		if node.Role != lower.RoleModel || node.Dependency != nil {
			continue
		}
		source := node.File
		if !filepath.IsAbs(source) {
			source = filepath.Join(workDir, source)
		}
		contents, err := os.ReadFile(source)
		if err != nil {
			return nil, &ModelFileError{Stage: node.Name.Value, File: node.File, Err: err}
		}
		artifacts = append(artifacts, codegen.Artifact{
			Name:     filepath.Base(node.File),
			Contents: contents,
		})
	}
	return artifacts, nil
}

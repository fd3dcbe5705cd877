// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Publish writes a build unit to dir in one atomic step: everything goes
// into a staging directory first, which is renamed into place only once
// every file landed. A previously published unit at dir is replaced. Any
// failure leaves the destination untouched.
func Publish(artifacts []Artifact, dir string) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return &ArtifactWriteError{Path: parent, Err: err}
	}

	staging, err := os.MkdirTemp(parent, filepath.Base(dir)+"-staging-*")
	if err != nil {
		return &ArtifactWriteError{Path: parent, Err: err}
	}
	defer os.RemoveAll(staging)

	for _, artifact := range artifacts {
		target := filepath.Join(staging, artifact.Name)
		if err := os.WriteFile(target, artifact.Contents, 0o644); err != nil {
			return &ArtifactWriteError{Path: target, Err: err}
		}
		slog.Debug("staged artifact", "file", artifact.Name, "bytes", len(artifact.Contents))
	}

	if err := os.RemoveAll(dir); err != nil {
		return &ArtifactWriteError{Path: dir, Err: err}
	}
	if err := os.Rename(staging, dir); err != nil {
		return &ArtifactWriteError{Path: dir, Err: err}
	}

	slog.Debug("published build unit", "dir", dir, "artifacts", len(artifacts))
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"runec/internal/codegen"
	"runec/internal/lower"
	"runec/pkg/runefile"
)

const sineRunefile = `FROM runicos/base

CAPABILITY<f32[1]> RAND rand --n 1
PROC_BLOCK<f32[1],f32[1]> hotg-ai/rune#proc_blocks/modulo mod360 --modulus 360
MODEL<f32[1],f32[1]> ./sinemodel.tflite sine

RUN rand mod360 sine
OUT serial
`

func writeProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Runefile"), []byte(sineRunefile), 0o644); err != nil {
		t.Fatalf("writing Runefile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sinemodel.tflite"), []byte("model-bytes"), 0o644); err != nil {
		t.Fatalf("writing model: %v", err)
	}
	return dir
}

func TestCompilePublishesTheBuildUnit(t *testing.T) {
	project := writeProject(t)
	output := t.TempDir()

	result, err := Compile(Options{
		RunefilePath: filepath.Join(project, "Runefile"),
		Name:         "sine",
		OutputDir:    output,
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if result.Dir != filepath.Join(output, "sine") {
		t.Errorf("Dir = %q, want %q", result.Dir, filepath.Join(output, "sine"))
	}
	if result.ID == "" {
		t.Error("ID is empty")
	}

	for _, name := range []string{codegen.ManifestFile, codegen.SourceFile, "sinemodel.tflite"} {
		if _, err := os.Stat(filepath.Join(result.Dir, name)); err != nil {
			t.Errorf("published unit is missing %s: %v", name, err)
		}
	}

	manifest, err := os.ReadFile(filepath.Join(result.Dir, codegen.ManifestFile))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if !strings.Contains(string(manifest), "name = 'sine'") {
		t.Errorf("manifest does not carry the crate name:\n%s", manifest)
	}
}

func TestCompileDefaultsTheCrateName(t *testing.T) {
	project := writeProject(t)

	result, err := Compile(Options{
		RunefilePath: filepath.Join(project, "Runefile"),
		OutputDir:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if result.Name != DefaultName {
		t.Errorf("Name = %q, want %q", result.Name, DefaultName)
	}
}

func TestCompileMissingRunefile(t *testing.T) {
	_, err := Compile(Options{
		RunefilePath: filepath.Join(t.TempDir(), "Runefile"),
		OutputDir:    t.TempDir(),
	})
	if err == nil {
		t.Fatal("Compile() succeeded with a missing Runefile")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestCompileMissingModelFile(t *testing.T) {
	project := writeProject(t)
	if err := os.Remove(filepath.Join(project, "sinemodel.tflite")); err != nil {
		t.Fatalf("removing model: %v", err)
	}
	output := t.TempDir()

	_, err := Compile(Options{
		RunefilePath: filepath.Join(project, "Runefile"),
		Name:         "sine",
		OutputDir:    output,
	})
	if err == nil {
		t.Fatal("Compile() succeeded with a missing model file")
	}
	if !errors.Is(err, ErrModelFile) {
		t.Errorf("error = %v, want ErrModelFile", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}

	// Nothing may have been published.
	if _, statErr := os.Stat(filepath.Join(output, "sine")); !os.IsNotExist(statErr) {
		t.Error("a failed compile left output behind")
	}
}

func TestCompileSyntaxErrorAbortsBeforePublish(t *testing.T) {
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "Runefile"), []byte("BOGUS nothing\n"), 0o644); err != nil {
		t.Fatalf("writing Runefile: %v", err)
	}
	output := t.TempDir()

	_, err := Compile(Options{
		RunefilePath: filepath.Join(project, "Runefile"),
		OutputDir:    output,
	})
	if !errors.Is(err, runefile.ErrSyntax) {
		t.Fatalf("Compile() error = %v, want ErrSyntax", err)
	}

	entries, readErr := os.ReadDir(output)
	if readErr != nil {
		t.Fatalf("ReadDir() error = %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("a failed compile left output behind: %v", entries)
	}
}

func TestCheckReportsLoweringFailures(t *testing.T) {
	project := t.TempDir()
	src := "CAPABILITY<f32[1]> RAND rand\nRUN rand missing\n"
	path := filepath.Join(project, "Runefile")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing Runefile: %v", err)
	}

	_, err := Check(path)
	if !errors.Is(err, lower.ErrDanglingReference) {
		t.Fatalf("Check() error = %v, want ErrDanglingReference", err)
	}
}

func TestCheckProducesTheGraph(t *testing.T) {
	project := writeProject(t)

	graph, err := Check(filepath.Join(project, "Runefile"))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(graph.RunOrder) != 3 {
		t.Errorf("RunOrder = %v, want 3 stages", graph.RunOrder)
	}
}

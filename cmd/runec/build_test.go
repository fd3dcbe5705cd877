// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testRunefile = `FROM runicos/base

CAPABILITY<F32[1]> RAND rand --n 1
PROC_BLOCK<f32[1],f32[1]> hotg-ai/rune#proc_blocks/modulo mod360 --modulus 360
MODEL<f32[1],f32[1]> ./sinemodel.tflite sine

RUN rand mod360 sine

OUT serial
`

// writeTestProject lays out a compilable Runefile project in a temp dir.
func writeTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Runefile"), []byte(testRunefile), 0o644); err != nil {
		t.Fatalf("write Runefile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sinemodel.tflite"), []byte("model-bytes"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return dir
}

func TestCrateName(t *testing.T) {
	// Not parallel: subtests mutate the package-level buildName flag var.

	t.Run("flag wins", func(t *testing.T) {
		orig := buildName
		t.Cleanup(func() { buildName = orig })
		buildName = "sine"

		if got := crateName("/some/project/Runefile"); got != "sine" {
			t.Errorf("crateName() = %q, want %q", got, "sine")
		}
	})

	t.Run("falls back to the directory name", func(t *testing.T) {
		orig := buildName
		t.Cleanup(func() { buildName = orig })
		buildName = ""

		if got := crateName("/some/sine-project/Runefile"); got != "sine-project" {
			t.Errorf("crateName() = %q, want %q", got, "sine-project")
		}
	})

	t.Run("bare Runefile uses the default name", func(t *testing.T) {
		orig := buildName
		t.Cleanup(func() { buildName = orig })
		buildName = ""

		if got := crateName("Runefile"); got != "rune" {
			t.Errorf("crateName() = %q, want %q", got, "rune")
		}
	})
}

func TestResolveRunefilePath(t *testing.T) {
	t.Parallel()

	t.Run("directory argument appends Runefile", func(t *testing.T) {
		t.Parallel()

		dir := writeTestProject(t)
		got, err := resolveRunefilePath(dir)
		if err != nil {
			t.Fatalf("resolveRunefilePath() error = %v", err)
		}
		if want := filepath.Join(dir, "Runefile"); got != want {
			t.Errorf("resolveRunefilePath() = %q, want %q", got, want)
		}
	})

	t.Run("file argument passes through", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(writeTestProject(t), "Runefile")
		got, err := resolveRunefilePath(path)
		if err != nil {
			t.Fatalf("resolveRunefilePath() error = %v", err)
		}
		if got != path {
			t.Errorf("resolveRunefilePath() = %q, want %q", got, path)
		}
	})

	t.Run("missing path surfaces os.ErrNotExist", func(t *testing.T) {
		t.Parallel()

		_, err := resolveRunefilePath(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("resolveRunefilePath() error = %v, want os.ErrNotExist", err)
		}
	})
}

func TestRunCheck(t *testing.T) {
	// Not parallel: subtests redirect the shared checkCmd's output streams.

	t.Run("valid Runefile reports the pipeline", func(t *testing.T) {
		dir := writeTestProject(t)
		var stdout, stderr bytes.Buffer
		checkCmd.SetOut(&stdout)
		checkCmd.SetErr(&stderr)

		if err := runCheck(checkCmd, []string{dir}); err != nil {
			t.Fatalf("runCheck() error = %v", err)
		}

		got := stdout.String()
		for _, want := range []string{"OK", "rand", "mod360", "sine", "sink: serial", "external dependencies: 1"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q: %q", want, got)
			}
		}
	})

	t.Run("invalid Runefile exits non-zero with a guidance card", func(t *testing.T) {
		dir := t.TempDir()
		broken := "FROM runicos/base\nRUN rand\n"
		if err := os.WriteFile(filepath.Join(dir, "Runefile"), []byte(broken), 0o644); err != nil {
			t.Fatalf("write Runefile: %v", err)
		}

		var stdout, stderr bytes.Buffer
		checkCmd.SetOut(&stdout)
		checkCmd.SetErr(&stderr)

		err := runCheck(checkCmd, []string{dir})
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("runCheck() error = %v, want *ExitError", err)
		}
		if exitErr.Code != 1 {
			t.Errorf("ExitError.Code = %d, want 1", exitErr.Code)
		}
		if !strings.Contains(stderr.String(), "rand") {
			t.Errorf("stderr missing the dangling stage name: %q", stderr.String())
		}
	})
}

func TestRunBuildPublishesTheBuildUnit(t *testing.T) {
	// Not parallel: mutates the package-level buildName/buildOutput flag vars.
	origName, origOutput := buildName, buildOutput
	t.Cleanup(func() { buildName, buildOutput = origName, origOutput })

	dir := writeTestProject(t)
	outDir := t.TempDir()
	buildName = "sine"
	buildOutput = outDir

	var stdout, stderr bytes.Buffer
	buildCmd.SetOut(&stdout)
	buildCmd.SetErr(&stderr)

	if err := runBuild(buildCmd, []string{dir}); err != nil {
		t.Fatalf("runBuild() error = %v", err)
	}

	for _, name := range []string{"Cargo.toml", "lib.rs", "sinemodel.tflite"} {
		if _, err := os.Stat(filepath.Join(outDir, "sine", name)); err != nil {
			t.Errorf("published unit missing %s: %v", name, err)
		}
	}
	if !strings.Contains(stdout.String(), "sine") {
		t.Errorf("stdout missing the crate name: %q", stdout.String())
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"runec/internal/build"
	"runec/internal/config"

	"github.com/spf13/cobra"
)

var (
	// buildName overrides the generated crate's name.
	buildName string
	// buildOutput overrides the configured output directory.
	buildOutput string

	buildCmd = &cobra.Command{
		Use:   "build <Runefile>",
		Short: "Compile a Runefile and publish the build unit",
		Long: `Compile a Runefile into a self-contained build unit and publish it.

The build unit holds a Cargo.toml dependency manifest, the generated
pipeline source (lib.rs), and every locally referenced model file. It is
published atomically under <output>/<name>; a failed compile leaves no
partial output behind.

Examples:
  runec build Runefile                 Compile ./Runefile
  runec build --name sine Runefile     Name the generated crate "sine"
  runec build --output /tmp/runes .    Publish under /tmp/runes`,
		Args: cobra.ExactArgs(1),
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().StringVar(&buildName, "name", "", "name of the generated crate (default: the Runefile's directory name)")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "directory to publish the build unit under (default from config)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	runefilePath, err := resolveRunefilePath(args[0])
	if err != nil {
		return compileFailure(cmd, err)
	}

	outputDir := buildOutput
	if outputDir == "" {
		cfg, cfgErr := config.Load()
		if cfgErr != nil {
			return compileFailure(cmd, cfgErr)
		}
		if outputDir, err = cfg.ResolveOutputDir(); err != nil {
			return compileFailure(cmd, err)
		}
	}

	result, err := build.Compile(build.Options{
		RunefilePath: runefilePath,
		Name:         crateName(runefilePath),
		OutputDir:    outputDir,
	})
	if err != nil {
		return compileFailure(cmd, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Compiled ")+StageStyle.Render(result.Name)+
		SuccessStyle.Render(" to ")+StageStyle.Render(result.Dir))
	if verbose {
		fmt.Fprintln(cmd.OutOrStdout(), VerboseStyle.Render(pipelineSummary(result.Graph)))
	}
	return nil
}

// crateName picks the generated crate's name: the --name flag when given,
// otherwise the Runefile's directory name, falling back to the default.
func crateName(runefilePath string) string {
	if buildName != "" {
		return buildName
	}

	dir := filepath.Base(filepath.Dir(runefilePath))
	if dir == "." || dir == string(filepath.Separator) || strings.TrimSpace(dir) == "" {
		return build.DefaultName
	}
	return dir
}

// resolveRunefilePath accepts either a Runefile path or a directory holding
// one.
func resolveRunefilePath(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("locating Runefile: %w", err)
	}
	if info.IsDir() {
		return filepath.Join(arg, "Runefile"), nil
	}
	return arg, nil
}

// compileFailure renders the failure with its guidance card and converts it
// into a non-zero exit without calling os.Exit from the handler.
func compileFailure(cmd *cobra.Command, err error) error {
	issueID, styled := classifyCompileError(err, verbose)
	renderServiceError(cmd.ErrOrStderr(), newServiceError(err, issueID, styled))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}

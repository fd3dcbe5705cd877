// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"runec/internal/build"
	"runec/internal/lower"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <Runefile>",
	Short: "Validate a Runefile without emitting artifacts",
	Long: `Parse and lower a Runefile, reporting the pipeline it describes.

check runs the same validation as build (grammar, reference resolution,
dependency resolution, type annotations) but emits nothing.

Examples:
  runec check Runefile
  runec check .`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	runefilePath, err := resolveRunefilePath(args[0])
	if err != nil {
		return compileFailure(cmd, err)
	}

	graph, err := build.Check(runefilePath)
	if err != nil {
		return compileFailure(cmd, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("OK ")+StageStyle.Render(runefilePath))
	fmt.Fprintln(cmd.OutOrStdout(), pipelineSummary(graph))
	return nil
}

// pipelineSummary renders a short description of a lowered pipeline.
func pipelineSummary(graph *lower.Graph) string {
	var b strings.Builder

	if len(graph.RunOrder) == 0 {
		b.WriteString("  pipeline: (no RUN instruction)\n")
	} else {
		b.WriteString("  pipeline: ")
		for i, node := range graph.StagesInRunOrder() {
			if i > 0 {
				b.WriteString(" -> ")
			}
			b.WriteString(StageStyle.Render(node.Name.Value))
			b.WriteString(fmt.Sprintf(" (%s)", node.Role))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "  sink: %s\n", graph.Sink)
	fmt.Fprintf(&b, "  external dependencies: %d", len(graph.Dependencies))

	return b.String()
}

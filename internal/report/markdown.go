package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lcmonte/domain/core"
	"lcmonte/internal/runner"
)

// Markdown builds the run report source.
func Markdown(runID core.ID, seed int64, results []runner.BinResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Simulation run %s\n\n", runID)
	fmt.Fprintf(&sb, "Generated %s, seed %d, %d bins.\n\n",
		time.Now().Format(time.RFC3339), seed, len(results))

	for _, result := range results {
		fmt.Fprintf(&sb, "## %s\n\n", result.Identity.Label())
		fmt.Fprintf(&sb, "%d trials accumulated.\n\n", result.Trials)
		sb.WriteString("| Statistic | Mean | StdDev | Defined |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, ns := range result.Summaries {
			fmt.Fprintf(&sb, "| %s | %.4g | %.4g | %.3f |\n",
				ns.Name, ns.Summary.Mean, ns.Summary.StdDev, ns.Summary.DefinedFraction)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteHTML renders the markdown report to an HTML file.
func WriteHTML(path string, runID core.ID, seed int64, results []runner.BinResult) error {
	src := Markdown(runID, seed, results)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	rendered := markdown.ToHTML([]byte(src), p, renderer)

	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

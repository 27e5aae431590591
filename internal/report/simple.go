package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/swaggercov/internal/model"
)

// SimpleWriter outputs run summaries as plain text.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a single run.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Run:        %s\n", run.ID)
	fmt.Fprintf(&sb, "API:        %s\n", run.APIName)
	fmt.Fprintf(&sb, "Host:       %s\n", run.Host)
	fmt.Fprintf(&sb, "Started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Duration:   %s\n", run.Duration().Round(1e6))
	fmt.Fprintf(&sb, "Status:     %s\n", StatusLabel(run.Status()))
	fmt.Fprintf(&sb, "Steps:      %s\n", orDash(strings.Join(run.Steps, ", ")))

	if run.DocURL != "" {
		fmt.Fprintf(&sb, "Document:   %s (%s)\n", run.DocURL, DocLabel(run))
		fmt.Fprintf(&sb, "Spec file:  %s\n", run.SpecFile)
		fmt.Fprintf(&sb, "Operations: %d", run.OperationsAfter)
		if removed := run.OperationsRemoved(); removed > 0 {
			fmt.Fprintf(&sb, " (%d ignored)", removed)
		}
		sb.WriteString("\n")
	}
	for _, p := range run.RemovedPaths {
		fmt.Fprintf(&sb, "  - removed %s\n", p)
	}
	if len(run.ToolArgs) > 0 {
		fmt.Fprintf(&sb, "Tool:       %s\n", strings.Join(run.ToolArgs, " "))
		fmt.Fprintf(&sb, "Exit code:  %d\n", run.ExitCode)
		fmt.Fprintf(&sb, "Report:     %s\n", orDash(run.ReportPath))
	}
	if run.CleanedDir != "" {
		fmt.Fprintf(&sb, "Cleaned:    %s\n", run.CleanedDir)
	}
	if run.ErrorMessage != "" {
		fmt.Fprintf(&sb, "Error:      %s\n", run.ErrorMessage)
	}

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs one line per run.
func (w *SimpleWriter) WriteHistory(runs []*model.Run) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	for _, run := range runs {
		fmt.Fprintf(&sb, "%s  %-24s  %s  %-12s  ops=%d exit=%d\n",
			run.ShortID(),
			truncateString(run.APIName, 24),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			StatusLabel(run.Status()),
			run.OperationsAfter,
			run.ExitCode,
		)
	}
	return io.WriteString(w.output, sb.String())
}

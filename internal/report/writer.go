package report

import (
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/swaggercov/internal/model"
)

// Writer renders run summaries.
type Writer interface {
	// Write outputs the summary of a single run.
	Write(run *model.Run) (int, error)

	// WriteHistory outputs a list of runs, newest first.
	WriteHistory(runs []*model.Run) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the run to all configured Writers. It stops on the first
// error.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(run)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory outputs the runs to all configured Writers.
func (m *MultiWriter) WriteHistory(runs []*model.Run) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(runs)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

var titleCaser = cases.Title(language.English)

// StatusLabel returns a title-cased status, e.g. "Tool Failed".
func StatusLabel(s model.Status) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(s.String(), "_", " ")))
}

// DocLabel describes the API description, e.g. "Swagger 2.0".
func DocLabel(run *model.Run) string {
	if run.DocKind == "" {
		return "-"
	}
	kind := titleCaser.String(run.DocKind)
	if run.DocKind == "openapi" {
		kind = "OpenAPI"
	}
	return strings.TrimSpace(kind + " " + run.DocVersion)
}

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

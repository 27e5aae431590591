package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/swaggercov/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown, suitable for CI job
// summaries and pull request comments.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeSpec(md, run)
	w.writeTool(md, run)
	w.writeAlert(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteHistory outputs a table of runs.
func (w *MarkdownWriter) WriteHistory(runs []*model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("swaggercov History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			"`" + run.ShortID() + "`",
			run.APIName,
			run.StartedAt.Format("2006-01-02 15:04:05 MST"),
			StatusLabel(run.Status()),
			strconv.Itoa(run.OperationsAfter),
			strconv.Itoa(run.ExitCode),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "API", "Started", "Status", "Operations", "Exit Code"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Swagger Coverage Run: " + run.APIName)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + run.ID + "`"},
			{"Host", "`" + run.Host + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration().Round(1e6).String()},
			{"Steps", orDash(strings.Join(run.Steps, ", "))},
			{"Status", w.statusText(run)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) statusText(run *model.Run) string {
	switch run.Status() {
	case model.StatusSucceeded:
		return "✅ " + StatusLabel(run.Status())
	case model.StatusToolFailed:
		return "⚠️ " + StatusLabel(run.Status()) + " (exit code " + strconv.Itoa(run.ExitCode) + ")"
	case model.StatusInterrupted:
		return "⏹️ " + StatusLabel(run.Status())
	default:
		return "❌ " + StatusLabel(run.Status()) + " - " + run.ErrorMessage
	}
}

func (w *MarkdownWriter) writeSpec(md *markdown.Markdown, run *model.Run) {
	md.H2("API Description")
	md.PlainText("")

	if run.DocURL == "" {
		md.PlainText("The API description was not fetched in this run.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", run.DocURL},
			{"Format", DocLabel(run)},
			{"Spec File", "`" + run.SpecFile + "`"},
			{"SHA3-256", "`" + truncateString(orDash(run.SpecDigest), 20) + "`"},
			{"Operations", strconv.Itoa(run.OperationsBefore)},
			{"Operations After Filtering", strconv.Itoa(run.OperationsAfter)},
		},
	})
	md.PlainText("")

	if run.OperationsBefore > 0 && run.OperationsRemoved() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Operations"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("Covered", uint64(run.OperationsAfter))     //nolint:gosec // counts are non-negative
		chart.LabelAndIntValue("Ignored", uint64(run.OperationsRemoved())) //nolint:gosec // counts are non-negative
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if len(run.IgnoredPaths) > 0 {
		md.H3("Ignored Prefixes")
		md.PlainText("")
		md.BulletList(quoteAll(run.IgnoredPaths)...)
		md.PlainText("")
	}
	if len(run.RemovedPaths) > 0 {
		md.Details("Removed paths ("+strconv.Itoa(len(run.RemovedPaths))+")", strings.Join(quoteAll(run.RemovedPaths), "\n"))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeTool(md *markdown.Markdown, run *model.Run) {
	md.H2("Report Tool")
	md.PlainText("")

	if len(run.ToolArgs) == 0 {
		md.PlainText("The report tool did not run.")
		md.PlainText("")
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlight("shell"), strings.Join(run.ToolArgs, " "))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Exit Code", strconv.Itoa(run.ExitCode)},
			{"Report", orDash(run.ReportPath)},
			{"Cleaned Output Dir", orDash(run.CleanedDir)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	switch run.Status() {
	case model.StatusFailed:
		md.Cautionf("The run failed: %s", run.ErrorMessage)
	case model.StatusInterrupted:
		md.Warningf("The run was interrupted before all steps finished.")
	case model.StatusToolFailed:
		md.Warningf("swagger-coverage-commandline exited with code %d. The report may be incomplete.", run.ExitCode)
	default:
		if len(run.ToolArgs) > 0 && run.ReportPath == "" {
			md.Importantf("The tool finished but no report file was found.")
		} else {
			md.Tip("Run completed.")
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Summary generated by [swaggercov](https://github.com/nao1215/swaggercov)*")
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "`" + s + "`"
	}
	return out
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/nao1215/swaggercov/internal/config"
	"github.com/nao1215/swaggercov/internal/database"
	"github.com/nao1215/swaggercov/internal/model"
	"github.com/nao1215/swaggercov/internal/report"
)

// console prints human-facing status lines.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) console {
	return console{w: w}
}

func (c console) info(format string, a ...any) {
	pterm.Info.WithWriter(c.w).Printfln(format, a...)
}

func (c console) success(format string, a ...any) {
	pterm.Success.WithWriter(c.w).Printfln(format, a...)
}

func (c console) warning(format string, a ...any) {
	pterm.Warning.WithWriter(c.w).Printfln(format, a...)
}

func (c console) fail(format string, a ...any) {
	pterm.Error.WithWriter(c.w).Printfln(format, a...)
}

// printRun reports the outcome of a run in a few lines.
func (c console) printRun(run *model.Run) {
	if run.DocURL != "" {
		c.info("Fetched %s (%s)", run.DocURL, report.DocLabel(run))
		if removed := run.OperationsRemoved(); removed > 0 {
			c.info("Ignored %d of %d operations under %d prefixes",
				removed, run.OperationsBefore, len(run.IgnoredPaths))
		}
		c.info("Spec file: %s", run.SpecFile)
	}
	if run.ReportPath != "" {
		c.info("Report: %s", run.ReportPath)
	}
	if run.CleanedDir != "" {
		c.info("Cleaned %s", run.CleanedDir)
	}

	switch run.Status() {
	case model.StatusSucceeded:
		c.success("Run %s finished in %s", run.ShortID(), run.Duration().Round(1e6))
	case model.StatusToolFailed:
		c.warning("swagger-coverage-commandline exited with code %d", run.ExitCode)
	case model.StatusInterrupted:
		c.warning("Run %s interrupted", run.ShortID())
	default:
		c.fail("Run %s failed: %s", run.ShortID(), run.ErrorMessage)
	}
}

// writeSummary writes the run summary selected by cfg, if any.
func writeSummary(cfg *config.Config, stdout io.Writer, run *model.Run) error {
	if cfg.SummaryFormat == "" {
		return nil
	}

	output := stdout
	if cfg.SummaryFile != "" {
		dir := filepath.Dir(cfg.SummaryFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create summary directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch cfg.SummaryFormat {
	case config.SummaryFormatJSON:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	default:
		w = report.NewMarkdownWriter(output)
	}
	_, err := w.Write(run)
	return err
}

// saveRun records run in the history database when enabled. It returns the
// previous run of the same API, or nil.
func saveRun(ctx context.Context, cfg *config.Config, run *model.Run, logger *slog.Logger) (*model.Run, error) {
	if !cfg.SaveHistory {
		return nil, nil //nolint:nilnil // history disabled
	}

	db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	prev, err := db.LatestRun(ctx, run.APIName)
	if err != nil {
		logger.Warn("failed to read previous run", "api", run.APIName, "error", err)
	}

	if err := db.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	logger.Debug("run saved to history", "id", run.ID, "db", db.Path())
	return prev, nil
}

// printChanges compares run with the previous run of the same API.
func (c console) printChanges(prev, run *model.Run) {
	if prev == nil || prev.SpecDigest == "" || run.SpecDigest == "" {
		return
	}
	if prev.SpecDigest == run.SpecDigest {
		c.info("API description unchanged since run %s", prev.ShortID())
		return
	}
	c.info("API description changed since run %s: %d -> %d operations",
		prev.ShortID(), prev.OperationsAfter, run.OperationsAfter)
}

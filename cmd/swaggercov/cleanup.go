package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/swaggercov/internal/reporter"
)

// NewCleanupCmd creates the cleanup command.
func NewCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove the recorded requests of an API",
		Long: `Cleanup removes swagger-coverage-output/<host> from the work directory and
recreates it empty under the cleanup root, five levels above the install
directory and one above the project root, ready for the next test run.

Example:
  swaggercov cleanup --api dm-api-account --host http://localhost:5051`,
		Args: cobra.NoArgs,
		RunE: runCleanupCmd,
	}

	addReporterFlags(cmd)

	return cmd
}

// runCleanupCmd executes the cleanup command.
func runCleanupCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	r, err := reporter.New(cfg, reporter.WithLogger(logger))
	if err != nil {
		return err
	}

	dir, err := r.CleanupInputFiles()
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	newConsole(cmd.OutOrStdout()).success("Recreated %s", dir)
	return nil
}

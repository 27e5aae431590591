package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/swaggercov/internal/config"
	"github.com/nao1215/swaggercov/internal/fetch"
	"github.com/nao1215/swaggercov/internal/model"
	"github.com/nao1215/swaggercov/internal/pipeline"
	"github.com/nao1215/swaggercov/internal/reporter"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the API description and build the coverage report",
		Long: `Run fetches the API description from <host><doc-path>, removes the paths
ignored by the coverage config, writes swagger-doc-<api>.<format> and runs
swagger-coverage-commandline against swagger-coverage-output/<host>.

Examples:
  # Build the report for a local service
  swaggercov run --api dm-api-account --host http://localhost:5051

  # OpenAPI 3 document behind basic auth, password from the keyring
  swaggercov run -a forum -H https://forum.local -p /v3/api-docs -u tester --keyring

  # Reset the recorded requests afterwards and print a Markdown summary
  swaggercov run -a dm-api-account -H http://localhost:5051 --cleanup --summary markdown`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	addReporterFlags(cmd)
	addFetchFlags(cmd)
	addRunOutputFlags(cmd)
	cmd.Flags().Bool("cleanup", false,
		"Recreate the output directory after the report is built")

	return cmd
}

// addRunOutputFlags registers the history and summary flags.
func addRunOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-history", false,
		"Do not record the run in the history database")
	cmd.Flags().StringP("summary", "s", "",
		"Write a run summary (markdown or json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the summary to the given file instead of stdout")
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	return executeSteps(cmd, stepSelection{fetch: true, generate: true})
}

// stepSelection picks the pipeline steps of a command.
type stepSelection struct {
	fetch    bool
	generate bool
}

// executeSteps builds the configuration from cmd and runs the selected steps.
func executeSteps(cmd *cobra.Command, steps stepSelection) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	return runCoverage(ctx, cmd.OutOrStdout(), cfg, steps, logger)
}

// runCoverage runs the pipeline for cfg and reports the outcome. The run is
// recorded even when a step fails.
func runCoverage(ctx context.Context, out io.Writer, cfg *config.Config, steps stepSelection, logger *slog.Logger) error {
	auth, err := fetch.ResolveAuth(cfg.APIName, cfg.Username, cfg.Password, cfg.UseKeyring)
	if err != nil {
		return err
	}

	r, err := reporter.New(cfg, reporter.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("starting run",
		"api", cfg.APIName,
		"host", cfg.Host,
		"tool", r.Install().ToolPath(),
		"ignoredPaths", len(r.IgnoredPaths()),
	)

	p := pipeline.DefaultPipeline(r,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineDocPath(cfg.DocPath),
		pipeline.WithPipelineAuth(auth),
		pipeline.WithPipelineCookies(cfg.Cookies),
		pipeline.WithPipelineSteps(steps.fetch, steps.generate, steps.generate && cfg.CleanupAfter),
	)

	run := model.NewRun(cfg.APIName, cfg.Host)
	runErr := p.Execute(ctx, run)

	con := newConsole(out)
	con.printRun(run)

	// The run context may be canceled; history and summary still get written.
	saveCtx := context.WithoutCancel(ctx)
	prev, err := saveRun(saveCtx, cfg, run, logger)
	if err != nil {
		logger.Error("failed to record run", "error", err)
		con.warning("Run was not recorded: %v", err)
	}
	con.printChanges(prev, run)
	if err := writeSummary(cfg, out, run); err != nil {
		logger.Error("failed to write summary", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		return runErr
	}
	if run.Status() == model.StatusToolFailed {
		return fmt.Errorf("swagger-coverage-commandline exited with code %d", run.ExitCode)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nao1215/swaggercov/internal/database"
	"github.com/nao1215/swaggercov/internal/model"
	"github.com/nao1215/swaggercov/internal/report"
)

// defaultHistoryLimit bounds the listed runs.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `History lists the runs recorded in the history database, newest first.

Examples:
  # Last 20 runs of all APIs
  swaggercov history

  # Runs of one API as JSON
  swaggercov history --api dm-api-account --json

  # Details of a single run (ID prefix is enough)
  swaggercov history show 3f2a9c1e

  # Forget runs older than 30 days
  swaggercov history prune --older-than 720h`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("api", "a", "", "Only list runs of this API")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of runs (0 for all)")
	addFormatFlags(cmd)

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryPruneCmd())
	cmd.AddCommand(newHistoryAPIsCmd())

	return cmd
}

// addFormatFlags registers the mutually exclusive output format flags.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
}

// formatWriter returns the report writer selected by the format flags, or
// nil for the default console output.
func formatWriter(cmd *cobra.Command, out io.Writer) (report.Writer, error) {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	switch {
	case asJSON:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), nil
	case asMarkdown:
		return report.NewMarkdownWriter(out), nil
	default:
		return nil, nil
	}
}

// openHistory opens the history database configured for cmd.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	apiName, err := cmd.Flags().GetString("api")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), database.ListOptions{APIName: apiName, Limit: limit})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w, err := formatWriter(cmd, out)
	if err != nil {
		return err
	}
	if w != nil {
		_, err = w.WriteHistory(runs)
		return err
	}

	if len(runs) == 0 {
		newConsole(out).info("No runs recorded.")
		return nil
	}
	return renderHistoryTable(out, runs)
}

// renderHistoryTable prints runs as a console table.
func renderHistoryTable(out io.Writer, runs []*model.Run) error {
	data := pterm.TableData{{"ID", "API", "Started", "Status", "Operations", "Ignored", "Exit"}}
	for _, run := range runs {
		data = append(data, []string{
			run.ShortID(),
			run.APIName,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			report.StatusLabel(run.Status()),
			strconv.Itoa(run.OperationsAfter),
			strconv.Itoa(run.OperationsRemoved()),
			strconv.Itoa(run.ExitCode),
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	table.Writer = out
	return table.Render()
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w, err := formatWriter(cmd, out)
			if err != nil {
				return err
			}
			if w == nil {
				w = report.NewSimpleWriter(out)
			}
			_, err = w.Write(run)
			return err
		},
	}
	addFormatFlags(cmd)
	return cmd
}

func newHistoryPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiName, err := cmd.Flags().GetString("api")
			if err != nil {
				return err
			}
			olderThan, err := cmd.Flags().GetDuration("older-than")
			if err != nil {
				return err
			}
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}

			db, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.PruneRuns(cmd.Context(), apiName, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			newConsole(cmd.OutOrStdout()).success("Deleted %d runs", n)
			return nil
		},
	}
	cmd.Flags().StringP("api", "a", "", "Only prune runs of this API")
	cmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete runs started before now minus this duration")
	return cmd
}

func newHistoryAPIsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apis",
		Short: "List the APIs with recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			apis, err := db.ListAPIs(cmd.Context())
			if err != nil {
				return err
			}
			for _, api := range apis {
				fmt.Fprintln(cmd.OutOrStdout(), api)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for swaggercov.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swaggercov",
		Short: "Swagger/OpenAPI coverage reports for API test suites",
		Long: `swaggercov fetches the API description of a running service, removes the
paths listed in swagger-coverage-config-<api>.json and runs
swagger-coverage-commandline against the requests recorded by your tests.

Settings are read from CLI flags, SWAGGERCOV_* environment variables and
the project file (.swaggercov.yaml), in that order of precedence.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Project file path (default: .swaggercov.yaml in current directory or XDG config dir)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewCleanupCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCredentialsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

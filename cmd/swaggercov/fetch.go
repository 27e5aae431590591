package main

import (
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the API description and write the spec file",
		Long: `Fetch pulls the API description from <host><doc-path>, removes ignored paths
and writes swagger-doc-<api>.<format> without running the report tool.

Examples:
  swaggercov fetch --api dm-api-account --host http://localhost:5051
  swaggercov fetch -a dm-api-account -H http://localhost:5051 -f yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSteps(cmd, stepSelection{fetch: true})
		},
	}

	addReporterFlags(cmd)
	addFetchFlags(cmd)
	addRunOutputFlags(cmd)

	return cmd
}

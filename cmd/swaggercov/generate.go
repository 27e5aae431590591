package main

import (
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run swagger-coverage-commandline on an existing spec file",
		Long: `Generate runs swagger-coverage-commandline against the spec file written by
an earlier fetch and the requests recorded in swagger-coverage-output/<host>.

Example:
  swaggercov generate --api dm-api-account --host http://localhost:5051`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSteps(cmd, stepSelection{generate: true})
		},
	}

	addReporterFlags(cmd)
	addRunOutputFlags(cmd)

	return cmd
}

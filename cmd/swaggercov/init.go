package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/swaggercov/internal/config"
)

//go:embed templates/swaggercov.yaml templates/swagger-coverage-config.json
var templates embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a swaggercov project file",
		Long: `Init creates a commented .swaggercov.yaml in the current directory.

With --api it also writes a starter swagger-coverage-config-<api>.json that
enables path rules with an empty ignore list.

Examples:
  # Create .swaggercov.yaml in current directory
  swaggercov init

  # Also create swagger-coverage-config-dm-api-account.json
  swaggercov init --api dm-api-account

  # Force overwrite existing files
  swaggercov init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the project file")
	cmd.Flags().StringP("api", "a", "",
		"Also write a starter coverage config for this API")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	apiName, err := cmd.Flags().GetString("api")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	content, err := templates.ReadFile("templates/swaggercov.yaml")
	if err != nil {
		return fmt.Errorf("failed to read project template: %w", err)
	}
	if apiName != "" {
		content = bytes.Replace(content, []byte(`api_name: ""`), fmt.Appendf(nil, "api_name: %q", apiName), 1)
	}
	if err := writeTemplate(outputPath, content, force); err != nil {
		return err
	}

	con := newConsole(cmd.OutOrStdout())
	con.success("Created project file: %s", outputPath)

	if apiName == "" {
		con.info("Set api_name and host, then run: swaggercov run")
		return nil
	}

	coverage, err := templates.ReadFile("templates/swagger-coverage-config.json")
	if err != nil {
		return fmt.Errorf("failed to read coverage config template: %w", err)
	}
	coverage = bytes.Replace(coverage,
		[]byte(`"swagger-coverage-report.html"`),
		fmt.Appendf(nil, "%q", config.DefaultReportFile(apiName)), 1)

	coveragePath := filepath.Join(filepath.Dir(outputPath), config.DefaultCoverageConfigFile(apiName))
	if err := writeTemplate(coveragePath, coverage, force); err != nil {
		return err
	}
	con.success("Created coverage config: %s", coveragePath)
	con.info("Add path prefixes to rules.paths.ignore to leave them out of the report")

	return nil
}

// writeTemplate writes content to path, refusing to overwrite unless force.
func writeTemplate(path string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use -f to overwrite)", path)
		}
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

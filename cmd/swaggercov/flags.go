package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/swaggercov/internal/config"
	"github.com/nao1215/swaggercov/internal/layout"
	"github.com/nao1215/swaggercov/internal/log"
	"github.com/spf13/cobra"
)

// addReporterFlags registers the flags that describe the API under test and
// the report tool. They are shared by run, fetch, generate and cleanup.
func addReporterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("api", "a", "",
		"Name of the API under test (used in spec, config and report file names)")
	cmd.Flags().StringP("host", "H", "",
		"Base URL of the running service, e.g. http://localhost:5051")
	cmd.Flags().StringP("docs-format", "f", config.DefaultDocsFormat,
		"Format of the written spec file (json or yaml)")
	cmd.Flags().String("coverage-config", "",
		"swagger-coverage-config file (default: swagger-coverage-config-<api>.json if present)")
	cmd.Flags().Bool("no-coverage-config", false,
		"Do not pick up swagger-coverage-config-<api>.json automatically")
	cmd.Flags().String("install-dir", "",
		"Directory holding the bundled swagger-coverage-commandline (default: executable dir)")
	cmd.Flags().StringP("work-dir", "w", "",
		"Directory the report tool runs in (default: current directory)")
	cmd.Flags().Bool("project-root", false,
		"Run the report tool in the project root, four levels above the install dir")
	cmd.Flags().String("launcher", "",
		`Command prefix for the report tool, e.g. "sh"`)
	cmd.Flags().Bool("debug", false,
		"Show the report tool's console output")
}

// addFetchFlags registers the flags of the API description request.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("doc-path", "p", config.DefaultDocPath,
		"Relative URL of the API description")
	cmd.Flags().BoolP("insecure", "k", false,
		"Skip TLS certificate verification of the doc request")
	cmd.Flags().StringP("user", "u", "",
		"Basic auth user name (password from SWAGGERCOV_PASSWORD or the keyring)")
	cmd.Flags().Bool("keyring", false,
		"Look up the basic auth password in the OS keyring")
	cmd.Flags().StringToString("cookie", nil,
		"Cookie sent with the doc request (repeatable), e.g. --cookie session=abc")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for the doc request (host:port)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of the doc request")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the project file path from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// buildConfig creates a Config from the project file, the environment and
// the flags of cmd. Flags win over the environment, which wins over the
// project file. Flags the command does not define are ignored.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	// If the user explicitly specified a project file, error if not found.
	// Otherwise silently fall back to defaults and environment.
	explicitPath := getConfigFlag(cmd)
	configPath := config.FindConfigFile(explicitPath)
	if configPath == "" && explicitPath != "" {
		return nil, fmt.Errorf("project file not found: %s", explicitPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	stringFlags := map[string]*string{
		"api":             &cfg.APIName,
		"host":            &cfg.Host,
		"docs-format":     &cfg.DocsFormat,
		"coverage-config": &cfg.CoverageConfigFile,
		"install-dir":     &cfg.InstallDir,
		"work-dir":        &cfg.WorkDir,
		"launcher":        &cfg.Launcher,
		"doc-path":        &cfg.DocPath,
		"user":            &cfg.Username,
		"proxy":           &cfg.ProxyAddress,
		"summary":         &cfg.SummaryFormat,
		"output":          &cfg.SummaryFile,
	}
	for name, dst := range stringFlags {
		if err := overrideString(cmd, name, dst); err != nil {
			return nil, err
		}
	}

	boolFlags := map[string]*bool{
		"debug":        &cfg.Debug,
		"keyring":      &cfg.UseKeyring,
		"cleanup":      &cfg.CleanupAfter,
		"project-root": &cfg.UseProjectRoot,
	}
	for name, dst := range boolFlags {
		if err := overrideBool(cmd, name, dst); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("insecure") {
		insecure, err := cmd.Flags().GetBool("insecure")
		if err != nil {
			return nil, err
		}
		cfg.VerifyTLS = !insecure
	}
	if cmd.Flags().Changed("no-history") {
		noHistory, err := cmd.Flags().GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("cookie") {
		cookies, err := cmd.Flags().GetStringToString("cookie")
		if err != nil {
			return nil, err
		}
		for name, value := range cookies {
			cfg.Cookies[name] = value
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	noDefault := false
	if err := overrideBool(cmd, "no-coverage-config", &noDefault); err != nil {
		return nil, err
	}
	if !noDefault {
		applyDefaultCoverageConfig(cfg)
	}

	return cfg, nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// applyDefaultCoverageConfig selects swagger-coverage-config-<api>.json when
// no coverage config is configured and the file exists in the directory the
// report tool will run in.
func applyDefaultCoverageConfig(cfg *config.Config) {
	if cfg.CoverageConfigFile != "" || cfg.APIName == "" {
		return
	}
	dir := cfg.WorkDir
	if cfg.UseProjectRoot {
		install, err := layout.NewInstall(cfg.InstallDir)
		if err != nil {
			return
		}
		dir = install.ProjectRoot()
	}
	if dir == "" {
		dir = "."
	}
	name := config.DefaultCoverageConfigFile(cfg.APIName)
	if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
		cfg.CoverageConfigFile = name
	}
}

// setupLogger creates the redacting stderr logger.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

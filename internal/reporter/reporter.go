package reporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/swaggercov/internal/apidoc"
	"github.com/nao1215/swaggercov/internal/config"
	"github.com/nao1215/swaggercov/internal/fetch"
	"github.com/nao1215/swaggercov/internal/invoker"
	"github.com/nao1215/swaggercov/internal/layout"
)

// CoverageReporter fetches an API description and turns recorded traffic
// into an HTML coverage report.
type CoverageReporter struct {
	cfg      config.Config
	install  *layout.Install
	workDir  string
	coverage *config.CoverageConfig

	specFile           string
	outputDir          string
	coverageConfigFile string
	ignoredPaths       []string

	client  *fetch.Client
	invoker *invoker.Invoker
	logger  *slog.Logger
}

// Option configures a CoverageReporter.
type Option func(*CoverageReporter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *CoverageReporter) {
		r.logger = logger
	}
}

// WithFetchClient replaces the doc client built from the configuration.
func WithFetchClient(client *fetch.Client) Option {
	return func(r *CoverageReporter) {
		r.client = client
	}
}

// WithInvoker replaces the default report tool invoker.
func WithInvoker(inv *invoker.Invoker) Option {
	return func(r *CoverageReporter) {
		r.invoker = inv
	}
}

// New validates cfg, loads the ignore list and derives the output
// directory. A configured coverage config that is missing or malformed is
// an error.
func New(cfg *config.Config, opts ...Option) (*CoverageReporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &CoverageReporter{
		cfg:    *cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	install, err := layout.NewInstall(cfg.InstallDir)
	if err != nil {
		return nil, err
	}
	r.install = install

	if cfg.UseProjectRoot {
		r.workDir = install.ProjectRoot()
	} else {
		r.workDir, err = resolveWorkDir(cfg.WorkDir)
		if err != nil {
			return nil, err
		}
	}

	r.specFile = cfg.SpecFile()
	r.outputDir, err = layout.HostOutputDir(cfg.Host)
	if err != nil {
		return nil, err
	}

	r.coverageConfigFile = cfg.CoverageConfigFile
	r.coverage, err = config.LoadCoverageConfig(r.inWorkDir(r.coverageConfigFile))
	if err != nil {
		return nil, err
	}
	r.ignoredPaths = r.coverage.IgnoredPaths()
	r.logger.Debug("ignored paths loaded", "api", cfg.APIName, "paths", r.ignoredPaths)

	if r.client == nil {
		r.client, err = fetch.NewClient(
			fetch.WithVerifyTLS(cfg.VerifyTLS),
			fetch.WithProxy(cfg.ProxyAddress),
			fetch.WithTimeout(cfg.Timeout),
			fetch.WithLogger(r.logger),
		)
		if err != nil {
			return nil, err
		}
	}
	if r.invoker == nil {
		r.invoker = invoker.New(invoker.WithLogger(r.logger))
	}

	return r, nil
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve work dir %s: %w", dir, err)
	}
	return abs, nil
}

// inWorkDir resolves a relative path against the work directory. Empty
// stays empty.
func (r *CoverageReporter) inWorkDir(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// WorkDir returns the absolute directory the report tool runs in.
func (r *CoverageReporter) WorkDir() string {
	return r.workDir
}

// SpecFile returns the spec file name relative to the work directory.
func (r *CoverageReporter) SpecFile() string {
	return r.specFile
}

// SpecPath returns the absolute spec file path.
func (r *CoverageReporter) SpecPath() string {
	return r.inWorkDir(r.specFile)
}

// OutputDir returns the output directory relative to the work directory.
func (r *CoverageReporter) OutputDir() string {
	return r.outputDir
}

// IgnoredPaths returns a copy of the ignore list.
func (r *CoverageReporter) IgnoredPaths() []string {
	out := make([]string, len(r.ignoredPaths))
	copy(out, r.ignoredPaths)
	return out
}

// ReportPath returns where the report tool writes the HTML report.
func (r *CoverageReporter) ReportPath() string {
	return r.inWorkDir(r.coverage.ReportFile(r.cfg.APIName))
}

// Install returns the installation layout.
func (r *CoverageReporter) Install() *layout.Install {
	return r.install
}

// SetupResult describes a fetched and written API description.
type SetupResult struct {
	URL              string
	SpecPath         string
	Kind             apidoc.Kind
	Version          string
	Removed          []string
	OperationsBefore int
	OperationsAfter  int
	Digest           string
}

// Setup pulls the API description from host+path and writes it to the spec
// file. When a coverage config is configured, paths under an ignored prefix
// are removed first. A non-2xx response is returned as *fetch.StatusError
// and nothing is written.
func (r *CoverageReporter) Setup(ctx context.Context, path string, auth *fetch.BasicAuth, cookies map[string]string) (*SetupResult, error) {
	docURL, err := fetch.DocURL(r.cfg.Host, path)
	if err != nil {
		return nil, err
	}

	body, err := r.client.Fetch(ctx, docURL, fetch.Request{Auth: auth, Cookies: cookies})
	if err != nil {
		return nil, err
	}

	doc, err := apidoc.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API description from %s: %w", docURL, err)
	}
	if verr := doc.VersionError(); verr != nil {
		r.logger.Warn("API description version not recognized, writing it unvalidated", "url", docURL, "error", verr)
	} else if err := doc.Validate(ctx); err != nil {
		r.logger.Warn("API description has validation errors", "url", docURL, "error", err)
	}

	res := &SetupResult{
		URL:      docURL,
		SpecPath: r.SpecPath(),
		Kind:     doc.Kind(),
		Version:  doc.Version(),
	}
	res.OperationsBefore = r.countOperations(doc)

	var ignored []string
	if r.coverageConfigFile != "" {
		ignored = r.ignoredPaths
	}
	written, err := apidoc.WriteFile(res.SpecPath, r.cfg.DocsFormat, doc, ignored)
	if err != nil {
		return nil, err
	}
	res.Removed = written.Removed
	res.Digest = written.Digest
	res.OperationsAfter = r.countOperations(doc)

	r.logger.Debug("spec file written",
		"path", res.SpecPath,
		"removed", len(res.Removed),
		"operations", res.OperationsAfter,
	)
	return res, nil
}

func (r *CoverageReporter) countOperations(doc *apidoc.Document) int {
	if doc.Kind() == apidoc.KindUnknown {
		return 0
	}
	n, err := doc.Operations()
	if err != nil {
		r.logger.Warn("failed to count operations", "error", err)
		return 0
	}
	return n
}

// ReportResult describes a report tool run.
type ReportResult struct {
	Args     []string
	ExitCode int
	Duration time.Duration

	// ReportPath is the generated HTML report, empty when the tool did not
	// write one.
	ReportPath string
}

// GenerateReport runs the report tool in the work directory. A missing tool
// is reported as invoker.ErrToolNotFound before any process starts. The
// tool's exit code is returned, not checked.
func (r *CoverageReporter) GenerateReport(ctx context.Context) (*ReportResult, error) {
	run, err := r.invoker.Run(ctx, invoker.Invocation{
		ToolPath:   r.install.ToolPath(),
		SpecFile:   r.specFile,
		OutputDir:  r.outputDir,
		ConfigFile: r.coverageConfigFile,
		WorkDir:    r.workDir,
		Launcher:   r.cfg.Launcher,
		Debug:      r.cfg.Debug,
	})
	if err != nil {
		return nil, err
	}

	res := &ReportResult{
		Args:     run.Args,
		ExitCode: run.ExitCode,
		Duration: run.Duration,
	}

	reportPath := r.ReportPath()
	if _, err := os.Stat(reportPath); err == nil {
		res.ReportPath = reportPath
	} else {
		r.logger.Warn("report file not found after run", "path", reportPath)
	}
	return res, nil
}

// CleanupInputFiles removes the output directory and recreates it empty
// under the cleanup root, five levels above the install directory. The
// returned path is the recreated directory.
func (r *CoverageReporter) CleanupInputFiles() (string, error) {
	local := r.inWorkDir(r.outputDir)
	if err := os.RemoveAll(local); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to remove %s: %w", local, err)
	}

	target := filepath.Join(r.install.CleanupRoot(), r.outputDir)
	if err := os.RemoveAll(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to remove %s: %w", target, err)
	}
	if err := os.MkdirAll(target, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}

	r.logger.Debug("output directory reset", "removed", local, "created", target)
	return target, nil
}

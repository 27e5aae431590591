package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/swaggercov/internal/fetch"
	"github.com/nao1215/swaggercov/internal/model"
	"github.com/nao1215/swaggercov/internal/reporter"
)

// Reporter is the part of reporter.CoverageReporter the steps use.
type Reporter interface {
	Setup(ctx context.Context, path string, auth *fetch.BasicAuth, cookies map[string]string) (*reporter.SetupResult, error)
	GenerateReport(ctx context.Context) (*reporter.ReportResult, error)
	CleanupInputFiles() (string, error)
	IgnoredPaths() []string
	SpecPath() string
}

// Step names.
const (
	StepFetch    = "fetch"
	StepGenerate = "generate"
	StepCleanup  = "cleanup"
)

// FetchStep pulls the API description and writes the spec file.
type FetchStep struct {
	reporter Reporter
	docPath  string
	auth     *fetch.BasicAuth
	cookies  map[string]string
	logger   *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchAuth sets basic-auth credentials.
func WithFetchAuth(auth *fetch.BasicAuth) FetchStepOption {
	return func(s *FetchStep) {
		s.auth = auth
	}
}

// WithFetchCookies sets request cookies.
func WithFetchCookies(cookies map[string]string) FetchStepOption {
	return func(s *FetchStep) {
		s.cookies = cookies
	}
}

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a fetch step for the description at docPath.
func NewFetchStep(r Reporter, docPath string, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		reporter: r,
		docPath:  docPath,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return StepFetch
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	run.IgnoredPaths = s.reporter.IgnoredPaths()

	res, err := s.reporter.Setup(ctx, s.docPath, s.auth, s.cookies)
	if err != nil {
		return err
	}

	run.DocURL = res.URL
	run.DocKind = string(res.Kind)
	run.DocVersion = res.Version
	run.SpecFile = res.SpecPath
	run.SpecDigest = res.Digest
	run.RemovedPaths = res.Removed
	run.OperationsBefore = res.OperationsBefore
	run.OperationsAfter = res.OperationsAfter

	s.logger.Debug("API description stored",
		"spec", res.SpecPath,
		"removedPaths", len(res.Removed),
	)
	return nil
}

// GenerateStep runs the report tool.
type GenerateStep struct {
	reporter Reporter
}

// NewGenerateStep creates a generate step.
func NewGenerateStep(r Reporter) *GenerateStep {
	return &GenerateStep{reporter: r}
}

// Name returns the step name.
func (s *GenerateStep) Name() string {
	return StepGenerate
}

// Do executes the generate step. A non-zero tool exit code is recorded,
// not returned.
func (s *GenerateStep) Do(ctx context.Context, run *model.Run) error {
	if run.SpecFile == "" {
		run.SpecFile = s.reporter.SpecPath()
	}

	res, err := s.reporter.GenerateReport(ctx)
	if err != nil {
		return err
	}
	run.ToolArgs = res.Args
	run.ExitCode = res.ExitCode
	run.ReportPath = res.ReportPath
	return nil
}

// CleanupStep resets the output directory.
type CleanupStep struct {
	reporter Reporter
}

// NewCleanupStep creates a cleanup step.
func NewCleanupStep(r Reporter) *CleanupStep {
	return &CleanupStep{reporter: r}
}

// Name returns the step name.
func (s *CleanupStep) Name() string {
	return StepCleanup
}

// Do executes the cleanup step.
func (s *CleanupStep) Do(_ context.Context, run *model.Run) error {
	dir, err := s.reporter.CleanupInputFiles()
	if err != nil {
		return err
	}
	run.CleanedDir = dir
	return nil
}

// DefaultPipelineConfig selects and configures the steps of DefaultPipeline.
type DefaultPipelineConfig struct {
	// DocPath is the relative URL of the API description.
	DocPath string

	// Auth and Cookies are sent with the doc request.
	Auth    *fetch.BasicAuth
	Cookies map[string]string

	// Fetch, Generate and Cleanup select the steps.
	Fetch    bool
	Generate bool
	Cleanup  bool
}

// DefaultPipelineOption configures DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineAuth sets basic-auth credentials for the fetch step.
func WithPipelineAuth(auth *fetch.BasicAuth) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Auth = auth
	}
}

// WithPipelineCookies sets cookies for the fetch step.
func WithPipelineCookies(cookies map[string]string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Cookies = cookies
	}
}

// WithPipelineDocPath sets the relative URL of the API description.
func WithPipelineDocPath(path string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.DocPath = path
	}
}

// WithPipelineSteps selects which steps run.
func WithPipelineSteps(fetchDoc, generate, cleanup bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Fetch = fetchDoc
		c.Generate = generate
		c.Cleanup = cleanup
	}
}

// DefaultPipeline creates a pipeline running fetch and generate, plus
// cleanup when selected, in that order.
func DefaultPipeline(r Reporter, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		DocPath:  "/swagger.json",
		Fetch:    true,
		Generate: true,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	if cfg.Fetch {
		p.AddStep(NewFetchStep(r, cfg.DocPath,
			WithFetchAuth(cfg.Auth),
			WithFetchCookies(cfg.Cookies),
			WithFetchLogger(p.logger),
		))
	}
	if cfg.Generate {
		p.AddStep(NewGenerateStep(r))
	}
	if cfg.Cleanup {
		p.AddStep(NewCleanupStep(r))
	}
	return p
}

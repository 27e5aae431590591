package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "swaggercov"

	// DocsFormatJSON writes the fetched API description as indented JSON.
	DocsFormatJSON = "json"

	// DocsFormatYAML writes the fetched API description as YAML.
	DocsFormatYAML = "yaml"

	// DefaultDocsFormat matches what swagger-coverage-commandline expects
	// when no format is configured.
	DefaultDocsFormat = DocsFormatJSON

	// DefaultDocPath is the relative URL of the API description.
	DefaultDocPath = "/swagger.json"

	// DefaultTimeout bounds the API description request.
	DefaultTimeout = 30 * time.Second

	// SummaryFormatMarkdown selects the Markdown run summary.
	SummaryFormatMarkdown = "markdown"

	// SummaryFormatJSON selects the JSON run summary.
	SummaryFormatJSON = "json"
)

// Config holds all settings of a single reporter run.
// It replaces the process-wide format and debug globals of earlier
// versions: everything a component needs is passed in explicitly.
type Config struct {
	// APIName names the API under test. It is used to derive the spec,
	// coverage config and report file names.
	APIName string

	// Host is the base URL of the running service, e.g. "http://localhost:5051".
	Host string

	// VerifyTLS controls certificate verification of the doc request.
	VerifyTLS bool

	// DocPath is the relative URL path of the API description.
	DocPath string

	// DocsFormat is the on-disk format of the spec file ("json" or "yaml").
	DocsFormat string

	// Debug lets the report tool write to the console.
	Debug bool

	// Verbose enables debug level logging.
	Verbose bool

	// CoverageConfigFile is the swagger-coverage-config JSON file.
	// Empty disables the ignore list and the -c argument.
	CoverageConfigFile string

	// InstallDir is the directory containing the bundled
	// swagger-coverage-commandline distribution.
	InstallDir string

	// WorkDir is the directory the report tool runs in. Relative spec,
	// config and output paths are resolved against it.
	WorkDir string

	// UseProjectRoot runs the report tool in the project root of the
	// installation instead of WorkDir.
	UseProjectRoot bool

	// Launcher is an optional command prefix for the report tool, e.g. "sh".
	Launcher string

	// Username enables HTTP basic auth for the doc request.
	Username string

	// Password is the basic auth password.
	Password string

	// UseKeyring resolves Password from the OS keyring when it is empty.
	UseKeyring bool

	// Cookies are sent with the doc request.
	Cookies map[string]string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// Timeout bounds the doc request.
	Timeout time.Duration

	// CleanupAfter recreates the output directory after the report is built.
	CleanupAfter bool

	// SaveHistory records each run in the history database.
	SaveHistory bool

	// HistoryDir is the directory of the history database.
	HistoryDir string

	// SummaryFormat selects an optional run summary ("markdown" or "json").
	SummaryFormat string

	// SummaryFile is where the summary is written; stdout when empty.
	SummaryFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		VerifyTLS:   true,
		DocPath:     DefaultDocPath,
		DocsFormat:  DefaultDocsFormat,
		Timeout:     DefaultTimeout,
		SaveHistory: true,
		HistoryDir:  XDGDataDir(),
		Cookies:     make(map[string]string),
	}
}

// SpecFile returns the spec file name, "swagger-doc-<api>.<format>".
func (c *Config) SpecFile() string {
	return fmt.Sprintf("swagger-doc-%s.%s", c.APIName, c.DocsFormat)
}

// DefaultCoverageConfigFile returns "swagger-coverage-config-<api>.json".
func DefaultCoverageConfigFile(apiName string) string {
	return fmt.Sprintf("swagger-coverage-config-%s.json", apiName)
}

// DefaultReportFile returns "swagger-coverage-report-<api>.html".
func DefaultReportFile(apiName string) string {
	return fmt.Sprintf("swagger-coverage-report-%s.html", apiName)
}

// XDGDataDir returns the XDG data directory for swaggercov.
// On Linux: ~/.local/share/swaggercov
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for swaggercov.
// On Linux: ~/.config/swaggercov
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.APIName == "" {
		return ErrNoAPIName
	}
	if c.Host == "" {
		return ErrNoHost
	}
	if c.DocsFormat != DocsFormatJSON && c.DocsFormat != DocsFormatYAML {
		return fmt.Errorf("%w: %q", ErrInvalidDocsFormat, c.DocsFormat)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	switch c.SummaryFormat {
	case "", SummaryFormatMarkdown, SummaryFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSummaryFormat, c.SummaryFormat)
	}
	if c.Password != "" && c.Username == "" {
		return ErrPasswordWithoutUser
	}
	return nil
}

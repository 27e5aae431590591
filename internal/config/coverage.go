package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/coverage-config.schema.json
var coverageConfigSchema string

const coverageConfigSchemaURL = "coverage-config.schema.json"

var (
	compileSchemaOnce sync.Once
	compiledSchema    *jsonschema.Schema
	compileSchemaErr  error
)

// PathsRule is the "rules.paths" section of a coverage config.
type PathsRule struct {
	// Enable turns the ignore list on.
	Enable bool `json:"enable"`

	// Ignore lists path prefixes removed from the API description.
	Ignore []string `json:"ignore"`
}

// CoverageConfig is the subset of swagger-coverage-config-<api>.json that
// swaggercov reads. Everything else in the file is passed through to the
// report tool untouched.
type CoverageConfig struct {
	Rules struct {
		Paths PathsRule `json:"paths"`
	} `json:"rules"`

	Writers struct {
		HTML struct {
			Filename string `json:"filename"`
		} `json:"html"`
	} `json:"writers"`
}

// IgnoredPaths returns the ignore list when the paths rule is enabled,
// otherwise an empty list.
func (c *CoverageConfig) IgnoredPaths() []string {
	if c == nil || !c.Rules.Paths.Enable {
		return []string{}
	}
	out := make([]string, len(c.Rules.Paths.Ignore))
	copy(out, c.Rules.Paths.Ignore)
	return out
}

// ReportFile returns the HTML report file name the tool will write.
func (c *CoverageConfig) ReportFile(apiName string) string {
	if c != nil && c.Writers.HTML.Filename != "" {
		return c.Writers.HTML.Filename
	}
	return DefaultReportFile(apiName)
}

// LoadCoverageConfig reads a swagger-coverage-config file.
// An empty path means no coverage config is configured: an empty config is
// returned and the filesystem is not touched.
func LoadCoverageConfig(path string) (*CoverageConfig, error) {
	if path == "" {
		return &CoverageConfig{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCoverageConfigNotFound, path)
		}
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse coverage config %s: %w", path, err)
	}

	schema, err := coverageSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidCoverageConfig, path, err)
	}

	var cfg CoverageConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode coverage config %s: %w", path, err)
	}
	return &cfg, nil
}

// coverageSchema compiles the embedded schema once.
func coverageSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(coverageConfigSchemaURL, bytes.NewReader([]byte(coverageConfigSchema))); err != nil {
			compileSchemaErr = fmt.Errorf("coverage config schema: %w", err)
			return
		}
		compiledSchema, compileSchemaErr = compiler.Compile(coverageConfigSchemaURL)
	})
	return compiledSchema, compileSchemaErr
}

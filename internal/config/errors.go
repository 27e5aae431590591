package config

import "errors"

// Configuration errors.
// Validation errors are returned by Config.Validate(); the coverage config
// errors are returned by LoadCoverageConfig. All are sentinels so callers can
// use errors.Is().
var (
	// ErrNoAPIName is returned when no API name is configured.
	ErrNoAPIName = errors.New("no API name specified: use --api or set api_name in the project file")

	// ErrNoHost is returned when no service host is configured.
	ErrNoHost = errors.New("no host specified: use --host or set host in the project file")

	// ErrInvalidDocsFormat is returned for a spec format other than json or yaml.
	ErrInvalidDocsFormat = errors.New("invalid docs format: must be json or yaml")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidSummaryFormat is returned for an unknown run summary format.
	ErrInvalidSummaryFormat = errors.New("invalid summary format: must be markdown or json")

	// ErrPasswordWithoutUser is returned when a password is set without a user name.
	ErrPasswordWithoutUser = errors.New("password given without a user name")

	// ErrCoverageConfigNotFound is returned when the configured
	// swagger-coverage-config file does not exist.
	ErrCoverageConfigNotFound = errors.New("coverage config file not found")

	// ErrInvalidCoverageConfig is returned when the coverage config file
	// does not match the expected shape.
	ErrInvalidCoverageConfig = errors.New("invalid coverage config")
)

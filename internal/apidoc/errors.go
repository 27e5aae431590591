package apidoc

import "errors"

var (
	// ErrInvalidDocument is returned when the data is neither a JSON nor a
	// YAML object.
	ErrInvalidDocument = errors.New("API description is not a JSON or YAML object")

	// ErrUnsupportedVersion is reported by VersionError, Validate and
	// Operations when the document is neither Swagger 2.0 nor OpenAPI 3.x.
	ErrUnsupportedVersion = errors.New("unsupported API description version")

	// ErrUnsupportedFormat is returned for an output format other than json or yaml.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

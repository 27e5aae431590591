package invoker

import "errors"

var (
	// ErrToolNotFound is returned when the report tool is missing from the
	// install directory. No process is started.
	ErrToolNotFound = errors.New("no commandline tool found")

	// ErrInvalidLauncher is returned when the launcher prefix cannot be parsed.
	ErrInvalidLauncher = errors.New("invalid launcher")
)

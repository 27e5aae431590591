package apidoc

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteResult describes a written spec file.
type WriteResult struct {
	// Path is the written file.
	Path string

	// Removed lists the paths dropped by the ignore list.
	Removed []string

	// Digest is the SHA3-256 digest of the written bytes.
	Digest string
}

// WriteFile writes doc to path in the given format after removing every
// path under one of the ignored prefixes. Parent directories are created.
func WriteFile(path, format string, doc *Document, ignored []string) (*WriteResult, error) {
	removed := doc.Filter(ignored)

	data, err := doc.Marshal(format)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write spec file %s: %w", path, err)
	}

	return &WriteResult{Path: path, Removed: removed, Digest: Digest(data)}, nil
}

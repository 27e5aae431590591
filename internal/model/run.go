package model

import (
	"time"

	"github.com/google/uuid"
)

// Run is the record of one swaggercov invocation.
type Run struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// APIName is the API under test.
	APIName string `json:"api_name"`

	// Host is the service base URL.
	Host string `json:"host"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Steps lists the steps that ran, in order.
	Steps []string `json:"steps"`

	// === API description ===

	DocURL     string `json:"doc_url,omitempty"`
	DocKind    string `json:"doc_kind,omitempty"`
	DocVersion string `json:"doc_version,omitempty"`

	// SpecFile is the written spec file.
	SpecFile string `json:"spec_file,omitempty"`

	// SpecDigest is the SHA3-256 digest of the spec file.
	SpecDigest string `json:"spec_digest,omitempty"`

	// IgnoredPaths is the ignore list in effect.
	IgnoredPaths []string `json:"ignored_paths,omitempty"`

	// RemovedPaths are the paths the ignore list dropped.
	RemovedPaths []string `json:"removed_paths,omitempty"`

	OperationsBefore int `json:"operations_before"`
	OperationsAfter  int `json:"operations_after"`

	// === Report tool ===

	ToolArgs   []string `json:"tool_args,omitempty"`
	ExitCode   int      `json:"exit_code"`
	ReportPath string   `json:"report_path,omitempty"`

	// CleanedDir is the output directory recreated by cleanup.
	CleanedDir string `json:"cleaned_dir,omitempty"`

	// === Outcome ===

	// Interrupted is set when the run was canceled.
	Interrupted bool `json:"interrupted,omitempty"`

	// Error is the step error, if any. It is not serialized.
	Error error `json:"-"`

	// ErrorMessage is the serialized step error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun starts a run for apiName against host.
func NewRun(apiName, host string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		APIName:   apiName,
		Host:      host,
		StartedAt: time.Now().UTC(),
		Steps:     make([]string, 0),
	}
}

// Finish records the end time.
func (r *Run) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Fail records err as the run error.
func (r *Run) Fail(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Duration returns how long the run took, or zero if it has not finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Status derives the outcome from the recorded fields.
func (r *Run) Status() Status {
	switch {
	case r.Interrupted:
		return StatusInterrupted
	case r.ErrorMessage != "":
		return StatusFailed
	case r.ExitCode != 0:
		return StatusToolFailed
	default:
		return StatusSucceeded
	}
}

// OperationsRemoved returns how many operations the ignore list dropped.
func (r *Run) OperationsRemoved() int {
	return r.OperationsBefore - r.OperationsAfter
}

// ShortID returns the first eight characters of the ID.
func (r *Run) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

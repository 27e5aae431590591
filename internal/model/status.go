package model

// Status is the outcome of a run.
type Status int

const (
	// StatusSucceeded means every step finished and the tool exited with 0.
	StatusSucceeded Status = iota

	// StatusToolFailed means the steps finished but the report tool exited
	// with a non-zero code. The report may be incomplete.
	StatusToolFailed

	// StatusFailed means a step returned an error.
	StatusFailed

	// StatusInterrupted means the run was canceled.
	StatusInterrupted
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusToolFailed:
		return "TOOL_FAILED"
	case StatusFailed:
		return "FAILED"
	case StatusInterrupted:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus is the inverse of String. Unknown names return false.
func ParseStatus(s string) (Status, bool) {
	for _, st := range []Status{StatusSucceeded, StatusToolFailed, StatusFailed, StatusInterrupted} {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/swaggercov/internal/model"
)

// JSONWriter outputs run summaries in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// runJSON adds derived fields to a run.
type runJSON struct {
	*model.Run

	Status            string `json:"status"`
	DurationMS        int64  `json:"duration_ms"`
	OperationsRemoved int    `json:"operations_removed"`
}

func toRunJSON(run *model.Run) runJSON {
	return runJSON{
		Run:               run,
		Status:            run.Status().String(),
		DurationMS:        run.Duration().Milliseconds(),
		OperationsRemoved: run.OperationsRemoved(),
	}
}

// historyJSON wraps a list of runs.
type historyJSON struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	Count       int       `json:"count"`
	Runs        []runJSON `json:"runs"`
}

// Version is the schema version of the JSON history output.
const Version = "1"

// Write outputs a single run as a JSON object.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.writeJSON(toRunJSON(run))
}

// WriteHistory outputs the runs wrapped with version and count.
func (w *JSONWriter) WriteHistory(runs []*model.Run) (int, error) {
	out := historyJSON{
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		Count:       len(runs),
		Runs:        make([]runJSON, len(runs)),
	}
	for i, run := range runs {
		out.Runs[i] = toRunJSON(run)
	}
	return w.writeJSON(out)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

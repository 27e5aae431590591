// Package report renders run summaries.
//
// Writers turn a model.Run, or a list of them, into Markdown (for CI job
// summaries), JSON or plain text. The
// HTML coverage report itself is produced by swagger-coverage-commandline;
// these summaries only describe how a run went.
package report

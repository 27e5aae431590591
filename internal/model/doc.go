// Package model defines the data recorded for every swaggercov run.
//
// A Run is filled in step by step by the pipeline, stored in the history
// database and rendered by the summary writers. It is serializable to JSON
// so the database can keep it as a single document.
package model

// Package pipeline runs the steps of a swaggercov run in sequence.
//
// Each step receives the Run being recorded and fills in its part: the fetch
// step the spec file details, the generate step the tool result, the cleanup
// step the recreated output directory. The CLI commands differ only in which
// steps they add.
package pipeline

// Package reporter produces swagger-coverage reports for one API.
//
// A CoverageReporter owns one spec file, one coverage config and one output
// directory, all named after the API and the host. Its lifecycle mirrors a
// test session: New loads the ignore list and derives the output directory,
// Setup pulls the API description before the tests, GenerateReport runs the
// report tool after them and CleanupInputFiles resets the recorded traffic.
//
// Two reporters with the same API name share their files. Nothing guards
// against running them at the same time.
package reporter

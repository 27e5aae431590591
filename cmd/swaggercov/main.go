// Package main provides the entry point for the swaggercov CLI.
//
// swaggercov fetches the Swagger/OpenAPI description of a running service,
// drops ignored paths and runs swagger-coverage-commandline to build an
// HTML coverage report from recorded test traffic.
//
// Usage:
//
//	swaggercov run --api <name> --host <url>
//	swaggercov history
//
// See --help for all available options.
package main

// main is the entry point for swaggercov.
func main() {
	Execute()
}

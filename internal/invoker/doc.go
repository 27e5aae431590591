// Package invoker runs the swagger-coverage-commandline report tool.
package invoker

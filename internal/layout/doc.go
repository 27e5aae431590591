// Package layout resolves the filesystem locations swaggercov works with:
// the per-host output directory consumed by swagger-coverage-commandline and
// the directories of the bundled tool installation.
package layout

// Package database stores the swaggercov run history in SQLite.
//
// Every run is kept as a JSON document next to a few indexed columns used
// for listing: API name, start time, status and operation counts. The
// database is a single file under the XDG data directory, opened through
// the CGO-free modernc.org/sqlite driver with WAL enabled.
package database

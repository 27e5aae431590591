package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/swaggercov/internal/model"
)

// FileName is the database file name inside the history directory.
const FileName = "swaggercov.db"

// timeLayout is fixed-width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrRunNotFound is returned when no run matches an ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousID is returned when an ID prefix matches several runs.
	ErrAmbiguousID = errors.New("run id prefix matches more than one run")
)

// HistoryDB stores run records.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		api_name TEXT NOT NULL,
		host TEXT NOT NULL,
		started_at TEXT NOT NULL,
		status TEXT NOT NULL,
		exit_code INTEGER DEFAULT 0,
		operations_before INTEGER DEFAULT 0,
		operations_after INTEGER DEFAULT 0,
		spec_digest TEXT,
		run_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_api ON runs(api_name);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun inserts or replaces a run.
func (h *HistoryDB) SaveRun(ctx context.Context, run *model.Run) error {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to serialize run: %w", err)
	}

	query := `
	INSERT INTO runs (id, api_name, host, started_at, status, exit_code,
		operations_before, operations_after, spec_digest, run_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		status = excluded.status,
		exit_code = excluded.exit_code,
		operations_before = excluded.operations_before,
		operations_after = excluded.operations_after,
		spec_digest = excluded.spec_digest,
		run_json = excluded.run_json
	`

	_, err = h.db.ExecContext(ctx, query,
		run.ID,
		run.APIName,
		run.Host,
		run.StartedAt.UTC().Format(timeLayout),
		run.Status().String(),
		run.ExitCode,
		run.OperationsBefore,
		run.OperationsAfter,
		run.SpecDigest,
		string(runJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun returns the run whose ID starts with idPrefix.
func (h *HistoryDB) GetRun(ctx context.Context, idPrefix string) (*model.Run, error) {
	if idPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	query := `
	SELECT run_json FROM runs
	WHERE substr(id, 1, length(?)) = ?
	LIMIT 2
	`

	rows, err := h.db.QueryContext(ctx, query, idPrefix, idPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idPrefix)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idPrefix)
	}
}

// ListOptions filters ListRuns.
type ListOptions struct {
	// APIName restricts the list to one API. Empty lists all.
	APIName string

	// Limit caps the number of runs. Zero means no limit.
	Limit int
}

// ListRuns returns runs, newest first.
func (h *HistoryDB) ListRuns(ctx context.Context, opts ListOptions) ([]*model.Run, error) {
	query := `
	SELECT run_json FROM runs
	WHERE (? = '' OR api_name = ?)
	ORDER BY started_at DESC
	LIMIT ?
	`

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := h.db.QueryContext(ctx, query, opts.APIName, opts.APIName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// LatestRun returns the newest run of apiName, or nil when there is none.
func (h *HistoryDB) LatestRun(ctx context.Context, apiName string) (*model.Run, error) {
	runs, err := h.ListRuns(ctx, ListOptions{APIName: apiName, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil //nolint:nilnil // no run yet
	}
	return runs[0], nil
}

// ListAPIs returns the names of all APIs with recorded runs.
func (h *HistoryDB) ListAPIs(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT api_name FROM runs
	ORDER BY api_name
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list APIs: %w", err)
	}
	defer rows.Close()

	var apis []string
	for rows.Next() {
		var api string
		if err := rows.Scan(&api); err != nil {
			return nil, fmt.Errorf("failed to scan API name: %w", err)
		}
		apis = append(apis, api)
	}
	return apis, rows.Err()
}

// PruneRuns deletes runs of apiName started before cutoff and returns how
// many were removed. An empty apiName prunes every API.
func (h *HistoryDB) PruneRuns(ctx context.Context, apiName string, cutoff time.Time) (int64, error) {
	query := `
	DELETE FROM runs
	WHERE (? = '' OR api_name = ?) AND started_at < ?
	`

	res, err := h.db.ExecContext(ctx, query, apiName, apiName, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRuns(rows *sql.Rows) ([]*model.Run, error) {
	var runs []*model.Run
	for rows.Next() {
		var runJSON string
		if err := rows.Scan(&runJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		var run model.Run
		if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
			continue // Skip malformed records
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

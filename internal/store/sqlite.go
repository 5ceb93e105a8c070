package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/abarbosa-dev/vinexport/internal/pipeline"
)

// SQLiteStore implements RunStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	start_year INTEGER NOT NULL,
	end_year   INTEGER NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	rows_total INTEGER NOT NULL DEFAULT 0,
	metadata   TEXT,
	error      TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS run_years (
	run_id TEXT NOT NULL REFERENCES runs(id),
	year   INTEGER NOT NULL,
	label  TEXT NOT NULL,
	rows   INTEGER NOT NULL,
	PRIMARY KEY (run_id, year)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_run_years_run_id ON run_years(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, startYear, endYear int) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		StartYear: startYear,
		EndYear:   endYear,
		Status:    StatusRunning,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, start_year, end_year, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartYear, run.EndYear, run.Status, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create run")
	}
	return run, nil
}

func (s *SQLiteStore) AddYear(ctx context.Context, runID string, year int, label string, rows int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO run_years (run_id, year, label, rows) VALUES (?, ?, ?, ?)`,
		runID, year, label, rows,
	)
	return eris.Wrapf(err, "sqlite: add year %d", year)
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, meta pipeline.Metadata, rowsTotal int) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal metadata")
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, rows_total = ?, metadata = ?, updated_at = ? WHERE id = ?`,
		StatusComplete, rowsTotal, string(metaJSON), time.Now().UTC(), runID,
	)
	return eris.Wrap(err, "sqlite: complete run")
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, errMsg, time.Now().UTC(), runID,
	)
	return eris.Wrap(err, "sqlite: fail run")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start_year, end_year, status, rows_total, metadata, error, created_at, updated_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list runs")
}

func (s *SQLiteStore) LastComplete(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, start_year, end_year, status, rows_total, metadata, error, created_at, updated_at
		 FROM runs WHERE status = ? ORDER BY created_at DESC LIMIT 1`, StatusComplete,
	)

	run, err := scanRun(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) ListYears(ctx context.Context, runID string) ([]RunYear, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, year, label, rows FROM run_years WHERE run_id = ? ORDER BY year`, runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list years")
	}
	defer rows.Close() //nolint:errcheck

	var out []RunYear
	for rows.Next() {
		var ry RunYear
		if err := rows.Scan(&ry.RunID, &ry.Year, &ry.Label, &ry.Rows); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run year")
		}
		out = append(out, ry)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list years")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run      Run
		metaJSON sql.NullString
		errMsg   sql.NullString
	)
	err := row.Scan(&run.ID, &run.StartYear, &run.EndYear, &run.Status,
		&run.RowsTotal, &metaJSON, &errMsg, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Wrap(sql.ErrNoRows, "sqlite: run not found")
		}
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if metaJSON.Valid && metaJSON.String != "" {
		var meta pipeline.Metadata
		if err := json.Unmarshal([]byte(metaJSON.String), &meta); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal metadata")
		}
		run.Metadata = &meta
	}
	run.Error = errMsg.String

	return &run, nil
}

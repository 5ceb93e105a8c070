// Package store records pipeline run history in a local SQLite database.
package store

import (
	"context"
	"time"

	"github.com/abarbosa-dev/vinexport/internal/pipeline"
)

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	StatusRunning  RunStatus = "running"
	StatusComplete RunStatus = "complete"
	StatusFailed   RunStatus = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID        string             `json:"id"`
	StartYear int                `json:"start_year"`
	EndYear   int                `json:"end_year"`
	Status    RunStatus          `json:"status"`
	RowsTotal int                `json:"rows_total"`
	Metadata  *pipeline.Metadata `json:"metadata,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// RunYear is one processed year within a run.
type RunYear struct {
	RunID string `json:"run_id"`
	Year  int    `json:"year"`
	Label string `json:"label"`
	Rows  int    `json:"rows"`
}

// RunStore persists run history.
type RunStore interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, startYear, endYear int) (*Run, error)
	AddYear(ctx context.Context, runID string, year int, label string, rows int) error
	CompleteRun(ctx context.Context, runID string, meta pipeline.Metadata, rowsTotal int) error
	FailRun(ctx context.Context, runID, errMsg string) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	LastComplete(ctx context.Context) (*Run, error)
	ListYears(ctx context.Context, runID string) ([]RunYear, error)
	Close() error
}

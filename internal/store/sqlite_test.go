package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abarbosa-dev/vinexport/internal/pipeline"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.CreateRun(ctx, 2009, 2024)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StatusRunning, run.Status)

	require.NoError(t, s.AddYear(ctx, run.ID, 2009, "exp_2009", 54))
	require.NoError(t, s.AddYear(ctx, run.ID, 2010, "exp_2010", 61))

	meta := pipeline.Metadata{
		DistinctCountries: 54,
		YearCount:         2,
		Labels:            []string{"exp_2009", "exp_2010"},
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, meta, 115))

	t.Run("list runs", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, StatusComplete, runs[0].Status)
		assert.Equal(t, 115, runs[0].RowsTotal)
		require.NotNil(t, runs[0].Metadata)
		assert.Equal(t, 54, runs[0].Metadata.DistinctCountries)
	})

	t.Run("list years", func(t *testing.T) {
		years, err := s.ListYears(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, years, 2)
		assert.Equal(t, "exp_2009", years[0].Label)
		assert.Equal(t, 61, years[1].Rows)
	})

	t.Run("last complete", func(t *testing.T) {
		last, err := s.LastComplete(ctx)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, run.ID, last.ID)
	})
}

func TestFailRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.CreateRun(ctx, 2020, 2021)
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, "table index 3 out of range"))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Equal(t, "table index 3 out of range", runs[0].Error)
	assert.Nil(t, runs[0].Metadata)
}

func TestLastCompleteEmpty(t *testing.T) {
	s := newTestStore(t)

	last, err := s.LastComplete(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestListRunsDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for range 3 {
		_, err := s.CreateRun(ctx, 2020, 2020)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

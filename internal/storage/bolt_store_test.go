package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devopsdemo/internal/report"
	"devopsdemo/internal/runner"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveListGet(t *testing.T) {
	s := openTemp(t)
	cfg := runner.Config{URL: "http://127.0.0.1:5000/", Mode: runner.ModeRPS, TargetRPS: 10, SteadyDur: 5}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run, err := NewRun(cfg, report.Summary{TotalRequests: uint64(i + 1)}, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, s.Save(run))
		ids = append(ids, run.ID)
	}

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, uint64(3), runs[0].Summary.TotalRequests)
	assert.Equal(t, uint64(1), runs[2].Summary.TotalRequests)

	got, err := s.Get(ids[1])
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Summary.TotalRequests)
	assert.Equal(t, cfg.URL, got.Config.URL)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SaveRequiresID(t *testing.T) {
	s := openTemp(t)
	assert.Error(t, s.Save(Run{}))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	run, err := NewRun(runner.Config{}, report.Summary{Success: 7}, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Save(run))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, uint64(7), runs[0].Summary.Success)
}

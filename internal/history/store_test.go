package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(Run{Worker: "amsat", StartedAt: now, DurationMs: 120, Success: true, Summary: "ok"}))
	require.NoError(t, s.Record(Run{Worker: "amsat", StartedAt: now.Add(time.Minute), DurationMs: 80, Success: false, Error: "boom"}))

	runs, err := s.Recent("amsat", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[0].Success)
	assert.Equal(t, "boom", runs[0].Error)
	assert.True(t, runs[1].Success)
}

func TestLatestPerWorker(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(Run{Worker: "amsat", StartedAt: base, DurationMs: 1, Success: true, Summary: "first"}))
	require.NoError(t, s.Record(Run{Worker: "amsat", StartedAt: base.Add(time.Hour), DurationMs: 1, Success: true, Summary: "second"}))
	require.NoError(t, s.Record(Run{Worker: "lotw", StartedAt: base, DurationMs: 1, Success: true, Summary: "only"}))

	latest, err := s.LatestPerWorker()
	require.NoError(t, err)
	require.Len(t, latest, 2)

	byWorker := map[string]Run{}
	for _, r := range latest {
		byWorker[r.Worker] = r
	}
	assert.Equal(t, "second", byWorker["amsat"].Summary)
	assert.Equal(t, "only", byWorker["lotw"].Summary)
}

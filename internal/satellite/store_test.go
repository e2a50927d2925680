package satellite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeReportsRetentionAndDedup(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	old := AmsatReport{Callsign: "W1AW", ReportedTime: now.Add(-49 * time.Hour), Report: StatusBlue}
	fresh := AmsatReport{Callsign: "K2ABC", ReportedTime: now.Add(-1 * time.Hour), Report: StatusBlue}
	dup := fresh // same callsign+time, should not duplicate on second merge

	blocks := mergeReports(nil, []AmsatReport{old, fresh}, now)
	for _, b := range blocks {
		assert.False(t, b.Time.Before(now.Add(-48*time.Hour)), "block older than retention window survived")
	}

	blocks2 := mergeReports(blocks, []AmsatReport{dup}, now)
	total := 0
	for _, b := range blocks2 {
		total += len(b.Reports)
	}
	assert.Equal(t, 1, total, "duplicate (callsign, reported_time) must not be appended twice")
}

// TestMergeReportsStraddlingHoursDoesNotLoseReports guards against a bug
// where caching *DataBlock pointers into a map while also appending to the
// same slice let a reallocation strand earlier pointers on the discarded
// backing array, silently dropping reports bucketed before the append.
func TestMergeReportsStraddlingHoursDoesNotLoseReports(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 2, 0, 0, time.UTC)

	existingHour := now.Truncate(time.Hour).Add(-time.Hour)
	blocks := []DataBlock{{
		Time:    existingHour,
		Reports: []AmsatReport{{Callsign: "EXIST1", ReportedTime: existingHour.Add(30 * time.Minute)}},
	}}

	// NEW1 is processed first so its append triggers the backing-array
	// reallocation before OLD1 (targeting the pre-existing bucket) is
	// processed, exercising the exact ordering the bug depended on.
	newReports := []AmsatReport{
		{Callsign: "NEW1", ReportedTime: now},
		{Callsign: "OLD1", ReportedTime: existingHour.Add(45 * time.Minute)},
	}

	merged := mergeReports(blocks, newReports, now)

	var oldBlockReports, newBlockReports []AmsatReport
	for _, b := range merged {
		if b.Time.Equal(existingHour) {
			oldBlockReports = b.Reports
		}
		if b.Time.Equal(now.Truncate(time.Hour)) {
			newBlockReports = b.Reports
		}
	}

	assert.Len(t, oldBlockReports, 2, "report bucketed into the pre-existing hour must survive the later append")
	assert.Len(t, newBlockReports, 1)
}

func TestMergeReportsSortedDescending(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	reports := []AmsatReport{
		{Callsign: "A", ReportedTime: now.Add(-3 * time.Hour)},
		{Callsign: "B", ReportedTime: now.Add(-1 * time.Hour)},
		{Callsign: "C", ReportedTime: now.Add(-2 * time.Hour)},
	}
	blocks := mergeReports(nil, reports, now)
	for i := 1; i < len(blocks); i++ {
		assert.True(t, blocks[i-1].Time.After(blocks[i].Time))
	}
}

func TestMergeReportsDiscardsFutureDated(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	future := AmsatReport{Callsign: "W1AW", ReportedTime: now.Add(10 * time.Minute)}
	blocks := mergeReports(nil, []AmsatReport{future}, now)
	assert.Empty(t, blocks)
}

func TestMergeReportsIdempotent(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	reports := []AmsatReport{{Callsign: "W1AW", ReportedTime: now.Add(-1 * time.Hour)}}

	once := mergeReports(nil, reports, now)
	twice := mergeReports(once, reports, now)

	assert.Equal(t, len(once), len(twice))
	assert.Equal(t, once[0].Reports, twice[0].Reports)
}

func TestStorePersistAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amsat_cache.json")

	fixedNow := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	store := NewStore(func() time.Time { return fixedNow })
	store.Upsert("AO-91")
	store.ApplyFetchOutcomes([]FetchOutcome{
		{APIName: "AO-91", Success: true, Reports: []AmsatReport{
			{Callsign: "W1AW", ReportedTime: fixedNow.Add(-1 * time.Hour), Report: StatusBlue},
		}},
	})

	require.NoError(t, store.Persist(path))

	reloaded := NewStore(func() time.Time { return fixedNow })
	require.NoError(t, reloaded.Load(path))

	original, ok := store.Get("AO-91")
	require.True(t, ok)
	roundTripped, ok := reloaded.Get("AO-91")
	require.True(t, ok)

	assert.Equal(t, original.APIName, roundTripped.APIName)
	assert.Equal(t, original.TotalReports(), roundTripped.TotalReports())
}

func TestSatelliteNamesFallback(t *testing.T) {
	assert.Equal(t, fallbackSatelliteList, SatelliteNames(nil))
	assert.Equal(t, []string{"X-1"}, SatelliteNames([]string{"X-1"}))
}

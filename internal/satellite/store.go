package satellite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/n0sat/satbot/internal/errors"
)

const retentionWindow = 48 * time.Hour

// fallbackSatelliteList is used when the AMSAT dropdown scrape yields
// nothing, per spec §4.4/§9 — the update cycle must not fail hard.
var fallbackSatelliteList = []string{
	"ISS-FM", "ISS-SSTV", "ISS-DATA", "ISS-DATV",
	"AO-91", "AO-92",
	"RS-44",
	"FO-118[H/u]",
}

// Store is the mutable, single-writer/many-reader AMSAT entry store
// (component D). The fetch phase runs lock-free; only the merge-and-publish
// phase holds the write lock, per the concurrency model.
type Store struct {
	mu      sync.RWMutex
	entries map[string]AmsatEntry
	now     func() time.Time
}

// NewStore creates an empty store. now defaults to time.Now when nil.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{entries: make(map[string]AmsatEntry), now: now}
}

// Get returns a copy of the entry for apiName, if present.
func (s *Store) Get(apiName string) (AmsatEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[apiName]
	return e, ok
}

// All returns a snapshot copy of every entry, in no particular order.
func (s *Store) All() []AmsatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AmsatEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out
}

// Upsert ensures an entry exists for apiName, creating it via ParseName/
// GenerateAliases if missing, and returns the current copy.
func (s *Store) Upsert(apiName string) AmsatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[apiName]; ok {
		return e
	}
	e := NewEntry(apiName, s.now())
	s.entries[apiName] = e
	return e
}

// ApplyAliasOverrides merges operator-configured aliases into every
// matching entry currently in the store. Run once per update cycle after
// Upsert has seeded any new names, so a freshly-created entry still gets
// its overrides before the first render.
func (s *Store) ApplyAliasOverrides(overrides AliasOverrides) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, e := range s.entries {
		s.entries[name] = overrides.Apply(e)
	}
}

// FetchOutcome is the per-name result of one AMSAT update cycle's batch fetch.
type FetchOutcome struct {
	APIName string
	Reports []AmsatReport // nil/empty on no-data or failure
	Success bool
}

// ApplyFetchOutcomes performs step 4 of the AMSAT update cycle for every
// outcome: merge on success-with-reports, mark success on empty success,
// mark failure otherwise, always stamping last_updated.
func (s *Store) ApplyFetchOutcomes(outcomes []FetchOutcome) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range outcomes {
		e, ok := s.entries[o.APIName]
		if !ok {
			e = NewEntry(o.APIName, now)
		}

		if o.Success {
			if len(o.Reports) > 0 {
				e.Reports = mergeReports(e.Reports, o.Reports, now)
				successNow := now
				e.LastFetchSuccess = &successNow
			}
			e.UpdateSuccess = true
		} else {
			e.UpdateSuccess = false
		}
		e.LastUpdated = now
		s.entries[o.APIName] = e
	}
}

// mergeReports implements §4.4's merge_reports: bucket new reports by
// floored hour, append only reports whose (callsign, reported_time) is not
// already present in that bucket, sort blocks newest-first, and drop blocks
// older than the 48h retention window. Future-dated reports (more than 5
// minutes ahead of now) are discarded before bucketing.
func mergeReports(blocks []DataBlock, newReports []AmsatReport, now time.Time) []DataBlock {
	futureCutoff := now.Add(5 * time.Minute)

	byTime := make(map[time.Time]int, len(blocks))
	for i := range blocks {
		byTime[blocks[i].Time] = i
	}

	for _, r := range newReports {
		if r.ReportedTime.After(futureCutoff) {
			continue
		}
		bucketTime := r.ReportedTime.Truncate(time.Hour)

		idx, ok := byTime[bucketTime]
		if !ok {
			blocks = append(blocks, DataBlock{Time: bucketTime})
			idx = len(blocks) - 1
			byTime[bucketTime] = idx
		}

		dup := false
		for _, existing := range blocks[idx].Reports {
			if existing.Callsign == r.Callsign && existing.ReportedTime.Equal(r.ReportedTime) {
				dup = true
				break
			}
		}
		if !dup {
			blocks[idx].Reports = append(blocks[idx].Reports, r)
		}
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Time.After(blocks[j].Time) })

	cutoff := now.Add(-retentionWindow)
	kept := blocks[:0]
	for _, b := range blocks {
		if !b.Time.Before(cutoff) {
			kept = append(kept, b)
		}
	}
	return kept
}

// SatelliteNames returns the AMSAT dropdown scrape result, falling back to
// the hard-coded baseline list if it is empty — the update cycle must not
// fail hard on scraper failure (spec §4.4/§9).
func SatelliteNames(scraped []string) []string {
	if len(scraped) == 0 {
		return fallbackSatelliteList
	}
	return scraped
}

// Persist writes the entry map to path using atomic write-then-rename.
func (s *Store) Persist(path string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "failed to marshal satellite entry map")
	}
	return atomicWriteFile(path, data)
}

// Load reads a previously persisted entry map from path, replacing the
// store's contents. A missing file is not an error — the store starts empty.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read satellite snapshot %s", path)
	}

	var entries map[string]AmsatEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrapf(err, "failed to parse satellite snapshot %s", path)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write temp file %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to close temp file %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to rename temp file to %s", path)
	}
	return nil
}

// EvictImages deletes files under dir older than retention, matching the
// image-GC worker's responsibility (component J's fifth worker). The
// "<feed>_latest.png" aliases are never deleted: they are rewritten on every
// render rather than aged. Subdirectories are not descended into. ctx allows
// the caller to bound how long a very large directory walk may run.
func EvictImages(ctx context.Context, dir string, retention time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "failed to list image cache dir %s", dir)
	}

	cutoff := now.Add(-retention)
	deleted := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return deleted, ctx.Err()
		default:
		}
		if entry.IsDir() || strings.HasSuffix(entry.Name(), "_latest.png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

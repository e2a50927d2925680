package satellite

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/httpclient"
)

// FrequencyStore is the read-only transponder metadata store (component E),
// keyed by NORAD id. Initialized once from CSV; immutable thereafter, so it
// needs no lock per the concurrency model.
type FrequencyStore struct {
	byNorad map[uint32][]TransponderMetadata
}

// LoadFrequencyCSV parses the exact-header CSV format from §6:
// name,norad_id,uplink,downlink,beacon,mode,callsign,satnogs_id
func LoadFrequencyCSV(r io.Reader) (*FrequencyStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{"name", "norad_id", "uplink", "downlink", "beacon", "mode", "callsign", "satnogs_id"} {
		if _, ok := col[want]; !ok {
			return nil, errors.Newf("CSV missing required column %q", want)
		}
	}

	fs := &FrequencyStore{byNorad: make(map[uint32][]TransponderMetadata)}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: skip, don't fail the whole load.
			continue
		}

		noradStr := strings.TrimSpace(record[col["norad_id"]])
		norad, err := strconv.ParseUint(noradStr, 10, 32)
		if err != nil {
			continue
		}

		row := TransponderMetadata{
			NoradID:   uint32(norad),
			Label:     strings.TrimSpace(record[col["name"]]),
			Uplink:    normalizeFrequencyCell(record[col["uplink"]]),
			Downlink:  normalizeFrequencyCell(record[col["downlink"]]),
			Beacon:    normalizeFrequencyCell(record[col["beacon"]]),
			Mode:      strings.TrimSpace(record[col["mode"]]),
			Callsign:  strings.TrimSpace(record[col["callsign"]]),
			SatnogsID: strings.TrimSpace(record[col["satnogs_id"]]),
		}
		fs.byNorad[row.NoradID] = append(fs.byNorad[row.NoradID], row)
	}

	return fs, nil
}

// normalizeFrequencyCell passes through empty, range ("a-b"), and multiple
// ("a/b/c") cells unchanged; a bare decimal is also passed through as a
// single value. The distinction matters to callers deciding how to render
// the cell, not to storage, so this is effectively an identity pass with
// whitespace trimmed — kept as a named step because the three cell shapes
// are a documented contract (§6), not an accident of the source format.
func normalizeFrequencyCell(raw string) string {
	return strings.TrimSpace(raw)
}

// EnsureFrequencyCSV downloads the transponder CSV to path if it does not
// already exist, per §7's "Downloaded on first start if missing" rule, then
// loads it. An existing file is never re-downloaded or re-validated against
// the source URL.
func EnsureFrequencyCSV(ctx context.Context, client *httpclient.SaferClient, url, path string) (*FrequencyStore, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to stat frequency CSV %s", path)
		}
		if err := downloadFrequencyCSV(ctx, client, url, path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open frequency CSV %s", path)
	}
	defer f.Close()

	return LoadFrequencyCSV(f)
}

func downloadFrequencyCSV(ctx context.Context, client *httpclient.SaferClient, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build frequency CSV download request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "frequency CSV download failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return errors.Newf("frequency CSV download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read frequency CSV response body")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	return os.WriteFile(path, data, 0o644)
}

// Lookup returns every transponder row for a NORAD id.
func (fs *FrequencyStore) Lookup(noradID uint32) []TransponderMetadata {
	return fs.byNorad[noradID]
}

// Len returns the number of distinct NORAD ids loaded.
func (fs *FrequencyStore) Len() int {
	return len(fs.byNorad)
}

// All returns every (norad_id, transponders) pair, for snapshot dumps and
// round-trip tests.
func (fs *FrequencyStore) All() map[uint32][]TransponderMetadata {
	return fs.byNorad
}

// LookupByLabel joins an AmsatEntry's base name against the CSV's "name"
// column by normalized equality (component F's lazy join). The CSV's
// per-satellite name rarely matches an AMSAT API name byte-for-byte, so
// this compares through the same NormalizeForSearch fold the query search
// phases use.
func (fs *FrequencyStore) LookupByLabel(label string) []TransponderMetadata {
	normalized := NormalizeForSearch(label)
	if normalized == "" {
		return nil
	}
	var out []TransponderMetadata
	for _, rows := range fs.byNorad {
		for _, row := range rows {
			if NormalizeForSearch(row.Label) == normalized {
				out = append(out, row)
			}
		}
	}
	return out
}

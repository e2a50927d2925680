package satellite

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/n0sat/satbot/internal/errors"
)

// AliasOverrides lets an operator hand-correct name matching that the
// automatic alias generation and fuzzy search can't reach — e.g. a CSV
// metadata name that shares no substring with its AMSAT API name. Keyed by
// AMSAT API name, value is the extra aliases to search against.
type AliasOverrides struct {
	Overrides map[string][]string `toml:"overrides"`
}

// LoadAliasOverrides reads the operator-editable overrides file. A missing
// file is not an error — overrides are optional.
func LoadAliasOverrides(path string) (AliasOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return AliasOverrides{Overrides: map[string][]string{}}, nil
		}
		return AliasOverrides{}, errors.Wrapf(err, "failed to read alias overrides %s", path)
	}

	var overrides AliasOverrides
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return AliasOverrides{}, errors.Wrapf(err, "failed to parse alias overrides %s", path)
	}
	if overrides.Overrides == nil {
		overrides.Overrides = map[string][]string{}
	}
	return overrides, nil
}

// SaveAliasOverrides writes the overrides file, rotating up to three
// backups of any prior version before replacing it.
func SaveAliasOverrides(path string, overrides AliasOverrides) error {
	if err := rotateBackups(path); err != nil {
		return err
	}

	data, err := toml.Marshal(overrides)
	if err != nil {
		return errors.Wrap(err, "failed to marshal alias overrides")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write alias overrides %s", path)
	}
	return nil
}

// rotateBackups keeps up to three prior versions (.back1 newest, .back3
// oldest) before a write replaces the current file.
func rotateBackups(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	back1, back2, back3 := path+".back1", path+".back2", path+".back3"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove old backup %s", back3)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read file for backup")
	}
	if err := os.WriteFile(back1, content, 0o644); err != nil {
		return errors.Wrap(err, "failed to write .back1")
	}
	return nil
}

// Apply merges override aliases into an entry's alias list, deduplicated.
func (ao AliasOverrides) Apply(entry AmsatEntry) AmsatEntry {
	extra, ok := ao.Overrides[entry.APIName]
	if !ok {
		return entry
	}
	seen := make(map[string]bool, len(entry.Aliases))
	for _, a := range entry.Aliases {
		seen[a] = true
	}
	for _, a := range extra {
		if !seen[a] {
			seen[a] = true
			entry.Aliases = append(entry.Aliases, a)
		}
	}
	return entry
}

// CoverageReport summarizes how many AMSAT entries have no transponder
// metadata match — an operator signal that an override or a CSV update is
// needed.
type CoverageReport struct {
	TotalEntries   int
	MatchedEntries int
	Unmatched      []string
}

// BuildCoverageReport checks each entry against the frequency store with the
// caller-supplied resolve function and counts the entries it reports matched.
func BuildCoverageReport(entries []AmsatEntry, freq *FrequencyStore, resolve func(AmsatEntry, *FrequencyStore) bool) CoverageReport {
	report := CoverageReport{TotalEntries: len(entries)}
	for _, e := range entries {
		if resolve(e, freq) {
			report.MatchedEntries++
		} else {
			report.Unmatched = append(report.Unmatched, e.APIName)
		}
	}
	return report
}

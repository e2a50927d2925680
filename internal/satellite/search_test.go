package satellite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesFixture() []AmsatEntry {
	now := time.Now().UTC()
	names := []string{"ISS-FM", "ISS-SSTV", "ISS-DATA", "ISS-DATV", "AO-91", "AO-92", "RS-44", "FO-118[H/u]"}
	var out []AmsatEntry
	for _, n := range names {
		out = append(out, NewEntry(n, now))
	}
	return out
}

func TestSearchISSReturnsAllFour(t *testing.T) {
	results := Search("iss", entriesFixture())
	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, MatchBaseName, r.MatchType)
		assert.Equal(t, 0.95, r.Score)
	}
}

func TestSearchExactAPIName(t *testing.T) {
	results := Search("AO-91", entriesFixture())
	require.NotEmpty(t, results)
	assert.Equal(t, MatchExact, results[0].MatchType)
	assert.Equal(t, "AO-91", results[0].Entry.APIName)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSearchEmptyQuery(t *testing.T) {
	assert.Empty(t, Search("", entriesFixture()))
}

func TestSearchScoreMonotonic(t *testing.T) {
	results := Search("iss", entriesFixture())
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchFuzzyPhaseOnly(t *testing.T) {
	// "ao91z" contains "ao91" (AO-91's normalized name), so a full Search
	// would stop at the contains phase; calling searchFuzzy directly
	// exercises phase 4 alone. Jaro-Winkler("ao91z", "ao91") is 0.96, above
	// the 0.95 cutoff.
	entries := []AmsatEntry{NewEntry("AO-91", time.Now().UTC())}
	results := searchFuzzy("ao91z", entries)
	require.NotEmpty(t, results)
	assert.Equal(t, MatchFuzzy, results[0].MatchType)
}

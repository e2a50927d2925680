package satellite

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// MatchType identifies which of the four search phases produced a result.
type MatchType int

const (
	MatchExact MatchType = iota
	MatchBaseName
	MatchContains
	MatchFuzzy
)

func (m MatchType) String() string {
	switch m {
	case MatchExact:
		return "Exact"
	case MatchBaseName:
		return "BaseName"
	case MatchContains:
		return "Contains"
	case MatchFuzzy:
		return "Fuzzy"
	default:
		return "Unknown"
	}
}

// SearchResult is one ranked match from Search.
type SearchResult struct {
	Entry     AmsatEntry
	Score     float64
	MatchType MatchType
}

// fuzzyThreshold is the Jaro-Winkler cutoff for phase 4, per §4.5.
const fuzzyThreshold = 0.95

// Search runs the four-phase ranked search over entries, stopping at the
// first phase that yields a non-empty result set. Results are sorted by
// score descending.
func Search(query string, entries []AmsatEntry) []SearchResult {
	q := NormalizeForSearch(query)
	if q == "" {
		return nil
	}

	if results := searchExact(q, entries); len(results) > 0 {
		return sortResults(results)
	}
	if results := searchBaseName(q, entries); len(results) > 0 {
		return sortResults(results)
	}
	if results := searchContains(q, entries); len(results) > 0 {
		return sortResults(results)
	}
	if results := searchFuzzy(q, entries); len(results) > 0 {
		return sortResults(results)
	}
	return nil
}

func sortResults(results []SearchResult) []SearchResult {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

func searchExact(q string, entries []AmsatEntry) []SearchResult {
	var out []SearchResult
	for _, e := range entries {
		if NormalizeForSearch(e.APIName) == q {
			out = append(out, SearchResult{Entry: e, Score: 1.0, MatchType: MatchExact})
			continue
		}
		for _, alias := range e.Aliases {
			if NormalizeForSearch(alias) == q {
				out = append(out, SearchResult{Entry: e, Score: 0.99, MatchType: MatchExact})
				break
			}
		}
	}
	return out
}

func searchBaseName(q string, entries []AmsatEntry) []SearchResult {
	var out []SearchResult
	for _, e := range entries {
		if NormalizeForSearch(e.BaseName) == q {
			out = append(out, SearchResult{Entry: e, Score: 0.95, MatchType: MatchBaseName})
		}
	}
	return out
}

func searchContains(q string, entries []AmsatEntry) []SearchResult {
	var out []SearchResult
	for _, e := range entries {
		name := NormalizeForSearch(e.APIName)
		if strings.Contains(name, q) || strings.Contains(q, name) {
			score := containsScore(q, name, 0.90)
			out = append(out, SearchResult{Entry: e, Score: score, MatchType: MatchContains})
			continue
		}
		for _, alias := range e.Aliases {
			an := NormalizeForSearch(alias)
			if strings.Contains(an, q) || strings.Contains(q, an) {
				score := containsScore(q, an, 0.89)
				out = append(out, SearchResult{Entry: e, Score: score, MatchType: MatchContains})
				break
			}
		}
	}
	return out
}

// containsScore implements |q| / max(1, |n|) capped at cap, raised to 0.98
// when both the query and candidate contain "fm" (the common case of a user
// typing a mode suffix that should rank as a near-perfect match).
func containsScore(q, candidate string, cap float64) float64 {
	n := len(candidate)
	if n == 0 {
		n = 1
	}
	score := float64(len(q)) / float64(n)
	if score > cap {
		score = cap
	}
	if strings.Contains(q, "fm") && strings.Contains(candidate, "fm") {
		score = 0.98
	}
	return score
}

func searchFuzzy(q string, entries []AmsatEntry) []SearchResult {
	var out []SearchResult
	for _, e := range entries {
		best := 0.0
		candidates := append([]string{e.APIName, e.BaseName}, e.Aliases...)
		for _, c := range candidates {
			sim := smetrics.JaroWinkler(q, NormalizeForSearch(c), 0.7, 4)
			if sim > best {
				best = sim
			}
		}
		if best >= fuzzyThreshold {
			out = append(out, SearchResult{Entry: e, Score: best, MatchType: MatchFuzzy})
		}
	}
	return out
}

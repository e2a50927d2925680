package satellite

import (
	"strings"
)

// modeKeywords are recognized mode-hint tokens, matched case-insensitively,
// exact-token only.
var modeKeywords = map[string]bool{
	"FM": true, "SSTV": true, "DATA": true, "DATV": true, "LINEAR": true,
	"LIN": true, "IMAGE": true, "IMG": true, "CW": true, "SSB": true,
	"DIGI": true, "APRS": true, "PACKET": true, "V/U": true, "U/V": true,
	"H/U": true, "V/U FM": true, "L": true, "S": true, "X": true,
	"A": true, "B": true,
}

func isModeKeyword(token string) bool {
	return modeKeywords[strings.ToUpper(token)]
}

// ParseName splits an AMSAT API name into (base_name, mode_hint). It tries,
// in order: last space, last '-', last '[' (stripping a trailing ']'), last
// '(' (stripping a trailing ')'); it stops at the first splitter whose
// right-hand token is a recognized mode keyword. If none matches, the whole
// name is the base and there is no mode hint — this is what keeps bare
// catalogue designations like "AO-91" or "RS-44" from being misparsed,
// since their trailing numeric token is never a mode keyword.
func ParseName(apiName string) (base string, modeHint string) {
	type splitter struct {
		sep   byte
		strip byte // trailing char to strip from the right-hand token, 0 if none
	}
	splitters := []splitter{
		{' ', 0},
		{'-', 0},
		{'[', ']'},
		{'(', ')'},
	}

	for _, sp := range splitters {
		idx := strings.LastIndexByte(apiName, sp.sep)
		if idx < 0 || idx == len(apiName)-1 {
			continue
		}
		right := apiName[idx+1:]
		if sp.strip != 0 && strings.HasSuffix(right, string(sp.strip)) {
			right = right[:len(right)-1]
		}
		if isModeKeyword(right) {
			return apiName[:idx], strings.ToUpper(right)
		}
	}

	return apiName, ""
}

// GenerateAliases produces deduplicated, normalized variants of apiName for
// search, skipping the original itself.
func GenerateAliases(apiName string) []string {
	seen := map[string]bool{apiName: true}
	var aliases []string

	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			aliases = append(aliases, s)
		}
	}

	add(stripPunctAndSpace(apiName))
	add(strings.ReplaceAll(apiName, "-", " "))
	add(strings.ReplaceAll(apiName, " ", "-"))

	return aliases
}

func stripPunctAndSpace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeForSearch lowercases and strips ASCII punctuation/whitespace.
// Idempotent: NormalizeForSearch(NormalizeForSearch(x)) == NormalizeForSearch(x).
func NormalizeForSearch(s string) string {
	return strings.ToLower(stripPunctAndSpace(s))
}

// MatchTransponder resolves the best transponder row for a parsed mode hint
// out of the rows belonging to one NORAD id, per the four-step policy:
// exact label match, label-contains-hint, mode-contains-hint, or (with no
// hint) the first/primary row.
func MatchTransponder(modeHint string, rows []TransponderMetadata) (TransponderMetadata, bool) {
	if modeHint != "" {
		hint := strings.ToUpper(modeHint)
		for _, r := range rows {
			if strings.EqualFold(r.Label, modeHint) {
				return r, true
			}
		}
		for _, r := range rows {
			if strings.Contains(strings.ToUpper(r.Label), hint) {
				return r, true
			}
		}
		for _, r := range rows {
			if strings.Contains(strings.ToUpper(r.Mode), hint) {
				return r, true
			}
		}
		return TransponderMetadata{}, false
	}

	if len(rows) > 0 {
		return rows[0], true
	}
	return TransponderMetadata{}, false
}

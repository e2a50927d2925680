// Package satellite implements the dual-store satellite data model: the
// mutable AMSAT entry store (component D) and the read-only transponder
// frequency metadata store (component E), joined by name parsing (component
// F) and ranked search (component G).
package satellite

import (
	"strings"
	"time"
)

// ReportStatus is the AMSAT status-grid color for one observer report.
// The source strings are matched case-insensitively; anything unrecognized
// is Grey rather than an error.
type ReportStatus int

const (
	StatusGrey ReportStatus = iota
	StatusBlue
	StatusYellow
	StatusRed
	StatusPurple
	StatusOrange
)

// ParseReportStatus maps an AMSAT status cell's text to a ReportStatus.
func ParseReportStatus(s string) ReportStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heard":
		return StatusBlue
	case "telemetry only":
		return StatusYellow
	case "not heard":
		return StatusRed
	case "crew active":
		return StatusPurple
	case "conflicting reports":
		return StatusOrange
	default:
		return StatusGrey
	}
}

// Hex returns the renderer's fixed color for this status.
func (s ReportStatus) Hex() string {
	switch s {
	case StatusBlue:
		return "#3b82f6"
	case StatusYellow:
		return "#eab308"
	case StatusRed:
		return "#ef4444"
	case StatusPurple:
		return "#a855f7"
	case StatusOrange:
		return "#f97316"
	default:
		return "#9ca3af"
	}
}

func (s ReportStatus) String() string {
	switch s {
	case StatusBlue:
		return "Heard"
	case StatusYellow:
		return "Telemetry Only"
	case StatusRed:
		return "Not Heard"
	case StatusPurple:
		return "Crew Active"
	case StatusOrange:
		return "Conflicting Reports"
	default:
		return "Grey"
	}
}

// AmsatReport is one observer's immutable status submission.
type AmsatReport struct {
	SatelliteName string       `json:"satellite_name"`
	ReportedTime  time.Time    `json:"reported_time"`
	Callsign      string       `json:"callsign"`
	Report        ReportStatus `json:"report"`
	GridSquare    string       `json:"grid_square"`
}

// DataBlock buckets reports by the hour (floored to :00:00) AMSAT published
// them. Uniqueness within a block is by (callsign, reported_time); on merge
// the report already present is kept and the incoming duplicate is dropped.
type DataBlock struct {
	Time    time.Time     `json:"time"`
	Reports []AmsatReport `json:"reports"`
}

// AmsatEntry is the primary unit for satellite queries: one entry per AMSAT
// API name ("ISS-FM", "AO-91", "RS-44"). Metadata from the transponder CSV
// is attached lazily at render/query time via the frequency store, not
// stored here.
type AmsatEntry struct {
	APIName           string      `json:"api_name"`
	Aliases           []string    `json:"aliases"`
	BaseName          string      `json:"base_name"`
	ModeHint          string      `json:"mode_hint,omitempty"`
	Reports           []DataBlock `json:"reports"` // newest block first
	LastUpdated       time.Time   `json:"last_updated"`
	LastFetchSuccess  *time.Time  `json:"last_fetch_success,omitempty"`
	UpdateSuccess     bool        `json:"update_success"`
}

// NewEntry builds an AmsatEntry from a raw AMSAT API name, parsing its base
// name/mode hint and generating search aliases.
func NewEntry(apiName string, now time.Time) AmsatEntry {
	base, mode := ParseName(apiName)
	return AmsatEntry{
		APIName:       apiName,
		Aliases:       GenerateAliases(apiName),
		BaseName:      base,
		ModeHint:      mode,
		LastUpdated:   now,
		UpdateSuccess: false,
	}
}

// LatestStatus returns the newest block's last report's status, or
// StatusGrey if the entry has no reports yet.
func (e AmsatEntry) LatestStatus() ReportStatus {
	if len(e.Reports) == 0 {
		return StatusGrey
	}
	block := e.Reports[0]
	if len(block.Reports) == 0 {
		return StatusGrey
	}
	return block.Reports[len(block.Reports)-1].Report
}

// TotalReports counts individual observer reports across all blocks.
func (e AmsatEntry) TotalReports() int {
	total := 0
	for _, b := range e.Reports {
		total += len(b.Reports)
	}
	return total
}

// HasRecentData reports whether the entry's newest data block falls within
// the last `within` duration of now.
func (e AmsatEntry) HasRecentData(now time.Time, within time.Duration) bool {
	if len(e.Reports) == 0 {
		return false
	}
	cutoff := now.Add(-within)
	return !e.Reports[0].Time.Before(cutoff)
}

// RecentReports returns the data blocks whose timestamp falls within the
// last `within` duration of now.
func (e AmsatEntry) RecentReports(now time.Time, within time.Duration) []DataBlock {
	cutoff := now.Add(-within)
	var out []DataBlock
	for _, b := range e.Reports {
		if !b.Time.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out
}

// TransponderMetadata is one transponder row of the read-only frequency
// metadata CSV. A satellite (by NoradID) may own several.
type TransponderMetadata struct {
	NoradID   uint32 `json:"norad_id"`
	Label     string `json:"label"`
	Mode      string `json:"mode"`
	Uplink    string `json:"uplink"`
	Downlink  string `json:"downlink"`
	Beacon    string `json:"beacon"`
	Callsign  string `json:"callsign,omitempty"`
	SatnogsID string `json:"satnogs_id,omitempty"`
}

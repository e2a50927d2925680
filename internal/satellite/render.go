package satellite

import (
	"fmt"
	"strings"
)

const (
	rowHeight    = 24
	headerHeight = 32
)

var stripeColors = [2]string{"#2b3339", "#1e2428"}

// BuildTokens assembles the SVG template tokens for a satellite search
// result set: one row per entry, a status swatch, and (when a matching
// transponder row was found) its uplink/downlink frequencies.
func BuildTokens(results []SearchResult, freq *FrequencyStore) map[string]string {
	var rows strings.Builder
	for i, r := range results {
		y := headerHeight + i*rowHeight
		stripe := stripeColors[i%2]
		status := r.Entry.LatestStatus()

		freqLine := ""
		if freq != nil {
			if candidates := freq.LookupByLabel(r.Entry.BaseName); len(candidates) > 0 {
				if row, ok := MatchTransponder(r.Entry.ModeHint, candidates); ok {
					freqLine = fmt.Sprintf("%s / %s", row.Uplink, row.Downlink)
				}
			}
		}

		fmt.Fprintf(&rows,
			`<rect x="0" y="%d" width="600" height="%d" fill="%s"/>`+
				`<circle cx="12" cy="%d" r="6" fill="%s"/>`+
				`<text x="28" y="%d" fill="#d3c6aa">%s</text>`+
				`<text x="220" y="%d" fill="#859289">%s</text>`+
				`<text x="420" y="%d" fill="#a7c080">%s</text>`,
			y, rowHeight, stripe,
			y+12, status.Hex(),
			y+16, r.Entry.APIName,
			y+16, freqLine,
			y+16, status.String(),
		)
	}

	return map[string]string{
		"title":     "Satellite Search",
		"rows":      rows.String(),
		"row_count": fmt.Sprintf("%d", len(results)),
	}
}

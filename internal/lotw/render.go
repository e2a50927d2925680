package lotw

import (
	"fmt"
	"strings"
)

const qsoHighlightThreshold = 10000

const rowHeight = 22
const headerHeight = 30

var stripeColors = [2]string{"#2b3339", "#1e2428"}

// BuildTokens assembles the SVG template tokens for a LoTW snapshot:
// striped rows, with the QSO column highlighted when its value exceeds
// qsoHighlightThreshold, per §4.7.
func BuildTokens(snap Snapshot) map[string]string {
	var rows strings.Builder
	for i, row := range snap.Rows {
		y := headerHeight + i*rowHeight
		stripe := stripeColors[i%2]

		qsoFill := "#d3c6aa"
		if row.QSOs > qsoHighlightThreshold {
			qsoFill = "#e69875"
		}
		latencyFill := "#d3c6aa"
		if row.LatencyBad {
			latencyFill = "#e67e80"
		}

		fmt.Fprintf(&rows,
			`<rect x="0" y="%d" width="600" height="%d" fill="%s"/>`+
				`<text x="8" y="%d" fill="#d3c6aa">%s</text>`+
				`<text x="160" y="%d" fill="#d3c6aa">%d</text>`+
				`<text x="260" y="%d" fill="%s">%d</text>`+
				`<text x="360" y="%d" fill="#d3c6aa">%d</text>`+
				`<text x="480" y="%d" fill="%s">%s</text>`,
			y, rowHeight, stripe,
			y+16, row.Epoch,
			y+16, row.Logs,
			y+16, qsoFill, row.QSOs,
			y+16, row.Bytes,
			y+16, latencyFill, row.Processing,
		)
	}

	return map[string]string{
		"title":      "LoTW Logbook Queue Status",
		"rows":       rows.String(),
		"row_count":  fmt.Sprintf("%d", len(snap.Rows)),
		"fetched_at": snap.FetchedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}
}

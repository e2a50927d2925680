package qo100

import (
	"fmt"
	"strings"
)

const rowHeight = 20
const headerHeight = 28

var stripeColors = [2]string{"#2b3339", "#1e2428"}

// BuildTokens assembles SVG template tokens for a QO-100 snapshot, capping
// at maxRenderRows rows and truncating long comments, per §4.8.
func BuildTokens(snap Snapshot) map[string]string {
	rows := snap.Spots
	if len(rows) > maxRenderRows {
		rows = rows[:maxRenderRows]
	}

	var sb strings.Builder
	for i, spot := range rows {
		y := headerHeight + i*rowHeight
		stripe := stripeColors[i%2]
		comment := TruncateComment(spot.Comment)

		fmt.Fprintf(&sb,
			`<rect x="0" y="%d" width="600" height="%d" fill="%s"/>`+
				`<text x="8" y="%d" fill="#d3c6aa">%s</text>`+
				`<text x="120" y="%d" fill="#a7c080">%s</text>`+
				`<text x="220" y="%d" fill="#d3c6aa">%s</text>`+
				`<text x="480" y="%d" fill="#859289">%s</text>`,
			y, rowHeight, stripe,
			y+14, spot.Callsign,
			y+14, spot.Frequency,
			y+14, comment,
			y+14, spot.Spotter,
		)
	}

	return map[string]string{
		"title":      "QO-100 DX Cluster",
		"rows":       sb.String(),
		"row_count":  fmt.Sprintf("%d", len(rows)),
		"fetched_at": snap.FetchedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}
}

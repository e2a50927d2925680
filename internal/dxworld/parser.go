package dxworld

import (
	"regexp"
	"strconv"
	"time"
)

const unknown = "UNKNOWN"

var (
	monthPattern    = regexp.MustCompile(`context\.fillText\('([^']*)',\s*\d+,\s*340\)`)
	labelsPattern   = regexp.MustCompile(`var labels\s*=\s*\[([^\]]*)\]`)
	labelEntry      = regexp.MustCompile(`'([^']*)'`)
	tooltipPattern  = regexp.MustCompile(`<b>([^<]*)</b><br\s*/?>\s*<a href="([^"]*)"`)
	dataMatrixBlock = regexp.MustCompile(`data\s*=\s*(\[\s*\[.*?\]\s*\])`)
	dataRowPattern  = regexp.MustCompile(`\[([^\[\]]*)\]`)
)

// ParseHTML extracts a Timeline from DX-World's rendered page HTML.
// Unparseable fields degrade to "UNKNOWN"/nil rather than failing the
// pipeline, per §4.9 — the DX-World page is not under our control and its
// markup shifts without notice.
func ParseHTML(html string, fetchedAt time.Time) Timeline {
	t := Timeline{
		Month:     unknown,
		FetchedAt: fetchedAt,
	}

	if m := monthPattern.FindStringSubmatch(html); len(m) == 2 {
		t.Month = m[1]
	}

	labels := extractLabels(html)
	tooltips := extractTooltips(html)
	matrix := extractDataMatrix(html)

	for i, label := range labels {
		ped := DxPedition{Callsign: label, Location: unknown}
		if i < len(tooltips) {
			ped.Location = tooltips[i].location
			ped.URL = tooltips[i].url
		}
		if i < len(matrix) {
			row := matrix[i]
			if len(row) > 0 {
				if v, err := strconv.Atoi(row[0]); err == nil {
					ped.StartDay = &v
				}
			}
			if len(row) > 1 {
				if v, err := strconv.Atoi(row[1]); err == nil {
					ped.DurationDays = &v
				}
			}
		}
		t.Peditions = append(t.Peditions, ped)
	}

	return t
}

func extractLabels(html string) []string {
	block := labelsPattern.FindStringSubmatch(html)
	if len(block) != 2 {
		return nil
	}
	matches := labelEntry.FindAllStringSubmatch(block[1], -1)
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, m[1])
	}
	return labels
}

type tooltip struct {
	location string
	url      string
}

func extractTooltips(html string) []tooltip {
	matches := tooltipPattern.FindAllStringSubmatch(html, -1)
	out := make([]tooltip, 0, len(matches))
	for _, m := range matches {
		out = append(out, tooltip{location: m[1], url: m[2]})
	}
	return out
}

func extractDataMatrix(html string) [][]string {
	block := dataMatrixBlock.FindStringSubmatch(html)
	if len(block) != 2 {
		return nil
	}
	rows := dataRowPattern.FindAllStringSubmatch(block[1], -1)
	matrix := make([][]string, 0, len(rows))
	for _, r := range rows {
		fields := splitCSVLike(r[1])
		matrix = append(matrix, fields)
	}
	return matrix
}

func splitCSVLike(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == ',' {
			out = append(out, trimQuotes(cur))
			cur = ""
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		out = append(out, trimQuotes(cur))
	}
	return out
}

func trimQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' || r == ' ' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

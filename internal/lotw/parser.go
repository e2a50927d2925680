package lotw

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/n0sat/satbot/internal/errors"
)

const latencyBadThresholdSecs = 600

var durationPattern = regexp.MustCompile(`(?:(\d+)d)?\s*(?:(\d+)h)?\s*(?:(\d+)m)?\s*(?:(\d+)s)?\s*ago`)

// ParseHTML parses the ARRL logbook-queue-status page's <tbody> rows.
// Malformed rows are skipped with a returned warning list rather than
// failing the whole parse, per §4.7.
func ParseHTML(r io.Reader) (rows []QueueRow, warnings []string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse lotw queue-status HTML")
	}

	doc.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 5 {
			warnings = append(warnings, "row has fewer than 5 cells, skipping")
			return
		}

		texts := make([]string, cells.Length())
		cells.Each(func(j int, td *goquery.Selection) {
			texts[j] = strings.TrimSpace(td.Text())
		})

		row, warn, ok := parseRow(texts)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if ok {
			rows = append(rows, row)
		}
	})

	return rows, warnings, nil
}

func parseRow(cells []string) (QueueRow, string, bool) {
	logs, err := parseStrippedInt(cells[1])
	if err != nil {
		return QueueRow{}, "malformed logs cell: " + err.Error(), false
	}
	qsos, err := parseStrippedInt(cells[2])
	if err != nil {
		return QueueRow{}, "malformed qsos cell: " + err.Error(), false
	}
	bytesCount, err := parseStrippedInt(cells[3])
	if err != nil {
		return QueueRow{}, "malformed bytes cell: " + err.Error(), false
	}

	processing := cells[4]
	if len(processing) < 19 {
		return QueueRow{}, "processing cell too short to contain a timestamp", false
	}

	latencySecs, ok := parseLatency(processing[19:])
	if !ok {
		return QueueRow{}, "could not parse latency from processing cell", false
	}

	return QueueRow{
		Epoch:       cells[0],
		Logs:        logs,
		QSOs:        qsos,
		Bytes:       bytesCount,
		Processing:  processing,
		LatencySecs: latencySecs,
		LatencyBad:  latencySecs > latencyBadThresholdSecs,
	}, "", true
}

func parseStrippedInt(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseInt(s, 10, 64)
}

// parseLatency parses the "(Xd Yh Zm Ws ago)" suffix into total seconds.
func parseLatency(suffix string) (int64, bool) {
	m := durationPattern.FindStringSubmatch(suffix)
	if m == nil {
		return 0, false
	}
	d := atoiOr0(m[1])
	h := atoiOr0(m[2])
	minutes := atoiOr0(m[3])
	s := atoiOr0(m[4])
	return int64(d*86400 + h*3600 + minutes*60 + s), true
}

func atoiOr0(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

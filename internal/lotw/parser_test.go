package lotw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
<html><body>
<table><tbody>
<tr><td>2026-07-30 10:00:00</td><td>12,345</td><td>9,999</td><td>1,234,567</td>
<td>2026-07-30 09:50:39 (0d 00h 09m 21s ago)</td></tr>
<tr><td>2026-07-30 10:15:00</td><td>500</td><td>15,000</td><td>99</td>
<td>2026-07-30 09:55:00 (0d 00h 20m 00s ago)</td></tr>
<tr><td>bad row</td><td>only two cells</td></tr>
</tbody></table>
</body></html>
`

func TestParseHTML(t *testing.T) {
	rows, warnings, err := ParseHTML(strings.NewReader(sampleTable))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, warnings, 1)

	assert.Equal(t, int64(9999), rows[0].QSOs)
	assert.Equal(t, int64(561), rows[0].LatencySecs)
	assert.False(t, rows[0].LatencyBad)

	assert.Equal(t, int64(15000), rows[1].QSOs)
	assert.Equal(t, int64(1200), rows[1].LatencySecs)
	assert.True(t, rows[1].LatencyBad)
}

func TestParseLatency(t *testing.T) {
	secs, ok := parseLatency("(0d 00h 09m 21s ago)")
	require.True(t, ok)
	assert.Equal(t, int64(561), secs)

	secs, ok = parseLatency("(1d 02h 00m 00s ago)")
	require.True(t, ok)
	assert.Equal(t, int64(93600), secs)
}

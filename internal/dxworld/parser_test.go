package dxworld

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `
<html><body>
<script>
context.fillText('January 2026', 10, 340);
var labels = ['3Y0J', 'VK9XG'];
</script>
<div><b>Bouvet Island</b><br /><a href="https://example.com/3y0j">info</a></div>
<div><b>Christmas Island</b><br /><a href="https://example.com/vk9xg">info</a></div>
<script>
data = [[1, 14], [20, 7]];
</script>
</body></html>
`

func TestParseHTML(t *testing.T) {
	tl := ParseHTML(sampleHTML, time.Now())
	assert.Equal(t, "January 2026", tl.Month)
	require.Len(t, tl.Peditions, 2)

	assert.Equal(t, "3Y0J", tl.Peditions[0].Callsign)
	assert.Equal(t, "Bouvet Island", tl.Peditions[0].Location)
	assert.Equal(t, "https://example.com/3y0j", tl.Peditions[0].URL)
	require.NotNil(t, tl.Peditions[0].StartDay)
	assert.Equal(t, 1, *tl.Peditions[0].StartDay)
}

func TestParseHTMLDegradesOnUnparseable(t *testing.T) {
	tl := ParseHTML("<html><body>nothing here</body></html>", time.Now())
	assert.Equal(t, unknown, tl.Month)
	assert.Empty(t, tl.Peditions)
}

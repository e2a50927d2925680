package qo100

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"spots":[
  {"key":"aaa","datetime":"10:00","frequency":10489600,"de":"W1AW","dx":"EA1ABC","comment":"first spot","grid_de":"KN09","grid_dx":null,"spot_source":"DXCluster"},
  {"key":"bbb","datetime":"10:05","frequency":10495000,"de":"K2DEF","dx":"ZS1XYZ","comment":"second spot","grid_de":null,"grid_dx":null,"spot_source":"Web"}
]}`

func TestParseResponseReversesAndFormats(t *testing.T) {
	spots, err := ParseResponse(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, spots, 2)

	// newest-first: "second spot" was last in the API response
	assert.Equal(t, "ZS1XYZ", spots[0].Callsign)
	assert.Equal(t, "--", spots[0].Frequency)
	assert.Equal(t, "K2DEF", spots[0].Spotter)
	assert.Equal(t, "10:05", spots[0].Time)
	assert.Equal(t, "Web", spots[0].Source)

	assert.Equal(t, "EA1ABC", spots[1].Callsign)
	assert.Equal(t, ".600", spots[1].Frequency)
	assert.Equal(t, "W1AW", spots[1].Spotter)
	assert.Equal(t, "10:00", spots[1].Time)
	assert.Equal(t, "DXCluster", spots[1].Source)
}

func TestTruncateComment(t *testing.T) {
	short := "short comment"
	assert.Equal(t, short, TruncateComment(short))

	long := strings.Repeat("a", 50)
	truncated := TruncateComment(long)
	assert.Equal(t, 43, len([]rune(truncated)))
	assert.True(t, strings.HasSuffix(truncated, "..."))
}

package satellite

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildTokensIncludesEntryNames(t *testing.T) {
	entry := NewEntry("ISS-FM", time.Now())
	results := []SearchResult{{Entry: entry, Score: 1.0, MatchType: MatchExact}}

	tokens := BuildTokens(results, nil)
	assert.Equal(t, "1", tokens["row_count"])
	assert.True(t, strings.Contains(tokens["rows"], "ISS-FM"))
}

package satellite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	cases := []struct {
		name     string
		wantBase string
		wantMode string
	}{
		{"ISS-FM", "ISS", "FM"},
		{"AO-91", "AO-91", ""},
		{"FO-118[H/u]", "FO-118", "H/U"},
		{"TEVEL-1", "TEVEL-1", ""},
		{"RS-44", "RS-44", ""},
		{"IO-117", "IO-117", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			base, mode := ParseName(c.name)
			assert.Equal(t, c.wantBase, base)
			assert.Equal(t, c.wantMode, mode)
		})
	}
}

func TestParseNameIdempotent(t *testing.T) {
	for _, name := range []string{"ISS-FM", "AO-91", "FO-118[H/u]"} {
		base1, mode1 := ParseName(name)
		base2, mode2 := ParseName(name)
		assert.Equal(t, base1, base2)
		assert.Equal(t, mode1, mode2)
	}
}

func TestGenerateAliases(t *testing.T) {
	aliases := GenerateAliases("ISS-FM")
	assert.Contains(t, aliases, "ISSFM")
	assert.Contains(t, aliases, "ISS FM")
	assert.NotContains(t, aliases, "ISS-FM")
}

func TestNormalizeForSearchIdempotent(t *testing.T) {
	cases := []string{"ISS-FM", "AO 91", "FO-118[H/u]", ""}
	for _, c := range cases {
		once := NormalizeForSearch(c)
		twice := NormalizeForSearch(once)
		assert.Equal(t, once, twice)
	}
}

func TestMatchTransponder(t *testing.T) {
	rows := []TransponderMetadata{
		{NoradID: 25544, Label: "FM Voice Repeater", Mode: "FM"},
		{NoradID: 25544, Label: "SSTV", Mode: "SSTV"},
	}

	t.Run("exact label", func(t *testing.T) {
		r, ok := MatchTransponder("SSTV", rows)
		require.True(t, ok)
		assert.Equal(t, "SSTV", r.Label)
	})

	t.Run("label contains hint", func(t *testing.T) {
		r, ok := MatchTransponder("FM", rows)
		require.True(t, ok)
		assert.Equal(t, "FM Voice Repeater", r.Label)
	})

	t.Run("no hint takes primary", func(t *testing.T) {
		r, ok := MatchTransponder("", rows)
		require.True(t, ok)
		assert.Equal(t, rows[0], r)
	})

	t.Run("empty rows no match", func(t *testing.T) {
		_, ok := MatchTransponder("", nil)
		assert.False(t, ok)
	})
}

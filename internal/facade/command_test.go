package facade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("/q iss")
	require.True(t, ok)
	assert.Equal(t, "q", cmd.Name)
	assert.Equal(t, "iss", cmd.Args)

	cmd, ok = ParseCommand("  /qo-100  ")
	require.True(t, ok)
	assert.Equal(t, "qo-100", cmd.Name)
	assert.Equal(t, "", cmd.Args)

	_, ok = ParseCommand("not a command")
	assert.False(t, ok)
}

func TestCommandClassification(t *testing.T) {
	assert.True(t, isQueryCommand("q"))
	assert.True(t, isQueryCommand("query"))
	assert.False(t, isQueryCommand("dxw"))

	assert.True(t, isQO100Command("qo100"))
	assert.True(t, isQO100Command("qo-100"))
	assert.False(t, isQO100Command("qo200"))
}

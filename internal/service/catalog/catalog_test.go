package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	bom, ok := Match("Yamaha R15 Bike v4")
	require.True(t, ok)
	assert.Equal(t, "R15 Bike", bom.Title)
	assert.Len(t, bom.Lines, 12)

	_, ok = Match("finished-widget")
	assert.False(t, ok)

	_, ok = Match("")
	assert.False(t, ok)
}

func TestMatchLastKeyWins(t *testing.T) {
	bom, ok := Match("table and chair set")
	require.True(t, ok)
	assert.Equal(t, "Chair", bom.Title)
}

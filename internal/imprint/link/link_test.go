package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdanilov/imprintbot/internal/imprint/imprinterr"
)

func TestMake(t *testing.T) {
	g, err := NewGenerator("ImprintBot")
	require.NoError(t, err)

	got := g.Make("123e4567-e89b-12d3-a456-426614174000")
	assert.Equal(t, "t.me/ImprintBot?start=123e4567-e89b-12d3-a456-426614174000", got)

	// Deterministic: equal inputs yield equal outputs.
	assert.Equal(t, got, g.Make("123e4567-e89b-12d3-a456-426614174000"))
}

func TestNewGenerator_Unconfigured(t *testing.T) {
	_, err := NewGenerator("")
	require.Error(t, err)
	assert.True(t, imprinterr.Is(err, imprinterr.CodeConfiguration))
}

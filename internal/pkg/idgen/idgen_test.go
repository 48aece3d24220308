package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/coc-keeper/internal/pkg/idgen"
)

func TestUUID(t *testing.T) {
	g := idgen.NewUUID()

	first := g.Generate()
	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, g.Generate())
}

func TestULID(t *testing.T) {
	g := idgen.NewULID("offer")

	a, b := g.Generate(), g.Generate()
	assert.True(t, strings.HasPrefix(a, "offer_"))
	assert.Less(t, a, b, "ids sort by creation")
}

func TestSequential(t *testing.T) {
	g := idgen.NewSequential("turn")
	assert.Equal(t, "turn_1", g.Generate())
	assert.Equal(t, "turn_2", g.Generate())
	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacehole-rogue/deckview/internal/world"
)

func TestFogCoversEveryHiddenCell(t *testing.T) {
	g := world.NewGrid(10, 8)
	revealBox(g, 0, 0, 4, 4) // 16 visible
	revealBox(g, 4, 0, 6, 2) // 4 more, then forgotten
	for y := 0; y < 2; y++ {
		for x := 4; x < 6; x++ {
			g.At(x, y).Visible = false
		}
	}

	b := NewBatcher(CapacitiesFor(10, 8))
	b.BeginFrame()
	full, memory := NewFogCompositor().Compose(g, b)
	b.EndFrame()

	assert.Equal(t, 80-20, full)
	assert.Equal(t, 4, memory)
	assert.Equal(t, full, b.Active(ClassFogFull))
	assert.Equal(t, memory, b.Active(ClassFogMemory))

	for _, s := range b.Buffer(ClassFogFull).Slots() {
		assert.InDelta(t, fogFullHeight, s.Transform.Col(3).Y(), 1e-6)
		assert.Equal(t, float32(1), s.Color.W())
	}
	for _, s := range b.Buffer(ClassFogMemory).Slots() {
		assert.InDelta(t, fogMemoryHeight, s.Transform.Col(3).Y(), 1e-6)
		assert.Less(t, s.Color.W(), float32(1))
	}
}

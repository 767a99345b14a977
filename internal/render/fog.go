package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spacehole-rogue/deckview/internal/world"
)

// FogCompositor covers unexplored cells with an opaque layer and remembered
// cells with a translucent one. Visible cells get no fog.
type FogCompositor struct {
	full   mgl32.Vec4
	memory mgl32.Vec4
}

// NewFogCompositor creates a compositor with the stock fog colours.
func NewFogCompositor() *FogCompositor {
	return &FogCompositor{
		full:   toVec4(fogFullBase, fogFullAlpha),
		memory: toVec4(fogMemoryBase, fogMemoryAlpha),
	}
}

// Compose emits one fog instance per fogged cell of the whole grid and
// returns how many of each layer were written.
func (f *FogCompositor) Compose(g *world.Grid, b *Batcher) (full, memory int) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cat, ok := FogCategory(g.Get(x, y))
			if !ok {
				continue
			}
			if cat == CategoryFogFull {
				if b.Emit(ClassFogFull, f.slot(x, y, fogFullHeight, f.full)) {
					full++
				}
				continue
			}
			if b.Emit(ClassFogMemory, f.slot(x, y, fogMemoryHeight, f.memory)) {
				memory++
			}
		}
	}
	return full, memory
}

func (f *FogCompositor) slot(x, y int, h float32, c mgl32.Vec4) InstanceSlot {
	return InstanceSlot{
		Transform: mgl32.Translate3D(float32(x)+0.5, h, float32(y)+0.5),
		Color:     c,
	}
}

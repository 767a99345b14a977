package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectQuadToScreen(t *testing.T) {
	q, ok := projectQuad(mgl32.Ident4(), mgl32.Ident4(), 100, 80)
	require.True(t, ok)
	assert.InDelta(t, 25, q[0].X(), 1e-4)
	assert.InDelta(t, 75, q[1].X(), 1e-4)
	for _, p := range q {
		assert.InDelta(t, 40, p.Y(), 1e-4)
	}
}

func TestProjectQuadBehindCamera(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, -1}, mgl32.Vec3{0, 1, 0})
	vp := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100).Mul4(view)

	_, ok := projectQuad(mgl32.Translate3D(0, 0, -5), vp, 100, 100)
	assert.True(t, ok)
	_, ok = projectQuad(mgl32.Translate3D(0, 0, 5), vp, 100, 100)
	assert.False(t, ok)
}

func TestDrawOrderCoversEveryClass(t *testing.T) {
	seen := map[GeometryClass]int{}
	for _, cls := range drawOrder {
		seen[cls]++
	}
	for cls := GeometryClass(0); cls < ClassCount; cls++ {
		assert.Equal(t, 1, seen[cls], cls.String())
	}
	assert.Equal(t, ClassFogFull, drawOrder[len(drawOrder)-1])
}

func TestDepthSortDrawsFarQuadsFirst(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, -1}, mgl32.Vec3{0, 1, 0})
	vp := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100).Mul4(view)

	var quads []projectedQuad
	for i, z := range []float32{-3, -12, -6} {
		pts, depth, ok := projectQuadDepth(mgl32.Translate3D(0, 0, z), vp, 100, 100)
		require.True(t, ok)
		quads = append(quads, projectedQuad{points: pts, color: mgl32.Vec4{float32(i), 0, 0, 1}, depth: depth})
	}
	require.Greater(t, quads[1].depth, quads[2].depth)
	require.Greater(t, quads[2].depth, quads[0].depth)

	sortFarToNear(quads)
	assert.Equal(t, []float32{1, 2, 0}, []float32{quads[0].color.X(), quads[1].color.X(), quads[2].color.X()})

	tied := []projectedQuad{{depth: 1, color: mgl32.Vec4{0}}, {depth: 1, color: mgl32.Vec4{1}}}
	sortFarToNear(tied)
	assert.Equal(t, float32(0), tied[0].color.X(), "ties keep emission order")
}

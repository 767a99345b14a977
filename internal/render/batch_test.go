package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacitiesScaleWithArea(t *testing.T) {
	c := CapacitiesFor(40, 30)
	assert.Equal(t, 1200, c[ClassFloor])
	assert.Equal(t, 1200, c[ClassFogFull])
	assert.Equal(t, 2400, c[ClassTrim])
	assert.Equal(t, 301, c[ClassProp])

	empty := CapacitiesFor(0, 0)
	for cls := GeometryClass(0); cls < ClassCount; cls++ {
		assert.Positive(t, empty[cls], cls.String())
	}
}

func TestEmitTruncatesAtCapacity(t *testing.T) {
	var caps Capacities
	caps[ClassWall] = 3
	b := NewBatcher(caps)

	b.BeginFrame()
	for i := 0; i < 5; i++ {
		b.Emit(ClassWall, InstanceSlot{Transform: mgl32.Translate3D(float32(i), 0, 0)})
	}
	assert.False(t, b.Emit(ClassFloor, InstanceSlot{}), "zero capacity class")
	b.EndFrame()

	buf := b.Buffer(ClassWall)
	assert.Equal(t, 3, buf.Active())
	assert.Equal(t, 2, buf.Dropped())
	assert.Equal(t, 3, b.Dropped())
	assert.LessOrEqual(t, buf.Active(), buf.Capacity())
	assert.Len(t, buf.Slots(), 3)
	assert.InDelta(t, 2, buf.Slots()[2].Transform.Col(3).X(), 1e-6)
}

func TestEmitAllCopiesUpToCapacity(t *testing.T) {
	var caps Capacities
	caps[ClassTrim] = 4
	b := NewBatcher(caps)
	slots := make([]InstanceSlot, 3)

	b.BeginFrame()
	assert.Equal(t, 3, b.EmitAll(ClassTrim, slots))
	assert.Equal(t, 1, b.EmitAll(ClassTrim, slots))
	b.EndFrame()

	assert.Equal(t, 4, b.Active(ClassTrim))
	assert.Equal(t, 2, b.Buffer(ClassTrim).Dropped())
}

func TestBeginFrameResetsCursors(t *testing.T) {
	caps := CapacitiesFor(4, 4)
	b := NewBatcher(caps)

	b.BeginFrame()
	for i := 0; i < 10; i++ {
		require.True(t, b.Emit(ClassFloor, InstanceSlot{}))
	}
	b.EndFrame()
	require.Equal(t, 10, b.Active(ClassFloor))
	assert.True(t, b.Buffer(ClassFloor).Dirty())
	b.MarkUploaded(ClassFloor)
	assert.False(t, b.Buffer(ClassFloor).Dirty())

	b.BeginFrame()
	b.Emit(ClassFloor, InstanceSlot{})
	b.EndFrame()
	assert.Equal(t, 1, b.Active(ClassFloor))
	assert.Equal(t, 16, b.Buffer(ClassFloor).Capacity())
	assert.Zero(t, b.Dropped())
}

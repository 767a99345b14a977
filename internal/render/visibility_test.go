package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// stationRooms returns three rooms in a row: A and B share a wall, C is far away.
func stationRooms() []world.Room {
	return []world.Room{
		{ID: 1, X: 2, Y: 2, Width: 6, Height: 6},
		{ID: 2, X: 9, Y: 2, Width: 5, Height: 6},
		{ID: 3, X: 40, Y: 20, Width: 5, Height: 5},
	}
}

func newTestIndex(tuning config.EngineConfig) *Index {
	rooms := NewRoomMap(60, 40, stationRooms(), tuning.TintReach)
	return NewIndex(tuning, 60, 40, rooms)
}

func TestCullInRoomShowsNeighboursByGap(t *testing.T) {
	ix := newTestIndex(config.Default().Engine)

	c := ix.Cull(4, 4, 4.5, 4.5)
	require.True(t, c.InRoom)
	require.NotNil(t, c.CurrentRoom)
	assert.Equal(t, 1, c.CurrentRoom.ID)
	assert.True(t, c.VisibleRooms.Has(1))
	assert.True(t, c.VisibleRooms.Has(2), "neighbour through a shared wall")
	assert.False(t, c.VisibleRooms.Has(3))

	assert.True(t, ix.InView(8, 4), "shared wall")
	assert.True(t, ix.InView(14, 8), "neighbour's wall ring")
	assert.False(t, ix.InView(42, 22))
}

func TestCullInCorridorUsesViewRange(t *testing.T) {
	ix := newTestIndex(config.Default().Engine)

	c := ix.Cull(30, 20, 30.5, 20.5)
	assert.False(t, c.InRoom)
	assert.Nil(t, c.CurrentRoom)
	assert.True(t, c.VisibleRooms.Has(3), "room C is 10 cells away")
	assert.False(t, c.VisibleRooms.Has(1))

	assert.True(t, ix.InView(30, 10))
	assert.False(t, ix.InView(30, 9))
	assert.True(t, ix.InView(25, 25))
}

func TestCullOriginExtendsView(t *testing.T) {
	ix := newTestIndex(config.Default().Engine)

	ix.Cull(30, 20, 30.5, 20.5)
	assert.False(t, ix.InView(30, 34))

	ix.Cull(30, 20, 30.5, 24.5)
	assert.True(t, ix.InView(30, 34), "chase camera pushes the origin ahead")
	assert.Len(t, ix.Windows(), 3)
}

func TestWindowsCoverEveryInViewCell(t *testing.T) {
	ix := newTestIndex(config.Default().Engine)
	ix.Cull(12, 4, 14.5, 6.5)

	covered := make(map[[2]int]bool)
	for _, w := range ix.Windows() {
		assert.False(t, w.Empty())
		for y := w.Y0; y < w.Y1; y++ {
			for x := w.X0; x < w.X1; x++ {
				covered[[2]int{x, y}] = true
			}
		}
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			if ix.InView(x, y) {
				assert.True(t, covered[[2]int{x, y}], "(%d,%d) in view but outside every window", x, y)
			}
		}
	}
}

func TestVisibilityIsMonotonicInRange(t *testing.T) {
	narrow := config.Default().Engine
	narrow.CorridorViewRange = 4
	wide := config.Default().Engine
	wide.CorridorViewRange = 12

	a, b := newTestIndex(narrow), newTestIndex(wide)
	for _, p := range [][2]int{{20, 10}, {5, 5}, {35, 22}, {58, 39}} {
		a.Cull(p[0], p[1], float64(p[0])+0.5, float64(p[1])+0.5)
		b.Cull(p[0], p[1], float64(p[0])+0.5, float64(p[1])+0.5)
		for y := 0; y < 40; y++ {
			for x := 0; x < 60; x++ {
				if a.InView(x, y) {
					assert.True(t, b.InView(x, y), "(%d,%d) from %v", x, y, p)
				}
			}
		}
	}
}

func TestToggleChecksEachGroupOnce(t *testing.T) {
	ix := newTestIndex(config.Default().Engine)
	for _, r := range stationRooms() {
		g, created := ix.RoomGroup(r.ID)
		require.True(t, created)
		for i := 0; i < 50; i++ {
			g.Add(ClassTrim, InstanceSlot{})
		}
	}
	for bx := 0; bx < 7; bx++ {
		_, created := ix.BucketGroup(bx, 2)
		require.True(t, created)
	}

	ix.Cull(4, 4, 4.5, 4.5)
	ix.Toggle()
	assert.Equal(t, 10, ix.Checks(), "one check per group, not per object")

	_, created := ix.RoomGroup(1)
	assert.False(t, created)
	ix.Cull(45, 30, 45.5, 30.5)
	ix.Toggle()
	assert.Len(t, ix.Groups(), 10, "groups are never destroyed")
	assert.Equal(t, 50, ix.Groups()[0].Size())
}

func TestToggleFlipsGroupsByCull(t *testing.T) {
	ix := newTestIndex(config.Default().Engine)
	a, _ := ix.RoomGroup(1)
	c, _ := ix.RoomGroup(3)
	near, _ := ix.BucketGroup(0, 0)
	far, _ := ix.BucketGroup(5, 2)

	ix.Cull(4, 4, 4.5, 4.5)
	assert.Equal(t, 2, ix.Toggle())
	assert.True(t, a.Visible)
	assert.False(t, c.Visible)
	assert.True(t, near.Visible)
	assert.False(t, far.Visible)

	ix.Cull(42, 22, 42.5, 22.5)
	ix.Toggle()
	assert.False(t, a.Visible)
	assert.True(t, c.Visible)
	assert.False(t, near.Visible)
	assert.True(t, far.Visible)
}

func TestBucketOf(t *testing.T) {
	ix := newTestIndex(config.Default().Engine)
	bx, by := ix.BucketOf(17, 7)
	assert.Equal(t, 2, bx)
	assert.Equal(t, 0, by)
	assert.False(t, ix.HasBucket(2, 0))
	ix.BucketGroup(2, 0)
	assert.True(t, ix.HasBucket(2, 0))
	assert.False(t, ix.HasBucket(0, 2))
}

func TestJunctionWallOfVisibleRoomStaysInView(t *testing.T) {
	// B and C sit below A; (14,9) is a wall shared by all three. A is listed
	// last so it is the third room to claim that cell.
	a := world.Room{ID: 3, X: 10, Y: 5, Width: 10, Height: 4}
	rooms := NewRoomMap(40, 30, []world.Room{
		{ID: 1, X: 10, Y: 10, Width: 4, Height: 4},
		{ID: 2, X: 15, Y: 10, Width: 5, Height: 4},
		a,
	}, 2)
	require.Len(t, rooms.Ring(14, 9), 3)

	ix := NewIndex(config.Default().Engine, 40, 30, rooms)
	c := ix.Cull(25, 2, 25.5, 2.5)
	require.True(t, c.VisibleRooms.Has(a.ID))
	require.False(t, c.VisibleRooms.Has(1))
	require.False(t, c.VisibleRooms.Has(2))

	for y := a.Y - 1; y <= a.Y+a.Height; y++ {
		for x := a.X - 1; x <= a.X+a.Width; x++ {
			assert.True(t, ix.InView(x, y), "(%d,%d) on room A", x, y)
		}
	}
	assert.False(t, ix.InView(11, 13), "inside a hidden room")
}

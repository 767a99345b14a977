package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridOutOfBoundsIsWall(t *testing.T) {
	g := NewGrid(3, 3)
	g.SetType(1, 1, CellFloor)

	assert.True(t, g.IsWall(-1, 0))
	assert.True(t, g.IsWall(3, 3))
	assert.False(t, g.IsWall(1, 1))
	assert.Nil(t, g.At(5, 5))
	assert.False(t, g.IsWalkable(-1, -1))

	g.Set(9, 9, Cell{Type: CellFloor}) // ignored
	assert.Len(t, g.Cells, 9)
}

func TestRoomDistances(t *testing.T) {
	a := Room{ID: 1, X: 2, Y: 2, Width: 6, Height: 6}
	b := Room{ID: 2, X: 9, Y: 2, Width: 4, Height: 4}
	c := Room{ID: 3, X: 20, Y: 20, Width: 2, Height: 2}

	assert.Equal(t, 2, a.Gap(b), "shared wall")
	assert.Equal(t, a.Gap(b), b.Gap(a))
	assert.Equal(t, 0, a.Gap(a))
	assert.Equal(t, 13+13, a.Gap(c))

	assert.Equal(t, 0, a.DistanceTo(5, 5))
	assert.Equal(t, 1, a.DistanceTo(1, 5))
	assert.Equal(t, 2, a.DistanceTo(1, 1))
	assert.Equal(t, 3, a.DistanceTo(10, 4))

	x, y := a.Center()
	assert.Equal(t, 5, x)
	assert.Equal(t, 5, y)
	assert.Equal(t, 36, a.Area())
}

func TestSnapshotValidate(t *testing.T) {
	g := NewGrid(2, 2)
	s := &Snapshot{Grid: g}
	assert.NoError(t, s.Validate())

	g.At(1, 0).Visible = true
	assert.ErrorIs(t, s.Validate(), ErrVisibleUnexplored)

	g.Reveal(1, 0)
	assert.NoError(t, s.Validate())

	assert.Error(t, (&Snapshot{}).Validate())
}

func TestSnapshotOccupancy(t *testing.T) {
	s := &Snapshot{
		Grid:     NewGrid(4, 4),
		Rooms:    []Room{{ID: 7, X: 0, Y: 0, Width: 2, Height: 2}},
		Entities: []Entity{{ID: 1, Kind: EntityDrone, X: 3, Y: 3}},
		PlayerX:  1, PlayerY: 1,
	}
	assert.True(t, s.Occupied(1, 1))
	assert.True(t, s.Occupied(3, 3))
	assert.False(t, s.Occupied(2, 2))

	r, ok := s.RoomAt(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 7, r.ID)
	_, ok = s.RoomAt(3, 3)
	assert.False(t, ok)
}

func TestOverlayCycle(t *testing.T) {
	o := OverlayNone
	seen := map[HazardOverlay]bool{}
	for i := 0; i < int(overlayCount); i++ {
		seen[o] = true
		o = o.Next()
	}
	assert.Equal(t, OverlayNone, o)
	assert.Len(t, seen, int(overlayCount))
	assert.Equal(t, "thermal", OverlayThermal.String())
}

func TestCellDescribe(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"unexplored", Cell{Type: CellFloor}, "Unexplored"},
		{"floor", Cell{Type: CellFloor, Explored: true, Pressure: 1}, "Deck plating"},
		{"hot corridor", Cell{Type: CellCorridor, Explored: true, Pressure: 1, Heat: 0.8}, "Corridor (hot)"},
		{"breach", Cell{Type: CellFloor, Explored: true, Pressure: 0.2}, "Deck plating (low pressure)"},
		{"smoke", Cell{Type: CellDoor, Explored: true, Pressure: 1, Smoke: 0.7}, "Door (smoke)"},
		{"locked", Cell{Type: CellLockedDoor, Explored: true, Heat: 1}, "Locked door"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Describe())
		})
	}
}

package render

import (
	"slices"

	"github.com/spacehole-rogue/deckview/internal/world"
)

const noRoom int32 = -1

// RoomMap is a per-session lookup from cells to rooms. Rooms are fixed for
// the session, so it is built once and only read afterwards.
type RoomMap struct {
	width, height int
	rooms         []world.Room

	inside []int32   // room index whose interior holds the cell
	ring   [][]int32 // every room whose interior or wall ring holds the cell
	near   []int32   // closest room within tint reach
}

// NewRoomMap indexes rooms over a width x height grid. reach is the
// Manhattan distance within which a cell still takes a room's tint.
func NewRoomMap(width, height int, rooms []world.Room, reach int) *RoomMap {
	n := width * height
	m := &RoomMap{
		width:  width,
		height: height,
		rooms:  append([]world.Room(nil), rooms...),
		inside: make([]int32, n),
		ring:   make([][]int32, n),
		near:   make([]int32, n),
	}
	nearDist := make([]int, n)
	for i := 0; i < n; i++ {
		m.inside[i] = noRoom
		m.near[i] = noRoom
		nearDist[i] = reach + 1
	}

	pad := max(reach, 1)
	for ri, r := range m.rooms {
		idx := int32(ri)
		for y := r.Y - pad; y < r.Y+r.Height+pad; y++ {
			for x := r.X - pad; x < r.X+r.Width+pad; x++ {
				if x < 0 || x >= width || y < 0 || y >= height {
					continue
				}
				i := y*width + x
				d := r.DistanceTo(x, y)
				if d == 0 {
					m.inside[i] = idx
				}
				if x >= r.X-1 && x <= r.X+r.Width && y >= r.Y-1 && y <= r.Y+r.Height {
					m.addRing(i, idx)
				}
				if d <= reach && d < nearDist[i] {
					nearDist[i] = d
					m.near[i] = idx
				}
			}
		}
	}
	return m
}

func (m *RoomMap) addRing(i int, idx int32) {
	if !slices.Contains(m.ring[i], idx) {
		m.ring[i] = append(m.ring[i], idx)
	}
}

func (m *RoomMap) index(x, y int) int {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return -1
	}
	return y*m.width + x
}

// Len returns the number of rooms.
func (m *RoomMap) Len() int { return len(m.rooms) }

// Room returns the room at index i.
func (m *RoomMap) Room(i int) world.Room { return m.rooms[i] }

// Rooms returns all rooms in index order.
func (m *RoomMap) Rooms() []world.Room { return m.rooms }

// Inside returns the index of the room whose interior contains (x, y), or -1.
func (m *RoomMap) Inside(x, y int) int {
	if i := m.index(x, y); i >= 0 {
		return int(m.inside[i])
	}
	return -1
}

// Ring returns the indices of every room whose interior or enclosing wall
// contains (x, y). Junction walls can belong to three or more rooms. The
// slice is shared and must not be modified.
func (m *RoomMap) Ring(x, y int) []int32 {
	if i := m.index(x, y); i >= 0 {
		return m.ring[i]
	}
	return nil
}

// Near returns the index of the closest room within tint reach, or -1.
func (m *RoomMap) Near(x, y int) int {
	if i := m.index(x, y); i >= 0 {
		return int(m.near[i])
	}
	return -1
}

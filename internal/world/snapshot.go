package world

import (
	"errors"
	"fmt"
)

// ErrVisibleUnexplored is returned by Validate when a cell is visible but not explored.
var ErrVisibleUnexplored = errors.New("visible cell is not explored")

// Room is a named rectangular area. X, Y, Width and Height describe the
// interior floor; the enclosing walls lie one cell outside it.
type Room struct {
	ID     int
	X, Y   int
	Width  int
	Height int
	Name   string
}

// Contains reports whether (x, y) lies inside the room interior.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the centre cell of the room interior.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Area returns the interior cell count.
func (r Room) Area() int {
	return r.Width * r.Height
}

// DistanceTo returns the Manhattan distance from (x, y) to the nearest
// interior cell of the room. Zero when the point is inside.
func (r Room) DistanceTo(x, y int) int {
	return axisGap(x, x+1, r.X, r.X+r.Width) + axisGap(y, y+1, r.Y, r.Y+r.Height)
}

// Gap returns the Manhattan distance between the nearest interior cells of
// the two rooms. Rooms separated by a single shared wall have a gap of 2.
func (r Room) Gap(o Room) int {
	return axisGap(r.X, r.X+r.Width, o.X, o.X+o.Width) + axisGap(r.Y, r.Y+r.Height, o.Y, o.Y+o.Height)
}

// axisGap returns the distance between the closest cells of two half-open spans.
func axisGap(a0, a1, b0, b1 int) int {
	switch {
	case b0 >= a1:
		return b0 - a1 + 1
	case a0 >= b1:
		return a0 - b1 + 1
	default:
		return 0
	}
}

// EntityKind identifies what an entity is.
type EntityKind uint8

const (
	EntityCrew       EntityKind = iota // surviving crew member
	EntityDrone                        // maintenance drone
	EntityTerminal                     // data terminal
	EntityCrate                        // supply crate
	EntityHazardVent                   // leaking vent
	entityKindCount                    // sentinel
)

// String returns the entity kind name.
func (k EntityKind) String() string {
	if k < entityKindCount {
		return entityKindNames[k]
	}
	return "unknown"
}

var entityKindNames = [entityKindCount]string{
	EntityCrew:       "crew",
	EntityDrone:      "drone",
	EntityTerminal:   "terminal",
	EntityCrate:      "crate",
	EntityHazardVent: "hazard-vent",
}

// Entity is a mobile or interactive object on the grid.
type Entity struct {
	ID   int
	Kind EntityKind
	X, Y int
}

// HazardOverlay selects how hazard values recolour the floor.
type HazardOverlay uint8

const (
	OverlayNone        HazardOverlay = iota // hazards shown as subtle hints
	OverlayThermal                          // heat ramp
	OverlayAtmospheric                      // pressure and smoke
	OverlayCleanliness                      // dirt
	overlayCount                            // sentinel
)

// Next cycles to the following overlay mode.
func (o HazardOverlay) Next() HazardOverlay {
	return (o + 1) % overlayCount
}

// String returns the overlay name.
func (o HazardOverlay) String() string {
	switch o {
	case OverlayThermal:
		return "thermal"
	case OverlayAtmospheric:
		return "atmospheric"
	case OverlayCleanliness:
		return "cleanliness"
	default:
		return "none"
	}
}

// Snapshot is the immutable per-frame view of the world handed to the renderer.
type Snapshot struct {
	Grid     *Grid
	Rooms    []Room
	Entities []Entity

	PlayerX, PlayerY int
	FacingX, FacingY int  // last step direction, zero when unknown
	Moving           bool // player moved this turn

	Overlay HazardOverlay
	Turn    uint64
}

// RoomAt returns the room whose interior contains (x, y).
func (s *Snapshot) RoomAt(x, y int) (Room, bool) {
	for _, r := range s.Rooms {
		if r.Contains(x, y) {
			return r, true
		}
	}
	return Room{}, false
}

// Occupied reports whether the player or any entity stands on (x, y).
func (s *Snapshot) Occupied(x, y int) bool {
	if s.PlayerX == x && s.PlayerY == y {
		return true
	}
	for _, e := range s.Entities {
		if e.X == x && e.Y == y {
			return true
		}
	}
	return false
}

// Validate checks the snapshot invariants.
func (s *Snapshot) Validate() error {
	if s.Grid == nil {
		return errors.New("snapshot has no grid")
	}
	if len(s.Grid.Cells) != s.Grid.Width*s.Grid.Height {
		return fmt.Errorf("grid has %d cells, want %dx%d", len(s.Grid.Cells), s.Grid.Width, s.Grid.Height)
	}
	for i, c := range s.Grid.Cells {
		if c.Visible && !c.Explored {
			return fmt.Errorf("cell (%d,%d): %w", i%s.Grid.Width, i/s.Grid.Width, ErrVisibleUnexplored)
		}
	}
	return nil
}

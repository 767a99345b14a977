// Package station produces world snapshots for the deck viewer: a seeded
// station generator and a small turn-based simulation of the player, patrol
// drones and hazard vents.
package station

import (
	"math/rand/v2"

	"github.com/spacehole-rogue/deckview/internal/world"
)

// Station is a generated or loaded deck.
type Station struct {
	Name   string
	Grid   *world.Grid
	Rooms  []world.Room
	SpawnX int
	SpawnY int
}

var roomNames = []string{
	"Bridge", "Galley", "Med Bay", "Engineering", "Hydroponics",
	"Cargo Hold", "Crew Quarters", "Armory", "Science Lab", "Comms",
}

// FromLayout builds a station from a JSON layout.
func FromLayout(l *world.StationLayout) *Station {
	return &Station{
		Name:   l.Name,
		Grid:   l.ToGrid(),
		Rooms:  l.ToRooms(),
		SpawnX: l.SpawnX(),
		SpawnY: l.SpawnY(),
	}
}

// Generate lays out a deck: one main corridor across the middle with rooms
// hanging off both sides, each joined to it by a door.
func Generate(seed int64, width, height int) *Station {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed>>16|11)))
	grid := world.NewGrid(width, height)
	st := &Station{Name: "Relay Station", Grid: grid}

	corridorY := height / 2
	for x := 2; x < width-2; x++ {
		grid.SetType(x, corridorY, world.CellCorridor)
	}

	numRooms := 5 + rng.IntN(4)
	for attempt := 0; attempt < numRooms*6 && len(st.Rooms) < numRooms; attempt++ {
		roomW := 4 + rng.IntN(5)
		roomH := 3 + rng.IntN(3)
		if width-roomW-6 <= 0 {
			break
		}
		roomX := 3 + rng.IntN(width-roomW-6)

		// Alternate above/below corridor
		var roomY, doorY int
		if len(st.Rooms)%2 == 0 {
			roomY = corridorY - 1 - roomH
			doorY = corridorY - 1
		} else {
			roomY = corridorY + 2
			doorY = corridorY + 1
		}
		if roomY < 1 || roomY+roomH > height-1 {
			continue
		}

		r := world.Room{
			ID:     len(st.Rooms) + 1,
			X:      roomX,
			Y:      roomY,
			Width:  roomW,
			Height: roomH,
			Name:   roomNames[len(st.Rooms)%len(roomNames)],
		}
		if overlaps(r, st.Rooms) {
			continue
		}
		locked := len(st.Rooms) > 0 && rng.IntN(8) == 0
		placeRoom(grid, r, doorY, locked, rng)
		st.Rooms = append(st.Rooms, r)
	}

	scatterHazards(grid, st.Rooms, rng)

	if len(st.Rooms) > 0 {
		st.SpawnX, st.SpawnY = st.Rooms[0].Center()
	} else {
		st.SpawnX, st.SpawnY = 2, corridorY
	}
	return st
}

// overlaps reports whether r's wall ring would touch another room's ring.
func overlaps(r world.Room, rooms []world.Room) bool {
	for _, o := range rooms {
		if r.X-2 < o.X+o.Width+1 && o.X-1 < r.X+r.Width+2 &&
			r.Y-2 < o.Y+o.Height+1 && o.Y-1 < r.Y+r.Height+2 {
			return true
		}
	}
	return false
}

// placeRoom carves a room interior and puts a door in the wall facing the corridor.
func placeRoom(grid *world.Grid, r world.Room, doorY int, locked bool, rng *rand.Rand) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			grid.SetType(x, y, world.CellFloor)
		}
	}
	doorX := r.X + rng.IntN(r.Width)
	kind := world.CellDoor
	if locked {
		kind = world.CellLockedDoor
	}
	grid.SetType(doorX, doorY, kind)
}

// scatterHazards leaves grime everywhere, a few hot spots and one breached room.
func scatterHazards(grid *world.Grid, rooms []world.Room, rng *rand.Rand) {
	for i := range grid.Cells {
		c := &grid.Cells[i]
		if !c.Walkable {
			continue
		}
		c.Dirt = rng.Float64() * 0.3
		if rng.Float64() < 0.03 {
			c.Heat = 0.5 + rng.Float64()*0.5
			c.Smoke = rng.Float64() * 0.6
		}
	}
	if len(rooms) == 0 {
		return
	}
	breach := rooms[rng.IntN(len(rooms))]
	for y := breach.Y; y < breach.Y+breach.Height; y++ {
		for x := breach.X; x < breach.X+breach.Width; x++ {
			grid.At(x, y).Pressure = 0.2 + rng.Float64()*0.3
		}
	}
}

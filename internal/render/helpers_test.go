package render

import (
	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// carveRoom turns the interior of r into floor.
func carveRoom(g *world.Grid, r world.Room) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			g.SetType(x, y, world.CellFloor)
		}
	}
}

// revealBox marks every cell of the half-open box explored and visible.
func revealBox(g *world.Grid, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.Reveal(x, y)
		}
	}
}

// scenario is a 40x30 grid with one 6x6 room at (2,2). The room and its
// wall ring are explored and visible; the player stands at (5,5).
func scenario() *world.Snapshot {
	g := world.NewGrid(40, 30)
	room := world.Room{ID: 1, X: 2, Y: 2, Width: 6, Height: 6, Name: "Galley"}
	carveRoom(g, room)
	revealBox(g, 1, 1, 9, 9)
	return &world.Snapshot{
		Grid:    g,
		Rooms:   []world.Room{room},
		PlayerX: 5,
		PlayerY: 5,
		FacingY: -1,
		Turn:    1,
	}
}

func testEnv(g *world.Grid, rooms ...world.Room) *ClassifyEnv {
	cfg := config.Default()
	return &ClassifyEnv{
		Rooms:    NewRoomMap(g.Width, g.Height, rooms, cfg.Engine.TintReach),
		Ceilings: true,
		Tuning:   cfg.Engine,
	}
}

package station

import "github.com/spacehole-rogue/deckview/internal/world"

// Position is a grid cell location.
type Position struct {
	X, Y int
}

// PlayerControlled tags the player entity.
type PlayerControlled struct{}

// Actor is anything the renderer shows as an entity marker.
type Actor struct {
	ID   int
	Kind world.EntityKind
}

// Patrol moves an entity back and forth along one axis.
type Patrol struct {
	DX, DY int
}

// Vent heats and smokes the cells around it.
type Vent struct {
	Radius int
	Output float64 // heat added per vent tick
}

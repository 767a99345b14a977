package world

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadLayout is wrapped by every layout validation failure.
var ErrBadLayout = errors.New("bad station layout")

// StationLayout is the JSON-serializable definition of a deck layout.
type StationLayout struct {
	Name   string    `json:"name"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Tiles  []string  `json:"tiles"`
	Rooms  []RoomDef `json:"rooms"`
	Spawn  [2]int    `json:"spawn"`
}

// RoomDef defines a named room interior in a station layout.
type RoomDef struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

// LoadStationLayout parses a StationLayout from JSON bytes.
func LoadStationLayout(data []byte) (*StationLayout, error) {
	var layout StationLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse station layout: %w", err)
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

func (l *StationLayout) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrBadLayout, l.Width, l.Height)
	}
	if len(l.Tiles) != l.Height {
		return fmt.Errorf("%w: tile rows (%d) != declared height (%d)", ErrBadLayout, len(l.Tiles), l.Height)
	}
	for _, r := range l.Rooms {
		if r.Width <= 0 || r.Height <= 0 || r.X < 0 || r.Y < 0 || r.X+r.Width > l.Width || r.Y+r.Height > l.Height {
			return fmt.Errorf("%w: room %d (%s) out of bounds", ErrBadLayout, r.ID, r.Name)
		}
	}
	if sx, sy := l.SpawnX(), l.SpawnY(); sx < 0 || sx >= l.Width || sy < 0 || sy >= l.Height {
		return fmt.Errorf("%w: spawn (%d,%d) out of bounds", ErrBadLayout, sx, sy)
	}
	return nil
}

// ToGrid converts a StationLayout into an unexplored Grid.
func (l *StationLayout) ToGrid() *Grid {
	grid := NewGrid(l.Width, l.Height)
	for y, row := range l.Tiles {
		for x, ch := range row {
			if x >= l.Width {
				break
			}
			grid.SetType(x, y, charToCellType(ch))
		}
	}
	return grid
}

// ToRooms returns the layout's rooms.
func (l *StationLayout) ToRooms() []Room {
	rooms := make([]Room, 0, len(l.Rooms))
	for _, r := range l.Rooms {
		rooms = append(rooms, Room{ID: r.ID, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Name: r.Name})
	}
	return rooms
}

// SpawnX returns the player spawn X coordinate.
func (l *StationLayout) SpawnX() int { return l.Spawn[0] }

// SpawnY returns the player spawn Y coordinate.
func (l *StationLayout) SpawnY() int { return l.Spawn[1] }

func charToCellType(ch rune) CellType {
	switch ch {
	case '.':
		return CellFloor
	case ',':
		return CellCorridor
	case '+':
		return CellDoor
	case 'L':
		return CellLockedDoor
	default:
		return CellWall
	}
}

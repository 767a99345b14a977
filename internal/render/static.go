package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spacehole-rogue/deckview/internal/world"
)

const (
	trimDepth       = 0.1
	stripLightWidth = 0.2
	emergencySize   = 0.2
	emergencyEvery  = 3
)

// edges in N, E, S, W order.
var edges = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// buildRoomStatic gives a room group its baseboard trim and ceiling strip lights.
func buildRoomStatic(g *Group, room world.Room, grid *world.Grid) {
	trim := toVec4(trimBase.BlendRgb(roomTint(room.ID), 0.2), 1)
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			addTrim(g, grid, x, y, trim)
		}
	}

	light := toVec4(stripLightBase, 1)
	if room.Width >= room.Height {
		cy := room.Y + room.Height/2
		for x := room.X; x < room.X+room.Width; x += 2 {
			g.Add(ClassStripLight, InstanceSlot{
				Transform: cellTransform(x, cy, stripLightHeight, 0, 0.8, stripLightWidth),
				Color:     light,
			})
		}
		return
	}
	cx := room.X + room.Width/2
	for y := room.Y; y < room.Y+room.Height; y += 2 {
		g.Add(ClassStripLight, InstanceSlot{
			Transform: cellTransform(cx, y, stripLightHeight, rot90, 0.8, stripLightWidth),
			Color:     light,
		})
	}
}

// buildBucketStatic gives a corridor bucket its trim and emergency floor
// strips. Every third corridor cell in row order carries a strip.
func buildBucketStatic(g *Group, area Rect, grid *world.Grid) {
	trim := toVec4(trimBase, 1)
	strip := toVec4(emergencyBase, 1)
	n := 0
	for y := area.Y0; y < area.Y1; y++ {
		for x := area.X0; x < area.X1; x++ {
			if grid.Get(x, y).Type != world.CellCorridor {
				continue
			}
			addTrim(g, grid, x, y, trim)
			if n%emergencyEvery == 0 {
				g.Add(ClassEmergencyStrip, InstanceSlot{
					Transform: cellTransform(x, y, emergencyHeight, 0, emergencySize, emergencySize),
					Color:     strip,
				})
			}
			n++
		}
	}
}

// addTrim places a thin strip along every wall-facing edge of a cell.
func addTrim(g *Group, grid *world.Grid, x, y int, color mgl32.Vec4) {
	for i, d := range edges {
		if !grid.IsWall(x+d[0], y+d[1]) {
			continue
		}
		off := float32(0.5 - trimDepth/2)
		t := mgl32.Translate3D(float32(x)+0.5+float32(d[0])*off, trimHeight, float32(y)+0.5+float32(d[1])*off)
		if i%2 == 0 {
			t = t.Mul4(mgl32.Scale3D(1, 1, trimDepth))
		} else {
			t = t.Mul4(mgl32.Scale3D(trimDepth, 1, 1))
		}
		g.Add(ClassTrim, InstanceSlot{Transform: t, Color: color})
	}
}

package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// Category is what a cell renders as.
type Category uint8

const (
	CategoryFloor     Category = iota // room floor
	CategoryCorridor                  // corridor floor
	CategoryWall                      // visible wall face or corner
	CategoryDoor                      // door panel
	CategoryCeiling                   // wall-top cap
	CategoryFogFull                   // never explored
	CategoryFogMemory                 // explored, not currently visible
	categoryCount
)

// Adding a cell type without a branch in Classify fails to compile here.
func _() {
	var x [1]struct{}
	_ = x[world.CellTypeCount-5]
	_ = x[categoryCount-7]
}

// Instance heights in cells. Fog sits above everything else; the memory layer
// is lower so it never fights with the opaque layer on a neighbouring cell.
const (
	floorHeight      = 0.0
	emergencyHeight  = 0.02
	trimHeight       = 0.08
	entityHeight     = 0.5
	doorHeight       = 0.6
	stripLightHeight = 0.98
	wallHeight       = 1.0
	ceilingHeight    = 1.05
	fogMemoryHeight  = 1.20
	fogFullHeight    = 1.30
)

// Ambient occlusion by adjacent wall count.
var aoFactors = [5]float64{1, 0.88, 0.80, 0.72, 0.72}

// Open-neighbour bits.
const (
	openN = 1 << iota
	openE
	openS
	openW
)

const (
	rot90  = float32(math.Pi / 2)
	rot180 = float32(math.Pi)
	rot270 = float32(3 * math.Pi / 2)
)

// ClassifyEnv carries everything the classifier reads besides the grid.
type ClassifyEnv struct {
	Rooms    *RoomMap
	Overlay  world.HazardOverlay
	Ceilings bool // emit wall-top caps
	Tuning   config.EngineConfig
}

// CellRender is the classifier's verdict for one cell.
type CellRender struct {
	Skip     bool
	Category Category
	Class    GeometryClass
	Color    colorful.Color
	Rotation float32 // radians about the vertical axis
	Height   float32
	ScaleX   float32
	ScaleZ   float32
	Ceiling  bool // also emit a ceiling cap above the cell
}

// Slot builds the instance for cell (x, y).
func (r CellRender) Slot(x, y int) InstanceSlot {
	return InstanceSlot{
		Transform: cellTransform(x, y, r.Height, r.Rotation, r.ScaleX, r.ScaleZ),
		Color:     toVec4(r.Color, 1),
	}
}

// CeilingSlot builds the cap above a wall cell.
func (r CellRender) CeilingSlot(x, y int) InstanceSlot {
	return InstanceSlot{
		Transform: cellTransform(x, y, ceilingHeight, 0, 1, 1),
		Color:     toVec4(ceilingBase.BlendRgb(r.Color, 0.2), 1),
	}
}

// cellTransform places a unit quad over cell (x, y) at the given height.
func cellTransform(x, y int, height, rot, sx, sz float32) mgl32.Mat4 {
	return mgl32.Translate3D(float32(x)+0.5, height, float32(y)+0.5).
		Mul4(mgl32.HomogRotate3DY(rot)).
		Mul4(mgl32.Scale3D(sx, 1, sz))
}

// Classify decides how cell (x, y) renders. It reads only its arguments.
// Unexplored cells are skipped; the fog compositor covers them.
func Classify(g *world.Grid, x, y int, env *ClassifyEnv) CellRender {
	c := g.Get(x, y)
	if !c.Explored {
		return CellRender{Skip: true, Category: CategoryFogFull}
	}

	var r CellRender
	switch c.Type {
	case world.CellWall:
		r = classifyWall(g, x, y, env)
	case world.CellDoor, world.CellLockedDoor:
		r = classifyDoor(g, x, y, c)
	case world.CellFloor, world.CellCorridor:
		r = classifyFloor(g, x, y, c, env)
	default:
		return CellRender{Skip: true}
	}
	if r.Skip {
		return r
	}
	if !c.Visible {
		r.Color = scaleColor(r.Color, env.Tuning.MemoryFactor)
	}
	return r
}

// FogCategory returns the fog layer a cell needs, if any.
func FogCategory(c world.Cell) (Category, bool) {
	switch {
	case !c.Explored:
		return CategoryFogFull, true
	case !c.Visible:
		return CategoryFogMemory, true
	}
	return 0, false
}

// openMask returns which of the four neighbours are not walls.
func openMask(g *world.Grid, x, y int) int {
	m := 0
	if !g.IsWall(x, y-1) {
		m |= openN
	}
	if !g.IsWall(x+1, y) {
		m |= openE
	}
	if !g.IsWall(x, y+1) {
		m |= openS
	}
	if !g.IsWall(x-1, y) {
		m |= openW
	}
	return m
}

// wallOrientation maps an open-neighbour pattern to a class and rotation.
// Faces turn 90° for an east-west opening, 180° for south only, else 0°;
// two perpendicular openings make a corner, rotated by the pair.
func wallOrientation(open int) (GeometryClass, float32) {
	switch open {
	case openN | openE:
		return ClassWallCorner, 0
	case openE | openS:
		return ClassWallCorner, rot90
	case openS | openW:
		return ClassWallCorner, rot180
	case openW | openN:
		return ClassWallCorner, rot270
	case openE | openW:
		return ClassWall, rot90
	case openS:
		return ClassWall, rot180
	}
	return ClassWall, 0
}

func classifyWall(g *world.Grid, x, y int, env *ClassifyEnv) CellRender {
	open := openMask(g, x, y)
	if open == 0 {
		// Interior wall: nothing can ever see it.
		return CellRender{Skip: true, Category: CategoryWall}
	}
	class, rot := wallOrientation(open)

	color := corridorWallBase
	if ri := env.Rooms.Near(x, y); ri >= 0 {
		color = wallBase.BlendRgb(roomTint(env.Rooms.Room(ri).ID), env.Tuning.WallTintWeight)
	}
	return CellRender{
		Category: CategoryWall,
		Class:    class,
		Color:    color,
		Rotation: rot,
		Height:   wallHeight,
		ScaleX:   1,
		ScaleZ:   1,
		Ceiling:  env.Ceilings,
	}
}

func classifyDoor(g *world.Grid, x, y int, c world.Cell) CellRender {
	var rot float32
	if g.IsWalkable(x+1, y) || g.IsWalkable(x-1, y) {
		rot = rot90 // passage runs east-west
	}
	color := doorBase
	if c.Type == world.CellLockedDoor {
		color = lockedDoorBase
	}
	return CellRender{
		Category: CategoryDoor,
		Class:    ClassDoor,
		Color:    color,
		Rotation: rot,
		Height:   doorHeight,
		ScaleX:   1,
		ScaleZ:   0.3,
	}
}

func classifyFloor(g *world.Grid, x, y int, c world.Cell, env *ClassifyEnv) CellRender {
	r := CellRender{
		Category: CategoryFloor,
		Class:    ClassFloor,
		Height:   floorHeight,
		ScaleX:   1,
		ScaleZ:   1,
	}

	base := floorBase
	weight := env.Tuning.RoomTintWeight
	tint := env.Rooms.Inside(x, y)
	if c.Type == world.CellCorridor {
		r.Category, r.Class = CategoryCorridor, ClassCorridorFloor
		base = corridorBase
	}
	if c.Type == world.CellCorridor || tint < 0 {
		tint = env.Rooms.Near(x, y)
		weight = env.Tuning.CorridorTintWeight
	}

	color := base
	if tint >= 0 {
		color = base.BlendRgb(roomTint(env.Rooms.Room(tint).ID), weight)
	}
	color = applyHazard(color, c, env.Overlay)
	r.Color = scaleColor(color, aoFactors[adjacentWalls(g, x, y)])
	return r
}

// adjacentWalls counts wall cells among the four neighbours.
func adjacentWalls(g *world.Grid, x, y int) int {
	n := 0
	for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		if g.IsWall(x+d[0], y+d[1]) {
			n++
		}
	}
	return n
}

package world

// CellType represents the structural type of a grid cell.
type CellType uint8

const (
	CellFloor      CellType = iota // room floor
	CellCorridor                   // corridor floor
	CellWall                       // impassable wall
	CellDoor                       // door (walkable when open)
	CellLockedDoor                 // locked door
	CellTypeCount                  // sentinel, number of cell types
)

// String returns a short name for the cell type.
func (t CellType) String() string {
	if t < CellTypeCount {
		return cellTypeNames[t]
	}
	return "unknown"
}

var cellTypeNames = [CellTypeCount]string{
	CellFloor:      "floor",
	CellCorridor:   "corridor",
	CellWall:       "wall",
	CellDoor:       "door",
	CellLockedDoor: "locked-door",
}

// IsDoor reports whether the type is a door of either kind.
func (t CellType) IsDoor() bool {
	return t == CellDoor || t == CellLockedDoor
}

// Cell is a single grid record as produced by the simulation.
// Hazard values are normalised to [0,1]; Pressure 1 is nominal.
type Cell struct {
	Type     CellType
	Explored bool
	Visible  bool
	Walkable bool

	Heat     float64
	Smoke    float64
	Dirt     float64
	Pressure float64
}

// Grid is a fixed-size 2D grid of cells.
type Grid struct {
	Width  int
	Height int
	Cells  []Cell
}

// NewGrid creates a grid filled with unexplored walls at nominal pressure.
func NewGrid(w, h int) *Grid {
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = Cell{Type: CellWall, Pressure: 1}
	}
	return &Grid{Width: w, Height: h, Cells: cells}
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Get returns the cell at (x, y). Out-of-bounds reads return a wall.
func (g *Grid) Get(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Cell{Type: CellWall, Pressure: 1}
	}
	return g.Cells[y*g.Width+x]
}

// At returns a pointer to the cell at (x, y), or nil when out of bounds.
func (g *Grid) At(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.Cells[y*g.Width+x]
}

// Set writes a cell at (x, y). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if g.InBounds(x, y) {
		g.Cells[y*g.Width+x] = c
	}
}

// SetType changes the type of the cell at (x, y) and derives walkability from it.
func (g *Grid) SetType(x, y int, t CellType) {
	if c := g.At(x, y); c != nil {
		c.Type = t
		c.Walkable = t == CellFloor || t == CellCorridor || t == CellDoor
	}
}

// IsWall returns true for wall cells and for anything off the grid.
func (g *Grid) IsWall(x, y int) bool {
	return g.Get(x, y).Type == CellWall
}

// IsWalkable returns true if an entity can stand on (x, y).
func (g *Grid) IsWalkable(x, y int) bool {
	return g.InBounds(x, y) && g.Cells[y*g.Width+x].Walkable
}

// Reveal marks (x, y) explored and visible.
func (g *Grid) Reveal(x, y int) {
	if c := g.At(x, y); c != nil {
		c.Explored = true
		c.Visible = true
	}
}

// ClearVisible drops the visible flag on every cell, keeping exploration memory.
func (g *Grid) ClearVisible() {
	for i := range g.Cells {
		g.Cells[i].Visible = false
	}
}

// Describe returns a human-readable description of a cell.
func (c Cell) Describe() string {
	switch {
	case !c.Explored:
		return "Unexplored"
	case c.Type == CellLockedDoor:
		return "Locked door"
	case c.Heat > 0.6:
		return cellDescriptions[c.Type] + " (hot)"
	case c.Pressure < 0.4:
		return cellDescriptions[c.Type] + " (low pressure)"
	case c.Smoke > 0.5:
		return cellDescriptions[c.Type] + " (smoke)"
	}
	return cellDescriptions[c.Type]
}

var cellDescriptions = map[CellType]string{
	CellFloor:      "Deck plating",
	CellCorridor:   "Corridor",
	CellWall:       "Bulkhead",
	CellDoor:       "Door",
	CellLockedDoor: "Locked door",
}

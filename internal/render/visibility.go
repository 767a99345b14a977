package render

import (
	"math"

	"github.com/kamstrup/intmap"
	"github.com/zyedidia/generic/mapset"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// Rect is a half-open cell rectangle.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }

func (r Rect) clamp(w, h int) Rect {
	return Rect{max(r.X0, 0), max(r.Y0, 0), min(r.X1, w), min(r.Y1, h)}
}

// GroupKind says what a visibility group is keyed by.
type GroupKind uint8

const (
	GroupRoom   GroupKind = iota // keyed by room ID
	GroupBucket                  // keyed by corridor bucket coordinates
)

// GroupKey identifies a visibility group.
type GroupKey struct {
	Kind   GroupKind
	RoomID int
	BX, BY int
}

// Group is a togglable bundle of static geometry. Groups are created lazily
// and live for the session; culling only flips Visible.
type Group struct {
	Key     GroupKey
	Visible bool

	static [ClassCount][]InstanceSlot
	props  []Prop
	cx, cy float64 // bucket centre, cells
}

// Add appends a static instance.
func (g *Group) Add(class GeometryClass, slot InstanceSlot) {
	g.static[class] = append(g.static[class], slot)
}

// AddProp registers a placed decoration.
func (g *Group) AddProp(p Prop) {
	g.props = append(g.props, p)
}

// Static returns the static instances of a class.
func (g *Group) Static(class GeometryClass) []InstanceSlot { return g.static[class] }

// Props returns the placed decorations.
func (g *Group) Props() []Prop { return g.props }

// Size returns the number of objects held by the group.
func (g *Group) Size() int {
	n := len(g.props)
	for _, s := range g.static {
		n += len(s)
	}
	return n
}

// CullState is recomputed once per frame.
type CullState struct {
	VisibleRooms     mapset.Set[int]
	CurrentRoom      *world.Room
	InRoom           bool
	PlayerX, PlayerY int
	OriginX, OriginZ float64
}

// Index partitions static content into room groups and corridor buckets
// and decides, once per frame, what is in view.
type Index struct {
	tuning config.EngineConfig
	rooms  *RoomMap
	width  int
	height int

	groups       []*Group
	roomGroups   *intmap.Map[int, int32]
	bucketGroups *intmap.Map[int64, int32]

	cull     CullState
	current  world.Room
	originCX int
	originCY int
	windows  []Rect
	checks   int
}

// NewIndex creates an index over a fixed-size grid.
func NewIndex(tuning config.EngineConfig, width, height int, rooms *RoomMap) *Index {
	return &Index{
		tuning:       tuning,
		rooms:        rooms,
		width:        width,
		height:       height,
		roomGroups:   intmap.New[int, int32](max(rooms.Len(), 8)),
		bucketGroups: intmap.New[int64, int32](64),
		cull:         CullState{VisibleRooms: mapset.New[int]()},
		windows:      make([]Rect, 0, 16),
	}
}

// Cull recomputes the visible room set from the player cell and the camera
// cull origin, and collects the cell windows the batcher iterates.
func (ix *Index) Cull(playerX, playerY int, originX, originZ float64) *CullState {
	c := &ix.cull
	c.VisibleRooms.Clear()
	c.PlayerX, c.PlayerY = playerX, playerY
	c.OriginX, c.OriginZ = originX, originZ
	ix.originCX, ix.originCY = int(math.Floor(originX)), int(math.Floor(originZ))
	ix.windows = ix.windows[:0]

	rng := ix.tuning.CorridorViewRange
	if ri := ix.rooms.Inside(playerX, playerY); ri >= 0 {
		ix.current = ix.rooms.Room(ri)
		c.CurrentRoom = &ix.current
		c.InRoom = true
		c.VisibleRooms.Put(ix.current.ID)
		ix.addRoomWindow(ix.current)
		for i, r := range ix.rooms.Rooms() {
			if i != ri && r.Gap(ix.current) <= ix.tuning.RoomGap {
				c.VisibleRooms.Put(r.ID)
				ix.addRoomWindow(r)
			}
		}
	} else {
		c.CurrentRoom = nil
		c.InRoom = false
		for _, r := range ix.rooms.Rooms() {
			if r.DistanceTo(playerX, playerY) <= rng {
				c.VisibleRooms.Put(r.ID)
				ix.addRoomWindow(r)
			}
		}
	}

	ix.addWindow(Rect{playerX - rng, playerY - rng, playerX + rng + 1, playerY + rng + 1})
	if ix.originCX != playerX || ix.originCY != playerY {
		ix.addWindow(Rect{ix.originCX - rng, ix.originCY - rng, ix.originCX + rng + 1, ix.originCY + rng + 1})
	}
	return c
}

func (ix *Index) addRoomWindow(r world.Room) {
	ix.addWindow(Rect{r.X - 1, r.Y - 1, r.X + r.Width + 1, r.Y + r.Height + 1})
}

func (ix *Index) addWindow(r Rect) {
	if r = r.clamp(ix.width, ix.height); !r.Empty() {
		ix.windows = append(ix.windows, r)
	}
}

// State returns the cull state of the current frame.
func (ix *Index) State() *CullState { return &ix.cull }

// Windows returns the rectangles that cover every in-view cell. They may overlap.
func (ix *Index) Windows() []Rect { return ix.windows }

// InView reports whether cell (x, y) is rendered this frame: it belongs to a
// visible room (walls included) or lies within the corridor view range of
// the player or of the camera cull origin.
func (ix *Index) InView(x, y int) bool {
	for _, ri := range ix.rooms.Ring(x, y) {
		if ix.cull.VisibleRooms.Has(ix.rooms.Room(int(ri)).ID) {
			return true
		}
	}
	rng := ix.tuning.CorridorViewRange
	if manhattan(x, y, ix.cull.PlayerX, ix.cull.PlayerY) <= rng {
		return true
	}
	return manhattan(x, y, ix.originCX, ix.originCY) <= rng
}

// RoomGroup returns the group of a room, creating it on first use.
func (ix *Index) RoomGroup(roomID int) (*Group, bool) {
	if gi, ok := ix.roomGroups.Get(roomID); ok {
		return ix.groups[gi], false
	}
	g := &Group{Key: GroupKey{Kind: GroupRoom, RoomID: roomID}}
	ix.roomGroups.Put(roomID, int32(len(ix.groups)))
	ix.groups = append(ix.groups, g)
	return g, true
}

// BucketOf returns the bucket coordinates of a cell.
func (ix *Index) BucketOf(x, y int) (int, int) {
	return x / ix.tuning.BucketSize, y / ix.tuning.BucketSize
}

// BucketGroup returns the group of a corridor bucket, creating it on first use.
func (ix *Index) BucketGroup(bx, by int) (*Group, bool) {
	key := bucketKey(bx, by)
	if gi, ok := ix.bucketGroups.Get(key); ok {
		return ix.groups[gi], false
	}
	size := float64(ix.tuning.BucketSize)
	g := &Group{
		Key: GroupKey{Kind: GroupBucket, BX: bx, BY: by},
		cx:  (float64(bx) + 0.5) * size,
		cy:  (float64(by) + 0.5) * size,
	}
	ix.bucketGroups.Put(key, int32(len(ix.groups)))
	ix.groups = append(ix.groups, g)
	return g, true
}

// HasBucket reports whether a bucket group exists.
func (ix *Index) HasBucket(bx, by int) bool {
	return ix.bucketGroups.Has(bucketKey(bx, by))
}

// Toggle flips every group's Visible flag from the current cull state. It
// does one check per group, never per object, and returns the visible count.
func (ix *Index) Toggle() int {
	ix.checks = 0
	visible := 0
	limit := float64(ix.tuning.CorridorViewRange + ix.tuning.BucketSize)
	px, py := float64(ix.cull.PlayerX)+0.5, float64(ix.cull.PlayerY)+0.5
	for _, g := range ix.groups {
		ix.checks++
		switch g.Key.Kind {
		case GroupRoom:
			g.Visible = ix.cull.VisibleRooms.Has(g.Key.RoomID)
		case GroupBucket:
			d := math.Abs(g.cx-px) + math.Abs(g.cy-py)
			if d > limit {
				d = math.Abs(g.cx-ix.cull.OriginX) + math.Abs(g.cy-ix.cull.OriginZ)
			}
			g.Visible = d <= limit
		}
		if g.Visible {
			visible++
		}
	}
	return visible
}

// Groups returns every group in creation order.
func (ix *Index) Groups() []*Group { return ix.groups }

// Checks returns the number of visibility checks made by the last Toggle.
func (ix *Index) Checks() int { return ix.checks }

func bucketKey(bx, by int) int64 {
	return int64(bx)<<32 | int64(uint32(by))
}

func manhattan(x0, y0, x1, y1 int) int {
	dx, dy := x0-x1, y0-y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

package render

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
	"github.com/sirupsen/logrus"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/logger"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// PropKind is a decoration type.
type PropKind uint8

const (
	PropCrate     PropKind = iota // cargo crate
	PropConsole                   // wall console
	PropLocker                    // equipment locker
	PropPipeStack                 // vertical pipe bundle
	PropPlanter                   // hydroponics planter
	PropBarrel                    // fuel barrel
	propKindCount
)

// Adding a prop kind without a model key fails to compile here.
func _() {
	var x [1]struct{}
	_ = x[propKindCount-6]
}

// ModelKey returns the model cache key of the kind.
func (k PropKind) ModelKey() string {
	switch k {
	case PropCrate:
		return "prop/crate"
	case PropConsole:
		return "prop/console"
	case PropLocker:
		return "prop/locker"
	case PropPipeStack:
		return "prop/pipes"
	case PropPlanter:
		return "prop/planter"
	case PropBarrel:
		return "prop/barrel"
	}
	return fallbackKey
}

// Placement is a planned prop before geometry is resolved.
type Placement struct {
	X, Y    int
	Kind    PropKind
	Variant int // colour shade, 0-3
	Turns   int // quarter turns about the vertical axis
	Key     int // ordering key
}

// Prop is a placed decoration. It references its geometry by handle.
type Prop struct {
	Handle    ModelHandle
	Kind      PropKind
	Variant   int
	Transform mgl32.Mat4 // cell placement; the model size is applied at emit time
	X, Y      int
}

// Slot builds the prop instance from its model.
func (p Prop) Slot(m Model) InstanceSlot {
	shade := 1 - 0.08*float32(p.Variant)
	return InstanceSlot{
		Transform: p.Transform.Mul4(mgl32.Scale3D(m.Size.X(), m.Size.Y(), m.Size.Z())),
		Color:     mgl32.Vec4{m.Color.X() * shade, m.Color.Y() * shade, m.Color.Z() * shade, m.Color.W()},
	}
}

// PlaceResult is the outcome of one Place call.
type PlaceResult uint8

const (
	PlaceDone     PlaceResult = iota // props registered
	PlaceDeferred                    // waiting for geometry, retry next frame
	PlaceSkipped                     // no candidate cells
	PlaceAlready                     // room was decorated before
)

var placeResultNames = [...]string{"placed", "deferred", "skipped", "already"}

// String returns the result name.
func (r PlaceResult) String() string {
	if int(r) < len(placeResultNames) {
		return placeResultNames[r]
	}
	return "unknown"
}

// Placer decorates each room exactly once with a deterministic prop set.
type Placer struct {
	tuning    config.EngineConfig
	cache     *ModelCache
	decorated *intmap.Map[int, struct{}]
	waiting   *intmap.Map[int, int] // room ID -> frames deferred
	log       *logrus.Entry
}

// NewPlacer creates a placer that resolves geometry through cache.
func NewPlacer(tuning config.EngineConfig, cache *ModelCache) *Placer {
	return &Placer{
		tuning:    tuning,
		cache:     cache,
		decorated: intmap.New[int, struct{}](16),
		waiting:   intmap.New[int, int](4),
		log:       logger.Component("decor"),
	}
}

// Decorated reports whether a room already has its props.
func (p *Placer) Decorated(roomID int) bool { return p.decorated.Has(roomID) }

// Pending returns how many rooms are waiting for geometry.
func (p *Placer) Pending() int { return p.waiting.Len() }

// propKey is the ordering key of a cell.
func propKey(x, y int, seed uint32) int {
	return (x*13 + y*7 + int(seed)) & 0xff
}

// Plan returns the placements for a room. The result depends only on the
// room, the grid, the occupied cells and the seed.
func (p *Placer) Plan(room world.Room, snap *world.Snapshot) []Placement {
	var cands []Placement
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			c := snap.Grid.Get(x, y)
			if c.Type != world.CellFloor || !c.Walkable || snap.Occupied(x, y) {
				continue
			}
			cands = append(cands, Placement{X: x, Y: y, Key: propKey(x, y, p.tuning.DecorSeed)})
		}
	}
	if len(cands) == 0 {
		return nil
	}

	slices.SortFunc(cands, func(a, b Placement) int {
		return cmp.Or(cmp.Compare(a.Key, b.Key), cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})

	n := min(max(room.Area()/6, 1), p.tuning.DecorMaxProps, len(cands))
	out := cands[:n]
	for i := range out {
		k := out[i].Key
		out[i].Kind = PropKind(k % int(propKindCount))
		out[i].Variant = (k >> 3) & 3
		out[i].Turns = (k >> 5) & 3
	}
	return out
}

// Place decorates room into group. Call it every frame while it returns
// PlaceDeferred; once the defer budget is spent the missing geometry is
// replaced with the fallback primitive.
func (p *Placer) Place(room world.Room, snap *world.Snapshot, group *Group) PlaceResult {
	if p.decorated.Has(room.ID) {
		return PlaceAlready
	}

	plan := p.Plan(room, snap)
	if len(plan) == 0 {
		p.decorated.Put(room.ID, struct{}{})
		p.log.WithField("room", room.ID).Debug("no decoration candidates")
		return PlaceSkipped
	}

	handles := make([]ModelHandle, len(plan))
	missing := 0
	for i, pl := range plan {
		h, ok := p.cache.Lookup(pl.Kind.ModelKey())
		if !ok {
			missing++
			h = FallbackHandle
		}
		handles[i] = h
	}
	if missing > 0 {
		waited, _ := p.waiting.Get(room.ID)
		if waited < p.tuning.DecorDeferFrames {
			p.waiting.Put(room.ID, waited+1)
			return PlaceDeferred
		}
		p.log.WithFields(logrus.Fields{
			"room":    room.ID,
			"missing": missing,
		}).Warn("prop geometry never arrived, using fallback")
	}

	for i, pl := range plan {
		group.AddProp(Prop{
			Handle:    handles[i],
			Kind:      pl.Kind,
			Variant:   pl.Variant,
			Transform: propTransform(pl),
			X:         pl.X,
			Y:         pl.Y,
		})
	}
	p.waiting.Del(room.ID)
	p.decorated.Put(room.ID, struct{}{})
	p.log.WithFields(logrus.Fields{"room": room.ID, "props": len(plan)}).Debug("room decorated")
	return PlaceDone
}

func propTransform(pl Placement) mgl32.Mat4 {
	return mgl32.Translate3D(float32(pl.X)+0.5, floorHeight, float32(pl.Y)+0.5).
		Mul4(mgl32.HomogRotate3DY(float32(pl.Turns) * math.Pi / 2))
}

package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/logger"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// ErrGridResized is returned by Render when the snapshot grid no longer
// matches the size the engine was built for.
var ErrGridResized = errors.New("grid resized after engine construction")

// Stats summarises the last rendered frame.
type Stats struct {
	Frame            uint64
	Active           [ClassCount]int
	Instances        int
	Dropped          int
	Groups           int
	VisibleGroups    int
	VisibilityChecks int
	VisibleRooms     int
	FogFull          int
	FogMemory        int
	PendingDecor     int
	DrawCalls        int
	SkippedFrames    int
	InRoom           bool
	Mode             Mode
	Zoom             float64
	Elevation        float64
}

// Engine is the renderer context. Everything that persists across frames
// hangs off it; there is no package-level state.
type Engine struct {
	cfg    config.Config
	width  int
	height int

	cache   *ModelCache
	batcher *Batcher
	fog     *FogCompositor
	rig     *Rig
	placer  *Placer
	drawer  *Drawer

	rooms *RoomMap
	index *Index
	env   ClassifyEnv

	stamp    []uint32
	stampGen uint32

	lastTurn uint64
	haveTurn bool
	input    RigInput
	hasInput bool

	stats Stats
	log   *logrus.Entry
}

// New creates an engine for a width x height grid. Instance buffers are
// allocated here and reused for the whole session.
func New(cfg config.Config, width, height int, cache *ModelCache) *Engine {
	if cache == nil {
		cache = NewModelCache()
	}
	return &Engine{
		cfg:     cfg,
		width:   width,
		height:  height,
		cache:   cache,
		batcher: NewBatcher(CapacitiesFor(width, height)),
		fog:     NewFogCompositor(),
		rig:     NewRig(cfg.Camera),
		placer:  NewPlacer(cfg.Engine, cache),
		drawer:  NewDrawer(),
		env:     ClassifyEnv{Tuning: cfg.Engine},
		stamp:   make([]uint32, width*height),
		log:     logger.Component("engine"),
	}
}

// Render builds this frame's instance buffers from snap. The snapshot is
// only read, never retained past the call.
func (e *Engine) Render(snap *world.Snapshot) error {
	g := snap.Grid
	if g.Width != e.width || g.Height != e.height {
		err := fmt.Errorf("%w: got %dx%d, built for %dx%d", ErrGridResized, g.Width, g.Height, e.width, e.height)
		if e.cfg.Debug {
			panic(err)
		}
		e.stats.SkippedFrames++
		e.log.WithError(err).Error("skipping frame")
		return err
	}

	if e.rooms == nil {
		e.rooms = NewRoomMap(e.width, e.height, snap.Rooms, e.cfg.Engine.TintReach)
		e.index = NewIndex(e.cfg.Engine, e.width, e.height, e.rooms)
		e.env.Rooms = e.rooms
		e.log.WithFields(logrus.Fields{
			"width":  e.width,
			"height": e.height,
			"rooms":  len(snap.Rooms),
		}).Info("engine initialised")
	}
	if !e.haveTurn || snap.Turn != e.lastTurn {
		e.rig.CacheWalkability(g)
		e.lastTurn, e.haveTurn = snap.Turn, true
	}

	px, py := snap.PlayerX, snap.PlayerY
	e.input = RigInput{
		PlayerX: float64(px) + 0.5,
		PlayerZ: float64(py) + 0.5,
		FacingX: float64(snap.FacingX),
		FacingZ: float64(snap.FacingY),
		InRoom:  e.rooms.Inside(px, py) >= 0,
		Moving:  snap.Moving,
	}
	e.hasInput = true

	ox, oz := e.input.PlayerX, e.input.PlayerZ
	if e.rig.Ready() {
		ox, oz = e.rig.CullOrigin()
	}
	cull := e.index.Cull(px, py, ox, oz)

	e.env.Overlay = snap.Overlay
	e.env.Ceilings = e.rig.Mode() == ModeOrthographic

	e.decorate(snap)

	e.batcher.BeginFrame()
	e.emitCells(g)
	full, memory := e.fog.Compose(g, e.batcher)
	visible := e.index.Toggle()
	e.emitGroups()
	e.emitEntities(snap)
	e.batcher.EndFrame()

	e.stats.Frame++
	e.stats.Instances = 0
	for cls := GeometryClass(0); cls < ClassCount; cls++ {
		n := e.batcher.Active(cls)
		e.stats.Active[cls] = n
		e.stats.Instances += n
	}
	e.stats.Dropped = e.batcher.Dropped()
	e.stats.Groups = len(e.index.Groups())
	e.stats.VisibleGroups = visible
	e.stats.VisibilityChecks = e.index.Checks()
	e.stats.VisibleRooms = cull.VisibleRooms.Size()
	e.stats.FogFull, e.stats.FogMemory = full, memory
	e.stats.PendingDecor = e.placer.Pending()
	e.stats.InRoom = cull.InRoom
	return nil
}

// decorate builds static content and props for rooms whose centre has been explored.
func (e *Engine) decorate(snap *world.Snapshot) {
	for _, room := range e.rooms.Rooms() {
		if e.placer.Decorated(room.ID) {
			continue
		}
		cx, cy := room.Center()
		if !snap.Grid.Get(cx, cy).Explored {
			continue
		}
		group, created := e.index.RoomGroup(room.ID)
		if created {
			buildRoomStatic(group, room, snap.Grid)
		}
		if res := e.placer.Place(room, snap, group); res == PlaceDone {
			e.log.WithFields(logrus.Fields{"room": room.ID, "name": room.Name}).Debug("room revealed")
		}
	}
}

// emitCells classifies every in-view cell once. Windows may overlap, so a
// per-frame stamp guards against double emission.
func (e *Engine) emitCells(g *world.Grid) {
	e.stampGen++
	if e.stampGen == 0 {
		clear(e.stamp)
		e.stampGen = 1
	}
	for _, w := range e.index.Windows() {
		for y := w.Y0; y < w.Y1; y++ {
			for x := w.X0; x < w.X1; x++ {
				i := y*e.width + x
				if e.stamp[i] == e.stampGen {
					continue
				}
				e.stamp[i] = e.stampGen
				if !e.index.InView(x, y) {
					continue
				}
				c := g.Cells[i]
				if c.Explored && c.Type == world.CellCorridor {
					e.ensureBucket(g, x, y)
				}
				r := Classify(g, x, y, &e.env)
				if r.Skip {
					continue
				}
				e.batcher.Emit(r.Class, r.Slot(x, y))
				if r.Ceiling {
					e.batcher.Emit(ClassCeiling, r.CeilingSlot(x, y))
				}
			}
		}
	}
}

func (e *Engine) ensureBucket(g *world.Grid, x, y int) {
	bx, by := e.index.BucketOf(x, y)
	if e.index.HasBucket(bx, by) {
		return
	}
	group, _ := e.index.BucketGroup(bx, by)
	size := e.cfg.Engine.BucketSize
	buildBucketStatic(group, Rect{bx * size, by * size, (bx + 1) * size, (by + 1) * size}, g)
}

func (e *Engine) emitGroups() {
	for _, group := range e.index.Groups() {
		if !group.Visible {
			continue
		}
		for cls := GeometryClass(0); cls < ClassCount; cls++ {
			if s := group.Static(cls); len(s) > 0 {
				e.batcher.EmitAll(cls, s)
			}
		}
		for _, p := range group.Props() {
			e.batcher.Emit(ClassProp, p.Slot(e.cache.Model(p.Handle)))
		}
	}
}

func (e *Engine) emitEntities(snap *world.Snapshot) {
	for _, ent := range snap.Entities {
		if !snap.Grid.Get(ent.X, ent.Y).Visible {
			continue
		}
		e.batcher.Emit(ClassEntity, markerSlot(ent.X, ent.Y, 0.5, entityColors[ent.Kind]))
	}
	e.batcher.Emit(ClassEntity, markerSlot(snap.PlayerX, snap.PlayerY, 0.7, playerBase))
}

// Update advances the camera by dt seconds toward the last rendered player state.
func (e *Engine) Update(dt float64) {
	if !e.hasInput {
		return
	}
	e.rig.Update(dt, e.input)
	s := e.rig.State()
	e.stats.Mode = s.Mode
	e.stats.Zoom = s.Zoom
	e.stats.Elevation = s.Elevation
}

// Draw submits the current buffers to screen.
func (e *Engine) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if b.Dy() == 0 {
		return
	}
	vp := e.ViewProjection(float64(b.Dx()) / float64(b.Dy()))
	e.stats.DrawCalls = e.drawer.Draw(screen, e.batcher, vp, e.rig.Mode() == ModeChase)
}

// ViewProjection returns the camera matrix for an aspect ratio.
func (e *Engine) ViewProjection(aspect float64) mgl32.Mat4 {
	return e.rig.ViewProjection(aspect)
}

// ToggleCameraMode switches between orthographic and chase on the next Update.
func (e *Engine) ToggleCameraMode() { e.rig.Toggle() }

// AdjustZoom changes the orthographic zoom and returns the clamped value.
func (e *Engine) AdjustZoom(delta float64) float64 { return e.rig.AdjustZoom(delta) }

// AdjustElevation changes the orthographic elevation and returns the clamped value.
func (e *Engine) AdjustElevation(delta float64) float64 { return e.rig.AdjustElevation(delta) }

// Camera returns the camera state.
func (e *Engine) Camera() CameraState { return e.rig.State() }

// Stats returns the counters of the last frame.
func (e *Engine) Stats() Stats { return e.stats }

// Buffer exposes a class buffer for inspection.
func (e *Engine) Buffer(class GeometryClass) *InstanceBuffer { return e.batcher.Buffer(class) }

func markerSlot(x, y int, size float32, c colorful.Color) InstanceSlot {
	return InstanceSlot{
		Transform: mgl32.Translate3D(float32(x)+0.5, entityHeight, float32(y)+0.5).
			Mul4(mgl32.Scale3D(size, 1, size)),
		Color: toVec4(c, 1),
	}
}

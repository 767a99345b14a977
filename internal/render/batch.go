package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/spacehole-rogue/deckview/internal/logger"
)

// GeometryClass identifies one batched mesh. Each class is drawn with a
// single batched call per frame.
type GeometryClass uint8

const (
	ClassFloor          GeometryClass = iota // room floor tiles
	ClassCorridorFloor                       // corridor floor tiles
	ClassWall                                // wall faces
	ClassWallCorner                          // convex wall corners
	ClassDoor                                // door panels
	ClassCeiling                             // wall-top caps, orthographic only
	ClassFogFull                             // opaque fog over unexplored cells
	ClassFogMemory                           // translucent fog over remembered cells
	ClassTrim                                // baseboard trim
	ClassStripLight                          // ceiling strip lights
	ClassEmergencyStrip                      // corridor floor strips
	ClassProp                                // placed decorations
	ClassEntity                              // entity and player markers
	ClassCount                               // sentinel
)

var classNames = [ClassCount]string{
	ClassFloor:          "floor",
	ClassCorridorFloor:  "corridor-floor",
	ClassWall:           "wall",
	ClassWallCorner:     "wall-corner",
	ClassDoor:           "door",
	ClassCeiling:        "ceiling",
	ClassFogFull:        "fog-full",
	ClassFogMemory:      "fog-memory",
	ClassTrim:           "trim",
	ClassStripLight:     "strip-light",
	ClassEmergencyStrip: "emergency-strip",
	ClassProp:           "prop",
	ClassEntity:         "entity",
}

// String returns the class name.
func (c GeometryClass) String() string {
	if c < ClassCount {
		return classNames[c]
	}
	return "unknown"
}

// InstanceSlot is one drawn copy of a class mesh.
type InstanceSlot struct {
	Transform mgl32.Mat4
	Color     mgl32.Vec4
}

// Capacities holds the fixed slot count per class.
type Capacities [ClassCount]int

// CapacitiesFor sizes every buffer from the map area. Per-cell classes get
// one slot per cell; decorative classes are bounded by what a fully explored
// map can register.
func CapacitiesFor(width, height int) Capacities {
	area := max(width*height, 1)
	var c Capacities
	for _, cls := range []GeometryClass{
		ClassFloor, ClassCorridorFloor, ClassWall, ClassWallCorner,
		ClassDoor, ClassCeiling, ClassFogFull, ClassFogMemory,
	} {
		c[cls] = area
	}
	c[ClassTrim] = 2 * area
	c[ClassStripLight] = area/2 + 1
	c[ClassEmergencyStrip] = area/3 + 1
	c[ClassProp] = area/4 + 1
	c[ClassEntity] = area + 1
	return c
}

// InstanceBuffer is the fixed-capacity slot array of one class.
type InstanceBuffer struct {
	class   GeometryClass
	slots   []InstanceSlot
	cursor  int
	active  int
	dropped int
	dirty   bool
}

// Class returns the geometry class this buffer holds.
func (b *InstanceBuffer) Class() GeometryClass { return b.class }

// Capacity returns the slot count fixed at construction.
func (b *InstanceBuffer) Capacity() int { return len(b.slots) }

// Active returns the number of slots drawn this frame.
func (b *InstanceBuffer) Active() int { return b.active }

// Dropped returns how many emits were truncated in the last frame.
func (b *InstanceBuffer) Dropped() int { return b.dropped }

// Dirty reports whether the active slots changed since the last upload.
func (b *InstanceBuffer) Dirty() bool { return b.dirty }

// Slots returns the active slots. The slice aliases the buffer.
func (b *InstanceBuffer) Slots() []InstanceSlot { return b.slots[:b.active] }

// Batcher owns one instance buffer per geometry class. Buffers are allocated
// once and refilled in place every frame.
type Batcher struct {
	buffers [ClassCount]InstanceBuffer
	frame   uint64
	log     *logrus.Entry
}

// NewBatcher allocates every class buffer at its fixed capacity.
func NewBatcher(caps Capacities) *Batcher {
	b := &Batcher{log: logger.Component("batcher")}
	for cls := GeometryClass(0); cls < ClassCount; cls++ {
		b.buffers[cls] = InstanceBuffer{
			class: cls,
			slots: make([]InstanceSlot, caps[cls]),
		}
	}
	return b
}

// BeginFrame resets every write cursor. Slot contents are left as they are.
func (b *Batcher) BeginFrame() {
	b.frame++
	for i := range b.buffers {
		b.buffers[i].cursor = 0
		b.buffers[i].dropped = 0
	}
}

// Emit appends a slot to a class buffer. A full buffer drops the slot and
// returns false.
func (b *Batcher) Emit(class GeometryClass, slot InstanceSlot) bool {
	buf := &b.buffers[class]
	if buf.cursor >= len(buf.slots) {
		buf.dropped++
		return false
	}
	buf.slots[buf.cursor] = slot
	buf.cursor++
	return true
}

// EmitAll appends pre-built slots, truncating at capacity. It returns the
// number written.
func (b *Batcher) EmitAll(class GeometryClass, slots []InstanceSlot) int {
	buf := &b.buffers[class]
	n := copy(buf.slots[buf.cursor:], slots)
	buf.cursor += n
	buf.dropped += len(slots) - n
	return n
}

// EndFrame publishes the cursors as active counts and marks the buffers for upload.
func (b *Batcher) EndFrame() {
	for i := range b.buffers {
		buf := &b.buffers[i]
		buf.active = buf.cursor
		buf.dirty = true
		if buf.dropped > 0 {
			b.log.WithFields(logrus.Fields{
				"class":    buf.class.String(),
				"capacity": len(buf.slots),
				"dropped":  buf.dropped,
				"frame":    b.frame,
			}).Warn("instance buffer full, truncating")
		}
	}
}

// Buffer returns the buffer of a class.
func (b *Batcher) Buffer(class GeometryClass) *InstanceBuffer {
	return &b.buffers[class]
}

// Active returns the active count of a class.
func (b *Batcher) Active(class GeometryClass) int {
	return b.buffers[class].active
}

// Dropped returns the total truncated emits of the last frame.
func (b *Batcher) Dropped() int {
	n := 0
	for i := range b.buffers {
		n += b.buffers[i].dropped
	}
	return n
}

// MarkUploaded clears the dirty flag once a class has been submitted.
func (b *Batcher) MarkUploaded(class GeometryClass) {
	b.buffers[class].dirty = false
}

package render

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxQuadVertices keeps one DrawTriangles call under the uint16 index range.
const maxQuadVertices = 65532

// drawOrder is back to front: ground, then things standing on it, then caps
// and fog. Under the perspective camera each class is also sorted far to near
// so distant caps and fog never cover nearer quads of the same class.
var drawOrder = [ClassCount]GeometryClass{
	ClassFloor,
	ClassCorridorFloor,
	ClassEmergencyStrip,
	ClassTrim,
	ClassDoor,
	ClassProp,
	ClassEntity,
	ClassWall,
	ClassWallCorner,
	ClassStripLight,
	ClassCeiling,
	ClassFogMemory,
	ClassFogFull,
}

// quadCorners is the unit footprint every instance projects.
var quadCorners = [4]mgl32.Vec4{
	{-0.5, 0, -0.5, 1},
	{0.5, 0, -0.5, 1},
	{0.5, 0, 0.5, 1},
	{-0.5, 0, 0.5, 1},
}

// Drawer submits the batcher's buffers to an ebiten image with one
// DrawTriangles call per class, split only when a class exceeds the index range.
type Drawer struct {
	whiteImage *ebiten.Image
	white      *ebiten.Image // 1x1 interior of whiteImage, avoids edge bleeding
	vertices   []ebiten.Vertex
	indices    []uint16
	quads      []projectedQuad
	op         ebiten.DrawTrianglesOptions
	calls      int
}

// NewDrawer creates a drawer. GPU images are created on the first Draw.
func NewDrawer() *Drawer {
	return &Drawer{
		vertices: make([]ebiten.Vertex, 0, 4096),
		indices:  make([]uint16, 0, 6144),
	}
}

func (d *Drawer) ensureImages() {
	if d.white != nil {
		return
	}
	d.whiteImage = ebiten.NewImage(3, 3)
	d.whiteImage.Fill(color.White)
	d.white = d.whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// projectedQuad is one instance in screen space with its view depth.
type projectedQuad struct {
	points [4]mgl32.Vec2
	color  mgl32.Vec4
	depth  float32
}

// Draw submits every non-empty class and returns the number of draw calls.
// With sortDepth set, quads within a class are drawn far to near.
func (d *Drawer) Draw(screen *ebiten.Image, b *Batcher, viewProj mgl32.Mat4, sortDepth bool) int {
	d.ensureImages()
	d.calls = 0
	bounds := screen.Bounds()
	w, h := float32(bounds.Dx()), float32(bounds.Dy())

	for _, cls := range drawOrder {
		buf := b.Buffer(cls)
		d.vertices = d.vertices[:0]
		d.indices = d.indices[:0]
		d.quads = d.quads[:0]
		for _, slot := range buf.Slots() {
			points, depth, ok := projectQuadDepth(slot.Transform, viewProj, w, h)
			if !ok {
				continue
			}
			d.quads = append(d.quads, projectedQuad{points: points, color: slot.Color, depth: depth})
		}
		if sortDepth {
			sortFarToNear(d.quads)
		}
		for _, q := range d.quads {
			if len(d.vertices)+4 > maxQuadVertices {
				d.flush(screen)
			}
			d.appendQuad(q.points, q.color)
		}
		d.flush(screen)
		b.MarkUploaded(cls)
	}
	return d.calls
}

// sortFarToNear orders quads by descending view depth. Equal depths keep
// their emission order.
func sortFarToNear(quads []projectedQuad) {
	slices.SortStableFunc(quads, func(a, b projectedQuad) int {
		return cmp.Compare(b.depth, a.depth)
	})
}

func (d *Drawer) appendQuad(q [4]mgl32.Vec2, c mgl32.Vec4) {
	base := uint16(len(d.vertices))
	for _, p := range q {
		d.vertices = append(d.vertices, ebiten.Vertex{
			DstX:   p.X(),
			DstY:   p.Y(),
			SrcX:   1,
			SrcY:   1,
			ColorR: c.X(),
			ColorG: c.Y(),
			ColorB: c.Z(),
			ColorA: c.W(),
		})
	}
	d.indices = append(d.indices, base, base+1, base+2, base, base+2, base+3)
}

func (d *Drawer) flush(screen *ebiten.Image) {
	if len(d.indices) == 0 {
		return
	}
	screen.DrawTriangles(d.vertices, d.indices, d.white, &d.op)
	d.calls++
	d.vertices = d.vertices[:0]
	d.indices = d.indices[:0]
}

// projectQuad maps an instance's unit footprint to screen pixels. It reports
// false when any corner is behind the camera.
func projectQuad(model, viewProj mgl32.Mat4, w, h float32) ([4]mgl32.Vec2, bool) {
	out, _, ok := projectQuadDepth(model, viewProj, w, h)
	return out, ok
}

// projectQuadDepth is projectQuad plus the mean clip-space w of the corners,
// which is the view distance under a perspective projection.
func projectQuadDepth(model, viewProj mgl32.Mat4, w, h float32) ([4]mgl32.Vec2, float32, bool) {
	var out [4]mgl32.Vec2
	var depth float32
	mvp := viewProj.Mul4(model)
	for i, c := range quadCorners {
		p := mvp.Mul4x1(c)
		if p.W() <= 1e-6 {
			return out, 0, false
		}
		nx, ny := p.X()/p.W(), p.Y()/p.W()
		out[i] = mgl32.Vec2{(nx + 1) * 0.5 * w, (1 - ny) * 0.5 * h}
		depth += p.W()
	}
	return out, depth / 4, true
}

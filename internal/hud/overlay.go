package hud

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/render"
	"github.com/spacehole-rogue/deckview/internal/station"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// Status is everything the panel reports for one frame.
type Status struct {
	Station   string
	Location  string // room name, or "" in a corridor
	Underfoot string // description of the player's cell
	Overlay   world.HazardOverlay
	Stats     render.Stats
	Events    []station.Event
	FPS       float64
}

// EventRows is how many log lines the panel shows.
const EventRows = 4

const eventRow = 7

const helpLine = "WASD move  C camera  wheel zoom  PgUp/PgDn tilt  H overlay  Esc quit"

// Overlay is the status panel. The atlas image is created on first Draw so
// the panel can be composed without a graphics context.
type Overlay struct {
	buf *Buffer
	cam config.CameraConfig

	atlas  *ebiten.Image
	glyphs [256]*ebiten.Image
	pixel  *ebiten.Image
}

// NewOverlay creates a panel cols x rows cells in size.
func NewOverlay(cols, rows int, cam config.CameraConfig) *Overlay {
	return &Overlay{buf: NewBuffer(cols, rows), cam: cam}
}

// Buffer exposes the composed cells.
func (o *Overlay) Buffer() *Buffer { return o.buf }

// Compose rewrites the panel from s.
func (o *Overlay) Compose(s Status) {
	b := o.buf
	b.Clear()
	st := s.Stats

	x := b.WriteString(1, 0, s.Station, colornames.White)
	loc, locClr := "corridor", colornames.Lightgray
	if s.Location != "" {
		loc, locClr = s.Location, colornames.Lightskyblue
	}
	x = b.WriteString(x+2, 0, "[ "+loc+" ]", locClr)
	if s.Underfoot != "" {
		b.WriteString(x+2, 0, s.Underfoot, underfootColor(s.Underfoot))
	}

	b.WriteString(1, 1, fmt.Sprintf("camera %-12s overlay %s", st.Mode, s.Overlay), overlayColor(s.Overlay))

	b.WriteString(1, 2, "zoom", colornames.Lightgray)
	b.Bar(11, 2, 16, span(st.Zoom, o.cam.ZoomMin, o.cam.ZoomMax), colornames.Cyan)
	b.WriteString(28, 2, fmt.Sprintf("%5.1f", st.Zoom), colornames.Lightgray)
	b.WriteString(1, 3, "elevation", colornames.Lightgray)
	b.Bar(11, 3, 16, span(st.Elevation, o.cam.ElevationMin, o.cam.ElevationMax), colornames.Cyan)
	b.WriteString(28, 3, fmt.Sprintf("%5.1f", st.Elevation), colornames.Lightgray)

	b.WriteString(1, 4, fmt.Sprintf("frame %d  draws %d  instances %d", st.Frame, st.DrawCalls, st.Instances), colornames.Darkgray)
	b.WriteString(1, 5, fmt.Sprintf("groups %d/%d  rooms %d  fog %d/%d",
		st.VisibleGroups, st.Groups, st.VisibleRooms, st.FogFull, st.FogMemory), colornames.Darkgray)

	warn := colornames.Darkgray
	if st.Dropped > 0 || st.SkippedFrames > 0 {
		warn = colornames.Orangered
	}
	b.WriteString(1, 6, fmt.Sprintf("dropped %d  skipped %d  decor pending %d",
		st.Dropped, st.SkippedFrames, st.PendingDecor), warn)

	events := s.Events
	if len(events) > EventRows {
		events = events[len(events)-EventRows:]
	}
	for i, ev := range events {
		b.WriteString(1, eventRow+i, ev.Text, eventColor(ev.Priority))
	}

	if s.FPS > 0 {
		b.WriteString(b.Cols-9, 0, fmt.Sprintf("%3.0f fps", s.FPS), colornames.Darkgray)
	}
	b.WriteString(1, b.Rows-1, helpLine, colornames.Dimgray)
}

// span maps v in [lo, hi] to [0, 1].
func span(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// underfootColor flags descriptions that carry a hazard suffix.
func underfootColor(desc string) color.RGBA {
	if strings.HasSuffix(desc, ")") {
		return colornames.Gold
	}
	return colornames.Darkgray
}

func overlayColor(o world.HazardOverlay) color.RGBA {
	switch o {
	case world.OverlayThermal:
		return colornames.Orange
	case world.OverlayAtmospheric:
		return colornames.Lightgreen
	case world.OverlayCleanliness:
		return colornames.Yellowgreen
	default:
		return colornames.Lightgray
	}
}

func eventColor(p station.Priority) color.RGBA {
	switch p {
	case station.PriorityCritical:
		return colornames.Tomato
	case station.PriorityWarning:
		return colornames.Gold
	case station.PriorityDiscovery:
		return colornames.Lightgreen
	default:
		return colornames.Cyan
	}
}

func (o *Overlay) ensureAtlas() {
	if o.atlas != nil {
		return
	}
	o.atlas = ebiten.NewImageFromImage(rasterize())
	for code := range o.glyphs {
		o.glyphs[code] = o.atlas.SubImage(glyphRect(byte(code))).(*ebiten.Image)
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
}

// Draw renders the panel at the top-left of screen over a translucent backing.
func (o *Overlay) Draw(screen *ebiten.Image) {
	o.ensureAtlas()
	b := o.buf

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(b.Cols*GlyphWidth), float64(b.Rows*GlyphHeight))
	op.ColorScale.ScaleWithColor(color.RGBA{0, 0, 0, 160})
	screen.DrawImage(o.pixel, &op)

	for y := 0; y < b.Rows; y++ {
		for x := 0; x < b.Cols; x++ {
			c := b.Cells[y*b.Cols+x]
			if c.Glyph == ' ' || c.Glyph == 0 {
				continue
			}
			op = ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*GlyphWidth), float64(y*GlyphHeight))
			op.ColorScale.ScaleWithColor(c.FG)
			screen.DrawImage(o.glyphs[c.Glyph], &op)
		}
	}
}

// Bounds is the screen rectangle the panel covers.
func (o *Overlay) Bounds() image.Rectangle {
	return image.Rect(0, 0, o.buf.Cols*GlyphWidth, o.buf.Rows*GlyphHeight)
}

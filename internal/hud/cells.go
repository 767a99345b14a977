// Package hud draws the text status panel over the 3D view: a small cell
// buffer of glyphs rasterised from basicfont into one atlas image.
package hud

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"
)

// Cell is a single character cell of the panel.
type Cell struct {
	Glyph byte
	FG    color.RGBA
}

var blank = Cell{Glyph: ' ', FG: colornames.White}

// Buffer is a Cols x Rows grid of cells.
type Buffer struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// NewBuffer creates a buffer filled with blank cells.
func NewBuffer(cols, rows int) *Buffer {
	b := &Buffer{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	b.Clear()
	return b
}

// Set writes a single cell at (x, y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, glyph byte, fg color.RGBA) {
	if x >= 0 && x < b.Cols && y >= 0 && y < b.Rows {
		b.Cells[y*b.Cols+x] = Cell{Glyph: glyph, FG: fg}
	}
}

// Get reads a single cell at (x, y). Out-of-bounds reads return a blank cell.
func (b *Buffer) Get(x, y int) Cell {
	if x >= 0 && x < b.Cols && y >= 0 && y < b.Rows {
		return b.Cells[y*b.Cols+x]
	}
	return blank
}

// Clear resets all cells to blank.
func (b *Buffer) Clear() {
	for i := range b.Cells {
		b.Cells[i] = blank
	}
}

// WriteString writes s starting at (x, y) and returns the column after the
// last character. Runes outside the atlas render as '?'.
func (b *Buffer) WriteString(x, y int, s string, fg color.RGBA) int {
	for _, ch := range s {
		if ch > 255 {
			ch = '?'
		}
		b.Set(x, y, byte(ch), fg)
		x++
	}
	return x
}

// Bar draws a width-cell gauge filled to frac (clamped to [0, 1]).
func (b *Buffer) Bar(x, y, width int, frac float64, fg color.RGBA) {
	frac = math.Max(0, math.Min(1, frac))
	filled := int(math.Round(frac * float64(width)))
	for i := 0; i < width; i++ {
		if i < filled {
			b.Set(x+i, y, GlyphFull, fg)
		} else {
			b.Set(x+i, y, GlyphShade, colornames.Dimgray)
		}
	}
}

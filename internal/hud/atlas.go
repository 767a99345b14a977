package hud

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	GlyphWidth  = 8
	GlyphHeight = 14
	atlasCols   = 16
	atlasRows   = 16
)

// Block glyphs outside the printable ASCII range.
const (
	GlyphShade byte = 176 // light shade
	GlyphFull  byte = 219 // full block
)

// rasterize builds the glyph atlas: printable ASCII from basicfont.Face7x13,
// plus the two block glyphs the gauges use. Everything is white so the draw
// pass can tint per cell.
func rasterize() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, atlasCols*GlyphWidth, atlasRows*GlyphHeight))
	face := basicfont.Face7x13

	for code := 32; code <= 126; code++ {
		drawFontGlyph(img, face, glyphRect(byte(code)).Min, rune(code))
	}
	fillGlyph(img, glyphRect(GlyphFull), func(x, y int) bool { return true })
	fillGlyph(img, glyphRect(GlyphShade), func(x, y int) bool { return (x+y)%3 == 0 })
	return img
}

// glyphRect is the atlas rectangle of code.
func glyphRect(code byte) image.Rectangle {
	x := int(code) % atlasCols * GlyphWidth
	y := int(code) / atlasCols * GlyphHeight
	return image.Rect(x, y, x+GlyphWidth, y+GlyphHeight)
}

// drawFontGlyph renders one character with its baseline one pixel above the
// bottom of the cell.
func drawFontGlyph(img *image.NRGBA, face font.Face, at image.Point, r rune) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(at.X, at.Y+GlyphHeight-3),
	}
	d.DrawString(string(r))
}

func fillGlyph(img *image.NRGBA, r image.Rectangle, on func(x, y int) bool) {
	w := color.NRGBA{255, 255, 255, 255}
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			if on(x, y) {
				img.SetNRGBA(r.Min.X+x, r.Min.Y+y, w)
			}
		}
	}
}

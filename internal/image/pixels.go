package image

import (
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/jmylchreest/fishtone/internal/colour"
)

// PixelGrid is a colour.PixelGrid backed by an RGBA copy of a decoded image.
// Coordinates are relative to the image's top-left corner.
type PixelGrid struct {
	img *image.RGBA
}

// NewPixelGrid copies img into an RGBA buffer.
func NewPixelGrid(img image.Image) *PixelGrid {
	return &PixelGrid{img: clone.AsRGBA(img)}
}

// Width returns the image width.
func (g *PixelGrid) Width() int { return g.img.Rect.Dx() }

// Height returns the image height.
func (g *PixelGrid) Height() int { return g.img.Rect.Dy() }

// RGBAt returns the straight (non-premultiplied) colour at (x, y).
// Alpha is dropped.
func (g *PixelGrid) RGBAt(x, y int) colour.RGB {
	i := g.img.PixOffset(g.img.Rect.Min.X+x, g.img.Rect.Min.Y+y)
	px := g.img.Pix[i : i+4 : i+4]
	r, gr, b, a := px[0], px[1], px[2], px[3]
	if a == 0 || a == 0xff {
		return colour.RGB{R: r, G: gr, B: b}
	}
	return colour.RGB{R: unpremultiply(r, a), G: unpremultiply(gr, a), B: unpremultiply(b, a)}
}

func unpremultiply(v, a uint8) uint8 {
	return uint8(min(255, (uint32(v)*255+uint32(a)/2)/uint32(a)))
}

// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBA implements color.Color. The colour is always fully opaque.
func (rgb RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}.RGBA()
}

// Centroid is the running mean colour of one cluster. Channels are real
// valued and are not necessarily integral.
type Centroid struct {
	R, G, B float64
}

// CentroidOf returns the centroid located exactly at a pixel.
func CentroidOf(p RGB) Centroid {
	return Centroid{R: float64(p.R), G: float64(p.G), B: float64(p.B)}
}

// distanceSq returns the squared Euclidean distance to a pixel in RGB space.
func (c Centroid) distanceSq(p RGB) float64 {
	dr := c.R - float64(p.R)
	dg := c.G - float64(p.G)
	db := c.B - float64(p.B)
	return dr*dr + dg*dg + db*db
}

// IsNaN reports whether any channel is NaN.
func (c Centroid) IsNaN() bool {
	return math.IsNaN(c.R) || math.IsNaN(c.G) || math.IsNaN(c.B)
}

// Round rounds every channel to the nearest integer and clamps it to [0, 255].
func (c Centroid) Round() RGB {
	return RGB{R: roundChannel(c.R), G: roundChannel(c.G), B: roundChannel(c.B)}
}

func roundChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// Palette is an ordered list of representative colours. Index 0 is the most
// significant entry.
type Palette struct {
	Colors []RGB
	// Scores holds the ranking score of each colour, parallel to Colors.
	// It is nil for palettes that were not produced by Select.
	Scores []float64
}

// NewPalette creates a Palette. Scores may be nil or parallel to colors.
func NewPalette(colors []RGB, scores []float64) *Palette {
	return &Palette{
		Colors: colors,
		Scores: scores,
	}
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Colors)
}

// Usable reports whether the palette holds at least minColors colours.
func (p *Palette) Usable(minColors int) bool {
	return p.Len() >= minColors
}

// ToHex converts the palette colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColors := make([]string, p.Len())
	for i, c := range p.All() {
		hexColors[i] = c.Hex()
	}
	return hexColors
}

// HSV is a colour in hue/saturation/value form. H is in degrees [0, 360),
// S and V are in [0, 1].
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// ColorJSON represents a colour in JSON output format.
type ColorJSON struct {
	Hex   string   `json:"hex"`
	RGB   RGB      `json:"rgb"`
	HSV   HSV      `json:"hsv"`
	Score *float64 `json:"score,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int         `json:"count"`
	Usable bool        `json:"usable"`
	Colors []ColorJSON `json:"colors"`
}

// JSON builds the JSON representation of the palette.
func (p *Palette) JSON(minUsable int) PaletteJSON {
	if p == nil {
		p = &Palette{}
	}
	colors := make([]ColorJSON, p.Len())
	for i, c := range p.Colors {
		h, s, v := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}.Hsv()
		colors[i] = ColorJSON{
			Hex: c.Hex(),
			RGB: c,
			HSV: HSV{H: round3(h), S: round3(s), V: round3(v)},
		}
		if i < len(p.Scores) {
			score := round3(p.Scores[i])
			colors[i].Score = &score
		}
	}

	return PaletteJSON{
		Count:  p.Len(),
		Usable: p.Usable(minUsable),
		Colors: colors,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// All returns an iterator over all colours in the palette.
func (p *Palette) All() func(func(int, RGB) bool) {
	return func(yield func(int, RGB) bool) {
		if p == nil {
			return
		}
		for i, c := range p.Colors {
			if !yield(i, c) {
				return
			}
		}
	}
}

package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/jmylchreest/fishtone/internal/colour"
)

func TestPixelGrid(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}

	grid := NewPixelGrid(img)
	if grid.Width() != 4 || grid.Height() != 3 {
		t.Fatalf("grid is %dx%d, want 4x3", grid.Width(), grid.Height())
	}
	if got := grid.RGBAt(3, 2); got != (colour.RGB{R: 30, G: 20, B: 7}) {
		t.Errorf("RGBAt(3, 2) = %+v", got)
	}
}

func TestPixelGridSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 6, color.RGBA{R: 255, A: 255})
	sub := img.SubImage(image.Rect(5, 6, 8, 9))

	grid := NewPixelGrid(sub)
	if grid.Width() != 3 || grid.Height() != 3 {
		t.Fatalf("grid is %dx%d, want 3x3", grid.Width(), grid.Height())
	}
	if got := grid.RGBAt(0, 0); got != (colour.RGB{R: 255}) {
		t.Errorf("RGBAt(0, 0) = %+v, want red", got)
	}
}

func TestPixelGridIgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	got := NewPixelGrid(img).RGBAt(0, 0)
	want := colour.RGB{R: 200, G: 100, B: 50}
	if diff(got.R, want.R) > 2 || diff(got.G, want.G) > 2 || diff(got.B, want.B) > 2 {
		t.Errorf("RGBAt = %+v, want ~%+v", got, want)
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestPixelGridFeedsExtractor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	e, err := colour.NewExtractor(colour.DefaultConfig())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	result, err := e.Extract(NewPixelGrid(img))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.Sampled != 16 || !result.Usable() {
		t.Errorf("sampled=%d usable=%v", result.Sampled, result.Usable())
	}
}

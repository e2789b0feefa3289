package colour

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		centroid Centroid
		want     float64
	}{
		{name: "black", centroid: Centroid{}, want: 0},
		{name: "white", centroid: Centroid{R: 255, G: 255, B: 255}, want: 1},
		{name: "mid grey", centroid: Centroid{R: 128, G: 128, B: 128}, want: 128.0 / 255},
		{name: "pure red", centroid: Centroid{R: 255}, want: 2},
		{name: "muted red", centroid: Centroid{R: 128, G: 64, B: 64}, want: 128.0/255 + 0.5},
		{name: "fractional", centroid: Centroid{R: 51, G: 25.5, B: 0}, want: 0.2 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.centroid); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%+v) = %v, want %v", tt.centroid, got, tt.want)
			}
		})
	}
}

func TestScoreOrdering(t *testing.T) {
	white := Score(Centroid{R: 255, G: 255, B: 255})
	grey := Score(Centroid{R: 128, G: 128, B: 128})
	if white <= grey {
		t.Errorf("white (%v) should score higher than grey (%v)", white, grey)
	}

	red := Score(Centroid{R: 255})
	mutedRed := Score(Centroid{R: 128, G: 64, B: 64})
	if red <= mutedRed {
		t.Errorf("pure red (%v) should score higher than muted red (%v)", red, mutedRed)
	}
}

func TestSelectRanksByScore(t *testing.T) {
	centroids := []Centroid{
		{R: 128, G: 128, B: 128},
		{R: 255},
		{R: 255, G: 255, B: 255},
		{R: 128, G: 64, B: 64},
	}

	palette := Select(centroids, DefaultPaletteSize)
	want := []RGB{{R: 255}, {R: 128, G: 64, B: 64}, {R: 255, G: 255, B: 255}}

	if palette.Len() != len(want) {
		t.Fatalf("palette has %d colours, want %d", palette.Len(), len(want))
	}
	for i, c := range want {
		if palette.Colors[i] != c {
			t.Errorf("palette[%d] = %+v, want %+v", i, palette.Colors[i], c)
		}
	}
	for i := 1; i < len(palette.Scores); i++ {
		if palette.Scores[i] > palette.Scores[i-1] {
			t.Errorf("scores not descending at %d: %v", i, palette.Scores)
		}
	}
}

func TestSelectKeepsInputOrderOnTies(t *testing.T) {
	// All three have score 2.
	centroids := []Centroid{{G: 255}, {R: 255}, {B: 255}}

	palette := Select(centroids, DefaultPaletteSize)
	for i, c := range centroids {
		if palette.Colors[i] != c.Round() {
			t.Errorf("palette[%d] = %+v, want %+v", i, palette.Colors[i], c.Round())
		}
	}
}

func TestSelectDropsNaN(t *testing.T) {
	nan := math.NaN()
	centroids := []Centroid{
		{R: nan, G: 10, B: 10},
		{R: 200, G: 100, B: 50},
		{R: 10, G: nan, B: 10},
		{R: 10, G: 10, B: nan},
	}

	palette := Select(centroids, DefaultPaletteSize)
	if palette.Len() != 1 {
		t.Fatalf("palette has %d colours, want 1", palette.Len())
	}
	if palette.Colors[0] != (RGB{R: 200, G: 100, B: 50}) {
		t.Errorf("palette[0] = %+v", palette.Colors[0])
	}
	if palette.Usable(DefaultPaletteSize) {
		t.Error("palette with one colour should not be usable")
	}
}

func TestSelectEmpty(t *testing.T) {
	palette := Select(nil, DefaultPaletteSize)
	if palette == nil {
		t.Fatal("Select(nil) returned nil palette")
	}
	if palette.Len() != 0 {
		t.Errorf("Select(nil) has %d colours, want 0", palette.Len())
	}
}

func TestSelectRoundsAndClamps(t *testing.T) {
	centroids := []Centroid{{R: 254.6, G: 0.4, B: 127.5}}

	palette := Select(centroids, DefaultPaletteSize)
	want := RGB{R: 255, G: 0, B: 128}
	if palette.Colors[0] != want {
		t.Errorf("rounded colour = %+v, want %+v", palette.Colors[0], want)
	}

	if got := (Centroid{R: 300, G: -4, B: 12}).Round(); got != (RGB{R: 255, G: 0, B: 12}) {
		t.Errorf("Round clamps to %+v", got)
	}
}

func TestRoundIsStableOnIntegers(t *testing.T) {
	for _, c := range []RGB{{}, {R: 255, G: 255, B: 255}, {R: 17, G: 128, B: 254}} {
		once := CentroidOf(c).Round()
		twice := CentroidOf(once).Round()
		if once != c || twice != c {
			t.Errorf("rounding %+v gave %+v then %+v", c, once, twice)
		}
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	centroids := []Centroid{
		{R: 12.5, G: 200, B: 33}, {R: 90, G: 90, B: 91}, {R: 250, G: 250, B: 10},
		{R: 0, G: 0, B: 0}, {R: 60, G: 120, B: 180},
	}

	first := Select(centroids, DefaultPaletteSize)
	for range 10 {
		again := Select(centroids, DefaultPaletteSize)
		for i := range first.Colors {
			if again.Colors[i] != first.Colors[i] || again.Scores[i] != first.Scores[i] {
				t.Fatalf("Select not deterministic at %d: %+v vs %+v", i, again.Colors[i], first.Colors[i])
			}
		}
	}
}

func TestSelectTruncates(t *testing.T) {
	centroids := make([]Centroid, 12)
	for i := range centroids {
		centroids[i] = Centroid{R: float64(i * 20)}
	}

	if got := Select(centroids, 3).Len(); got != 3 {
		t.Errorf("Select(12, 3) has %d colours, want 3", got)
	}
	if got := Select(centroids, 0).Len(); got != 0 {
		t.Errorf("Select(12, 0) has %d colours, want 0", got)
	}
}

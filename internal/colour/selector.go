package colour

import "slices"

// DefaultPaletteSize is the default number of colours kept by Select.
const DefaultPaletteSize = 3

// Score ranks a centroid by brightness plus vividness: max/255 plus
// (max-min)/max, where max and min are taken over the three channels and the
// second term is 0 for black. Hue plays no part. The result is in [0, 2].
func Score(c Centroid) float64 {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)

	saturation := 0.0
	if hi != 0 {
		saturation = (hi - lo) / hi
	}
	return hi/255 + saturation
}

type scored struct {
	centroid Centroid
	score    float64
}

// Select reduces centroids to a palette of at most size colours: centroids
// with a NaN channel are dropped, the rest are ranked by Score (highest
// first, ties keep their input order) and rounded to integer channels.
// It never pads a short result.
func Select(centroids []Centroid, size int) *Palette {
	candidates := make([]scored, 0, len(centroids))
	for _, c := range centroids {
		if c.IsNaN() {
			continue
		}
		candidates = append(candidates, scored{centroid: c, score: Score(c)})
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	n := min(max(size, 0), len(candidates))
	colors := make([]RGB, n)
	scores := make([]float64, n)
	for i, c := range candidates[:n] {
		colors[i] = c.centroid.Round()
		scores[i] = c.score
	}
	return NewPalette(colors, scores)
}

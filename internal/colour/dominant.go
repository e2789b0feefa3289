package colour

import (
	"image"
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"
)

// Dominant clusters pixels with the dominantcolor package. Results are
// ordered by cluster weight, heaviest first, and may hold fewer than k
// centroids. The package runs its own iteration, so Config.Rounds and
// Config.Seed do not apply.
type Dominant struct{}

// Cluster implements Clusterer.
func (Dominant) Cluster(pixels []RGB, k int) []Centroid {
	if len(pixels) == 0 || k <= 0 {
		return []Centroid{}
	}

	found := dominantcolor.FindWeight(packPixels(pixels), k)
	centroids := make([]Centroid, 0, len(found))
	for _, c := range found {
		centroids = append(centroids, Centroid{
			R: float64(c.RGBA.R),
			G: float64(c.RGBA.G),
			B: float64(c.RGBA.B),
		})
		if len(centroids) == k {
			break
		}
	}
	return centroids
}

// packPixels lays the samples out row by row in a near-square image, so
// stride sampling applies to this backend too. Cells past the last sample
// stay transparent, which dominantcolor skips.
func packPixels(pixels []RGB) *image.RGBA {
	side := int(math.Ceil(math.Sqrt(float64(len(pixels)))))
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for i, p := range pixels {
		img.SetRGBA(i%side, i/side, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
	}
	return img
}

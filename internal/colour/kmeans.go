package colour

import (
	"math"
	"math/rand"
	"time"
)

const (
	// DefaultClusters is the default number of k-means centroids.
	DefaultClusters = 12

	// DefaultRounds is the default number of k-means rounds.
	DefaultRounds = 100
)

// Rand is the source of randomness used to seed the initial centroids.
// *rand.Rand satisfies it.
type Rand interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// Clusterer reduces a set of pixels to at most k representative centroids.
type Clusterer interface {
	Cluster(pixels []RGB, k int) []Centroid
}

// KMeans clusters pixels with Lloyd's algorithm run for a fixed number of
// rounds. It never checks for convergence, so worst-case cost is
// Rounds * len(pixels) * k distance evaluations.
type KMeans struct {
	// Rounds is the number of assignment/update rounds. Zero returns the
	// initial centroids unchanged.
	Rounds int

	// Rand picks the initial centroids. A clock-seeded source is used when nil.
	Rand Rand
}

// NewKMeans creates a KMeans clusterer with default rounds.
func NewKMeans(rng Rand) *KMeans {
	return &KMeans{Rounds: DefaultRounds, Rand: rng}
}

// Cluster returns min(k, len(pixels)) centroids. An empty pixel set yields no
// centroids.
func (km *KMeans) Cluster(pixels []RGB, k int) []Centroid {
	if len(pixels) == 0 || k <= 0 {
		return []Centroid{}
	}

	rng := km.Rand
	if rng == nil {
		// #nosec G404 -- centroid seeding is not security sensitive
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	centroids := initialCentroids(pixels, k, rng)
	assignments := make([]int, len(pixels))

	for range km.Rounds {
		assign(pixels, centroids, assignments)
		centroids = update(pixels, assignments, centroids)
	}

	return centroids
}

// initialCentroids picks min(k, len(pixels)) distinct pixel indices uniformly
// at random without replacement using a partial Fisher-Yates shuffle.
func initialCentroids(pixels []RGB, k int, rng Rand) []Centroid {
	k = min(k, len(pixels))

	indices := make([]int, len(pixels))
	for i := range indices {
		indices[i] = i
	}

	centroids := make([]Centroid, k)
	for i := range k {
		j := i + rng.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
		centroids[i] = CentroidOf(pixels[indices[i]])
	}
	return centroids
}

// assign stores the index of the nearest centroid for every pixel.
func assign(pixels []RGB, centroids []Centroid, assignments []int) {
	for i, p := range pixels {
		assignments[i] = nearestCentroid(p, centroids)
	}
}

// nearestCentroid returns the index of the closest centroid. Ties resolve to
// the lowest index.
func nearestCentroid(p RGB, centroids []Centroid) int {
	minDist := math.Inf(1)
	nearest := 0

	for i, c := range centroids {
		if dist := c.distanceSq(p); dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// update computes the next round's centroids from the current assignments.
// A centroid without members keeps its previous value.
func update(pixels []RGB, assignments []int, prev []Centroid) []Centroid {
	sums := make([]Centroid, len(prev))
	counts := make([]int, len(prev))

	for i, p := range pixels {
		cluster := assignments[i]
		sums[cluster].R += float64(p.R)
		sums[cluster].G += float64(p.G)
		sums[cluster].B += float64(p.B)
		counts[cluster]++
	}

	next := make([]Centroid, len(prev))
	for i := range next {
		if counts[i] == 0 {
			next[i] = prev[i]
			continue
		}
		n := float64(counts[i])
		next[i] = Centroid{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
	}

	return next
}

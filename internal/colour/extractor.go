// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrInsufficientPalette is reported when fewer colours than Config.MinUsable
// survive selection. It is a user-facing condition, not a crash.
var ErrInsufficientPalette = errors.New("insufficient palette: not enough distinct colours in image")

// Algorithm represents the clustering algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans uses fixed-round k-means clustering.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmDominant uses the dominantcolor package.
	AlgorithmDominant Algorithm = "dominant"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmKMeans, AlgorithmDominant}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// Config holds the tunables of the extraction pipeline.
type Config struct {
	// Stride is the sampling step along each axis.
	Stride int
	// Clusters is the number of centroids (K).
	Clusters int
	// Rounds is the fixed number of k-means rounds.
	Rounds int
	// PaletteSize is the maximum number of colours returned.
	PaletteSize int
	// MinUsable is the smallest palette the caller can use.
	MinUsable int
	// Algorithm selects the clusterer.
	Algorithm Algorithm
	// Seed makes centroid initialisation reproducible. Nil means every
	// extraction is seeded from the clock.
	Seed *int64
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Stride:      DefaultStride,
		Clusters:    DefaultClusters,
		Rounds:      DefaultRounds,
		PaletteSize: DefaultPaletteSize,
		MinUsable:   DefaultPaletteSize,
		Algorithm:   AlgorithmKMeans,
	}
}

// Validate validates the extractor configuration.
func (c Config) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.Stride < 1 {
		return fmt.Errorf("stride must be at least 1, got %d", c.Stride)
	}
	if c.Clusters < 1 || c.Clusters > 256 {
		return fmt.Errorf("clusters must be between 1 and 256, got %d", c.Clusters)
	}
	if c.Rounds < 0 {
		return fmt.Errorf("rounds cannot be negative, got %d", c.Rounds)
	}
	if c.PaletteSize < 1 {
		return fmt.Errorf("palette size must be at least 1, got %d", c.PaletteSize)
	}
	if c.MinUsable < 0 || c.MinUsable > c.PaletteSize {
		return fmt.Errorf("minimum usable palette must be between 0 and palette size %d, got %d", c.PaletteSize, c.MinUsable)
	}
	return nil
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRand uses rng for every extraction instead of a per-call source.
// An Extractor built this way is only safe for concurrent use if rng is.
func WithRand(rng Rand) Option {
	return func(e *Extractor) {
		e.rng = rng
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClusterer replaces the clusterer chosen by Config.Algorithm.
func WithClusterer(c Clusterer) Option {
	return func(e *Extractor) {
		e.clusterer = c
	}
}

// Extractor runs the sample, cluster and select pipeline.
type Extractor struct {
	config    Config
	rng       Rand
	logger    hclog.Logger
	clusterer Clusterer
}

// NewExtractor creates an Extractor for a validated configuration.
func NewExtractor(config Config, opts ...Option) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Extractor{
		config: config,
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the extractor configuration.
func (e *Extractor) Config() Config {
	return e.config
}

// Result is the outcome of one extraction.
type Result struct {
	// Palette holds between 0 and Config.PaletteSize colours.
	Palette *Palette
	// Sampled is the number of pixels fed to the clusterer.
	Sampled int
	// Centroids are the clusterer output before selection.
	Centroids []Centroid

	minUsable int
}

// Usable reports whether the palette is large enough for the caller.
func (r *Result) Usable() bool {
	return r.Palette.Usable(r.minUsable)
}

// Err returns ErrInsufficientPalette when the palette is not usable.
func (r *Result) Err() error {
	if r.Usable() {
		return nil
	}
	return fmt.Errorf("%w (got %d, need %d)", ErrInsufficientPalette, r.Palette.Len(), r.minUsable)
}

// Extract runs the pipeline over grid. A short or empty palette is not an
// error; inspect Result.Usable.
func (e *Extractor) Extract(grid PixelGrid) (*Result, error) {
	if grid == nil {
		return nil, fmt.Errorf("pixel grid cannot be nil")
	}

	pixels := Sample(grid, e.config.Stride)
	e.logger.Debug("sampled pixels",
		"width", grid.Width(), "height", grid.Height(),
		"stride", e.config.Stride, "samples", len(pixels))

	centroids := e.newClusterer().Cluster(pixels, e.config.Clusters)
	if len(centroids) < e.config.Clusters {
		e.logger.Debug("fewer centroids than requested",
			"requested", e.config.Clusters, "got", len(centroids))
	}

	palette := Select(centroids, e.config.PaletteSize)
	result := &Result{
		Palette:   palette,
		Sampled:   len(pixels),
		Centroids: centroids,
		minUsable: e.config.MinUsable,
	}

	e.logger.Debug("selected palette",
		"algorithm", e.config.Algorithm, "colours", palette.ToHex(), "usable", result.Usable())
	return result, nil
}

// newClusterer returns the clusterer for a single extraction.
func (e *Extractor) newClusterer() Clusterer {
	if e.clusterer != nil {
		return e.clusterer
	}

	switch e.config.Algorithm {
	case AlgorithmDominant:
		return Dominant{}
	default:
		km := NewKMeans(e.newRand())
		km.Rounds = e.config.Rounds
		return km
	}
}

// newRand returns the random source for a single extraction.
func (e *Extractor) newRand() Rand {
	if e.rng != nil {
		return e.rng
	}
	seed := time.Now().UnixNano()
	if e.config.Seed != nil {
		seed = *e.config.Seed
	}
	// #nosec G404 -- centroid seeding is not security sensitive
	return rand.New(rand.NewSource(seed))
}

// JSON builds the JSON representation of the palette, marking it usable
// against the configured minimum.
func (r *Result) JSON() PaletteJSON {
	return r.Palette.JSON(r.minUsable)
}

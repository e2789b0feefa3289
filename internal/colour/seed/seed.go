// Package seed derives seeds for k-means centroid initialisation.
//
// Extraction is non-deterministic by default. The other modes trade that for
// reproducible palettes, keyed on image content, file path or an explicit value.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strings"
)

// Mode determines how the random seed for k-means clustering is generated.
type Mode string

const (
	// ModeRandom uses a fresh seed for every extraction (default).
	ModeRandom Mode = "random"
	// ModeContent generates seed from an image content hash.
	ModeContent Mode = "content"
	// ModeFilepath generates seed from the absolute file path hash.
	ModeFilepath Mode = "filepath"
	// ModeManual uses a user-provided seed value.
	ModeManual Mode = "manual"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode   // Seed mode
	Value *int64 // Seed value (only used when Mode is ModeManual)
}

// Calculate determines the seed value for one of the deterministic modes.
// ModeRandom has no fixed seed and is rejected; use Resolve instead.
func Calculate(img image.Image, imagePath string, config Config) (int64, error) {
	switch config.Mode {
	case ModeContent:
		if img == nil {
			return 0, fmt.Errorf("image is required for content-based seed mode")
		}
		return CalculateContentSeed(img)
	case ModeFilepath:
		if imagePath == "" {
			return 0, fmt.Errorf("image path is required for filepath-based seed mode")
		}
		return CalculateFilepathSeed(imagePath)
	case ModeManual:
		if config.Value == nil {
			return 0, fmt.Errorf("seed value is required for manual seed mode")
		}
		return *config.Value, nil
	case ModeRandom:
		return 0, fmt.Errorf("random seed mode has no fixed seed")
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// Resolve returns the seed to store in colour.Config.Seed: nil for
// ModeRandom, otherwise the value computed by Calculate.
func Resolve(img image.Image, imagePath string, config Config) (*int64, error) {
	if config.Mode == ModeRandom || config.Mode == "" {
		return nil, nil
	}
	s, err := Calculate(img, imagePath, config)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CalculateContentSeed generates a deterministic seed from image content.
// Identical pixels give identical seeds regardless of filename or location.
func CalculateContentSeed(img image.Image) (int64, error) {
	if img == nil {
		return 0, fmt.Errorf("image cannot be nil")
	}

	bounds := img.Bounds()
	hasher := sha256.New()

	dimBytes := make([]byte, 8)
	binary.LittleEndian.PutUint32(dimBytes[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions are safe to convert
	binary.LittleEndian.PutUint32(dimBytes[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions are safe to convert
	hasher.Write(dimBytes)

	// A ~100x100 grid is enough to tell images apart.
	step := max(bounds.Dx()/100, bounds.Dy()/100, 1)
	pixelBytes := make([]byte, 4)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			pixelBytes[0] = byte(r >> 8)
			pixelBytes[1] = byte(g >> 8)
			pixelBytes[2] = byte(b >> 8)
			pixelBytes[3] = byte(a >> 8)
			hasher.Write(pixelBytes)
		}
	}

	hash := hasher.Sum(nil)
	return int64(binary.LittleEndian.Uint64(hash[:8])), nil // #nosec G115 -- hash conversion is safe
}

// CalculateFilepathSeed generates a deterministic seed from the absolute file
// path. URLs are hashed as given.
func CalculateFilepathSeed(imagePath string) (int64, error) {
	if imagePath == "" {
		return 0, fmt.Errorf("image path cannot be empty")
	}

	key := imagePath
	if !isURL(imagePath) {
		if abs, err := filepath.Abs(imagePath); err == nil {
			key = abs
		}
	}

	hash := sha256.Sum256([]byte(key))
	return int64(binary.LittleEndian.Uint64(hash[:8])), nil // #nosec G115 -- hash conversion is safe
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeRandom, ModeContent, ModeFilepath, ModeManual}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: random, content, filepath, manual)", s)
}

// Package image provides utilities for loading and processing images.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/fishtone/internal/security"
	httputil "github.com/jmylchreest/fishtone/internal/util/http"
	"github.com/jmylchreest/fishtone/internal/util/imagecache"
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path, applying any EXIF orientation.
// Supported formats: JPEG, PNG, GIF, WebP.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return decode(file)
}

// decode decodes any registered format and rotates JPEGs according to their
// EXIF orientation tag.
func decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidateImagePath checks if the given path is valid and points to a
// supported image file or a directory. HTTP(S) URLs are only checked for
// their scheme; fetching happens in Load.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	if IsURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file or directory not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}

	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}

	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ScanDirectoryForImages scans a directory and returns all valid image files
// in lexical order. It does not recurse into subdirectories, but follows
// symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}

		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}

	return imageFiles, nil
}

// ExpandPaths replaces every directory in paths with the images it contains.
// Files and URLs are kept as given.
func ExpandPaths(paths []string) ([]string, error) {
	var expanded []string
	for _, path := range paths {
		if err := ValidateImagePath(path); err != nil {
			return nil, err
		}
		if IsURL(path) {
			expanded = append(expanded, path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path: %w", err)
		}
		if !info.IsDir() {
			expanded = append(expanded, path)
			continue
		}

		images, err := ScanDirectoryForImages(path)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, images...)
	}
	return expanded, nil
}

// SmartLoaderOptions configures a SmartLoader.
type SmartLoaderOptions struct {
	// Cache stores remote images on disk and reuses them.
	Cache bool
	// CacheDir overrides the default cache directory.
	CacheDir string
	// Fetch configures HTTP downloads.
	Fetch httputil.FetchOptions
	// ValidateURL vets remote URLs before fetching and every redirect
	// target. Defaults to security.ValidateHTTPURL.
	ValidateURL func(string) error
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader *FileLoader
	opts       SmartLoaderOptions
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader(opts SmartLoaderOptions) *SmartLoader {
	if opts.ValidateURL == nil {
		opts.ValidateURL = security.ValidateHTTPURL
	}
	if opts.Fetch.ValidateURL == nil {
		opts.Fetch.ValidateURL = opts.ValidateURL
	}
	return &SmartLoader{
		fileLoader: NewFileLoader(),
		opts:       opts,
	}
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if IsURL(path) {
		return l.loadFromURL(ctx, path)
	}
	return l.fileLoader.Load(ctx, path)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := l.opts.ValidateURL(url); err != nil {
		return nil, fmt.Errorf("refusing to fetch image: %w", err)
	}

	if l.opts.Cache {
		cached, err := imagecache.DownloadAndCache(ctx, url, imagecache.CacheOptions{
			CacheDir: l.opts.CacheDir,
			Fetch:    l.opts.Fetch,
		})
		if err != nil {
			return nil, err
		}
		return l.fileLoader.Load(ctx, cached)
	}

	data, err := httputil.Fetch(ctx, url, l.opts.Fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	return decode(bytes.NewReader(data))
}

package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// writePNG writes a solid-colour PNG and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return path
}

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func TestFileLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", 12, 7, color.RGBA{R: 255, A: 255})

	img, err := NewFileLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Errorf("bounds = %v, want 12x7", b)
	}
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "missing file", path: filepath.Join(dir, "missing.png")},
		{name: "directory", path: dir},
		{name: "undecodable", path: junk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFileLoader().Load(context.Background(), tt.path); err == nil {
				t.Errorf("Load(%q) should fail", tt.path)
			}
		})
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "ok.png", 2, 2, color.White)
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "image", path: good},
		{name: "directory", path: dir},
		{name: "url", path: "https://example.com/fish.png"},
		{name: "empty", path: "", wantErr: true},
		{name: "missing", path: filepath.Join(dir, "missing.png"), wantErr: true},
		{name: "invalid image", path: bad, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestScanDirectoryForImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "b.png", 1, 1, color.White)
	writePNG(t, dir, "a.PNG", 1, 1, color.White)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("diary"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ScanDirectoryForImages(dir)
	if err != nil {
		t.Fatalf("ScanDirectoryForImages: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != "a.PNG" || filepath.Base(got[1]) != "b.png" {
		t.Errorf("ScanDirectoryForImages = %v", got)
	}

	if _, err := ScanDirectoryForImages(t.TempDir()); err == nil {
		t.Error("empty directory should fail")
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "album")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	single := writePNG(t, dir, "single.png", 1, 1, color.White)
	writePNG(t, sub, "one.png", 1, 1, color.White)
	writePNG(t, sub, "two.png", 1, 1, color.White)

	got, err := ExpandPaths([]string{single, sub, "https://example.com/x.png"})
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("ExpandPaths returned %d paths: %v", len(got), got)
	}
	if got[0] != single || got[3] != "https://example.com/x.png" {
		t.Errorf("unexpected order: %v", got)
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing.png")}); err == nil {
		t.Error("missing path should fail")
	}
}

func TestSmartLoaderURL(t *testing.T) {
	body := encodePNG(t, 5, 3, color.RGBA{B: 255, A: 255})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	allowAll := func(string) error { return nil }

	t.Run("direct", func(t *testing.T) {
		loader := NewSmartLoader(SmartLoaderOptions{ValidateURL: allowAll})
		img, err := loader.Load(context.Background(), srv.URL+"/fish.png")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
			t.Errorf("bounds = %v", b)
		}
	})

	t.Run("cached", func(t *testing.T) {
		hits.Store(0)
		loader := NewSmartLoader(SmartLoaderOptions{ValidateURL: allowAll, Cache: true, CacheDir: t.TempDir()})
		for range 2 {
			if _, err := loader.Load(context.Background(), srv.URL+"/cached.png"); err != nil {
				t.Fatalf("Load: %v", err)
			}
		}
		if hits.Load() != 1 {
			t.Errorf("server hit %d times, want 1", hits.Load())
		}
	})

	t.Run("default validator rejects plain http", func(t *testing.T) {
		loader := NewSmartLoader(SmartLoaderOptions{})
		if _, err := loader.Load(context.Background(), srv.URL+"/fish.png"); err == nil {
			t.Error("expected plain-HTTP local URL to be rejected")
		}
	})
}

func TestSmartLoaderRedirectValidation(t *testing.T) {
	body := encodePNG(t, 2, 2, color.White)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/hop.png" {
			http.Redirect(w, r, "/private.png", http.StatusFound)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	errPrivate := errors.New("private host")
	validate := func(u string) error {
		if strings.Contains(u, "private") {
			return errPrivate
		}
		return nil
	}

	for _, cache := range []bool{false, true} {
		name := "direct"
		if cache {
			name = "cached"
		}
		t.Run(name, func(t *testing.T) {
			loader := NewSmartLoader(SmartLoaderOptions{ValidateURL: validate, Cache: cache, CacheDir: t.TempDir()})
			_, err := loader.Load(context.Background(), srv.URL+"/hop.png")
			if !errors.Is(err, errPrivate) {
				t.Errorf("expected redirect target to be rejected, got %v", err)
			}
		})
	}
}

func TestSmartLoaderFile(t *testing.T) {
	path := writePNG(t, t.TempDir(), "local.png", 3, 3, color.White)
	if _, err := NewSmartLoader(SmartLoaderOptions{}).Load(context.Background(), path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

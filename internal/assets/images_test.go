package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, enc func(f *os.File, img image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		t.Fatal(err)
	}
}

func encodePNG(f *os.File, img image.Image) error { return png.Encode(f, img) }

func encodeBMP(f *os.File, img image.Image) error { return bmp.Encode(f, img) }

func TestImagesLocal(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "bg.png"), encodePNG)
	writeImage(t, filepath.Join(dir, "bg.bmp"), encodeBMP)

	src := NewImages(dir)
	for _, name := range []string{"bg.png", "bg.bmp", "file://" + filepath.Join(dir, "bg.png")} {
		img, err := src.Image(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
			t.Errorf("%s: expected 4x3, got %v", name, b)
		}
	}
	if src.Len() != 3 {
		t.Errorf("expected 3 cached images, got %d", src.Len())
	}
}

func TestImagesCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bg.png")
	writeImage(t, path, encodePNG)

	src := NewImages(dir)
	first, err := src.Image("bg.png")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := src.Image("bg.png")
	if err != nil {
		t.Fatalf("cached image should survive file removal: %v", err)
	}
	if first != second {
		t.Error("expected the same decoded image")
	}
}

func TestImagesErrors(t *testing.T) {
	src := NewImages(t.TempDir())
	if _, err := src.Image("missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist, got %v", err)
	}
	if _, err := src.Image("https://example.com/bg.png"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("remote loading is off by default, got %v", err)
	}
	if _, err := src.Image("ftp://example.com/bg.png"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected unsupported scheme, got %v", err)
	}
}

func TestImagesRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bg.png" {
			http.NotFound(w, r)
			return
		}
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		png.Encode(w, img)
	}))
	defer srv.Close()

	src := NewImages("", WithRemote(srv.Client()))
	img, err := src.Image(srv.URL + "/bg.png")
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("expected 2px wide, got %v", img.Bounds())
	}
	if _, err := src.Image(srv.URL + "/missing.png"); err == nil {
		t.Error("expected error on 404")
	}
}

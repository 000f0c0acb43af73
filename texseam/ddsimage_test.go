package texseam_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a-sokolov/texseam/texseam"
)

func solidImage(w, h int, c texseam.Vec3) *texseam.Image {
	img := texseam.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetAt(x, y, c)
		}
	}
	return img
}

func TestNewCompressedImage_BlockGridDimensions(t *testing.T) {
	img := solidImage(8, 4, texseam.Vec3{X: 1, Y: 2, Z: 3})
	ci, err := texseam.NewCompressedImage(img, 0)
	if err != nil {
		t.Fatalf("NewCompressedImage: %v", err)
	}
	if got, want := ci.NBlocks(), 2; got != want {
		t.Fatalf("NBlocks: got %d want %d", got, want)
	}
}

func TestCompressedImage_SaveWritesDDSMagic(t *testing.T) {
	img := solidImage(4, 4, texseam.Vec3{X: 100, Y: 150, Z: 200})
	ci, err := texseam.NewCompressedImage(img, 0)
	if err != nil {
		t.Fatalf("NewCompressedImage: %v", err)
	}
	ci.QuantizeBlocks()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.dds")
	if err := ci.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) < 4 {
		t.Fatalf("dds file too short: %d bytes", len(data))
	}
	// "DDS " magic, little-endian.
	want := []byte{'D', 'D', 'S', ' '}
	for i, b := range want {
		if data[i] != b {
			t.Fatalf("magic byte %d: got %x want %x", i, data[i], b)
		}
	}

	// magic(4) + header(124) + one block(8) for a single 4x4-block image.
	wantLen := 4 + 124 + 8
	if len(data) != wantLen {
		t.Fatalf("dds file length: got %d want %d", len(data), wantLen)
	}
}

func TestCompressedImage_SaveUncompressedWritesPNG(t *testing.T) {
	img := solidImage(4, 4, texseam.Vec3{X: 1, Y: 2, Z: 3})
	ci, err := texseam.NewCompressedImage(img, 0)
	if err != nil {
		t.Fatalf("NewCompressedImage: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := ci.SaveUncompressed(path); err != nil {
		t.Fatalf("SaveUncompressed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

package texseam_test

import (
	"testing"

	"github.com/a-sokolov/texseam/texseam"
)

func TestQuantizeColor_RoundTripWithinQuantizationError(t *testing.T) {
	cases := []texseam.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 255, Y: 255, Z: 255},
		{X: 128, Y: 64, Z: 200},
	}
	for _, c := range cases {
		// quantizeColor/quantized2rgb are unexported; exercise them via
		// NewCompressedImage + QuantizeBlocks on a solid-color block.
		img := texseam.NewImage(4, 4)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.SetAt(x, y, c)
			}
		}
		ci, err := texseam.NewCompressedImage(img, 0)
		if err != nil {
			t.Fatalf("NewCompressedImage: %v", err)
		}
		ci.QuantizeBlocks()

		got := ci.Pixel(0, 0)
		if diff := got.Distance(c); diff > 8 {
			t.Fatalf("color %+v quantized to %+v, distance %v exceeds RGB565 tolerance", c, got, diff)
		}
	}
}

func TestNewCompressedImage_RejectsNonMultipleOf4(t *testing.T) {
	img := texseam.NewImage(6, 8)
	if _, err := texseam.NewCompressedImage(img, 0); err == nil {
		t.Fatalf("expected error for non-multiple-of-4 width")
	}
}

func TestNewCompressedImage_SolidBlockHasZeroBlockError(t *testing.T) {
	img := texseam.NewImage(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetAt(x, y, texseam.Vec3{X: 10, Y: 20, Z: 30})
			img.SetMaskBit(x, y, texseam.Internal)
		}
	}
	ci, err := texseam.NewCompressedImage(img, 0)
	if err != nil {
		t.Fatalf("NewCompressedImage: %v", err)
	}

	errs, err := ci.ComputePerBlockError(img)
	if err != nil {
		t.Fatalf("ComputePerBlockError: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d block errors, want 1", len(errs))
	}
	if errs[0].AvgError > 1e-6 {
		t.Fatalf("solid block average error too large: %v", errs[0].AvgError)
	}
}

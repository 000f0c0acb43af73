package texseam_test

import (
	"bytes"
	"testing"

	"github.com/a-sokolov/texseam/texseam"
)

func TestImage_ToroidalAddressing(t *testing.T) {
	img := texseam.NewImage(4, 4)
	c := texseam.Vec3{X: 10, Y: 20, Z: 30}
	img.SetAt(0, 0, c)

	if got := img.At(4, 4); got != c {
		t.Fatalf("At(4,4): got %+v want %+v (wraparound)", got, c)
	}
	if got := img.At(-4, -4); got != c {
		t.Fatalf("At(-4,-4): got %+v want %+v (negative wraparound)", got, c)
	}
}

func TestImage_SampleAtTexelCenterReturnsExactColor(t *testing.T) {
	img := texseam.NewImage(4, 4)
	colors := []texseam.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 10, Y: 10, Z: 10}, {X: 20, Y: 20, Z: 20}, {X: 30, Y: 30, Z: 30},
		{X: 40, Y: 40, Z: 40}, {X: 50, Y: 50, Z: 50}, {X: 60, Y: 60, Z: 60}, {X: 70, Y: 70, Z: 70},
		{X: 80, Y: 80, Z: 80}, {X: 90, Y: 90, Z: 90}, {X: 100, Y: 100, Z: 100}, {X: 110, Y: 110, Z: 110},
		{X: 120, Y: 120, Z: 120}, {X: 130, Y: 130, Z: 130}, {X: 140, Y: 140, Z: 140}, {X: 150, Y: 150, Z: 150},
	}
	n := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetAt(x, y, colors[n])
			n++
		}
	}

	got := img.Sample(texseam.Vec2{X: 2.5, Y: 1.5})
	want := img.At(2, 1)
	if got != want {
		t.Fatalf("Sample at texel center: got %+v want %+v", got, want)
	}
}

func TestImage_FootprintWeightsSumToOne(t *testing.T) {
	img := texseam.NewImage(8, 8)
	_, weights := img.Footprint(texseam.Vec2{X: 3.2, Y: 5.7})
	sum := weights[0] + weights[1] + weights[2] + weights[3]
	if diff := sum - 1.0; diff < -1e-9 || diff > 1e-9 {
		t.Fatalf("footprint weights sum to %v, want 1", sum)
	}
}

func TestImage_EncodeDecodeRoundTrip(t *testing.T) {
	img := texseam.NewImage(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetAt(x, y, texseam.Vec3{X: float64(x * 10), Y: float64(y * 10), Z: 5})
		}
	}

	var buf bytes.Buffer
	if err := img.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := texseam.DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if decoded.W != img.W || decoded.H != img.H {
		t.Fatalf("decoded size %dx%d, want %dx%d", decoded.W, decoded.H, img.W, img.H)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got, want := decoded.At(x, y), img.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d): got %+v want %+v", x, y, got, want)
			}
		}
	}
}

func TestSetMaskInternal_MarksTriangleInterior(t *testing.T) {
	m := texseam.NewMesh()
	m.V = []texseam.Vec3{{}, {}, {}}
	m.VT = []texseam.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	m.Face = []texseam.Face{{PI: []int{0, 1, 2}, TI: []int{0, 1, 2}}}

	img := texseam.NewImage(8, 8)
	n := img.SetMaskInternal(m)
	if n == 0 {
		t.Fatalf("expected some pixels marked internal")
	}
}

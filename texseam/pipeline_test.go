package texseam_test

import (
	"testing"

	"github.com/a-sokolov/texseam/texseam"
)

// seamMesh builds a quad split into two triangles that share a position
// edge but use disjoint UV islands, like the OBJ fixture in mesh_test.go
// (the second triangle's UVs for vertices 2 and 3 are swapped relative to
// it), built directly so tests don't depend on file I/O.
func seamMesh() *texseam.Mesh {
	m := texseam.NewMesh()
	m.V = []texseam.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}
	m.VT = []texseam.Vec2{
		{X: 0.0, Y: 0.0}, {X: 0.5, Y: 0.0}, {X: 0.5, Y: 0.5},
		{X: 0.6, Y: 0.0}, {X: 1.0, Y: 0.5}, {X: 1.0, Y: 0.0},
	}
	m.Face = []texseam.Face{
		{PI: []int{0, 1, 2}, TI: []int{0, 1, 2}},
		{PI: []int{0, 2, 3}, TI: []int{3, 5, 4}},
	}
	m.ComputeSeams()
	return m
}

func TestSolver_FixSeamsReducesSeamError(t *testing.T) {
	m := seamMesh()
	img := texseam.NewImage(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetAt(x, y, texseam.Vec3{X: float64(x * 10), Y: float64(y * 10), Z: 50})
		}
	}
	img.SetMaskInternal(m)
	img.SetMaskSeam(m)

	var solver texseam.Solver
	report, err := solver.FixSeams(m, img)
	if err != nil {
		t.Fatalf("FixSeams: %v", err)
	}
	if report.SeamlessAfter > report.SeamlessBefore+1e-6 {
		t.Fatalf("seamless error grew: before=%v after=%v", report.SeamlessBefore, report.SeamlessAfter)
	}
}

func TestCompressSeamAware_ProducesFullBlockGrid(t *testing.T) {
	m := seamMesh()
	img := texseam.NewImage(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetAt(x, y, texseam.Vec3{X: float64(x * 10), Y: float64(y * 10), Z: 50})
		}
	}
	img.SetMaskInternal(m)
	img.SetMaskSeam(m)

	cimg, err := texseam.CompressSeamAware(m, img, 2)
	if err != nil {
		t.Fatalf("CompressSeamAware: %v", err)
	}
	if got, want := cimg.NBlocks(), 4; got != want {
		t.Fatalf("NBlocks: got %d want %d", got, want)
	}
}

// TestCompressSeamAware_FlatSeamBlockDoesNotFailToFactorize exercises a
// block whose texels all quantize to the same palette entry (QMaskC0):
// every pixel resolves to a single endpoint variable, so the other
// endpoint must never be allocated, or its all-zero column leaves the
// normal-equations Gram matrix merely positive-semidefinite and the
// Cholesky factorization fails.
func TestCompressSeamAware_FlatSeamBlockDoesNotFailToFactorize(t *testing.T) {
	m := seamMesh()
	img := texseam.NewImage(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetAt(x, y, texseam.Vec3{X: 40, Y: 40, Z: 40})
		}
	}
	img.SetMaskInternal(m)
	img.SetMaskSeam(m)

	if _, err := texseam.CompressSeamAware(m, img, 2); err != nil {
		t.Fatalf("CompressSeamAware on flat image: %v", err)
	}
}

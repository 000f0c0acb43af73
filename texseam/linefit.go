package texseam

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Line3 is a parametric 3D line o + t*d, with d normalized.
type Line3 struct {
	O, D Vec3
}

// At evaluates the line at parameter t.
func (l Line3) At(t float64) Vec3 {
	return l.O.Add(l.D.Scale(t))
}

func (l Line3) normalize() Line3 {
	l.D = l.D.Normalize()
	return l
}

// FitLine returns the best-fitting line through points in the least-squares
// sense, found via PCA: the line passes through the centroid and points
// along the eigenvector of the largest eigenvalue of the centered scatter
// matrix. Inputs of 0, 1 or 2 points are handled directly without an
// eigendecomposition.
func FitLine(points []Vec3) Line3 {
	switch len(points) {
	case 0:
		return Line3{Vec3{}, Vec3{1, 0, 0}}
	case 1:
		return Line3{points[0], Vec3{1, 0, 0}}
	case 2:
		d := points[0].Distance(points[1])
		if d > 0 {
			return Line3{MixVec3(points[0], points[1], 0.5), points[1].Sub(points[0]).Normalize()}
		}
		return Line3{points[0], Vec3{1, 0, 0}}
	}

	var c Vec3
	for _, p := range points {
		c = c.Add(p)
	}
	c = c.Scale(1 / float64(len(points)))

	// Scatter matrix M = X^T X for centered points X.
	var m [3][3]float64
	for _, p := range points {
		d := p.Sub(c)
		arr := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] += arr[i] * arr[j]
			}
		}
	}

	sym := mat.NewSymDense(3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})

	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		// The eigendecomposition failed: fall back to the x axis through
		// the centroid.
		return Line3{c, Vec3{1, 0, 0}}
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	d := Vec3{vectors.At(0, best), vectors.At(1, best), vectors.At(2, best)}
	if d.Length() == 0 || math.IsNaN(d.Length()) {
		d = Vec3{1, 0, 0}
	}

	return Line3{c, d}.normalize()
}

package texseam_test

import (
	"testing"

	"github.com/a-sokolov/texseam/texseam"
)

func TestFitLine_Empty(t *testing.T) {
	l := texseam.FitLine(nil)
	if l.O != (texseam.Vec3{}) {
		t.Fatalf("empty fit origin: got %+v want zero", l.O)
	}
}

func TestFitLine_SinglePoint(t *testing.T) {
	p := texseam.Vec3{X: 1, Y: 2, Z: 3}
	l := texseam.FitLine([]texseam.Vec3{p})
	if l.O != p {
		t.Fatalf("single point fit origin: got %+v want %+v", l.O, p)
	}
}

func TestFitLine_TwoDistinctPoints(t *testing.T) {
	a := texseam.Vec3{X: 0, Y: 0, Z: 0}
	b := texseam.Vec3{X: 4, Y: 0, Z: 0}
	l := texseam.FitLine([]texseam.Vec3{a, b})

	want := texseam.Vec3{X: 2, Y: 0, Z: 0}
	if l.O != want {
		t.Fatalf("two point fit origin: got %+v want %+v", l.O, want)
	}
	if diff := l.D.Length() - 1; diff < -1e-9 || diff > 1e-9 {
		t.Fatalf("direction not normalized: length %v", l.D.Length())
	}
}

func TestFitLine_CollinearPoints(t *testing.T) {
	points := []texseam.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
	}
	l := texseam.FitLine(points)

	for _, p := range points {
		// distance from p to the fitted line should be ~0
		toP := p.Sub(l.O)
		proj := l.D.Scale(toP.Dot(l.D))
		perp := toP.Sub(proj)
		if d := perp.Length(); d > 1e-6 {
			t.Fatalf("point %+v lies %v off the fitted line", p, d)
		}
	}
}

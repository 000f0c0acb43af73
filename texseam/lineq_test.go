package texseam_test

import (
	"testing"

	"github.com/a-sokolov/texseam/texseam"
)

func TestEquationSet_SolveSimpleLinear(t *testing.T) {
	// 3x + 2y = 12, 10x = 14
	var sys texseam.EquationSet
	xi := sys.NewVar()
	yi := sys.NewVar()

	e0 := texseam.Var(xi).Scale(3).Add(texseam.Var(yi).Scale(2)).AddConst(-12)
	e1 := texseam.Var(xi).Scale(10).AddConst(-14)
	sys.AddEquation(e0)
	sys.AddEquation(e1)

	vars := make([]float64, sys.NVar)
	if err := sys.Solve(vars); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if errSq := sys.SquaredErrorFor(vars); errSq > 1e-6 {
		t.Fatalf("residual too large: %v (x=%v y=%v)", errSq, vars[xi], vars[yi])
	}
}

func TestLinExp_IsInvertible(t *testing.T) {
	e := texseam.Var(3).AddConst(-9)
	if !e.IsInvertible() {
		t.Fatalf("expected single-term expression to be invertible")
	}
	idx, val := e.InitialValue()
	if idx != 3 || val != 9 {
		t.Fatalf("InitialValue: got (%d, %v) want (3, 9)", idx, val)
	}

	sum := texseam.Var(0).Add(texseam.Var(1))
	if sum.IsInvertible() {
		t.Fatalf("two-term expression should not be invertible")
	}
}

func TestResidualVec3_Evaluate(t *testing.T) {
	a := texseam.NewLinVec3Var(0)
	target := texseam.Vec3{X: 1, Y: 2, Z: 3}
	res := texseam.ResidualVec3Const(a, target)

	vars := []float64{1, 2, 3}
	got := res.Evaluate(vars)
	if got != (texseam.Vec3{}) {
		t.Fatalf("residual at target should be zero, got %+v", got)
	}
}

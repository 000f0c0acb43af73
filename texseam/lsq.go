package texseam

import "gonum.org/v1/gonum/mat"

// EquationSet accumulates linear-expression equations (driven to zero in
// the least-squares sense) over a growing pool of variables.
type EquationSet struct {
	NVar int
	Eq   []LinExp
}

// Clear resets the set to zero variables and no equations.
func (s *EquationSet) Clear() {
	s.NVar = 0
	s.Eq = nil
}

// NewVar allocates and returns a fresh variable index.
func (s *EquationSet) NewVar() int {
	v := s.NVar
	s.NVar++
	return v
}

// NewLinVec3 allocates three fresh contiguous variables and returns them
// as a LinVec3.
func (s *EquationSet) NewLinVec3() LinVec3 {
	v0 := s.NewVar()
	s.NewVar()
	s.NewVar()
	return NewLinVec3Var(v0)
}

// AddEquation appends a scalar equation.
func (s *EquationSet) AddEquation(e LinExp) {
	s.Eq = append(s.Eq, e)
}

// AddVec3Equation appends the three component equations of v.
func (s *EquationSet) AddVec3Equation(v LinVec3) {
	s.Eq = append(s.Eq, v.X, v.Y, v.Z)
}

// Clone returns a deep-enough copy for the "subtract a prefix of
// equations" trick used to separate seamless-only vs identity-only error
// reporting (the equation LinExp values themselves are treated as
// immutable once built, so only the slice needs copying).
func (s EquationSet) Clone() EquationSet {
	out := EquationSet{NVar: s.NVar, Eq: make([]LinExp, len(s.Eq))}
	copy(out.Eq, s.Eq)
	return out
}

// SquaredErrorFor returns the sum of squared residuals of every equation
// evaluated at vars.
func (s EquationSet) SquaredErrorFor(vars []float64) float64 {
	var tot float64
	for _, e := range s.Eq {
		r := e.Evaluate(vars)
		tot += r * r
	}
	return tot
}

// InitializeVars returns a vars slice of length NVar, with every variable
// touched by a single-term ("invertible") equation seeded from that
// equation's direct solution, and everything else left at zero.
func (s EquationSet) InitializeVars() []float64 {
	vars := make([]float64, s.NVar)
	for _, e := range s.Eq {
		if e.IsInvertible() {
			i, v := e.InitialValue()
			vars[i] = v
		}
	}
	return vars
}

// Solve finds the least-squares solution of the accumulated equation set
// (driving every equation's residual towards zero) via the normal
// equations A^T*A x = A^T*b, assembled directly from the equations'
// sparse term maps and factorized with a dense Cholesky decomposition of
// the (typically small) NVar x NVar Gram matrix.
//
// vars receives the solution in its first NVar entries; Solve does not
// read its incoming values, and leaves it unchanged when it returns an
// error.
func (s EquationSet) Solve(vars []float64) error {
	n := s.NVar
	if n == 0 {
		return nil
	}

	ata := make([]float64, n*n)
	atb := make([]float64, n)

	for _, e := range s.Eq {
		b := -e.B
		for i, ai := range e.Terms {
			atb[i] += ai * b
			for j, aj := range e.Terms {
				ata[i*n+j] += ai * aj
			}
		}
	}

	sym := mat.NewSymDense(n, ata)

	var chol mat.Cholesky
	ok := chol.Factorize(sym)
	if !ok {
		return newError(ErrNotSPD, "texseam: least-squares system is not symmetric positive definite")
	}

	x := mat.NewVecDense(n, nil)
	b := mat.NewVecDense(n, atb)
	if err := chol.SolveVecTo(x, b); err != nil {
		return newError(ErrNotSPD, "texseam: cholesky solve failed: "+err.Error())
	}

	for i := 0; i < n; i++ {
		vars[i] = x.AtVec(i)
	}
	return nil
}

package texseam

// SeamError reports the total, seamless-only and identity-only squared
// residuals of a solve, before and after.
type SeamError struct {
	TotalBefore, TotalAfter       float64
	SeamlessBefore, SeamlessAfter float64
	IdentityBefore, IdentityAfter float64
}

// Solver fixes seams in an *Image directly at the pixel level: every
// pixel touched by a seam sample becomes a solver variable, constrained
// to agree with its counterpart across the seam (seamless constraint)
// and to stay close to its original color (identity constraint,
// down-weighted outside the mesh's UV footprint).
type Solver struct {
	sys  EquationSet
	vi   []int32
	resx int
	resy int
}

func (s *Solver) indexOf(x, y int) int {
	x = ((x % s.resx) + s.resx) % s.resx
	y = ((y % s.resy) + s.resy) % s.resy
	return y*s.resx + x
}

func (s *Solver) pixelXY(x, y int) LinVec3 {
	i := s.indexOf(x, y)
	if s.vi[i] == -1 {
		s.vi[i] = int32(s.sys.NVar)
		return s.sys.NewLinVec3()
	}
	return NewLinVec3Var(int(s.vi[i]))
}

func (s *Solver) pixelAt(p Vec2) LinVec3 {
	p = p.Sub(Vec2{0.5, 0.5})
	p0 := p.Floor()
	p1 := p.Add(Vec2{1, 1}).Floor()
	w := p.Fract()
	return MixLinVec3(
		MixLinVec3(s.pixelXY(int(p0.X), int(p0.Y)), s.pixelXY(int(p1.X), int(p0.Y)), w.X),
		MixLinVec3(s.pixelXY(int(p0.X), int(p1.Y)), s.pixelXY(int(p1.X), int(p1.Y)), w.X),
		w.Y,
	)
}

// FixSeams solves for seam-consistent pixel colors in place over img's
// pixels that participate in at least one seam or identity constraint,
// and returns the before/after error breakdown.
func (s *Solver) FixSeams(m *Mesh, img *Image) (SeamError, error) {
	s.resx = img.W
	s.resy = img.H
	s.vi = make([]int32, s.resx*s.resy)
	for i := range s.vi {
		s.vi[i] = -1
	}
	s.sys.Clear()

	sz := Vec2{float64(s.resx), float64(s.resy)}

	// be seamless
	for _, seam := range m.Seam {
		d := m.MaxLength(seam, sz)
		if d <= 0 {
			d = 1
		}
		step := 1 / (2 * d)
		for t := 0.0; t <= 1; t += step {
			a := s.pixelAt(m.UVPos(seam.First, t).Mul(sz))
			b := s.pixelAt(m.UVPos(seam.Second, t).Mul(sz))
			s.sys.AddVec3Equation(ResidualVec3(a, b))
		}
	}

	nSeamlessEq := len(s.sys.Eq)
	seamlessOnly := s.sys.Clone()

	// be yourself
	for y := 0; y < s.resy; y++ {
		for x := 0; x < s.resx; x++ {
			if s.vi[s.indexOf(x, y)] != -1 {
				w := 0.1
				if img.MaskAt(x, y)&uint8(Internal) != 0 {
					w = 1.0
				}
				eq := ResidualVec3Const(s.pixelXY(x, y), img.At(x, y))
				s.sys.AddVec3Equation(eq.Scale(w))
			}
		}
	}

	vars := s.sys.InitializeVars()

	identityOnly := s.sys.Clone()
	identityOnly.Eq = identityOnly.Eq[nSeamlessEq:]

	// Solve the identity-only subsystem first, purely to seed vars with
	// each pixel's own color before reporting the "before" error.
	if err := identityOnly.Solve(vars); err != nil {
		return SeamError{}, err
	}

	var report SeamError
	report.TotalBefore = s.sys.SquaredErrorFor(vars)
	report.SeamlessBefore = seamlessOnly.SquaredErrorFor(vars)
	report.IdentityBefore = identityOnly.SquaredErrorFor(vars)

	if err := s.sys.Solve(vars); err != nil {
		return report, err
	}

	report.TotalAfter = s.sys.SquaredErrorFor(vars)
	report.SeamlessAfter = seamlessOnly.SquaredErrorFor(vars)
	report.IdentityAfter = identityOnly.SquaredErrorFor(vars)

	for y := 0; y < s.resy; y++ {
		for x := 0; x < s.resx; x++ {
			if s.vi[s.indexOf(x, y)] != -1 {
				c := Clamp3(s.pixelXY(x, y).Evaluate(vars), 0, 255)
				img.SetAt(x, y, c)
			}
		}
	}

	return report, nil
}

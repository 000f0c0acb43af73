package texseam

import "sort"

// BlockSolver fixes seams in a CompressedImage by solving directly for
// each block's endpoint colors (3 scalar variables per endpoint that some
// constraint references, so 3 or 6 per block), rather than per pixel. It is the compressed-image
// analogue of Solver.
type BlockSolver struct {
	sys  EquationSet
	vi   []int32
	resx int
	resy int
	cimg *CompressedImage
}

func (s *BlockSolver) blocksPerRow() int { return s.resx / 4 }

func (s *BlockSolver) indexOf(bx, by, endpoint int) int {
	return (by*s.blocksPerRow()+bx)*2 + endpoint
}

func (s *BlockSolver) blockVars(bx, by, endpoint int) LinVec3 {
	i := s.indexOf(bx, by, endpoint)
	if s.vi[i] == -1 {
		s.vi[i] = int32(s.sys.NVar)
		return s.sys.NewLinVec3()
	}
	return NewLinVec3Var(int(s.vi[i]))
}

// pixelXY expresses texel (x, y)'s color as a linear combination of its
// block's two endpoint variables, weighted by the texel's QMask.
func (s *BlockSolver) pixelXY(x, y int) (LinVec3, error) {
	x = ((x % s.resx) + s.resx) % s.resx
	y = ((y % s.resy) + s.resy) % s.resy
	mask := s.cimg.GetMask(x, y)
	bx, by := x/4, y/4

	switch mask {
	case QMaskC0:
		return s.blockVars(bx, by, 0), nil
	case QMaskC1:
		return s.blockVars(bx, by, 1), nil
	case QMaskC0_23_C1_13, QMaskC0_13_C1_23:
		w0, w1 := mask.Weights()
		v0 := s.blockVars(bx, by, 0).Scale(w0)
		v1 := s.blockVars(bx, by, 1).Scale(w1)
		return v0.Add(v1), nil
	default:
		return LinVec3{}, newError(ErrUnknownMask, "texseam: invalid block quantization mask")
	}
}

func (s *BlockSolver) pixelAt(p Vec2) (LinVec3, error) {
	p = p.Sub(Vec2{0.5, 0.5})
	p0 := p.Floor()
	p1 := p.Add(Vec2{1, 1}).Floor()
	w := p.Fract()

	p00, err := s.pixelXY(int(p0.X), int(p0.Y))
	if err != nil {
		return LinVec3{}, err
	}
	p10, err := s.pixelXY(int(p1.X), int(p0.Y))
	if err != nil {
		return LinVec3{}, err
	}
	p01, err := s.pixelXY(int(p0.X), int(p1.Y))
	if err != nil {
		return LinVec3{}, err
	}
	p11, err := s.pixelXY(int(p1.X), int(p1.Y))
	if err != nil {
		return LinVec3{}, err
	}

	return MixLinVec3(MixLinVec3(p00, p10, w.X), MixLinVec3(p01, p11, w.X), w.Y), nil
}

// FrozenPinWeight is the soft-constraint weight pinning an already-frozen
// block's endpoints to their current value; large enough to dominate the
// seamless/identity terms without making the system numerically unstable.
const FrozenPinWeight = 10000

// FixSeams re-solves cimg's block endpoints for seam consistency. Blocks
// listed in fixedBlocks are additionally pinned (softly) to their current
// endpoint colors, so repeated calls can progressively freeze
// already-good blocks while the rest keep improving.
func (s *BlockSolver) FixSeams(m *Mesh, img *Image, cimg *CompressedImage, fixedBlocks map[int]bool) (SeamError, error) {
	s.resx = img.W
	s.resy = img.H
	s.cimg = cimg
	s.vi = make([]int32, cimg.NBlocks()*2)
	for i := range s.vi {
		s.vi[i] = -1
	}
	s.sys.Clear()

	sz := Vec2{float64(s.resx), float64(s.resy)}

	for _, seam := range m.Seam {
		d := m.MaxLength(seam, sz)
		if d <= 0 {
			d = 1
		}
		step := 1 / (2 * d)
		for t := 0.0; t <= 1; t += step {
			a, err := s.pixelAt(m.UVPos(seam.First, t).Mul(sz))
			if err != nil {
				return SeamError{}, err
			}
			b, err := s.pixelAt(m.UVPos(seam.Second, t).Mul(sz))
			if err != nil {
				return SeamError{}, err
			}
			s.sys.AddVec3Equation(ResidualVec3(a, b))
		}
	}

	nSeamlessEq := len(s.sys.Eq)
	seamlessOnly := s.sys.Clone()

	for y := 0; y < s.resy; y++ {
		for x := 0; x < s.resx; x++ {
			bx, by := x/4, y/4
			if s.vi[s.indexOf(bx, by, 0)] != -1 || s.vi[s.indexOf(bx, by, 1)] != -1 {
				w := 0.1
				if img.MaskAt(x, y)&uint8(Internal) != 0 {
					w = 1.0
				}
				px, err := s.pixelXY(x, y)
				if err != nil {
					return SeamError{}, err
				}
				eq := ResidualVec3Const(px, img.At(x, y))
				s.sys.AddVec3Equation(eq.Scale(w))
			}
		}
	}

	identityOnly := s.sys.Clone()
	identityOnly.Eq = identityOnly.Eq[nSeamlessEq:]

	// Variables start at a constant (not InitializeVars's warm start) and
	// are seeded by solving the identity-only subsystem, matching the
	// compressed-block solver's own bootstrap.
	vars := make([]float64, s.sys.NVar)
	for i := range vars {
		vars[i] = 10
	}
	if err := identityOnly.Solve(vars); err != nil {
		return SeamError{}, err
	}

	fixedIdx := make([]int, 0, len(fixedBlocks))
	for i := range fixedBlocks {
		fixedIdx = append(fixedIdx, i)
	}
	sort.Ints(fixedIdx)

	for _, i := range fixedIdx {
		v0 := s.vi[2*i]
		v1 := s.vi[2*i+1]
		if v0 != -1 {
			c0 := NewLinVec3Var(int(v0))
			eq := ResidualVec3Const(c0, cimg.GetBlockAt(i).C0)
			s.sys.AddVec3Equation(eq.Scale(FrozenPinWeight))
		}
		if v1 != -1 {
			c1 := NewLinVec3Var(int(v1))
			eq := ResidualVec3Const(c1, cimg.GetBlockAt(i).C1)
			s.sys.AddVec3Equation(eq.Scale(FrozenPinWeight))
		}
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

	for by := 0; by < s.resy/4; by++ {
		for bx := 0; bx < s.resx/4; bx++ {
			for endpoint := 0; endpoint < 2; endpoint++ {
				i := s.vi[s.indexOf(bx, by, endpoint)]
				if i != -1 {
					c := Clamp3(NewLinVec3Var(int(i)).Evaluate(vars), 0, 255)
					cimg.SetBlockColor(bx, by, endpoint, c)
				}
			}
		}
	}

	return report, nil
}

package texseam

// LinExp is a sparse linear expression Sum_i{ a[i] * x[i] } + b over the
// solver's variable indices. Equation construction uses LinExp both for
// the expressions themselves and, via Residual, for the equations built
// from them (an equation is "this residual equals zero").
type LinExp struct {
	Terms map[int]float64
	B     float64
}

// Var returns the expression 1*x[i].
func Var(i int) LinExp {
	return LinExp{Terms: map[int]float64{i: 1}, B: 0}
}

// Const returns the constant expression c.
func Const(c float64) LinExp {
	return LinExp{B: c}
}

// Evaluate substitutes vars into the expression.
func (e LinExp) Evaluate(vars []float64) float64 {
	res := e.B
	for i, a := range e.Terms {
		res += a * vars[i]
	}
	return res
}

// Scale returns k*e.
func (e LinExp) Scale(k float64) LinExp {
	out := LinExp{Terms: make(map[int]float64, len(e.Terms)), B: e.B * k}
	for i, a := range e.Terms {
		out.Terms[i] = a * k
	}
	return out
}

// Add returns e+o.
func (e LinExp) Add(o LinExp) LinExp {
	out := LinExp{Terms: make(map[int]float64, len(e.Terms)+len(o.Terms)), B: e.B + o.B}
	for i, a := range e.Terms {
		out.Terms[i] += a
	}
	for i, a := range o.Terms {
		out.Terms[i] += a
	}
	return out
}

// Sub returns e-o.
func (e LinExp) Sub(o LinExp) LinExp {
	return e.Add(o.Scale(-1))
}

// AddConst returns e+c.
func (e LinExp) AddConst(c float64) LinExp {
	out := e
	out.B += c
	return out
}

// Residual builds the equation "a equals b" as the expression a-b, which
// the solver drives to zero in the least-squares sense.
func Residual(a, b LinExp) LinExp {
	return a.Sub(b)
}

// IsInvertible reports whether e has exactly one term and that term's
// coefficient is nonzero, so that the
// equation e==0 can be solved directly for its single variable (used to
// warm-start the solver).
func (e LinExp) IsInvertible() bool {
	if len(e.Terms) != 1 {
		return false
	}
	for _, a := range e.Terms {
		return a != 0
	}
	return false
}

// InitialValue returns (varIndex, value) such that setting vars[varIndex]
// = value satisfies e == 0 exactly. Only valid when IsInvertible is true.
func (e LinExp) InitialValue() (varIndex int, value float64) {
	for i, a := range e.Terms {
		return i, -e.B / a
	}
	return 0, 0
}

// LinVec3 is a Vec3 of linear expressions, used to track a pixel or block
// endpoint color whose components are still solver variables.
type LinVec3 struct {
	X, Y, Z LinExp
}

// NewLinVec3Var builds the vector of variables (v, v+1, v+2).
func NewLinVec3Var(v int) LinVec3 {
	return LinVec3{Var(v), Var(v + 1), Var(v + 2)}
}

func (a LinVec3) Add(b LinVec3) LinVec3 {
	return LinVec3{a.X.Add(b.X), a.Y.Add(b.Y), a.Z.Add(b.Z)}
}

func (a LinVec3) Sub(b LinVec3) LinVec3 {
	return LinVec3{a.X.Sub(b.X), a.Y.Sub(b.Y), a.Z.Sub(b.Z)}
}

func (a LinVec3) SubConst(b Vec3) LinVec3 {
	return LinVec3{a.X.AddConst(-b.X), a.Y.AddConst(-b.Y), a.Z.AddConst(-b.Z)}
}

func (a LinVec3) Scale(k float64) LinVec3 {
	return LinVec3{a.X.Scale(k), a.Y.Scale(k), a.Z.Scale(k)}
}

// Evaluate substitutes vars into every component.
func (a LinVec3) Evaluate(vars []float64) Vec3 {
	return Vec3{a.X.Evaluate(vars), a.Y.Evaluate(vars), a.Z.Evaluate(vars)}
}

// ResidualVec3 builds the component-wise equation "a equals b".
func ResidualVec3(a, b LinVec3) LinVec3 {
	return a.Sub(b)
}

// ResidualVec3Const builds the component-wise equation "a equals b" for a
// constant target color.
func ResidualVec3Const(a LinVec3, b Vec3) LinVec3 {
	return a.SubConst(b)
}

// MixLinVec3 linearly interpolates between two variable vectors.
func MixLinVec3(a, b LinVec3, t float64) LinVec3 {
	return a.Scale(1 - t).Add(b.Scale(t))
}

// MulExpVec3 distributes a scalar expression across a constant vector,
// i.e. computes a*b componentwise.
func MulExpVec3(a LinExp, b Vec3) LinVec3 {
	return LinVec3{a.Scale(b.X), a.Scale(b.Y), a.Scale(b.Z)}
}

// LinVec2 is a Vec2 of linear expressions.
type LinVec2 struct {
	X, Y LinExp
}

func NewLinVec2Var(v int) LinVec2 {
	return LinVec2{Var(v), Var(v + 1)}
}

func (a LinVec2) Add(b LinVec2) LinVec2 { return LinVec2{a.X.Add(b.X), a.Y.Add(b.Y)} }
func (a LinVec2) Sub(b LinVec2) LinVec2 { return LinVec2{a.X.Sub(b.X), a.Y.Sub(b.Y)} }
func (a LinVec2) Scale(k float64) LinVec2 { return LinVec2{a.X.Scale(k), a.Y.Scale(k)} }

func (a LinVec2) Evaluate(vars []float64) Vec2 {
	return Vec2{a.X.Evaluate(vars), a.Y.Evaluate(vars)}
}

func ResidualVec2(a, b LinVec2) LinVec2 { return a.Sub(b) }

package texseam

import "sort"

// Edge is a pair of indices (vertex or UV) describing a half-edge.
type Edge struct {
	A, B int
}

func (e Edge) swapped() Edge { return Edge{e.B, e.A} }

// less orders edges the way Go's set-equivalent (a sorted, deduplicated
// slice) needs: lexicographically on (A, B).
func (e Edge) less(o Edge) bool {
	if e.A != o.A {
		return e.A < o.A
	}
	return e.B < o.B
}

// Seam pairs the two UV edges (e.g. from two different faces, or two
// different sides of a cut) that share the same 3D edge.
type Seam struct {
	First, Second Edge
}

// Face is a polygon with parallel position-index and UV-index lists.
type Face struct {
	PI []int // vertex position indices
	TI []int // UV coordinate indices
}

// Edge3 returns the i-th position-space edge of the face, wrapping around.
func (f Face) Edge3(i int) Edge {
	return Edge{f.PI[i], f.PI[(i+1)%len(f.PI)]}
}

// Edge2 returns the i-th UV-space edge of the face, wrapping around.
func (f Face) Edge2(i int) Edge {
	return Edge{f.TI[i], f.TI[(i+1)%len(f.TI)]}
}

// Material is a named OBJ/MTL material; Texture is empty when the material
// has no texture map.
type Material struct {
	Name    string
	Texture string
}

// Mesh holds 3D positions, UV coordinates, faces, and the seams derived
// from them by ComputeSeams.
type Mesh struct {
	V  []Vec3 // vertex positions
	VT []Vec2 // UV coordinates
	Face []Face
	Seam []Seam
	Mat  []int // per-face material index, -1 if none

	Material    []Material
	MaterialMap map[string]int

	// Objects holds (firstFaceIndex, faceCount) pairs for named object
	// groups. LoadOBJ does not populate it, and the seam-fixing pipeline
	// does not read it.
	Objects []struct{ First, Count int }
}

// NewMesh returns an empty mesh ready for LoadOBJ or manual population.
func NewMesh() *Mesh {
	return &Mesh{MaterialMap: make(map[string]int)}
}

// MirrorV flips every UV's V coordinate (internal top-left origin <->
// OBJ's bottom-left origin).
func (m *Mesh) MirrorV() {
	for i := range m.VT {
		m.VT[i].Y = 1 - m.VT[i].Y
	}
}

// DenormalizeUV converts UV coordinates in [0,1] (OBJ convention) into
// pixel coordinates in an img.W x img.H image with top-left origin.
func (m *Mesh) DenormalizeUV(img *Image) {
	sz := Vec2{float64(img.W), float64(img.H)}
	for i := range m.VT {
		m.VT[i].Y = 1 - m.VT[i].Y
		m.VT[i] = m.VT[i].Mul(sz)
	}
}

// NormalizeUV is the inverse of DenormalizeUV.
func (m *Mesh) NormalizeUV(img *Image) {
	sz := Vec2{float64(img.W), float64(img.H)}
	for i := range m.VT {
		m.VT[i] = Vec2{m.VT[i].X / sz.X, m.VT[i].Y / sz.Y}
		m.VT[i].Y = 1 - m.VT[i].Y
	}
}

// LengthUV returns the UV-space length of edge e, scaled by sz (pass the
// image size to get a pixel-space length).
func (m *Mesh) LengthUV(e Edge, sz Vec2) float64 {
	return m.VT[e.A].Mul(sz).Distance(m.VT[e.B].Mul(sz))
}

// MaxLength returns the longer of a seam's two edge lengths.
func (m *Mesh) MaxLength(s Seam, sz Vec2) float64 {
	a := m.LengthUV(s.First, sz)
	b := m.LengthUV(s.Second, sz)
	if a > b {
		return a
	}
	return b
}

// UVPos linearly interpolates along edge e's two UV endpoints by t.
func (m *Mesh) UVPos(e Edge, t float64) Vec2 {
	return MixVec2(m.VT[e.A], m.VT[e.B], t)
}

// ComputeSeams rebuilds m.Seam from m.Face: every 3D edge shared by two or
// more distinct UV edges becomes a seam pairing the first two such UV
// edges (in edge-sorted order, for determinism).
func (m *Mesh) ComputeSeams() {
	type key = Edge
	edgeMap := make(map[key][]Edge)

	for _, f := range m.Face {
		for i := 0; i < len(f.PI); i++ {
			e3 := f.Edge3(i)
			e2 := f.Edge2(i)
			if e3.A > e3.B {
				e3 = e3.swapped()
				e2 = e2.swapped()
			}
			found := false
			for _, existing := range edgeMap[e3] {
				if existing == e2 {
					found = true
					break
				}
			}
			if !found {
				edgeMap[e3] = append(edgeMap[e3], e2)
			}
		}
	}

	keys := make([]key, 0, len(edgeMap))
	for k := range edgeMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	m.Seam = m.Seam[:0]
	for _, k := range keys {
		uvEdges := edgeMap[k]
		if len(uvEdges) > 1 {
			sort.Slice(uvEdges, func(i, j int) bool { return uvEdges[i].less(uvEdges[j]) })
			m.Seam = append(m.Seam, Seam{uvEdges[0], uvEdges[1]})
		}
	}
}

// ColorSeams draws every seam's two UV edges onto img in red and blue, for
// visual debugging.
func (m *Mesh) ColorSeams(img *Image) {
	for _, s := range m.Seam {
		img.DrawLine(m.VT[s.First.A], m.VT[s.First.B], Vec3{255, 0, 0})
		img.DrawLine(m.VT[s.Second.A], m.VT[s.Second.B], Vec3{0, 0, 255})
	}
}

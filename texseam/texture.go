package texseam

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
)

// MaskBit flags a pixel's role in seam fixing.
type MaskBit uint8

const (
	// Internal marks a pixel that lies inside some UV triangle.
	Internal MaskBit = 1
	// Seam marks a pixel touched by sampling along a seam edge.
	Seam MaskBit = 2
)

// SeamSamplingFactor controls how densely seams are sampled relative to
// their UV-space pixel length (2 samples per texel of the longer side).
const SeamSamplingFactor = 2.0

// Image is a toroidally-addressed RGB image with a parallel per-pixel mask.
type Image struct {
	W, H int
	Pix  []Vec3
	Mask []uint8
}

// NewImage allocates a black, zero-mask image of size w x h.
func NewImage(w, h int) *Image {
	img := &Image{W: w, H: h}
	img.Pix = make([]Vec3, w*h)
	img.ClearMask()
	return img
}

// ClearMask resets every mask byte to zero.
func (img *Image) ClearMask() {
	img.Mask = make([]uint8, img.W*img.H)
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	out := &Image{W: img.W, H: img.H}
	out.Pix = append([]Vec3(nil), img.Pix...)
	out.Mask = append([]uint8(nil), img.Mask...)
	return out
}

func (img *Image) indexOf(x, y int) int {
	x = ((x % img.W) + img.W) % img.W
	y = ((y % img.H) + img.H) % img.H
	return y*img.W + x
}

// At returns the pixel color at toroidal coordinate (x, y).
func (img *Image) At(x, y int) Vec3 {
	return img.Pix[img.indexOf(x, y)]
}

// SetAt writes the pixel color at toroidal coordinate (x, y).
func (img *Image) SetAt(x, y int, c Vec3) {
	img.Pix[img.indexOf(x, y)] = c
}

// MaskAt returns the mask byte at toroidal coordinate (x, y).
func (img *Image) MaskAt(x, y int) uint8 {
	return img.Mask[img.indexOf(x, y)]
}

// SetMaskBit ORs bit into the mask byte at (x, y).
func (img *Image) SetMaskBit(x, y int, bit MaskBit) {
	img.Mask[img.indexOf(x, y)] |= uint8(bit)
}

// Sample performs bilinear sampling at p, with a half-texel offset so that
// integer coordinates land on texel centers, and toroidal wraparound at the
// image edges.
func (img *Image) Sample(p Vec2) Vec3 {
	p = p.Sub(Vec2{0.5, 0.5})
	p0 := p.Floor()
	p1 := p.Add(Vec2{1, 1}).Floor()
	w := p.Fract()

	return MixVec3(
		MixVec3(img.At(int(p0.X), int(p0.Y)), img.At(int(p1.X), int(p0.Y)), w.X),
		MixVec3(img.At(int(p0.X), int(p1.Y)), img.At(int(p1.X), int(p1.Y)), w.X),
		w.Y,
	)
}

// Footprint returns the four texel coordinates and bilinear weights that
// Sample(p) would combine, in (00, 10, 01, 11) order.
func (img *Image) Footprint(p Vec2) (coords [4]IVec2, weights [4]float64) {
	p = p.Sub(Vec2{0.5, 0.5})
	p0 := p.Floor()
	p1 := p.Add(Vec2{1, 1}).Floor()
	w := p.Fract()

	coords = [4]IVec2{
		{int(p0.X), int(p0.Y)},
		{int(p1.X), int(p0.Y)},
		{int(p0.X), int(p1.Y)},
		{int(p1.X), int(p1.Y)},
	}
	weights = [4]float64{
		(1 - w.X) * (1 - w.Y),
		w.X * (1 - w.Y),
		(1 - w.X) * w.Y,
		w.X * w.Y,
	}
	return coords, weights
}

func (img *Image) drawPoint(p Vec2, c Vec3) {
	img.SetAt(int(math.Floor(p.X-0.5)), int(math.Floor(p.Y-0.5)), c)
	img.SetAt(int(math.Floor(p.X-0.5)), int(math.Floor(p.Y+0.5)), c)
	img.SetAt(int(math.Floor(p.X+0.5)), int(math.Floor(p.Y-0.5)), c)
	img.SetAt(int(math.Floor(p.X+0.5)), int(math.Floor(p.Y+0.5)), c)
}

// DrawLine rasterizes a debug line from "from" to "to" in color c, sampled
// densely enough to leave no gaps.
func (img *Image) DrawLine(from, to Vec2, c Vec3) {
	d := int(math.Ceil(from.Distance(to)))
	if d < 1 {
		d = 1
	}
	for t := 0.0; t <= 1.0; t += 1.0 / float64(d) {
		img.drawPoint(MixVec2(from, to, t), c)
	}
}

// isInside reports whether p lies in the left half-plane of edge l0->l1.
func isInside(l0, l1, p Vec2) bool {
	l := l1.Sub(l0)
	n := Vec2{l.Y, -l.X}
	return p.Sub(l0).Dot(n) >= 0
}

// SetMaskInternal rasterizes every UV triangle of m and ORs Internal into
// every pixel whose center lies inside it. It returns the number of newly
// marked pixels.
func (img *Image) SetMaskInternal(m *Mesh) int {
	n := 0
	imgsz := Vec2{float64(img.W), float64(img.H)}
	for _, f := range m.Face {
		minx, miny := math.MaxInt32, math.MaxInt32
		maxx, maxy := math.MinInt32, math.MinInt32
		for _, t := range f.TI {
			tc := m.VT[t].Mul(imgsz)
			minx = minInt(minx, int(tc.X))
			miny = minInt(miny, int(tc.Y))
			maxx = maxInt(maxx, int(tc.X))
			maxy = maxInt(maxy, int(tc.Y))
		}
		minx--
		miny--
		maxx++
		maxy++

		e0 := f.Edge2(0)
		e1 := f.Edge2(1)
		e2 := f.Edge2(2)

		for y := miny; y <= maxy; y++ {
			for x := minx; x <= maxx; x++ {
				p := Vec2{float64(x), float64(y)}
				ins0 := isInside(m.VT[e0.A].Mul(imgsz), m.VT[e0.B].Mul(imgsz), p)
				ins1 := isInside(m.VT[e1.A].Mul(imgsz), m.VT[e1.B].Mul(imgsz), p)
				ins2 := isInside(m.VT[e2.A].Mul(imgsz), m.VT[e2.B].Mul(imgsz), p)
				if ins0 == ins1 && ins1 == ins2 {
					if img.MaskAt(x, y)&uint8(Internal) == 0 {
						img.SetMaskBit(x, y, Internal)
						n++
					}
				}
			}
		}
	}
	return n
}

// SetMaskSeam walks every seam of m, sampling at SeamSamplingFactor samples
// per texel of UV length, and ORs Seam into the bilinear footprint of both
// sides of the seam. It returns the number of newly marked pixels.
func (img *Image) SetMaskSeam(m *Mesh) int {
	n := 0
	imgsz := Vec2{float64(img.W), float64(img.H)}
	for _, s := range m.Seam {
		d := m.MaxLength(s, imgsz)
		if d <= 0 {
			d = 1
		}
		step := 1 / (SeamSamplingFactor * d)
		for t := 0.0; t <= 1; t += step {
			coordsA, _ := img.Footprint(m.UVPos(s.First, t).Mul(imgsz))
			coordsB, _ := img.Footprint(m.UVPos(s.Second, t).Mul(imgsz))
			for _, c := range append(coordsA[:], coordsB[:]...) {
				if img.MaskAt(c.X, c.Y)&uint8(Seam) == 0 {
					img.SetMaskBit(c.X, c.Y, Seam)
					n++
				}
			}
		}
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// LoadImage decodes a PNG from path into an *Image, discarding alpha. Only
// the PNG decoder is registered by this package.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Code: ErrIO, Msg: "texseam: opening texture: " + err.Error()}
	}
	defer f.Close()
	return DecodeImage(f)
}

// DecodeImage decodes an image from r.
func DecodeImage(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, &Error{Code: ErrIO, Msg: "texseam: decoding texture: " + err.Error()}
	}

	b := src.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, src, b.Min, draw.Src)

	out := NewImage(b.Dx(), b.Dy())
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			r8, g8, b8, _ := rgba.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.SetAt(x, y, Vec3{float64(r8 >> 8), float64(g8 >> 8), float64(b8 >> 8)})
		}
	}
	return out, nil
}

// Save encodes img as an opaque PNG at path.
func (img *Image) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: creating texture: " + err.Error()}
	}
	defer f.Close()
	return img.Encode(f)
}

// Encode writes img as an opaque PNG to w.
func (img *Image) Encode(w io.Writer) error {
	rgba := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			c := Clamp3(img.At(x, y), 0, 255)
			rgba.Set(x, y, rgbaColor{uint8(c.X + 0.5), uint8(c.Y + 0.5), uint8(c.Z + 0.5)})
		}
	}
	if err := png.Encode(w, rgba); err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: encoding texture: " + err.Error()}
	}
	return nil
}

// SaveMask writes a grayscale debug PNG showing which mask bits are set:
// any byte with bit set is rendered white, everything else black.
func (img *Image) SaveMask(path string, bits uint8) error {
	f, err := os.Create(path)
	if err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: creating mask image: " + err.Error()}
	}
	defer f.Close()

	rgba := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			if img.MaskAt(x, y)&bits != 0 {
				rgba.Set(x, y, rgbaColor{255, 255, 255})
			} else {
				rgba.Set(x, y, rgbaColor{0, 0, 0})
			}
		}
	}
	if err := png.Encode(f, rgba); err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: encoding mask image: " + err.Error()}
	}
	return nil
}

type rgbaColor struct{ R, G, B uint8 }

func (c rgbaColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = 0xffff
	return
}

package texseam

import "math"

// QMask identifies which of a BC1 block's four palette colors a texel
// picked: C0, C1, or one of the two interpolated blends.
type QMask uint8

const (
	QMaskC0       QMask = 0
	QMaskC1       QMask = 1
	QMaskC0_23_C1_13 QMask = 2 // 2/3*c0 + 1/3*c1
	QMaskC0_13_C1_23 QMask = 3 // 1/3*c0 + 2/3*c1
)

// Weights returns (w0, w1) such that the palette color for mask is
// mix(c0, c1, w1).
func (mask QMask) Weights() (w0, w1 float64) {
	switch mask {
	case QMaskC0:
		return 1, 0
	case QMaskC0_23_C1_13:
		return 2.0 / 3.0, 1.0 / 3.0
	case QMaskC0_13_C1_23:
		return 1.0 / 3.0, 2.0 / 3.0
	case QMaskC1:
		return 0, 1
	default:
		panic("texseam: invalid block quantization mask")
	}
}

func (mask QMask) swapped() QMask {
	switch mask {
	case QMaskC0:
		return QMaskC1
	case QMaskC0_23_C1_13:
		return QMaskC0_13_C1_23
	case QMaskC0_13_C1_23:
		return QMaskC0_23_C1_13
	case QMaskC1:
		return QMaskC0
	default:
		panic("texseam: invalid block quantization mask")
	}
}

// Block is one 4x4 BC1 block: two float endpoint colors (still at full
// precision, pre-RGB565-quantization) and one QMask per texel, row-major.
type Block struct {
	C0, C1 Vec3
	Bit    [16]QMask
}

// Color returns the palette color texel i of blk resolves to.
func (blk Block) Color(i int) Vec3 {
	_, w1 := blk.Bit[i].Weights()
	return MixVec3(blk.C0, blk.C1, w1)
}

// getQuantizationMask returns whichever of {c0, c1, 2/3 c0+1/3 c1, 1/3
// c0+2/3 c1} is closest to color.
func getQuantizationMask(color, c0, c1 Vec3) QMask {
	const a, b = 2.0 / 3.0, 1.0 / 3.0
	c2 := c0.Scale(a).Add(c1.Scale(b))
	c3 := c0.Scale(b).Add(c1.Scale(a))

	dmin := math.MaxFloat64
	mask := QMaskC0

	if d := color.Distance(c0); d < dmin {
		dmin = d
		mask = QMaskC0
	}
	if d := color.Distance(c2); d < dmin {
		dmin = d
		mask = QMaskC0_23_C1_13
	}
	if d := color.Distance(c3); d < dmin {
		dmin = d
		mask = QMaskC0_13_C1_23
	}
	if d := color.Distance(c1); d < dmin {
		mask = QMaskC1
	}
	return mask
}

// findColorInterval picks c0, c1 as the clamped projections of the
// extreme points of cblk onto line, so the whole block lies within
// [c0, c1] along the fitted direction.
func findColorInterval(cblk []Vec3, line Line3) (c0, c1 Vec3) {
	tmin, tmax := 0.0, 0.0
	for _, c := range cblk {
		t := c.Sub(line.O).Dot(line.D)
		if t < tmin {
			tmin = t
		}
		if t > tmax {
			tmax = t
		}
	}
	return Clamp3(line.At(tmin), 0, 255), Clamp3(line.At(tmax), 0, 255)
}

// optimizeEndpoints refines blk.C0/C1 by least-squares: given the texel
// assignment already in blk.Bit, find the pair of endpoints that best
// reproduces the selected (masked-in) texels' colors under that
// assignment's interpolation weights, solved independently per RGB
// channel via the shared 2-variable normal-equations solve. It returns
// the total squared residual of that fit (before clamping), or 0 when the
// system is degenerate and the existing endpoints are kept.
func optimizeEndpoints(cblk []Vec3, mblk []uint8, bitmask uint8, blk *Block) float64 {
	var ind []int
	for i := range cblk {
		if bitmask == 0 || mblk[i]&bitmask != 0 {
			ind = append(ind, i)
		}
	}

	n := len(ind)
	// A is n x 2 (per-texel blend weights), B is n x 3 (per-texel colors).
	a := make([][2]float64, n)
	b := make([][3]float64, n)
	for k, i := range ind {
		w0, w1 := blk.Bit[i].Weights()
		a[k] = [2]float64{w0, w1}
		b[k] = [3]float64{cblk[i].X, cblk[i].Y, cblk[i].Z}
	}

	var ata [2][2]float64
	var atb [2][3]float64
	for k := 0; k < n; k++ {
		ata[0][0] += a[k][0] * a[k][0]
		ata[0][1] += a[k][0] * a[k][1]
		ata[1][0] += a[k][1] * a[k][0]
		ata[1][1] += a[k][1] * a[k][1]
		for j := 0; j < 3; j++ {
			atb[0][j] += a[k][0] * b[k][j]
			atb[1][j] += a[k][1] * b[k][j]
		}
	}

	det := ata[0][0]*ata[1][1] - ata[0][1]*ata[1][0]

	var r float64
	var c0, c1 Vec3
	if math.Abs(det) < 1e-9 {
		// Degenerate (e.g. every texel picked the same endpoint): keep
		// the existing endpoints rather than divide by ~0.
		c0, c1 = blk.C0, blk.C1
	} else {
		inv00 := ata[1][1] / det
		inv01 := -ata[0][1] / det
		inv10 := -ata[1][0] / det
		inv11 := ata[0][0] / det

		var x [2][3]float64
		for j := 0; j < 3; j++ {
			x[0][j] = inv00*atb[0][j] + inv01*atb[1][j]
			x[1][j] = inv10*atb[0][j] + inv11*atb[1][j]
		}
		c0 = Vec3{x[0][0], x[0][1], x[0][2]}
		c1 = Vec3{x[1][0], x[1][1], x[1][2]}

		for j := 0; j < 3; j++ {
			for k := 0; k < n; k++ {
				pred := a[k][0]*x[0][j] + a[k][1]*x[1][j]
				res := pred - b[k][j]
				r += res * res
			}
		}
	}

	blk.C0 = Clamp3(c0, 0, 255)
	blk.C1 = Clamp3(c1, 0, 255)
	return r
}

// computeBlock builds a single 4x4 BC1 block from its 16 pixels (cblk,
// row-major) and mask bytes (mblk), considering only texels matching
// bitmask when fitting the endpoints (bitmask==0 means every texel).
func computeBlock(cblk []Vec3, mblk []uint8, bitmask uint8) Block {
	var blk Block

	var fitted []Vec3
	for i, m := range mblk {
		if bitmask == 0 || m&bitmask != 0 {
			fitted = append(fitted, cblk[i])
		}
	}
	if len(fitted) == 0 {
		fitted = []Vec3{{0, 0, 0}}
	}

	line := FitLine(fitted)
	blk.C0, blk.C1 = findColorInterval(fitted, line)

	for i := range blk.Bit {
		blk.Bit[i] = getQuantizationMask(cblk[i], blk.C0, blk.C1)
	}

	if len(fitted) > 2 {
		optimizeEndpoints(cblk, mblk, bitmask, &blk)
	}

	return blk
}

// quantizeColor packs a full-precision RGB color into RGB565.
func quantizeColor(c Vec3) uint16 {
	r16 := uint16(math.Round(c.X))
	g16 := uint16(math.Round(c.Y))
	b16 := uint16(math.Round(c.Z))
	return ((r16 >> 3) << 11) | ((g16 >> 2) << 5) | (b16 >> 3)
}

// quantized2rgb unpacks an RGB565 color back to full-precision RGB.
func quantized2rgb(c uint16) Vec3 {
	return Vec3{
		float64(c>>11) * (255.0 / 31.0),
		float64((c>>5)&0x3f) * (255.0 / 63.0),
		float64(c&0x1f) * (255.0 / 31.0),
	}
}

// CompressedBlock is the 8-byte on-disk BC1 block encoding.
type CompressedBlock struct {
	C0, C1 uint16
	Index  uint32
}

// compressBlock quantizes blk's endpoints to RGB565 and packs its 16
// 2-bit indices, applying the BC1 endpoint-swap convention: when the
// packed c0 < c1, swap them and remap every index (0<->1, 2<->3) so a
// BC1 decoder reconstructs the same palette; when c0==c1 (opaque run),
// every index is forced to 0.
func compressBlock(blk Block) CompressedBlock {
	c0 := quantizeColor(blk.C0)
	c1 := quantizeColor(blk.C1)

	swapped := false
	if c0 < c1 {
		c0, c1 = c1, c0
		swapped = true
	}

	cb := CompressedBlock{C0: c0, C1: c1}
	for i := 0; i < 16; i++ {
		mask := blk.Bit[i]
		if swapped {
			mask = mask.swapped()
		}
		idx := uint32(mask)
		if c0 == c1 {
			idx = 0
		}
		cb.Index |= idx << (2 * i)
	}
	return cb
}

package texseam

import (
	"encoding/binary"
	"fmt"
	"os"
)

// BlockErrorData summarizes how well one compressed block reproduces its
// source pixels, restricted to texels that are Internal or Seam.
type BlockErrorData struct {
	BlockIndex int
	MinError   float64
	MaxError   float64
	AvgError   float64
}

// CompressedImage is a grid of BC1 blocks (still at full float precision
// until QuantizeBlocks is called) covering an image whose dimensions
// must be multiples of 4.
type CompressedImage struct {
	W, H int
	Data []Block
}

// NewCompressedImage builds a CompressedImage by independently encoding
// every 4x4 block of img, considering only texels matching bitmask when
// fitting each block's endpoints.
func NewCompressedImage(img *Image, bitmask uint8) (*CompressedImage, error) {
	if img.W%4 != 0 || img.H%4 != 0 {
		return nil, newError(ErrBadDimensions, "texseam: image dimensions must be multiples of 4")
	}

	ci := &CompressedImage{W: img.W, H: img.H}
	ci.Data = make([]Block, (ci.W/4)*(ci.H/4))

	cblk := make([]Vec3, 16)
	mblk := make([]uint8, 16)

	for y := 0; y < ci.H/4; y++ {
		for x := 0; x < ci.W/4; x++ {
			n := 0
			for h := 0; h < 4; h++ {
				for k := 0; k < 4; k++ {
					cblk[n] = img.At(4*x+k, 4*y+h)
					mblk[n] = img.MaskAt(4*x+k, 4*y+h)
					n++
				}
			}
			ci.Data[y*(ci.W/4)+x] = computeBlock(cblk, mblk, bitmask)
		}
	}
	return ci, nil
}

// NBlocks returns the number of blocks in the grid.
func (ci *CompressedImage) NBlocks() int { return len(ci.Data) }

func (ci *CompressedImage) blocksPerRow() int { return ci.W / 4 }

// BlockIndex returns the flat block-grid index covering pixel (x, y).
func (ci *CompressedImage) BlockIndex(x, y int) int {
	return (y/4)*ci.blocksPerRow() + (x / 4)
}

// GetBlock returns the block covering pixel (x, y).
func (ci *CompressedImage) GetBlock(x, y int) Block {
	return ci.Data[ci.BlockIndex(x, y)]
}

// GetBlockAt returns the i-th block.
func (ci *CompressedImage) GetBlockAt(i int) Block { return ci.Data[i] }

// GetMask returns the QMask byte for texel (x, y), with toroidal
// wraparound.
func (ci *CompressedImage) GetMask(x, y int) QMask {
	x = ((x % ci.W) + ci.W) % ci.W
	y = ((y % ci.H) + ci.H) % ci.H
	blk := ci.GetBlock(x, y)
	return blk.Bit[(y%4)*4+(x%4)]
}

// SetBlockColor overwrites block (bx, by)'s endpoint (0 or 1) with c.
func (ci *CompressedImage) SetBlockColor(bx, by, endpoint int, c Vec3) {
	i := by*ci.blocksPerRow() + bx
	if endpoint == 0 {
		ci.Data[i].C0 = c
	} else {
		ci.Data[i].C1 = c
	}
}

// Pixel reconstructs the decoded color at texel (x, y).
func (ci *CompressedImage) Pixel(x, y int) Vec3 {
	blk := ci.GetBlock(x, y)
	mask := ci.GetMask(x, y)
	_, w1 := mask.Weights()
	return MixVec3(blk.C0, blk.C1, w1)
}

// QuantizeBlocks rounds every block's endpoints through the RGB565
// quantization grid, so Pixel/Save reflect the precision loss a real BC1
// decoder would see.
func (ci *CompressedImage) QuantizeBlocks() {
	for i := range ci.Data {
		ci.Data[i].C0 = quantized2rgb(quantizeColor(ci.Data[i].C0))
		ci.Data[i].C1 = quantized2rgb(quantizeColor(ci.Data[i].C1))
	}
}

// ComputePerBlockError compares every block's decoded texels against
// img's original pixels, restricted to Internal|Seam texels.
func (ci *CompressedImage) ComputePerBlockError(img *Image) ([]BlockErrorData, error) {
	if ci.W != img.W || ci.H != img.H {
		return nil, newError(ErrBadDimensions, "texseam: compressed image and source dimensions differ")
	}

	out := make([]BlockErrorData, 0, ci.NBlocks())
	for by := 0; by < ci.H/4; by++ {
		for bx := 0; bx < ci.W/4; bx++ {
			blkIndex := ci.BlockIndex(4*bx, 4*by)
			blk := ci.Data[blkIndex]

			minErr, maxErr, total := 1e10, 0.0, 0.0
			n := 0
			for h := 0; h < 4; h++ {
				for k := 0; k < 4; k++ {
					x, y := 4*bx+k, 4*by+h
					m := img.MaskAt(x, y)
					if m&(uint8(Internal)|uint8(Seam)) == 0 {
						continue
					}
					i := h*4 + k
					dist := blk.Color(i).Distance(img.At(x, y))
					if dist < minErr {
						minErr = dist
					}
					if dist > maxErr {
						maxErr = dist
					}
					total += dist
					n++
				}
			}
			if n > 0 {
				out = append(out, BlockErrorData{blkIndex, minErr, maxErr, total / float64(n)})
			} else {
				out = append(out, BlockErrorData{blkIndex, 0, 0, 0})
			}
		}
	}
	return out, nil
}

// ddsMagic is the 4-byte "DDS " file magic.
const ddsMagic uint32 = 0x20534444

// ddsPixelFormat is the 32-byte DDS_PIXELFORMAT structure for an
// uncompressed-alpha BC1/DXT1 payload.
type ddsPixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// ddsHeader is the 124-byte DDS_HEADER structure (excluding the leading
// magic), per Microsoft's DDS reference.
type ddsHeader struct {
	Size             uint32
	Flags            uint32
	Height           uint32
	Width            uint32
	PitchOrLinearSize uint32
	Depth            uint32
	MipMapCount      uint32
	Reserved1        [11]uint32
	PixelFormat      ddsPixelFormat
	Caps             uint32
	Caps2            uint32
	Caps3            uint32
	Caps4            uint32
	Reserved2        uint32
}

func fourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

func (ci *CompressedImage) generateHeader() ddsHeader {
	var h ddsHeader
	h.Size = 124
	h.Flags = 0x1 | 0x2 | 0x4 | 0x1000
	h.Height = uint32(ci.H)
	h.Width = uint32(ci.W)
	h.MipMapCount = 1
	h.Caps = 0x1000
	h.PixelFormat = ddsPixelFormat{
		Size:   32,
		Flags:  0x4,
		FourCC: fourCC("DXT1"),
	}
	return h
}

// Save writes ci as a BC1/DXT1 .dds file.
func (ci *CompressedImage) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: creating dds file: " + err.Error()}
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, ddsMagic); err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: writing dds magic: " + err.Error()}
	}
	header := ci.generateHeader()
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		return &Error{Code: ErrIO, Msg: "texseam: writing dds header: " + err.Error()}
	}
	for _, blk := range ci.Data {
		cb := compressBlock(blk)
		if err := binary.Write(f, binary.LittleEndian, cb); err != nil {
			return &Error{Code: ErrIO, Msg: "texseam: writing dds block: " + err.Error()}
		}
	}
	return nil
}

// SaveUncompressed writes a full-resolution PNG showing ci as decoded
// (reconstructed from its current, possibly quantized, block endpoints).
func (ci *CompressedImage) SaveUncompressed(path string) error {
	img := NewImage(ci.W, ci.H)
	for y := 0; y < ci.H; y++ {
		for x := 0; x < ci.W; x++ {
			img.SetAt(x, y, ci.Pixel(x, y))
		}
	}
	return img.Save(path)
}

// String renders a block-grid summary useful for CLI progress output.
func (ci *CompressedImage) String() string {
	return fmt.Sprintf("%dx%d texels, %d blocks", ci.W, ci.H, ci.NBlocks())
}

package texseam

import "sort"

// CompressSeamAware builds a seam-aware BC1 compression of texture: it
// first compresses every block independently, then repeatedly re-solves
// block endpoints for seam consistency, freezing (pinning) the
// best-reconstructing ~1% of not-yet-frozen blocks after each pass, until
// no new block can be frozen or maxIter passes have run.
func CompressSeamAware(m *Mesh, texture *Image, maxIter int) (*CompressedImage, error) {
	cimg, err := NewCompressedImage(texture, uint8(Seam)|uint8(Internal))
	if err != nil {
		return nil, err
	}
	cimg.QuantizeBlocks()

	fixedBlocks := make(map[int]bool)

	for iter := 0; ; iter++ {
		var solver BlockSolver
		if _, err := solver.FixSeams(m, texture, cimg, fixedBlocks); err != nil {
			return nil, err
		}
		cimg.QuantizeBlocks()

		if iter+1 >= maxIter {
			break
		}

		blockErr, err := cimg.ComputePerBlockError(texture)
		if err != nil {
			return nil, err
		}
		sort.Slice(blockErr, func(i, j int) bool { return blockErr[i].AvgError < blockErr[j].AvgError })

		limit := int(0.01 * float64(len(blockErr)))
		if limit < 1 {
			limit = 1
		}

		numInserted := 0
		for _, e := range blockErr {
			if !fixedBlocks[e.BlockIndex] {
				fixedBlocks[e.BlockIndex] = true
				numInserted++
			}
			if numInserted > limit {
				break
			}
		}

		if numInserted == 0 {
			break
		}
	}

	return cimg, nil
}

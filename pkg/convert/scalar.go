package convert

import "github.com/user/h264kit/pkg/frame"

// yuvToPackedScalar walks the image pixel by pixel, re-deriving the chroma
// terms for every sample. Slow but obviously correct; the block kernel is
// held to this output bit for bit.
func yuvToPackedScalar(src *frame.Plane, dst *frame.Packed, m Matrix) {
	for y := 0; y < src.Height; y++ {
		yrow := src.Y[y*src.StrideY:]
		coff := (y / 2) * src.StrideC
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < src.Width; x++ {
			rt, gt, bt := m.chromaTerms(src.Cb[coff+x/2], src.Cr[coff+x/2])
			emitPixel(drow, x, dst.Order, m.lumaTerm(yrow[x]), rt, gt, bt)
		}
	}
}

// packedToYUVScalar converts luma in one pass and chroma in a second.
func packedToYUVScalar(src *frame.Packed, dst *frame.Plane, m Matrix) {
	for y := 0; y < src.Height; y++ {
		row := src.Pix[y*src.Stride:]
		yrow := dst.Y[y*dst.StrideY:]
		for x := 0; x < src.Width; x++ {
			yrow[x] = m.lumaFromRGB(readPixel(row, x, src.Order))
		}
	}
	cw, ch := dst.ChromaWidth(), dst.ChromaHeight()
	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			cb, cr := blockChroma(src, m, cx, cy)
			off := cy*dst.StrideC + cx
			dst.Cb[off] = cb
			dst.Cr[off] = cr
		}
	}
}

// blockChroma averages the pixels of one chroma block and runs the matrix
// on the sums. Blocks clipped by the right or bottom edge of an odd-sized
// image cover one or two pixels instead of four. Both kernels derive edge
// chroma through this helper, so the weighting never depends on the path.
func blockChroma(src *frame.Packed, m Matrix, cx, cy int) (byte, byte) {
	var sr, sg, sb, n int32
	for dy := 0; dy < 2; dy++ {
		y := cy*2 + dy
		if y >= src.Height {
			break
		}
		row := src.Pix[y*src.Stride:]
		for dx := 0; dx < 2; dx++ {
			x := cx*2 + dx
			if x >= src.Width {
				break
			}
			r, g, b := readPixel(row, x, src.Order)
			sr += r
			sg += g
			sb += b
			n++
		}
	}
	return m.chromaFromSums(sr, sg, sb, n)
}

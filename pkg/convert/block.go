package convert

import "github.com/user/h264kit/pkg/frame"

// yuvToPackedBlock emits four pixels per chroma sample, hoisting the chroma
// terms out of each 2x2 block the way a vector kernel keeps them in
// registers. A ragged bottom row falls back to per-pixel work.
func yuvToPackedBlock(src *frame.Plane, dst *frame.Packed, m Matrix) {
	w, h := src.Width, src.Height
	for cy := 0; cy < h/2; cy++ {
		y0 := cy * 2
		yr0 := src.Y[y0*src.StrideY:]
		yr1 := src.Y[(y0+1)*src.StrideY:]
		cbRow := src.Cb[cy*src.StrideC:]
		crRow := src.Cr[cy*src.StrideC:]
		d0 := dst.Pix[y0*dst.Stride:]
		d1 := dst.Pix[(y0+1)*dst.Stride:]
		for cx := 0; cx < (w+1)/2; cx++ {
			rt, gt, bt := m.chromaTerms(cbRow[cx], crRow[cx])
			x := cx * 2
			emitPixel(d0, x, dst.Order, m.lumaTerm(yr0[x]), rt, gt, bt)
			emitPixel(d1, x, dst.Order, m.lumaTerm(yr1[x]), rt, gt, bt)
			if x+1 < w {
				emitPixel(d0, x+1, dst.Order, m.lumaTerm(yr0[x+1]), rt, gt, bt)
				emitPixel(d1, x+1, dst.Order, m.lumaTerm(yr1[x+1]), rt, gt, bt)
			}
		}
	}
	if h%2 == 1 {
		y := h - 1
		yrow := src.Y[y*src.StrideY:]
		cbRow := src.Cb[(y/2)*src.StrideC:]
		crRow := src.Cr[(y/2)*src.StrideC:]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			rt, gt, bt := m.chromaTerms(cbRow[x/2], crRow[x/2])
			emitPixel(drow, x, dst.Order, m.lumaTerm(yrow[x]), rt, gt, bt)
		}
	}
}

// packedToYUVBlock fuses the luma and chroma passes: each full 2x2 block is
// read once, its four luma samples written and its channel sums fed to the
// matrix directly.
func packedToYUVBlock(src *frame.Packed, dst *frame.Plane, m Matrix) {
	w, h := src.Width, src.Height
	for cy := 0; cy < h/2; cy++ {
		y0 := cy * 2
		row0 := src.Pix[y0*src.Stride:]
		row1 := src.Pix[(y0+1)*src.Stride:]
		yr0 := dst.Y[y0*dst.StrideY:]
		yr1 := dst.Y[(y0+1)*dst.StrideY:]
		coff := cy * dst.StrideC
		for cx := 0; cx < w/2; cx++ {
			x := cx * 2
			r00, g00, b00 := readPixel(row0, x, src.Order)
			r01, g01, b01 := readPixel(row0, x+1, src.Order)
			r10, g10, b10 := readPixel(row1, x, src.Order)
			r11, g11, b11 := readPixel(row1, x+1, src.Order)
			yr0[x] = m.lumaFromRGB(r00, g00, b00)
			yr0[x+1] = m.lumaFromRGB(r01, g01, b01)
			yr1[x] = m.lumaFromRGB(r10, g10, b10)
			yr1[x+1] = m.lumaFromRGB(r11, g11, b11)
			cb, cr := m.chromaFromSums(r00+r01+r10+r11, g00+g01+g10+g11, b00+b01+b10+b11, 4)
			dst.Cb[coff+cx] = cb
			dst.Cr[coff+cx] = cr
		}
		if w%2 == 1 {
			x := w - 1
			r0, g0, b0 := readPixel(row0, x, src.Order)
			r1, g1, b1 := readPixel(row1, x, src.Order)
			yr0[x] = m.lumaFromRGB(r0, g0, b0)
			yr1[x] = m.lumaFromRGB(r1, g1, b1)
			cb, cr := m.chromaFromSums(r0+r1, g0+g1, b0+b1, 2)
			dst.Cb[coff+w/2] = cb
			dst.Cr[coff+w/2] = cr
		}
	}
	if h%2 == 1 {
		y := h - 1
		row := src.Pix[y*src.Stride:]
		yrow := dst.Y[y*dst.StrideY:]
		for x := 0; x < w; x++ {
			yrow[x] = m.lumaFromRGB(readPixel(row, x, src.Order))
		}
		coff := (y / 2) * dst.StrideC
		for cx := 0; cx < (w+1)/2; cx++ {
			cb, cr := blockChroma(src, m, cx, y/2)
			dst.Cb[coff+cx] = cb
			dst.Cr[coff+cx] = cr
		}
	}
}

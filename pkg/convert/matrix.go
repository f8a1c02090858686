package convert

import "github.com/user/h264kit/pkg/frame"

// Matrix holds the fixed-point coefficients of one color space, scaled by
// 256, for both conversion directions. Decoding maps studio-range YCbCr
// (luma 16..235, chroma 16..240) to full-range packed samples; encoding is
// the inverse. All kernels, scalar and block alike, evaluate pixels through
// the term helpers below so that every code path produces bit-identical
// output.
type Matrix struct {
	name string

	// YCbCr to RGB, applied to c=Y-16, d=Cb-128, e=Cr-128.
	ly, rv, gu, gv, bu int32

	// RGB to YCbCr.
	yr, yg, yb int32
	ur, ug, ub int32
	vr, vg, vb int32
}

// BT601 is the SD studio-range matrix (ITU-R BT.601).
var BT601 = Matrix{
	name: "bt601",
	ly:   298, rv: 409, gu: -100, gv: -208, bu: 516,
	yr: 66, yg: 129, yb: 25,
	ur: -38, ug: -74, ub: 112,
	vr: 112, vg: -94, vb: -18,
}

// BT709 is the HD studio-range matrix (ITU-R BT.709).
var BT709 = Matrix{
	name: "bt709",
	ly:   298, rv: 459, gu: -55, gv: -136, bu: 541,
	yr: 47, yg: 157, yb: 16,
	ur: -26, ug: -87, ub: 112,
	vr: 112, vg: -102, vb: -10,
}

func (m Matrix) String() string { return m.name }

func (m Matrix) known() bool { return m.ly != 0 }

// lumaTerm is the luma contribution to every channel of one output pixel.
func (m Matrix) lumaTerm(y byte) int32 {
	return m.ly * (int32(y) - 16)
}

// chromaTerms are the per-channel chroma contributions shared by the four
// luma samples of a 2x2 block. The bias rounds the final shift up rather
// than to nearest; paired with the truncating encode direction below this
// keeps studio-range grayscale luma exact through a full round trip, which
// the textbook +128 bias does not.
func (m Matrix) chromaTerms(cb, cr byte) (rt, gt, bt int32) {
	d := int32(cb) - 128
	e := int32(cr) - 128
	rt = m.rv*e + 255
	gt = m.gu*d + m.gv*e + 255
	bt = m.bu*d + 255
	return rt, gt, bt
}

// lumaFromRGB truncates, matching chromaFromSums. The weights guarantee a
// result in the studio range 16..235 for any 8-bit input, so no clamp is
// needed.
func (m Matrix) lumaFromRGB(r, g, b int32) byte {
	return byte(((m.yr*r + m.yg*g + m.yb*b) >> 8) + 16)
}

// chromaFromSums derives one chroma pair from channel sums over a block of
// n pixels, where n is 1, 2 or 4 depending on edge clipping. The block
// average is folded into the final shift so no precision is lost before
// the matrix is applied.
func (m Matrix) chromaFromSums(sr, sg, sb, n int32) (cb, cr byte) {
	shift := uint(8)
	switch n {
	case 2:
		shift = 9
	case 4:
		shift = 10
	}
	bias := n * 32768
	cb = byte((m.ur*sr + m.ug*sg + m.ub*sb + bias) >> shift)
	cr = byte((m.vr*sr + m.vg*sg + m.vb*sb + bias) >> shift)
	return cb, cr
}

func clamp8(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// emitPixel combines precomputed luma and chroma terms into one packed
// pixel. Both kernels funnel through here, which is what makes their
// outputs bit-identical by construction.
func emitPixel(row []byte, x int, order frame.ChannelOrder, lt, rt, gt, bt int32) {
	r := clamp8((lt + rt) >> 8)
	g := clamp8((lt + gt) >> 8)
	b := clamp8((lt + bt) >> 8)
	switch order {
	case frame.OrderRGB:
		o := x * 3
		row[o], row[o+1], row[o+2] = r, g, b
	case frame.OrderBGR:
		o := x * 3
		row[o], row[o+1], row[o+2] = b, g, r
	default:
		o := x * 4
		row[o], row[o+1], row[o+2], row[o+3] = r, g, b, 0xFF
	}
}

func readPixel(row []byte, x int, order frame.ChannelOrder) (r, g, b int32) {
	switch order {
	case frame.OrderRGB:
		o := x * 3
		return int32(row[o]), int32(row[o+1]), int32(row[o+2])
	case frame.OrderBGR:
		o := x * 3
		return int32(row[o+2]), int32(row[o+1]), int32(row[o])
	default:
		o := x * 4
		return int32(row[o]), int32(row[o+1]), int32(row[o+2])
	}
}

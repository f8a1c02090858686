// Package convert translates between 4:2:0 planar frames and packed RGB
// buffers using studio-range integer matrices. Two kernel implementations
// exist: a plain scalar one and a block kernel that walks row pairs and
// shares chroma work across each 2x2 block. They are interchangeable and
// produce bit-identical output for every 8-bit input.
package convert

import (
	"github.com/user/h264kit/pkg/frame"
	"golang.org/x/sys/cpu"
)

type kernelSet struct {
	name        string
	planeToPack func(*frame.Plane, *frame.Packed, Matrix)
	packToPlane func(*frame.Packed, *frame.Plane, Matrix)
}

var (
	scalarKernels = kernelSet{"scalar", yuvToPackedScalar, packedToYUVScalar}
	blockKernels  = kernelSet{"block", yuvToPackedBlock, packedToYUVBlock}

	active = detectKernels()
)

// detectKernels picks the block kernel on targets with usable vector
// units. The block kernel is pure Go; the capability check keeps the
// cache-unfriendlier access pattern off tiny in-order cores.
func detectKernels() *kernelSet {
	if cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD {
		return &blockKernels
	}
	return &scalarKernels
}

// ActivePath reports which kernel implementation conversions currently use.
func ActivePath() string { return active.name }

// UseScalar forces the scalar kernels. Intended for equivalence tests.
func UseScalar() { active = &scalarKernels }

// UseBlock forces the block kernels. Intended for equivalence tests.
func UseBlock() { active = &blockKernels }

// UseAuto restores capability-based kernel selection.
func UseAuto() { active = detectKernels() }

func checkPair(m Matrix, order frame.ChannelOrder, sw, sh, dw, dh int) error {
	if !m.known() || order < frame.OrderRGB || order > frame.OrderRGBA {
		return ErrUnsupportedFormat
	}
	if sw != dw || sh != dh {
		return ErrDimensionMismatch
	}
	return nil
}

// YUVToPacked converts src into dst, which must already be allocated with
// the same width and height. Each output channel is clamped to [0,255].
func YUVToPacked(src *frame.Plane, dst *frame.Packed, m Matrix) error {
	if err := checkPair(m, dst.Order, src.Width, src.Height, dst.Width, dst.Height); err != nil {
		return err
	}
	active.planeToPack(src, dst, m)
	return nil
}

// PackedToYUV converts src into dst, which must already be allocated with
// the same width and height. Chroma is derived per 2x2 block by averaging
// the pixels present in the block; edge blocks clipped by odd dimensions
// average the one or two pixels they actually cover.
func PackedToYUV(src *frame.Packed, dst *frame.Plane, m Matrix) error {
	if err := checkPair(m, src.Order, src.Width, src.Height, dst.Width, dst.Height); err != nil {
		return err
	}
	active.packToPlane(src, dst, m)
	return nil
}

// ToPacked allocates a packed buffer of the right size and converts into it.
func ToPacked(src *frame.Plane, order frame.ChannelOrder, m Matrix) (*frame.Packed, error) {
	dst, err := frame.NewPacked(src.Width, src.Height, order)
	if err != nil {
		return nil, err
	}
	if err := YUVToPacked(src, dst, m); err != nil {
		return nil, err
	}
	return dst, nil
}

// ToPlane allocates a plane buffer of the right size and converts into it.
// The source timestamp, if any, does not exist on packed buffers, so the
// result carries timestamp zero.
func ToPlane(src *frame.Packed, m Matrix) (*frame.Plane, error) {
	dst, err := frame.NewPlane(src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	if err := PackedToYUV(src, dst, m); err != nil {
		return nil, err
	}
	return dst, nil
}

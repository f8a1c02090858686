package convert

import (
	"runtime"

	"github.com/user/h264kit/pkg/frame"
	"golang.org/x/sync/errgroup"
)

// YUVToPackedParallel behaves like YUVToPacked but splits the image into
// horizontal bands converted concurrently. Bands are aligned to chroma
// rows so no 2x2 block straddles two workers. workers <= 0 means one band
// per logical CPU.
func YUVToPackedParallel(src *frame.Plane, dst *frame.Packed, m Matrix, workers int) error {
	if err := checkPair(m, dst.Order, src.Width, src.Height, dst.Width, dst.Height); err != nil {
		return err
	}
	kern := active
	var g errgroup.Group
	for _, b := range bands(src.Height, workers) {
		sp, dp := subPlane(src, b[0], b[1]), subPacked(dst, b[0], b[1])
		g.Go(func() error {
			kern.planeToPack(sp, dp, m)
			return nil
		})
	}
	return g.Wait()
}

// PackedToYUVParallel is the band-parallel form of PackedToYUV.
func PackedToYUVParallel(src *frame.Packed, dst *frame.Plane, m Matrix, workers int) error {
	if err := checkPair(m, src.Order, src.Width, src.Height, dst.Width, dst.Height); err != nil {
		return err
	}
	kern := active
	var g errgroup.Group
	for _, b := range bands(src.Height, workers) {
		sp, dp := subPacked(src, b[0], b[1]), subPlane(dst, b[0], b[1])
		g.Go(func() error {
			kern.packToPlane(sp, dp, m)
			return nil
		})
	}
	return g.Wait()
}

// bands cuts height into [start, end) row ranges whose starts are even.
func bands(height, workers int) [][2]int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	crows := (height + 1) / 2
	if workers > crows {
		workers = crows
	}
	per := (crows + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for r := 0; r < crows; r += per {
		y0 := r * 2
		y1 := (r + per) * 2
		if y1 > height {
			y1 = height
		}
		out = append(out, [2]int{y0, y1})
	}
	return out
}

// subPlane views rows [y0, y1) of p as a standalone plane sharing storage.
// y0 must be even so the band's chroma rows line up.
func subPlane(p *frame.Plane, y0, y1 int) *frame.Plane {
	s := *p
	s.Y = p.Y[y0*p.StrideY : y1*p.StrideY]
	c0 := (y0 / 2) * p.StrideC
	c1 := ((y1 + 1) / 2) * p.StrideC
	s.Cb = p.Cb[c0:c1]
	s.Cr = p.Cr[c0:c1]
	s.Height = y1 - y0
	return &s
}

func subPacked(p *frame.Packed, y0, y1 int) *frame.Packed {
	s := *p
	s.Pix = p.Pix[y0*p.Stride : y1*p.Stride]
	s.Height = y1 - y0
	return &s
}

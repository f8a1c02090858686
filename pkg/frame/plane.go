// Package frame provides the pixel buffer value types exchanged with the
// codec sessions: planar YUV 4:2:0 frames and packed RGB/BGR buffers.
// Buffers own their memory; once returned by a session they are never
// touched by it again and may be shared read-only across goroutines.
package frame

import "image"

// Plane is a planar YUV 4:2:0 picture. The luma plane is Width×Height;
// each chroma plane is ceil(Width/2) × ceil(Height/2). Strides may
// exceed the logical row width for alignment, never undercut it.
type Plane struct {
	Y  []byte
	Cb []byte
	Cr []byte

	Width  int
	Height int

	// StrideY and StrideC are the row pitches in bytes of the luma and
	// chroma planes.
	StrideY int
	StrideC int

	// TimestampMs carries the presentation timestamp through the codec
	// sessions. It is pass-through data, not interpreted by this package.
	TimestampMs int64
}

// NewPlane allocates a Plane with tight strides (stride == row width).
func NewPlane(width, height int) (*Plane, error) {
	cw, ch := chromaDims(width, height)
	return NewPlaneWithStrides(width, height, width, cw, make([]byte, width*height), make([]byte, cw*ch), make([]byte, cw*ch))
}

// NewPlaneWithStrides builds a Plane over caller-provided storage and
// validates the stride and length invariants.
func NewPlaneWithStrides(width, height, strideY, strideC int, y, cb, cr []byte) (*Plane, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	cw, ch := chromaDims(width, height)
	if strideY < width || strideC < cw {
		return nil, ErrInvalidStride
	}
	if len(y) != strideY*height || len(cb) != strideC*ch || len(cr) != strideC*ch {
		return nil, ErrPlaneSize
	}
	return &Plane{
		Y: y, Cb: cb, Cr: cr,
		Width: width, Height: height,
		StrideY: strideY, StrideC: strideC,
	}, nil
}

// ChromaWidth returns ceil(Width/2).
func (p *Plane) ChromaWidth() int {
	return (p.Width + 1) / 2
}

// ChromaHeight returns ceil(Height/2).
func (p *Plane) ChromaHeight() int {
	return (p.Height + 1) / 2
}

// Luma returns the luma sample at (x, y). It panics if the coordinates
// are out of the logical picture bounds.
func (p *Plane) Luma(x, y int) byte {
	p.checkLuma(x, y)
	return p.Y[y*p.StrideY+x]
}

// SetLuma stores the luma sample at (x, y).
func (p *Plane) SetLuma(x, y int, v byte) {
	p.checkLuma(x, y)
	p.Y[y*p.StrideY+x] = v
}

// ChromaB returns the blue-difference chroma sample at chroma
// coordinates (cx, cy).
func (p *Plane) ChromaB(cx, cy int) byte {
	p.checkChroma(cx, cy)
	return p.Cb[cy*p.StrideC+cx]
}

// ChromaR returns the red-difference chroma sample at chroma
// coordinates (cx, cy).
func (p *Plane) ChromaR(cx, cy int) byte {
	p.checkChroma(cx, cy)
	return p.Cr[cy*p.StrideC+cx]
}

// SetChroma stores both chroma samples at chroma coordinates (cx, cy).
func (p *Plane) SetChroma(cx, cy int, cb, cr byte) {
	p.checkChroma(cx, cy)
	p.Cb[cy*p.StrideC+cx] = cb
	p.Cr[cy*p.StrideC+cx] = cr
}

func (p *Plane) checkLuma(x, y int) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		panic("frame: luma access out of bounds")
	}
}

func (p *Plane) checkChroma(cx, cy int) {
	if cx < 0 || cx >= p.ChromaWidth() || cy < 0 || cy >= p.ChromaHeight() {
		panic("frame: chroma access out of bounds")
	}
}

// Clone returns a deep copy of the Plane.
func (p *Plane) Clone() *Plane {
	c := *p
	c.Y = append([]byte(nil), p.Y...)
	c.Cb = append([]byte(nil), p.Cb...)
	c.Cr = append([]byte(nil), p.Cr...)
	return &c
}

// ToImage copies the Plane into a stdlib *image.YCbCr with 4:2:0
// subsampling, for interoperability with image-based code.
func (p *Plane) ToImage() *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, p.Width, p.Height), image.YCbCrSubsampleRatio420)
	for y := 0; y < p.Height; y++ {
		copy(img.Y[y*img.YStride:], p.Y[y*p.StrideY:y*p.StrideY+p.Width])
	}
	cw, ch := chromaDims(p.Width, p.Height)
	for cy := 0; cy < ch; cy++ {
		copy(img.Cb[cy*img.CStride:], p.Cb[cy*p.StrideC:cy*p.StrideC+cw])
		copy(img.Cr[cy*img.CStride:], p.Cr[cy*p.StrideC:cy*p.StrideC+cw])
	}
	return img
}

// FromImage copies a stdlib 4:2:0 *image.YCbCr into a new Plane.
func FromImage(img *image.YCbCr) (*Plane, error) {
	if img.SubsampleRatio != image.YCbCrSubsampleRatio420 {
		return nil, ErrInvalidDimensions
	}
	b := img.Bounds()
	p, err := NewPlane(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < p.Height; y++ {
		srcY := img.YOffset(b.Min.X, b.Min.Y+y)
		copy(p.Y[y*p.StrideY:y*p.StrideY+p.Width], img.Y[srcY:])
	}
	cw, ch := chromaDims(p.Width, p.Height)
	for cy := 0; cy < ch; cy++ {
		srcC := img.COffset(b.Min.X, b.Min.Y+2*cy)
		copy(p.Cb[cy*p.StrideC:cy*p.StrideC+cw], img.Cb[srcC:])
		copy(p.Cr[cy*p.StrideC:cy*p.StrideC+cw], img.Cr[srcC:])
	}
	return p, nil
}

func chromaDims(width, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}

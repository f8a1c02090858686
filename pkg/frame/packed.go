package frame

import "image"

// ChannelOrder fixes the byte order and channel count of a Packed buffer.
type ChannelOrder int

const (
	// OrderRGB is 3 bytes per pixel: red, green, blue.
	OrderRGB ChannelOrder = iota
	// OrderBGR is 3 bytes per pixel: blue, green, red.
	OrderBGR
	// OrderRGBA is 4 bytes per pixel: red, green, blue, opaque alpha.
	OrderRGBA
)

// Channels returns the number of bytes per pixel for the order.
func (o ChannelOrder) Channels() int {
	if o == OrderRGBA {
		return 4
	}
	return 3
}

// String returns the order name.
func (o ChannelOrder) String() string {
	switch o {
	case OrderRGB:
		return "rgb"
	case OrderBGR:
		return "bgr"
	case OrderRGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// Packed is a packed-pixel picture: one contiguous byte region with a
// row stride of at least Width × channel count.
type Packed struct {
	Pix []byte

	Width  int
	Height int
	Stride int
	Order  ChannelOrder
}

// NewPacked allocates a Packed buffer with a tight stride.
func NewPacked(width, height int, order ChannelOrder) (*Packed, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	stride := width * order.Channels()
	return &Packed{
		Pix:    make([]byte, stride*height),
		Width:  width,
		Height: height,
		Stride: stride,
		Order:  order,
	}, nil
}

// NewPackedWithStride builds a Packed buffer over caller-provided
// storage and validates the stride and length invariants.
func NewPackedWithStride(width, height, stride int, order ChannelOrder, pix []byte) (*Packed, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if stride < width*order.Channels() {
		return nil, ErrInvalidStride
	}
	if len(pix) != stride*height {
		return nil, ErrPlaneSize
	}
	return &Packed{Pix: pix, Width: width, Height: height, Stride: stride, Order: order}, nil
}

// At returns the channel bytes of the pixel at (x, y) in buffer order.
// It panics if the coordinates are out of bounds.
func (p *Packed) At(x, y int) []byte {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		panic("frame: packed access out of bounds")
	}
	off := y*p.Stride + x*p.Order.Channels()
	return p.Pix[off : off+p.Order.Channels()]
}

// Clone returns a deep copy of the buffer.
func (p *Packed) Clone() *Packed {
	c := *p
	c.Pix = append([]byte(nil), p.Pix...)
	return &c
}

// ToImage copies the buffer into a stdlib *image.RGBA.
func (p *Packed) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			src := p.At(x, y)
			dst := img.Pix[y*img.Stride+x*4:]
			switch p.Order {
			case OrderBGR:
				dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], 255
			case OrderRGBA:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], src[3]
			default:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 255
			}
		}
	}
	return img
}

// FromRGBA copies a stdlib *image.RGBA into a new Packed buffer with
// the given channel order.
func FromRGBA(img *image.RGBA, order ChannelOrder) (*Packed, error) {
	b := img.Bounds()
	p, err := NewPacked(b.Dx(), b.Dy(), order)
	if err != nil {
		return nil, err
	}
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			src := img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y):]
			dst := p.At(x, y)
			switch order {
			case OrderBGR:
				dst[0], dst[1], dst[2] = src[2], src[1], src[0]
			case OrderRGBA:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], src[3]
			default:
				dst[0], dst[1], dst[2] = src[0], src[1], src[2]
			}
		}
	}
	return p, nil
}

package frame

import (
	"errors"
	"image"
	"testing"
)

func TestNewPlane(t *testing.T) {
	p, err := NewPlane(6, 4)
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}
	if len(p.Y) != 24 {
		t.Errorf("luma length = %d, want 24", len(p.Y))
	}
	if len(p.Cb) != 6 || len(p.Cr) != 6 {
		t.Errorf("chroma lengths = %d/%d, want 6/6", len(p.Cb), len(p.Cr))
	}
	if p.StrideY != 6 || p.StrideC != 3 {
		t.Errorf("strides = %d/%d, want 6/3", p.StrideY, p.StrideC)
	}
}

func TestNewPlaneOddDimensions(t *testing.T) {
	p, err := NewPlane(5, 3)
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}
	if p.ChromaWidth() != 3 || p.ChromaHeight() != 2 {
		t.Errorf("chroma dims = %dx%d, want 3x2", p.ChromaWidth(), p.ChromaHeight())
	}
	if len(p.Cb) != 6 {
		t.Errorf("chroma length = %d, want 6", len(p.Cb))
	}
}

func TestNewPlaneWithStridesInvariants(t *testing.T) {
	tests := []struct {
		name             string
		w, h, sy, sc     int
		ly, lc           int
		wantErr          error
	}{
		{"zero width", 0, 4, 4, 2, 0, 0, ErrInvalidDimensions},
		{"negative height", 4, -1, 4, 2, 0, 0, ErrInvalidDimensions},
		{"luma stride too small", 4, 4, 3, 2, 12, 8, ErrInvalidStride},
		{"chroma stride too small", 4, 4, 4, 1, 16, 4, ErrInvalidStride},
		{"luma length mismatch", 4, 4, 4, 2, 15, 8, ErrPlaneSize},
		{"chroma length mismatch", 4, 4, 4, 2, 16, 7, ErrPlaneSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlaneWithStrides(tt.w, tt.h, tt.sy, tt.sc,
				make([]byte, tt.ly), make([]byte, tt.lc), make([]byte, tt.lc))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlaneAccessPadding(t *testing.T) {
	// Stride wider than width: accessors must honor the pitch.
	y := make([]byte, 8*4)
	cb := make([]byte, 4*2)
	cr := make([]byte, 4*2)
	p, err := NewPlaneWithStrides(6, 4, 8, 4, y, cb, cr)
	if err != nil {
		t.Fatalf("NewPlaneWithStrides failed: %v", err)
	}

	p.SetLuma(5, 3, 0xAB)
	if got := p.Luma(5, 3); got != 0xAB {
		t.Errorf("Luma(5,3) = %#x, want 0xAB", got)
	}
	if y[3*8+5] != 0xAB {
		t.Error("SetLuma wrote to the wrong offset")
	}

	p.SetChroma(2, 1, 0x11, 0x22)
	if p.ChromaB(2, 1) != 0x11 || p.ChromaR(2, 1) != 0x22 {
		t.Error("chroma accessors disagree with SetChroma")
	}
}

func TestPlaneBoundsPanic(t *testing.T) {
	p, _ := NewPlane(4, 4)
	defer func() {
		if recover() == nil {
			t.Error("out-of-bounds luma access should panic")
		}
	}()
	p.Luma(4, 0)
}

func TestPlaneClone(t *testing.T) {
	p, _ := NewPlane(4, 4)
	p.SetLuma(0, 0, 7)
	c := p.Clone()
	c.SetLuma(0, 0, 9)
	if p.Luma(0, 0) != 7 {
		t.Error("Clone shares luma storage with the original")
	}
}

func TestPlaneImageRoundTrip(t *testing.T) {
	p, _ := NewPlane(6, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			p.SetLuma(x, y, byte(16+x+y*6))
		}
	}
	for cy := 0; cy < 2; cy++ {
		for cx := 0; cx < 3; cx++ {
			p.SetChroma(cx, cy, byte(100+cx), byte(200+cy))
		}
	}

	back, err := FromImage(p.ToImage())
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if back.Luma(x, y) != p.Luma(x, y) {
				t.Fatalf("luma (%d,%d) changed in round trip", x, y)
			}
		}
	}
	if back.ChromaB(1, 1) != p.ChromaB(1, 1) || back.ChromaR(2, 0) != p.ChromaR(2, 0) {
		t.Error("chroma changed in round trip")
	}
}

func TestNewPacked(t *testing.T) {
	tests := []struct {
		order      ChannelOrder
		wantStride int
	}{
		{OrderRGB, 12},
		{OrderBGR, 12},
		{OrderRGBA, 16},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			p, err := NewPacked(4, 2, tt.order)
			if err != nil {
				t.Fatalf("NewPacked failed: %v", err)
			}
			if p.Stride != tt.wantStride {
				t.Errorf("stride = %d, want %d", p.Stride, tt.wantStride)
			}
			if len(p.Pix) != tt.wantStride*2 {
				t.Errorf("length = %d, want %d", len(p.Pix), tt.wantStride*2)
			}
		})
	}
}

func TestNewPackedWithStrideInvariants(t *testing.T) {
	if _, err := NewPackedWithStride(4, 2, 11, OrderRGB, make([]byte, 22)); !errors.Is(err, ErrInvalidStride) {
		t.Errorf("err = %v, want ErrInvalidStride", err)
	}
	if _, err := NewPackedWithStride(4, 2, 12, OrderRGB, make([]byte, 23)); !errors.Is(err, ErrPlaneSize) {
		t.Errorf("err = %v, want ErrPlaneSize", err)
	}
}

func TestPackedImageRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7)
	}
	for _, order := range []ChannelOrder{OrderRGB, OrderBGR} {
		p, err := FromRGBA(img, order)
		if err != nil {
			t.Fatalf("FromRGBA(%v) failed: %v", order, err)
		}
		back := p.ToImage()
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				off := img.PixOffset(x, y)
				for c := 0; c < 3; c++ {
					if back.Pix[off+c] != img.Pix[off+c] {
						t.Fatalf("order %v: pixel (%d,%d) channel %d changed", order, x, y, c)
					}
				}
			}
		}
	}
}

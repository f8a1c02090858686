// Package openh264 wraps the Cisco OpenH264 codec behind synchronous
// decode and encode sessions. Each session owns exactly one native
// context, surfaces native failures as typed errors, and returns pictures
// and packets in memory it owns.
package openh264

import (
	"errors"
	"sync"

	"github.com/user/h264kit/pkg/adapters/logger"
	"github.com/user/h264kit/pkg/bitstream"
	"github.com/user/h264kit/pkg/frame"
	"github.com/user/h264kit/pkg/ports"
)

// startCode frames units for the native layer, which expects Annex-B
// input.
var startCode = []byte{0x00, 0x00, 0x00, 0x01}

// DecoderConfig adjusts a decode session at creation time.
type DecoderConfig struct {
	// Threads is the native worker thread count. Zero lets the library
	// decide.
	Threads int

	// ErrorConcealment makes the native layer repair damaged pictures
	// from neighboring data instead of dropping them.
	ErrorConcealment bool

	// TraceNative switches the native trace output to its most verbose
	// level. Otherwise the library is silenced.
	TraceNative bool

	// Logger receives session diagnostics. Defaults to no output.
	Logger ports.Logger
}

// Decoder is a synchronous decode session over one elementary stream.
// It is not safe for concurrent use; the mutex turns accidental sharing
// into blocking rather than native memory corruption.
type Decoder struct {
	mu sync.Mutex

	native  nativeDecoder
	log     ports.Logger
	scratch []byte

	width   int
	height  int
	faulted bool
	closed  bool
}

// NewDecoder creates a decode session backed by a fresh native context.
func NewDecoder(cfg DecoderConfig) (*Decoder, error) {
	native, err := newNativeDecoder(cfg)
	if err != nil {
		return nil, err
	}
	return newDecoder(native, cfg), nil
}

func newDecoder(native nativeDecoder, cfg DecoderConfig) *Decoder {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	return &Decoder{
		native: native,
		log:    log.WithComponent("h264-decoder"),
	}
}

// Feed hands the decoder one coded unit without its start code; the
// session frames it before the native call. A nil plane with a nil error
// means the decoder is holding the picture back for reordering. On
// ErrInvalidUnit the session stays usable and callers should keep
// feeding; any ErrFaulted is terminal.
func (d *Decoder) Feed(unit []byte) (*frame.Plane, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.faulted {
		return nil, ErrFaulted
	}
	if len(unit) == 0 {
		return nil, nil
	}

	d.scratch = append(d.scratch[:0], startCode...)
	d.scratch = append(d.scratch, unit...)

	pic, status := d.native.decode(d.scratch)
	if err := classifyDecode("decode", status); err != nil {
		if errors.Is(err, ErrFaulted) {
			d.faulted = true
			d.log.Error("Decoder faulted with native status 0x%x", status)
		} else {
			d.log.Warn("Coded unit rejected with native status 0x%x", status)
		}
		return nil, err
	}
	return d.takePicture(pic)
}

// Decode splits an Annex-B buffer and feeds every unit, collecting the
// pictures that become ready. A buffer without start codes contains no
// units, so the native layer is never invoked. Units the native layer
// rejects as malformed are skipped; any other error stops the scan.
func (d *Decoder) Decode(data []byte) ([]*frame.Plane, error) {
	var out []*frame.Plane
	s := bitstream.Split(data)
	for {
		u, ok := s.Next()
		if !ok {
			return out, nil
		}
		pic, err := d.Feed(u.Bytes())
		if errors.Is(err, ErrInvalidUnit) {
			continue
		}
		if err != nil {
			return out, err
		}
		if pic != nil {
			out = append(out, pic)
		}
	}
}

// Flush drains pictures the decoder still buffers after the last unit of
// the stream.
func (d *Decoder) Flush() ([]*frame.Plane, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.faulted {
		return nil, ErrFaulted
	}

	var out []*frame.Plane
	for {
		pic, status := d.native.drain()
		if err := classifyDecode("flush", status); err != nil {
			if errors.Is(err, ErrFaulted) {
				d.faulted = true
			}
			return out, err
		}
		if !pic.valid {
			return out, nil
		}
		p, err := d.takePicture(pic)
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}

// Resolution reports the geometry of the most recent picture, or zeros
// before the first one. Mid-stream resolution changes move it.
func (d *Decoder) Resolution() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Close destroys the native context. Further calls are no-ops.
func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.native.close()
		d.closed = true
		d.log.Debug("Decoder session destroyed")
	}
	return nil
}

// takePicture copies a native scratch picture into an owned plane and
// re-derives the session resolution from it.
func (d *Decoder) takePicture(pic nativePicture) (*frame.Plane, error) {
	if !pic.valid {
		return nil, nil
	}
	out, err := frame.NewPlane(pic.width, pic.height)
	if err != nil {
		return nil, err
	}
	copyPlane(out.Y, out.StrideY, pic.y, pic.strideY, pic.width, pic.height)
	copyPlane(out.Cb, out.StrideC, pic.cb, pic.strideC, out.ChromaWidth(), out.ChromaHeight())
	copyPlane(out.Cr, out.StrideC, pic.cr, pic.strideC, out.ChromaWidth(), out.ChromaHeight())
	if pic.width != d.width || pic.height != d.height {
		d.log.Debug("Stream resolution is now %dx%d", pic.width, pic.height)
		d.width, d.height = pic.width, pic.height
	}
	return out, nil
}

func copyPlane(dst []byte, dstStride int, src []byte, srcStride, width, height int) {
	for r := 0; r < height; r++ {
		copy(dst[r*dstStride:r*dstStride+width], src[r*srcStride:])
	}
}

// Ensure Decoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*Decoder)(nil)

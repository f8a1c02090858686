package openh264

import (
	"errors"
	"sync"

	"github.com/user/h264kit/pkg/adapters/logger"
	"github.com/user/h264kit/pkg/frame"
	"github.com/user/h264kit/pkg/ports"
)

// RateControlMode selects the native rate control algorithm.
type RateControlMode int

const (
	// RateControlQuality targets constant quality within the bitrate.
	RateControlQuality RateControlMode = 0
	// RateControlBitrate targets the configured bitrate directly.
	RateControlBitrate RateControlMode = 1
	// RateControlBufferBased paces output by buffer fullness.
	RateControlBufferBased RateControlMode = 2
	// RateControlTimestamp paces output by the fed timestamps.
	RateControlTimestamp RateControlMode = 3
	// RateControlOff disables rate control entirely.
	RateControlOff RateControlMode = -1
)

// EncoderConfig adjusts an encode session at creation time.
type EncoderConfig struct {
	// Width and Height fix the session geometry; every fed picture
	// must match until Reconfigure.
	Width  int
	Height int

	// BitrateBps is the target bitrate in bits per second.
	BitrateBps int

	// FrameRate is the nominal source frame rate.
	FrameRate float64

	// RateControl selects the pacing algorithm.
	RateControl RateControlMode

	// EnableSkipFrame lets the rate controller drop pictures when the
	// budget is exceeded.
	EnableSkipFrame bool

	// EnableDenoise turns on the native pre-processing denoiser.
	EnableDenoise bool

	// TraceNative switches the native trace output to its most verbose
	// level. Otherwise the library is silenced.
	TraceNative bool

	// Logger receives session diagnostics. Defaults to no output.
	Logger ports.Logger
}

// DefaultEncoderConfig mirrors the native defaults for the given geometry.
func DefaultEncoderConfig(width, height int) EncoderConfig {
	return EncoderConfig{
		Width:           width,
		Height:          height,
		BitrateBps:      120_000,
		FrameRate:       30,
		RateControl:     RateControlQuality,
		EnableSkipFrame: true,
	}
}

// Encoder is a synchronous encode session with a fixed, renegotiable
// frame geometry. It is not safe for concurrent use; the mutex turns
// accidental sharing into blocking rather than native memory corruption.
type Encoder struct {
	mu sync.Mutex

	native nativeEncoder
	log    ports.Logger

	width   int
	height  int
	faulted bool
	flushed bool
	closed  bool
}

// NewEncoder creates an encode session backed by a fresh native context.
func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, frame.ErrInvalidDimensions
	}
	native, err := newNativeEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return newEncoder(native, cfg), nil
}

func newEncoder(native nativeEncoder, cfg EncoderConfig) *Encoder {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	return &Encoder{
		native: native,
		log:    log.WithComponent("h264-encoder"),
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Encode compresses one picture. The rate controller may emit several
// packets or none at all. The picture geometry must match the session
// exactly; a mismatch is reported without touching the native context.
// Packets are stamped with opts.TimestampMs, falling back to the
// picture's own timestamp when it is zero.
func (e *Encoder) Encode(src *frame.Plane, opts ports.EncodeOptions) ([]ports.Packet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return nil, err
	}
	if src.Width != e.width || src.Height != e.height {
		return nil, ErrDimensionMismatch
	}

	ts := opts.TimestampMs
	if ts == 0 {
		ts = src.TimestampMs
	}
	pkts, status := e.native.encode(src, ts, opts.ForceKeyframe)
	if err := e.classify("encode", status); err != nil {
		return nil, err
	}
	return e.wrapPackets(pkts, ts), nil
}

// ParameterSets returns the session's current SPS and PPS as packets
// without encoding a picture. Useful for out-of-band transport setup.
func (e *Encoder) ParameterSets() ([]ports.Packet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return nil, err
	}
	pkts, status := e.native.parameterSets()
	if err := e.classify("parameter sets", status); err != nil {
		return nil, err
	}
	return e.wrapPackets(pkts, 0), nil
}

// Reconfigure renegotiates the session geometry. Subsequent pictures
// must match the new size.
func (e *Encoder) Reconfigure(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return frame.ErrInvalidDimensions
	}
	if err := e.classify("reconfigure", e.native.setDimensions(width, height)); err != nil {
		return err
	}
	e.log.Debug("Session geometry is now %dx%d", width, height)
	e.width, e.height = width, height
	return nil
}

// Flush drains whatever the native layer still buffers. A session can be
// flushed once; afterwards it only accepts Close.
func (e *Encoder) Flush() ([]ports.Packet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return nil, err
	}
	e.flushed = true
	pkts, status := e.native.drain()
	if err := e.classify("flush", status); err != nil {
		return nil, err
	}
	return e.wrapPackets(pkts, 0), nil
}

// Close destroys the native context. Further calls are no-ops.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.native.close()
		e.closed = true
		e.log.Debug("Encoder session destroyed")
	}
	return nil
}

func (e *Encoder) usable() error {
	switch {
	case e.closed:
		return ErrClosed
	case e.faulted:
		return ErrFaulted
	case e.flushed:
		return ErrFlushed
	default:
		return nil
	}
}

func (e *Encoder) classify(op string, status int64) error {
	err := classifyEncode(op, status)
	if err != nil && errors.Is(err, ErrFaulted) {
		e.faulted = true
		e.log.Error("Encoder faulted with native status 0x%x", status)
	}
	return err
}

func (e *Encoder) wrapPackets(pkts []nativePacket, ts int64) []ports.Packet {
	if len(pkts) == 0 {
		return nil
	}
	out := make([]ports.Packet, 0, len(pkts))
	for _, p := range pkts {
		out = append(out, ports.Packet{
			Data:        p.data,
			Type:        mapFrameType(p.frameType),
			TimestampMs: ts,
		})
	}
	return out
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)

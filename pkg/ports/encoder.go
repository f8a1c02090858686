package ports

import (
	"github.com/user/h264kit/pkg/frame"
)

// FrameType classifies the picture a coded packet carries.
type FrameType int

const (
	// FrameInvalid marks a packet the native layer could not classify.
	FrameInvalid FrameType = iota
	// FrameIDR is an instantaneous refresh picture, independently decodable.
	FrameIDR
	// FrameI is an intra picture that may still depend on parameter state.
	FrameI
	// FrameP is a predicted picture.
	FrameP
	// FrameSkip means the rate controller dropped the picture entirely.
	FrameSkip
)

// String returns the frame type name.
func (t FrameType) String() string {
	switch t {
	case FrameIDR:
		return "idr"
	case FrameI:
		return "i"
	case FrameP:
		return "p"
	case FrameSkip:
		return "skip"
	default:
		return "invalid"
	}
}

// Packet is one coded Annex-B chunk: one or more units, start codes
// included, owned by the caller once returned.
type Packet struct {
	Data        []byte
	Type        FrameType
	TimestampMs int64
}

// EncodeOptions adjusts a single Encode call.
type EncodeOptions struct {
	// ForceKeyframe asks the native layer to emit an IDR for this
	// picture regardless of its GOP schedule.
	ForceKeyframe bool

	// TimestampMs is the presentation time stamped onto the packets.
	TimestampMs int64
}

// VideoEncoder abstracts a stateful encode session with a fixed frame
// geometry. Sessions are synchronous and not safe for concurrent use.
type VideoEncoder interface {
	// Encode compresses one picture. The rate controller may buffer or
	// drop pictures, so any number of packets can come back, including
	// none. Pictures must match the session geometry exactly.
	Encode(src *frame.Plane, opts EncodeOptions) ([]Packet, error)

	// Reconfigure renegotiates the session geometry. Subsequent
	// pictures must match the new size.
	Reconfigure(width, height int) error

	// Flush drains buffered packets. A session can be flushed once;
	// it only accepts Close afterwards.
	Flush() ([]Packet, error)

	// Close destroys the native context. Further calls are no-ops.
	Close() error
}

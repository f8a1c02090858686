package ports

import (
	"github.com/user/h264kit/pkg/frame"
)

// VideoDecoder abstracts a stateful decode session over one elementary
// stream. Sessions are synchronous and not safe for concurrent use.
type VideoDecoder interface {
	// Feed hands the decoder one coded unit, without its start code.
	// A nil frame with a nil error is normal: decoders hold pictures
	// back while reordering, so output lags input.
	Feed(unit []byte) (*frame.Plane, error)

	// Flush drains pictures the decoder still buffers after the last
	// unit of the stream has been fed.
	Flush() ([]*frame.Plane, error)

	// Resolution reports the geometry of the most recent picture, or
	// zeros before the first one.
	Resolution() (width, height int)

	// Close destroys the native context. Further calls are no-ops.
	Close() error
}

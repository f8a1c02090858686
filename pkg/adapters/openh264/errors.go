package openh264

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUnit is returned when the native layer rejects a coded
	// unit as malformed. The session stays usable; callers should keep
	// feeding, this is normal for real-world streams.
	ErrInvalidUnit = errors.New("openh264: invalid coded unit")

	// ErrFaulted is returned once the native context is corrupted. The
	// session is finished; destroy it and create a new one.
	ErrFaulted = errors.New("openh264: session faulted")

	// ErrDimensionMismatch is returned when a picture's geometry
	// disagrees with the session's negotiated resolution.
	ErrDimensionMismatch = errors.New("openh264: picture dimensions do not match session")

	// ErrAllocationFailure is returned when the native layer or the
	// wrapper cannot allocate picture memory.
	ErrAllocationFailure = errors.New("openh264: allocation failed")

	// ErrClosed is returned by operations on a destroyed session.
	ErrClosed = errors.New("openh264: session closed")

	// ErrFlushed is returned when a session is used after its one
	// allowed flush.
	ErrFlushed = errors.New("openh264: session already flushed")

	// ErrNotSupported is returned when the build carries no native
	// codec, either because cgo is off or the noopenh264 tag is set.
	ErrNotSupported = errors.New("openh264: native codec not available in this build")
)

// NativeError carries the raw status code of a failed native call. It
// unwraps to one of the sentinel kinds above so callers can branch with
// errors.Is without losing the code.
type NativeError struct {
	Op     string
	Status int64
	Kind   error
}

// Error returns the formatted message.
func (e *NativeError) Error() string {
	return fmt.Sprintf("%v (%s: status 0x%x)", e.Kind, e.Op, e.Status)
}

// Unwrap returns the sentinel kind.
func (e *NativeError) Unwrap() error {
	return e.Kind
}

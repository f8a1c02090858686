package frame

import "errors"

var (
	// ErrInvalidDimensions is returned when a width or height is not positive.
	ErrInvalidDimensions = errors.New("frame: invalid dimensions")

	// ErrInvalidStride is returned when a stride is smaller than the row width.
	ErrInvalidStride = errors.New("frame: stride smaller than row width")

	// ErrPlaneSize is returned when a plane's byte length does not equal
	// stride times row count.
	ErrPlaneSize = errors.New("frame: plane length does not match stride and height")
)

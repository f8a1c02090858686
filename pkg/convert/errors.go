package convert

import "errors"

var (
	ErrDimensionMismatch = errors.New("convert: source and destination dimensions differ")
	ErrUnsupportedFormat = errors.New("convert: unsupported color matrix or channel order")
)

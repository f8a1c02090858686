package openh264

import (
	"github.com/user/h264kit/pkg/frame"
	"github.com/user/h264kit/pkg/ports"
)

// nativePicture describes the scratch picture a native call may expose.
// The plane slices alias native memory and stay valid only until the next
// call into the same context, so sessions must copy before returning.
type nativePicture struct {
	valid   bool
	width   int
	height  int
	strideY int
	strideC int
	y       []byte
	cb      []byte
	cr      []byte
}

// nativePacket is one coded picture copied out of the native bitstream
// buffer, Annex-B start codes included.
type nativePacket struct {
	data      []byte
	frameType int
}

// nativeDecoder is the seam between the decode session and the native
// library. The cgo implementation lives behind a build tag; tests inject
// stubs.
type nativeDecoder interface {
	// decode pushes one Annex-B framed unit and returns the native
	// state bitmask plus whatever picture became ready.
	decode(annexb []byte) (nativePicture, int64)

	// drain asks for one picture still buffered after end of stream.
	drain() (nativePicture, int64)

	close()
}

// nativeEncoder mirrors nativeDecoder for the encode direction.
type nativeEncoder interface {
	encode(pic *frame.Plane, timestampMs int64, forceKeyframe bool) ([]nativePacket, int64)

	// parameterSets asks for the current SPS and PPS without encoding
	// a picture.
	parameterSets() ([]nativePacket, int64)

	// setDimensions renegotiates the picture geometry in place.
	setDimensions(width, height int) int64

	// drain returns whatever the native layer still buffers at end of
	// stream.
	drain() ([]nativePacket, int64)

	close()
}

// Decoder state bits of the native library.
const (
	dsErrorFree          = 0x00
	dsFramePending       = 0x01
	dsRefLost            = 0x02
	dsBitstreamError     = 0x04
	dsDepLayerLost       = 0x08
	dsNoParamSets        = 0x10
	dsDataErrorConcealed = 0x20
	dsRefListNullPtrs    = 0x40

	dsInvalidArgument    = 0x1000
	dsInitialOptExpected = 0x2000
	dsOutOfMemory        = 0x4000
	dsDstBufNeedExpand   = 0x8000
)

// recoverableMask covers stream-level damage the native decoder conceals
// or skips without corrupting its context.
const recoverableMask = dsFramePending | dsRefLost | dsBitstreamError |
	dsDepLayerLost | dsNoParamSets | dsDataErrorConcealed | dsRefListNullPtrs

// classifyDecode maps a native decode state onto the session error model.
func classifyDecode(op string, status int64) error {
	switch {
	case status == dsErrorFree:
		return nil
	case status&dsOutOfMemory != 0:
		return &NativeError{Op: op, Status: status, Kind: ErrAllocationFailure}
	case status&^int64(recoverableMask) == 0:
		return &NativeError{Op: op, Status: status, Kind: ErrInvalidUnit}
	default:
		return &NativeError{Op: op, Status: status, Kind: ErrFaulted}
	}
}

// Return codes of native encoder calls.
const (
	cmResultSuccess   = 0
	cmInitParaError   = 1
	cmUnknownReason   = 2
	cmMallocMemError  = 3
	cmInitExpected    = 4
	cmUnsupportedData = 5
)

// classifyEncode maps a native encode return code onto the session error
// model. Anything but a malloc failure corrupts the context.
func classifyEncode(op string, status int64) error {
	switch status {
	case cmResultSuccess:
		return nil
	case cmMallocMemError:
		return &NativeError{Op: op, Status: status, Kind: ErrAllocationFailure}
	default:
		return &NativeError{Op: op, Status: status, Kind: ErrFaulted}
	}
}

// Frame type codes reported by the native encoder.
const (
	videoFrameTypeInvalid = 0
	videoFrameTypeIDR     = 1
	videoFrameTypeI       = 2
	videoFrameTypeP       = 3
	videoFrameTypeSkip    = 4
	videoFrameTypeIPMixed = 5
)

func mapFrameType(t int) ports.FrameType {
	switch t {
	case videoFrameTypeIDR:
		return ports.FrameIDR
	case videoFrameTypeI, videoFrameTypeIPMixed:
		return ports.FrameI
	case videoFrameTypeP:
		return ports.FrameP
	case videoFrameTypeSkip:
		return ports.FrameSkip
	default:
		return ports.FrameInvalid
	}
}

package mocks

import (
	"github.com/user/h264kit/pkg/frame"
	"github.com/user/h264kit/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	EncodeFunc      func(src *frame.Plane, opts ports.EncodeOptions) ([]ports.Packet, error)
	ReconfigureFunc func(width, height int) error
	FlushFunc       func() ([]ports.Packet, error)
	CloseFunc       func() error

	// Recorded calls for verification
	EncodeCalls      []EncodeCall
	ReconfigureCalls []ReconfigureCall
	FlushCalled      bool
	CloseCalled      bool
}

// EncodeCall records a call to Encode.
type EncodeCall struct {
	Width         int
	Height        int
	TimestampMs   int64
	ForceKeyframe bool
}

// ReconfigureCall records a call to Reconfigure.
type ReconfigureCall struct {
	Width  int
	Height int
}

func (m *VideoEncoder) Encode(src *frame.Plane, opts ports.EncodeOptions) ([]ports.Packet, error) {
	m.EncodeCalls = append(m.EncodeCalls, EncodeCall{
		Width:         src.Width,
		Height:        src.Height,
		TimestampMs:   opts.TimestampMs,
		ForceKeyframe: opts.ForceKeyframe,
	})
	if m.EncodeFunc != nil {
		return m.EncodeFunc(src, opts)
	}
	return nil, nil
}

func (m *VideoEncoder) Reconfigure(width, height int) error {
	m.ReconfigureCalls = append(m.ReconfigureCalls, ReconfigureCall{Width: width, Height: height})
	if m.ReconfigureFunc != nil {
		return m.ReconfigureFunc(width, height)
	}
	return nil
}

func (m *VideoEncoder) Flush() ([]ports.Packet, error) {
	m.FlushCalled = true
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	return nil, nil
}

func (m *VideoEncoder) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure VideoEncoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*VideoEncoder)(nil)

// Package mocks provides mock implementations for testing.
package mocks

import (
	"github.com/user/h264kit/pkg/frame"
	"github.com/user/h264kit/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder.
type VideoDecoder struct {
	FeedFunc  func(unit []byte) (*frame.Plane, error)
	FlushFunc func() ([]*frame.Plane, error)
	CloseFunc func() error

	// Width and Height are returned by Resolution.
	Width  int
	Height int

	// Recorded calls for verification
	FeedCalls   [][]byte
	FlushCalled bool
	CloseCalled bool
}

func (m *VideoDecoder) Feed(unit []byte) (*frame.Plane, error) {
	copied := make([]byte, len(unit))
	copy(copied, unit)
	m.FeedCalls = append(m.FeedCalls, copied)
	if m.FeedFunc != nil {
		return m.FeedFunc(unit)
	}
	return nil, nil
}

func (m *VideoDecoder) Flush() ([]*frame.Plane, error) {
	m.FlushCalled = true
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	return nil, nil
}

func (m *VideoDecoder) Resolution() (width, height int) {
	return m.Width, m.Height
}

func (m *VideoDecoder) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure VideoDecoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*VideoDecoder)(nil)

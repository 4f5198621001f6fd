// Package playback drives a FrameSource for an annotation session: playing, pausing and
// stepping one frame forward or backward.
package playback

import "github.com/user/vidmark/pkg/ports"

// ReverseBuffer remembers the frames displayed since playback began so the controller can
// step backward without decoding from the start.
//
// It grows with every forward read and shrinks with every backward step. There is no
// eviction: sessions are short and operator driven.
type ReverseBuffer struct {
	frames []ports.Frame
}

// NewReverseBuffer creates an empty buffer.
func NewReverseBuffer() *ReverseBuffer {
	return &ReverseBuffer{}
}

// Push appends a frame.
func (b *ReverseBuffer) Push(frame ports.Frame) {
	b.frames = append(b.frames, frame)
}

// Pop discards the most recent frame. It reports false when the buffer was empty.
func (b *ReverseBuffer) Pop() bool {
	if len(b.frames) == 0 {
		return false
	}
	b.frames[len(b.frames)-1] = ports.Frame{}
	b.frames = b.frames[:len(b.frames)-1]
	return true
}

// IsEmpty reports whether the buffer holds no frame.
func (b *ReverseBuffer) IsEmpty() bool {
	return len(b.frames) == 0
}

// Len returns the number of buffered frames.
func (b *ReverseBuffer) Len() int {
	return len(b.frames)
}

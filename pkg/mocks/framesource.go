package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/vidmark/pkg/ports"
)

// FrameSource is an in-memory ports.FrameSource with a fixed frame count and frame rate.
type FrameSource struct {
	mu     sync.Mutex
	count  int
	fps    float64
	pos    int
	closed bool

	ReadFunc func(index int) (ports.Frame, error)
	// TimeFunc overrides the presentation time of an index.
	TimeFunc func(index int) float64

	// Seeks records every Seek target, in call order.
	Seeks []int
}

// NewFrameSource creates a source of count frames at fps frames per second.
func NewFrameSource(count int, fps float64) *FrameSource {
	return &FrameSource{count: count, fps: fps}
}

func (m *FrameSource) Read() (ports.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos >= m.count {
		return ports.Frame{}, ports.ErrEndOfStream
	}
	index := m.pos
	if m.ReadFunc != nil {
		frame, err := m.ReadFunc(index)
		if err != nil {
			return ports.Frame{}, err
		}
		m.pos++
		return frame, nil
	}
	m.pos++
	return ports.Frame{
		Index: index,
		Time:  m.timeAt(index),
		Image: image.NewRGBA(image.Rect(0, 0, 4, 4)),
	}, nil
}

func (m *FrameSource) Seek(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Seeks = append(m.Seeks, index)
	if index < 0 {
		index = 0
	}
	if index > m.count {
		index = m.count
	}
	m.pos = index
	return nil
}

func (m *FrameSource) Position() ports.StreamPosition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ports.StreamPosition{Frame: m.pos, Time: m.timeAt(m.pos)}
}

func (m *FrameSource) FrameCount() int {
	return m.count
}

func (m *FrameSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called (for test verification).
func (m *FrameSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *FrameSource) timeAt(index int) float64 {
	if m.TimeFunc != nil {
		return m.TimeFunc(index)
	}
	if m.fps <= 0 {
		return 0
	}
	return float64(index) / m.fps
}

var _ ports.FrameSource = (*FrameSource)(nil)

// FrameSourceOpener is a mock implementation of ports.FrameSourceOpener.
type FrameSourceOpener struct {
	mu sync.Mutex

	OpenFunc func(path string) (ports.FrameSource, error)

	// Opened records every opened path, in call order.
	Opened []string
}

func (m *FrameSourceOpener) Open(path string) (ports.FrameSource, error) {
	m.mu.Lock()
	m.Opened = append(m.Opened, path)
	m.mu.Unlock()
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return nil, fmt.Errorf("no source for %s", path)
}

var _ ports.FrameSourceOpener = (*FrameSourceOpener)(nil)

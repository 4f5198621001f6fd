package mocks

import (
	"sync"

	"github.com/user/vidmark/pkg/ports"
)

// Snapshot is one call to SnapshotSink.SaveCheckpoint.
type Snapshot struct {
	Video  string
	Slot   int
	Frame  ports.Frame
	Status string
}

// SnapshotSink is a mock implementation of ports.SnapshotSink.
type SnapshotSink struct {
	mu      sync.Mutex
	enabled bool

	SaveCheckpointFunc func(video string, slot int, frame ports.Frame, status string) error

	Snapshots []Snapshot
}

// NewSnapshotSink creates a new mock SnapshotSink.
func NewSnapshotSink(enabled bool) *SnapshotSink {
	return &SnapshotSink{enabled: enabled}
}

func (m *SnapshotSink) Enabled() bool {
	return m.enabled
}

func (m *SnapshotSink) SaveCheckpoint(video string, slot int, frame ports.Frame, status string) error {
	m.mu.Lock()
	m.Snapshots = append(m.Snapshots, Snapshot{Video: video, Slot: slot, Frame: frame, Status: status})
	m.mu.Unlock()
	if m.SaveCheckpointFunc != nil {
		return m.SaveCheckpointFunc(video, slot, frame, status)
	}
	return nil
}

var _ ports.SnapshotSink = (*SnapshotSink)(nil)

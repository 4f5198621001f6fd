// Package nullsink provides a snapshot sink that stores nothing.
package nullsink

import "github.com/user/vidmark/pkg/ports"

// Sink is a no-op implementation of ports.SnapshotSink.
type Sink struct{}

// New creates a new Sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveCheckpoint does nothing.
func (s *Sink) SaveCheckpoint(video string, slot int, frame ports.Frame, status string) error {
	return nil
}

var _ ports.SnapshotSink = (*Sink)(nil)

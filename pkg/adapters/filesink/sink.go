// Package filesink stores checkpoint snapshots as PNG files.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/user/vidmark/pkg/overlay"
	"github.com/user/vidmark/pkg/ports"
)

// Sink writes one PNG per marked checkpoint below baseDir.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new Sink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SnapshotPath returns the file a checkpoint snapshot is written to.
func (s *Sink) SnapshotPath(video string, slot, frame int) string {
	return filepath.Join(s.baseDir, video, fmt.Sprintf("slot-%d-frame-%d.png", slot, frame))
}

// SaveCheckpoint writes the frame with the status bar drawn underneath.
func (s *Sink) SaveCheckpoint(video string, slot int, frame ports.Frame, status string) error {
	img := overlay.Compose(s.renderer, frame.Image, status, 0)
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.fs.WriteFile(s.SnapshotPath(video, slot, frame.Index), data)
}

var _ ports.SnapshotSink = (*Sink)(nil)

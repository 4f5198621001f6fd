package mp4source

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/user/vidmark/pkg/ports"
)

// Source is a seekable frame source. Decoding is sequential from the last seek point; a
// seek to another frame restarts the decoder there.
type Source struct {
	path    string
	index   *Index
	decoder ports.StreamDecoder

	mu     sync.Mutex
	reader ports.FrameReader
	pos    int
	closed bool
}

// NewSource creates a Source over an indexed file.
func NewSource(path string, index *Index, decoder ports.StreamDecoder) *Source {
	return &Source{path: path, index: index, decoder: decoder}
}

// Read decodes the frame at the read position and advances it by one.
func (s *Source) Read() (ports.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ports.Frame{}, fmt.Errorf("read %s: source closed", s.path)
	}
	if s.pos >= s.index.FrameCount() {
		return ports.Frame{}, ports.ErrEndOfStream
	}

	if s.reader == nil {
		r, err := s.decoder.Start(s.path, s.index.TimeAt(s.pos), s.index.Width, s.index.Height)
		if err != nil {
			return ports.Frame{}, fmt.Errorf("start decoder: %w", err)
		}
		s.reader = r
	}

	img, err := s.reader.Next()
	if errors.Is(err, io.EOF) {
		// the decoder produced fewer frames than the sample table lists
		s.stopReader()
		return ports.Frame{}, ports.ErrEndOfStream
	}
	if err != nil {
		return ports.Frame{}, fmt.Errorf("decode frame %d: %w", s.pos, err)
	}

	frame := ports.Frame{Index: s.pos, Time: s.index.TimeAt(s.pos), Image: img}
	s.pos++
	return frame, nil
}

// Seek moves the read position, clamped to [0, FrameCount].
func (s *Source) Seek(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		index = 0
	}
	if n := s.index.FrameCount(); index > n {
		index = n
	}
	if index == s.pos {
		return nil
	}
	s.stopReader()
	s.pos = index
	return nil
}

// Position returns the read position.
func (s *Source) Position() ports.StreamPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ports.StreamPosition{Frame: s.pos, Time: s.index.TimeAt(s.pos)}
}

// FrameCount returns the number of indexed frames.
func (s *Source) FrameCount() int {
	return s.index.FrameCount()
}

// Close stops decoding.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.stopReader()
}

func (s *Source) stopReader() error {
	if s.reader == nil {
		return nil
	}
	err := s.reader.Close()
	s.reader = nil
	return err
}

// Opener opens Sources for H.264 MP4 files.
type Opener struct {
	decoder ports.StreamDecoder
	logger  ports.Logger
}

// NewOpener creates an Opener decoding through decoder.
func NewOpener(decoder ports.StreamDecoder, logger ports.Logger) *Opener {
	return &Opener{decoder: decoder, logger: logger.WithComponent("source")}
}

// Open indexes path and returns a Source positioned at frame 0.
func (o *Opener) Open(path string) (ports.FrameSource, error) {
	index, err := BuildIndexFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	if index.Width <= 0 || index.Height <= 0 {
		return nil, fmt.Errorf("index %s: missing frame dimensions", path)
	}
	o.logger.Debug("Indexed %d frames (%dx%d, %.2fs)", index.FrameCount(), index.Width, index.Height, index.Duration)
	return NewSource(path, index, o.decoder), nil
}

var _ ports.FrameSource = (*Source)(nil)
var _ ports.FrameSourceOpener = (*Opener)(nil)

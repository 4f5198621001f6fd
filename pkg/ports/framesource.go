package ports

import (
	"errors"
	"image"
)

// ErrEndOfStream is returned by FrameSource.Read when no frame is left after the read position.
var ErrEndOfStream = errors.New("ports: end of stream")

// Frame is a decoded video frame together with its place in the stream.
type Frame struct {
	Index int         // Zero-based frame index
	Time  float64     // Presentation time in seconds
	Image image.Image // Decoded pixels, may be nil for sources that only track positions
}

// StreamPosition is the read cursor of a FrameSource.
// Frame is the index of the next frame Read will return, which equals the number of
// frames consumed since the start of the stream. Time is the presentation time at Frame.
type StreamPosition struct {
	Frame int
	Time  float64
}

// FrameSource reads decoded frames from one video.
type FrameSource interface {
	// Read decodes the frame at the read position and advances the position by one.
	// Returns ErrEndOfStream when the position is past the last frame.
	Read() (Frame, error)

	// Seek moves the read position to the given frame index.
	// Indexes outside the stream are clamped.
	Seek(index int) error

	// Position returns the current read position.
	Position() StreamPosition

	// FrameCount returns the number of frames in the stream.
	FrameCount() int

	// Close releases decoder resources.
	Close() error
}

// FrameSourceOpener opens a FrameSource for a decodable video file.
type FrameSourceOpener interface {
	Open(path string) (FrameSource, error)
}

// FrameReader yields consecutive decoded images starting at a seek point.
type FrameReader interface {
	// Next returns the next decoded image, or io.EOF when the stream is exhausted.
	Next() (image.Image, error)

	// Close stops decoding.
	Close() error
}

// StreamDecoder starts sequential decoding of a video file at a given time.
type StreamDecoder interface {
	// Start begins decoding path at startSec. Width and height are the frame dimensions
	// the caller expects back.
	Start(path string, startSec float64, width, height int) (FrameReader, error)
}

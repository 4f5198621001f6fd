package playback

import (
	"errors"
	"fmt"

	"github.com/user/vidmark/pkg/ports"
)

// ErrEmptySource is returned when the source has no frame even after rewinding.
var ErrEmptySource = errors.New("playback: source has no frames")

// Position is the session position shown to the operator.
type Position struct {
	Frame  int
	Time   float64
	Paused bool
}

// Controller owns the play/pause state and drives the frame source.
type Controller struct {
	source  ports.FrameSource
	buffer  *ReverseBuffer
	paused  bool
	current ports.Frame
	shown   bool
}

// NewController creates a playing controller over source.
func NewController(source ports.FrameSource) *Controller {
	return &Controller{
		source: source,
		buffer: NewReverseBuffer(),
	}
}

// Tick advances playback by one frame when playing. It returns the frame to display and
// whether a new frame was read. At the end of the stream the source is rewound to frame 0,
// so the video loops.
func (c *Controller) Tick() (ports.Frame, bool, error) {
	if c.paused {
		return c.current, false, nil
	}

	frame, err := c.source.Read()
	if errors.Is(err, ports.ErrEndOfStream) {
		if err := c.source.Seek(0); err != nil {
			return c.current, false, fmt.Errorf("rewind: %w", err)
		}
		frame, err = c.source.Read()
		if errors.Is(err, ports.ErrEndOfStream) {
			return c.current, false, ErrEmptySource
		}
	}
	if err != nil {
		return c.current, false, fmt.Errorf("read frame: %w", err)
	}

	c.display(frame)
	return frame, true, nil
}

// StepForward reads one frame while paused. It does nothing while playing or at the end
// of the stream.
func (c *Controller) StepForward() (ports.Frame, bool, error) {
	if !c.paused {
		return c.current, false, nil
	}

	frame, err := c.source.Read()
	if errors.Is(err, ports.ErrEndOfStream) {
		return c.current, false, nil
	}
	if err != nil {
		return c.current, false, fmt.Errorf("step forward: %w", err)
	}

	c.display(frame)
	return frame, true, nil
}

// StepBackward goes back one displayed frame while paused. It does nothing while playing
// or when the reverse buffer is empty.
//
// Reading advances the position by one, so the source is sought two frames behind the
// current position and the newest buffered entry, the frame being left, is dropped.
func (c *Controller) StepBackward() (ports.Frame, bool, error) {
	if !c.paused || c.buffer.IsEmpty() {
		return c.current, false, nil
	}

	target := c.source.Position().Frame - 2
	if target < 0 {
		target = 0
	}
	if err := c.source.Seek(target); err != nil {
		return c.current, false, fmt.Errorf("step backward: %w", err)
	}

	frame, err := c.source.Read()
	if errors.Is(err, ports.ErrEndOfStream) {
		return c.current, false, nil
	}
	if err != nil {
		return c.current, false, fmt.Errorf("step backward: %w", err)
	}

	c.buffer.Pop()
	c.current = frame
	c.shown = true
	return frame, true, nil
}

// TogglePause flips between playing and paused.
func (c *Controller) TogglePause() {
	c.paused = !c.paused
}

// Paused reports whether playback is paused.
func (c *Controller) Paused() bool {
	return c.paused
}

// Position returns the current session position.
func (c *Controller) Position() Position {
	p := c.source.Position()
	return Position{Frame: p.Frame, Time: p.Time, Paused: c.paused}
}

// Current returns the last displayed frame, if any.
func (c *Controller) Current() (ports.Frame, bool) {
	return c.current, c.shown
}

// Buffered returns the number of frames that can be stepped back over.
func (c *Controller) Buffered() int {
	return c.buffer.Len()
}

func (c *Controller) display(frame ports.Frame) {
	c.buffer.Push(frame)
	c.current = frame
	c.shown = true
}

// Package termsurface implements ports.Surface on a terminal: commands are typed as lines
// on stdin, the status is printed on stdout and the current frame can be mirrored to a
// PNG file for any auto-refreshing image viewer.
package termsurface

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/user/vidmark/pkg/overlay"
	"github.com/user/vidmark/pkg/ports"
)

const (
	defaultPreviewInterval = 250 * time.Millisecond
	defaultStatusInterval  = time.Second
	previewMaxWidth        = 960
)

// Options configures a Surface.
type Options struct {
	// PreviewPath is the PNG file mirroring the displayed frame. Empty disables it.
	PreviewPath string
	FS          ports.FileSystem
	Renderer    ports.Renderer

	// PreviewInterval is the minimum time between two preview writes.
	PreviewInterval time.Duration
	// StatusInterval is the minimum time between two status lines when stdout is not a
	// terminal. On a terminal the status is rewritten in place on every change.
	StatusInterval time.Duration

	// TTY forces terminal mode. Nil detects it from the output file.
	TTY *bool
}

// Surface reads commands from an input stream and shows status on an output stream.
type Surface struct {
	keys   Keymap
	out    io.Writer
	tty    bool
	opts   Options
	logger ports.Logger
	now    func() time.Time

	lines <-chan string

	mu          sync.Mutex
	status      string
	printed     string
	lastPrint   time.Time
	current     ports.Frame
	previewed   string
	lastPreview time.Time
	closed      bool
}

// New creates a Surface and starts reading in on its own goroutine.
func New(in io.Reader, out io.Writer, keys Keymap, opts Options, logger ports.Logger) *Surface {
	if opts.PreviewInterval <= 0 {
		opts.PreviewInterval = defaultPreviewInterval
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = defaultStatusInterval
	}

	tty := false
	if opts.TTY != nil {
		tty = *opts.TTY
	} else if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return &Surface{
		keys:   keys,
		out:    out,
		tty:    tty,
		opts:   opts,
		logger: logger.WithComponent("surface"),
		now:    time.Now,
		lines:  readLines(in),
	}
}

func readLines(in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			ch <- scanner.Text()
		}
	}()
	return ch
}

// Show records the displayed frame and refreshes the preview file when it is due.
func (s *Surface) Show(frame ports.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = frame
	return s.writePreview(false)
}

// SetStatus updates the status line.
func (s *Surface) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.printStatus(false)
}

// NextCommand waits for one input line until timeout. End of input is reported as quit.
func (s *Surface) NextCommand(ctx context.Context, timeout time.Duration) (ports.Command, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ports.Command{Kind: ports.CommandNone}, ctx.Err()
	case <-timer.C:
		return ports.Command{Kind: ports.CommandNone}, nil
	case line, ok := <-s.lines:
		if !ok {
			s.logger.Debug("Input closed")
			return ports.Command{Kind: ports.CommandQuit}, nil
		}
		cmd, found := s.keys.Lookup(line)
		if !found {
			s.logger.Warn("Unknown key %q", strings.TrimSpace(line))
			return ports.Command{Kind: ports.CommandNone}, nil
		}
		s.flush()
		return cmd, nil
	}
}

// Close ends the status line and writes a final preview.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.printStatus(true)
	if s.tty && s.printed != "" {
		fmt.Fprintln(s.out)
	}
	return s.writePreview(true)
}

// flush prints the status and preview regardless of throttling, so the operator sees
// the effect of a command at once.
func (s *Surface) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printStatus(true)
	if err := s.writePreview(true); err != nil {
		s.logger.Warn("Failed to write preview: %s", err)
	}
}

func (s *Surface) printStatus(force bool) {
	if s.status == s.printed {
		return
	}
	now := s.now()
	if s.tty {
		pad := ""
		if n := len(s.printed) - len(s.status); n > 0 {
			pad = strings.Repeat(" ", n)
		}
		fmt.Fprintf(s.out, "\r%s%s", s.status, pad)
	} else {
		if !force && now.Sub(s.lastPrint) < s.opts.StatusInterval {
			return
		}
		fmt.Fprintln(s.out, s.status)
	}
	s.printed = s.status
	s.lastPrint = now
}

func (s *Surface) writePreview(force bool) error {
	if s.opts.PreviewPath == "" || s.opts.Renderer == nil || s.opts.FS == nil || s.current.Image == nil {
		return nil
	}
	key := fmt.Sprintf("%d|%s", s.current.Index, s.status)
	if key == s.previewed {
		return nil
	}
	now := s.now()
	if !force && now.Sub(s.lastPreview) < s.opts.PreviewInterval {
		return nil
	}

	img := overlay.Compose(s.opts.Renderer, s.current.Image, s.status, previewMaxWidth)
	data, err := s.opts.Renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := s.opts.FS.WriteFile(s.opts.PreviewPath, data); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	s.previewed = key
	s.lastPreview = now
	return nil
}

var _ ports.Surface = (*Surface)(nil)

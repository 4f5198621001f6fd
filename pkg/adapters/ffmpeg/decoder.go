package ffmpeg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/user/vidmark/pkg/ports"
)

// StreamDecoder decodes a video into raw RGBA frames read from an ffmpeg pipe.
type StreamDecoder struct {
	ffmpegPath string
	logger     ports.Logger
}

// NewStreamDecoder creates a StreamDecoder.
func NewStreamDecoder(ffmpegPath string, logger ports.Logger) *StreamDecoder {
	return &StreamDecoder{
		ffmpegPath: ffmpegPath,
		logger:     logger.WithComponent("ffmpeg"),
	}
}

// Start launches ffmpeg at startSec and returns a reader over its frames.
func (d *StreamDecoder) Start(path string, startSec float64, width, height int) (ports.FrameReader, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	cmd := exec.Command(d.ffmpegPath, DecodeArgs(path, startSec, width, height)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	d.logger.Debug("Decoding %s from %.3fs", path, startSec)
	r := NewRawReader(stdout, width, height)
	r.closeFn = func() error {
		cmd.Process.Kill()
		err := cmd.Wait()
		if stderr.Len() > 0 {
			d.logger.Debug("ffmpeg: %s", bytes.TrimSpace(stderr.Bytes()))
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// killed on purpose or finished with an error already seen as a short read
			return nil
		}
		return err
	}
	return r, nil
}

// DecodeArgs builds the ffmpeg arguments streaming rgba frames of path from startSec.
func DecodeArgs(path string, startSec float64, width, height int) []string {
	args := []string{"-v", "error", "-nostdin"}
	if startSec > 0 {
		args = append(args, "-ss", strconv.FormatFloat(startSec, 'f', 6, 64))
	}
	return append(args,
		"-i", path,
		"-an",
		"-vsync", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"pipe:1",
	)
}

// RawReader splits a stream of packed RGBA pixels into images.
type RawReader struct {
	r       *bufio.Reader
	width   int
	height  int
	closeFn func() error

	once     sync.Once
	closeErr error
}

// NewRawReader creates a RawReader over r for frames of the given size.
func NewRawReader(r io.Reader, width, height int) *RawReader {
	return &RawReader{
		r:      bufio.NewReaderSize(r, width*height*4),
		width:  width,
		height: height,
	}
}

// Next returns the next frame, or io.EOF once the stream holds no complete frame.
func (r *RawReader) Next() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if _, err := io.ReadFull(r.r, img.Pix); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return img, nil
}

// Close stops the underlying process, if any.
func (r *RawReader) Close() error {
	r.once.Do(func() {
		if r.closeFn != nil {
			r.closeErr = r.closeFn()
		}
	})
	return r.closeErr
}

var _ ports.StreamDecoder = (*StreamDecoder)(nil)
var _ ports.FrameReader = (*RawReader)(nil)

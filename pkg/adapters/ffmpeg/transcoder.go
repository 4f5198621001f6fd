package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/user/vidmark/pkg/adapters/codecdetect"
	"github.com/user/vidmark/pkg/ports"
)

// DefaultCRF is the x264 constant rate factor used when none is configured.
const DefaultCRF = 23

// Runner executes a command and returns its combined stderr on failure.
type Runner func(ctx context.Context, name string, args ...string) error

// Transcoder converts videos the frame source cannot index into H.264 MP4.
type Transcoder struct {
	ffmpegPath string
	crf        int
	tempDir    string
	logger     ports.Logger

	// Probe and Run are replaceable for tests.
	Probe func(path string) (codecdetect.Probe, error)
	Run   Runner
}

// NewTranscoder creates a Transcoder. An empty tempDir uses the system temp directory.
func NewTranscoder(ffmpegPath string, crf int, tempDir string, logger ports.Logger) *Transcoder {
	if crf <= 0 {
		crf = DefaultCRF
	}
	return &Transcoder{
		ffmpegPath: ffmpegPath,
		crf:        crf,
		tempDir:    tempDir,
		logger:     logger.WithComponent("ffmpeg"),
		Probe:      codecdetect.ProbeFile,
		Run:        runCommand,
	}
}

// EnsureDecodable returns a path the frame source can open. H.264 MP4 inputs are returned
// unchanged; anything else is transcoded into a new temporary file owned by the caller.
func (t *Transcoder) EnsureDecodable(ctx context.Context, path string) (ports.Decodable, error) {
	probe, err := t.Probe(path)
	if err == nil && !probe.NeedsTranscode() {
		t.logger.Debug("%s is already decodable (%s)", filepath.Base(path), probe.String())
		return ports.Decodable{Path: path}, nil
	}
	if err != nil {
		t.logger.Debug("Probe of %s failed, transcoding anyway: %s", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(t.tempDir, "vidmark-*.mp4")
	if err != nil {
		return ports.Decodable{}, fmt.Errorf("create temp file: %w", err)
	}
	out := tmp.Name()
	tmp.Close()

	t.logger.Info("Converting %s to H.264", filepath.Base(path))
	if err := t.Run(ctx, t.ffmpegPath, TranscodeArgs(path, out, t.crf)...); err != nil {
		os.Remove(out)
		return ports.Decodable{}, fmt.Errorf("transcode %s: %w", path, err)
	}
	return ports.Decodable{Path: out, Temporary: true}, nil
}

// TranscodeArgs builds the ffmpeg arguments converting in to an H.264/AAC MP4 at out.
func TranscodeArgs(in, out string, crf int) []string {
	return []string{
		"-y",
		"-v", "error",
		"-i", in,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(crf),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-movflags", "+faststart",
		out,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w\nstderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

var _ ports.Transcoder = (*Transcoder)(nil)

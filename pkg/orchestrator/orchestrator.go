// Package orchestrator runs the per-video stages across a batch of videos.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/pipeline"
	"github.com/user/vidmark/pkg/ports"
	"github.com/user/vidmark/pkg/store"
)

// ErrNoVideos is returned when the input holds no video with a recognized extension.
var ErrNoVideos = errors.New("orchestrator: no videos found")

// DefaultExtensions are the video extensions recognized in a batch directory.
var DefaultExtensions = []string{".mp4", ".webm"}

// Config contains the batch settings.
type Config struct {
	// Input is a batch directory or a single video file.
	Input string

	// Extensions recognized in a directory, with the leading dot. Matching ignores case.
	Extensions []string

	Variant checkpoint.Variant
	Tick    time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Extensions: DefaultExtensions,
		Variant:    checkpoint.VariantKeyed,
		Tick:       pipeline.DefaultTick,
	}
}

// Loader returns the stored record of a video.
type Loader interface {
	Load(videoPath string) (*store.Record, error)
}

// Orchestrator coordinates the execution of the per-video stages.
type Orchestrator struct {
	prepareStage  pipeline.Stage[pipeline.PrepareInput, pipeline.PrepareResult]
	annotateStage pipeline.Stage[pipeline.AnnotateInput, pipeline.AnnotateResult]
	persistStage  pipeline.Stage[pipeline.PersistInput, pipeline.PersistResult]
	loader        Loader
	fs            ports.FileSystem
	logger        ports.Logger
}

// New creates a new Orchestrator.
func New(
	prepareStage pipeline.Stage[pipeline.PrepareInput, pipeline.PrepareResult],
	annotateStage pipeline.Stage[pipeline.AnnotateInput, pipeline.AnnotateResult],
	persistStage pipeline.Stage[pipeline.PersistInput, pipeline.PersistResult],
	loader Loader,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		prepareStage:  prepareStage,
		annotateStage: annotateStage,
		persistStage:  persistStage,
		loader:        loader,
		fs:            fs,
		logger:        logger,
	}
}

// Run processes every video of config.Input in name order. It stops after the video on
// which the operator quit or the context was cancelled. Per-video failures are recorded in
// the result and do not stop the batch; an error is returned only when the input cannot be
// resolved.
func (o *Orchestrator) Run(ctx context.Context, config Config) (BatchResult, error) {
	started := time.Now()

	videos, err := Enumerate(o.fs, config.Input, config.Extensions)
	if err != nil {
		return BatchResult{}, err
	}
	o.logger.Info("Found %d videos in %s", len(videos), config.Input)

	result := BatchResult{
		Input:   config.Input,
		Variant: config.Variant,
		Total:   len(videos),
	}
	for i, video := range videos {
		o.logger.Info("Video %d of %d: %s", i+1, len(videos), video)
		vr := o.process(ctx, config, video)
		result.Videos = append(result.Videos, vr)
		if vr.Reason.StopsBatch() {
			result.Quit = true
			break
		}
	}

	result.Duration = time.Since(started)
	o.logger.Info("Batch finished: %d of %d videos processed", len(result.Videos), len(videos))
	return result, nil
}

func (o *Orchestrator) process(ctx context.Context, config Config, video string) VideoResult {
	vr := VideoResult{Video: video, Status: StatusSkipped}

	// 1. Decodable file
	prepared, err := o.prepareStage.Execute(ctx, pipeline.PrepareInput{VideoPath: video})
	if err != nil {
		vr.Err = err
		if ctx.Err() != nil {
			vr.Reason = pipeline.EndCancelled
		}
		o.logger.Error("Skipping %s: %s", video, err)
		return vr
	}
	decodable := prepared.Decodable
	vr.Transcoded = decodable.Temporary
	if decodable.Temporary && decodable.Path != video {
		defer o.cleanup(decodable.Path)
	}

	// 2. Stored checkpoints
	stored := map[int]checkpoint.Checkpoint{}
	rec, err := o.loader.Load(video)
	if err != nil {
		o.logger.Warn("Failed to read annotations of %s: %s", video, err)
	} else {
		stored = rec.Recallable(config.Variant)
	}

	// 3. Session
	annotated, err := o.annotateStage.Execute(ctx, pipeline.AnnotateInput{
		VideoPath:  video,
		SourcePath: decodable.Path,
		Variant:    config.Variant,
		Stored:     stored,
		Tick:       config.Tick,
	})
	vr.FrameCount = annotated.FrameCount
	vr.Marks = annotated.Marks
	vr.Rejected = annotated.Rejected
	vr.Snapshots = annotated.Snapshots
	vr.Reason = annotated.Reason
	if err != nil {
		vr.Err = err
		o.logger.Error("Skipping %s: %s", video, err)
		if annotated.Pending.Empty() {
			return vr
		}
	}

	// 4. Sidecar
	persisted, perr := o.persistStage.Execute(ctx, pipeline.PersistInput{
		VideoPath: video,
		Pending:   annotated.Pending,
	})
	if perr != nil {
		vr.Err = errors.Join(vr.Err, perr)
		vr.Status = StatusFailed
		o.logger.Error("Failed to save annotations of %s: %s", video, perr)
		return vr
	}
	vr.SidecarPath = persisted.SidecarPath
	vr.SidecarSize = persisted.Size
	if persisted.Record != nil {
		vr.Annotations = countAnnotations(persisted.Record)
	}
	switch {
	case err != nil:
		vr.Status = StatusSkipped
	case persisted.Saved:
		vr.Status = StatusSaved
	default:
		vr.Status = StatusUnchanged
	}
	return vr
}

func (o *Orchestrator) cleanup(path string) {
	if err := o.fs.Remove(path); err != nil {
		o.logger.Warn("Failed to remove temporary file %s: %s", path, err)
		return
	}
	o.logger.Debug("Removed temporary file %s", path)
}

func countAnnotations(rec *store.Record) int {
	if len(rec.VideoAnnotations) > 0 {
		return len(rec.VideoAnnotations)
	}
	return len(rec.Annotations)
}

// Enumerate returns the videos of input in name order. A file input is returned as is when
// its extension is recognized; a directory input is listed without recursion.
func Enumerate(fs ports.FileSystem, input string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if input == "" {
		return nil, fmt.Errorf("no input given")
	}

	if matchExtension(input, extensions) {
		exists, err := fs.Exists(input)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("input not found: %s", input)
		}
		return []string{input}, nil
	}

	entries, err := fs.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var videos []string
	for _, e := range entries {
		if e.IsDir || !matchExtension(e.Name, extensions) {
			continue
		}
		videos = append(videos, filepath.Join(input, e.Name))
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoVideos, input)
	}
	sort.Strings(videos)
	return videos, nil
}

func matchExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

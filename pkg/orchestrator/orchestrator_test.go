package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/user/vidmark/pkg/adapters/logger"
	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/mocks"
	"github.com/user/vidmark/pkg/pipeline"
	"github.com/user/vidmark/pkg/ports"
	"github.com/user/vidmark/pkg/stages/annotate"
	"github.com/user/vidmark/pkg/stages/persist"
	"github.com/user/vidmark/pkg/stages/prepare"
	"github.com/user/vidmark/pkg/store"
)

type prepareFunc = pipeline.StageFunc[pipeline.PrepareInput, pipeline.PrepareResult]
type annotateFunc = pipeline.StageFunc[pipeline.AnnotateInput, pipeline.AnnotateResult]
type persistFunc = pipeline.StageFunc[pipeline.PersistInput, pipeline.PersistResult]

func passthrough(ctx context.Context, in pipeline.PrepareInput) (pipeline.PrepareResult, error) {
	return pipeline.PrepareResult{Decodable: ports.Decodable{Path: in.VideoPath}}, nil
}

func nextVideo(ctx context.Context, in pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
	return pipeline.AnnotateResult{Reason: pipeline.EndNext}, nil
}

func nothingSaved(ctx context.Context, in pipeline.PersistInput) (pipeline.PersistResult, error) {
	return pipeline.PersistResult{Result: store.Result{SidecarPath: store.SidecarPath(in.VideoPath)}}, nil
}

func batchFS(names ...string) *mocks.FileSystem {
	fs := mocks.NewFileSystem()
	for _, name := range names {
		fs.SetFile(filepath.Join("videos", name), []byte("video"))
	}
	return fs
}

func TestEnumerate(t *testing.T) {
	fs := batchFS("b.MP4", "a.webm", "a.json", "notes.txt")
	fs.MkdirAll(filepath.Join("videos", "nested.mp4"))

	got, err := Enumerate(fs, "videos", DefaultExtensions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{filepath.Join("videos", "a.webm"), filepath.Join("videos", "b.MP4")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEnumerate_SingleFile(t *testing.T) {
	fs := batchFS("clip.webm")

	got, err := Enumerate(fs, filepath.Join("videos", "clip.webm"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != filepath.Join("videos", "clip.webm") {
		t.Errorf("unexpected videos %v", got)
	}

	if _, err := Enumerate(fs, filepath.Join("videos", "missing.mp4"), nil); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestEnumerate_NoVideos(t *testing.T) {
	fs := batchFS("notes.txt")

	_, err := Enumerate(fs, "videos", []string{".mov"})
	if !errors.Is(err, ErrNoVideos) {
		t.Errorf("expected ErrNoVideos, got %v", err)
	}
	if _, err := Enumerate(fs, "elsewhere", nil); err == nil || errors.Is(err, ErrNoVideos) {
		t.Errorf("expected directory error, got %v", err)
	}
}

func TestOrchestrator_Run_EndToEnd(t *testing.T) {
	fs := batchFS("clip.webm")
	video := filepath.Join("videos", "clip.webm")
	temp := filepath.Join(t.TempDir(), "vidmark-1.mp4")

	transcoder := &mocks.Transcoder{
		EnsureDecodableFunc: func(ctx context.Context, path string) (ports.Decodable, error) {
			fs.SetFile(temp, []byte("mp4"))
			return ports.Decodable{Path: temp, Temporary: true}, nil
		},
	}
	src := mocks.NewFrameSource(300, 30)
	src.TimeFunc = func(index int) float64 {
		switch index {
		case 100:
			return 3.33
		case 200:
			return 6.67
		}
		return float64(index) / 30
	}
	opener := &mocks.FrameSourceOpener{
		OpenFunc: func(path string) (ports.FrameSource, error) { return src, nil },
	}
	surface := mocks.NewSurface(mocks.Script(
		mocks.Ticks(99),
		mocks.Cmd(ports.CommandMark, 1),
		mocks.Ticks(99),
		mocks.Cmd(ports.CommandMark, 2),
		mocks.Cmd(ports.CommandQuit, 0),
	)...)

	log := logger.NewNoop()
	st := store.New(fs, log, store.HistoryAppend)
	orch := New(
		prepare.NewStage(transcoder, log),
		annotate.NewStage(opener, surface, mocks.NewSnapshotSink(false), log),
		persist.NewStage(st, fs, log),
		st, fs, log,
	)

	config := DefaultConfig()
	config.Input = "videos"
	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{
    "video_file": "clip",
    "video_annotations": {
        "1": {
            "frame": 100,
            "time": 3.33
        },
        "2": {
            "frame": 200,
            "time": 6.67
        }
    }
}
`
	data, ok := fs.GetFile(filepath.Join("videos", "clip.json"))
	if !ok {
		t.Fatal("expected clip.json to be written")
	}
	if string(data) != want {
		t.Errorf("unexpected sidecar:\n%s", data)
	}
	if len(opener.Opened) != 1 || opener.Opened[0] != temp {
		t.Errorf("expected the temporary file to be opened, got %v", opener.Opened)
	}
	if !reflect.DeepEqual(fs.Removed, []string{temp}) {
		t.Errorf("expected only the temporary file removed, got %v", fs.Removed)
	}
	if _, ok := fs.GetFile(video); !ok {
		t.Error("expected the original video to be kept")
	}

	if !result.Quit || len(result.Videos) != 1 {
		t.Fatalf("unexpected batch result %+v", result)
	}
	vr := result.Videos[0]
	if vr.Status != StatusSaved || !vr.Transcoded || vr.Marks != 2 || vr.Annotations != 2 {
		t.Errorf("unexpected video result %+v", vr)
	}
	if vr.SidecarSize != int64(len(want)) {
		t.Errorf("expected sidecar size %d, got %d", len(want), vr.SidecarSize)
	}
}

func TestOrchestrator_Run_QuitStopsBatch(t *testing.T) {
	fs := batchFS("a.mp4", "b.mp4")
	var annotated []string
	orch := New(
		prepareFunc(passthrough),
		annotateFunc(func(ctx context.Context, in pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
			annotated = append(annotated, in.VideoPath)
			return pipeline.AnnotateResult{Reason: pipeline.EndQuit}, nil
		}),
		persistFunc(nothingSaved),
		store.New(fs, logger.NewNoop(), ""), fs, logger.NewNoop(),
	)

	config := DefaultConfig()
	config.Input = "videos"
	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(annotated) != 1 || !result.Quit || result.Total != 2 {
		t.Errorf("expected batch to stop after the first video, annotated %v", annotated)
	}
	if result.Videos[0].Status != StatusUnchanged {
		t.Errorf("expected unchanged status, got %s", result.Videos[0].Status)
	}
	if len(fs.Removed) != 0 {
		t.Errorf("expected no file removed, got %v", fs.Removed)
	}
}

func TestOrchestrator_Run_SkipsUnreadable(t *testing.T) {
	fs := batchFS("a.mp4", "b.mp4", "c.mp4")
	var persisted []string
	orch := New(
		prepareFunc(func(ctx context.Context, in pipeline.PrepareInput) (pipeline.PrepareResult, error) {
			if filepath.Base(in.VideoPath) == "a.mp4" {
				return pipeline.PrepareResult{}, errors.New("ffmpeg failed")
			}
			path := in.VideoPath + ".tmp.mp4"
			return pipeline.PrepareResult{Decodable: ports.Decodable{Path: path, Temporary: true}}, nil
		}),
		annotateFunc(func(ctx context.Context, in pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
			if filepath.Base(in.VideoPath) == "b.mp4" {
				return pipeline.AnnotateResult{}, errors.New("open source: corrupt")
			}
			return pipeline.AnnotateResult{Reason: pipeline.EndNext}, nil
		}),
		persistFunc(func(ctx context.Context, in pipeline.PersistInput) (pipeline.PersistResult, error) {
			persisted = append(persisted, in.VideoPath)
			return nothingSaved(ctx, in)
		}),
		store.New(fs, logger.NewNoop(), ""), fs, logger.NewNoop(),
	)
	fs.RemoveFunc = func(path string) error { return nil }

	config := DefaultConfig()
	config.Input = "videos"
	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Videos) != 3 || result.Quit {
		t.Fatalf("expected all three videos processed, got %+v", result)
	}
	if result.Count(StatusSkipped) != 2 || result.Count(StatusUnchanged) != 1 {
		t.Errorf("unexpected statuses %+v", result.Videos)
	}
	if result.Videos[0].Err == nil || result.Videos[1].Err == nil {
		t.Error("expected errors recorded for skipped videos")
	}
	if !reflect.DeepEqual(persisted, []string{filepath.Join("videos", "c.mp4")}) {
		t.Errorf("expected only c.mp4 persisted, got %v", persisted)
	}
}

func TestOrchestrator_Run_RemovesTemporaryOnError(t *testing.T) {
	fs := batchFS("a.webm")
	temp := "/tmp/vidmark-a.mp4"
	fs.SetFile(temp, []byte("mp4"))
	orch := New(
		prepareFunc(func(ctx context.Context, in pipeline.PrepareInput) (pipeline.PrepareResult, error) {
			return pipeline.PrepareResult{Decodable: ports.Decodable{Path: temp, Temporary: true}}, nil
		}),
		annotateFunc(func(ctx context.Context, in pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
			return pipeline.AnnotateResult{}, errors.New("playback: decoder crashed")
		}),
		persistFunc(nothingSaved),
		store.New(fs, logger.NewNoop(), ""), fs, logger.NewNoop(),
	)

	config := DefaultConfig()
	config.Input = filepath.Join("videos", "a.webm")
	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fs.Removed, []string{temp}) {
		t.Errorf("expected temporary file removed, got %v", fs.Removed)
	}
}

func TestOrchestrator_Run_PersistsPartialSession(t *testing.T) {
	fs := batchFS("a.mp4")
	pending := checkpoint.Pending{
		Variant: checkpoint.VariantKeyed,
		Slots:   map[int]checkpoint.Checkpoint{1: {Frame: 5, Time: 0.2}},
	}
	var got checkpoint.Pending
	orch := New(
		prepareFunc(passthrough),
		annotateFunc(func(ctx context.Context, in pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
			return pipeline.AnnotateResult{Pending: pending}, errors.New("playback: read frame: eof")
		}),
		persistFunc(func(ctx context.Context, in pipeline.PersistInput) (pipeline.PersistResult, error) {
			got = in.Pending
			return pipeline.PersistResult{Result: store.Result{Saved: true}}, nil
		}),
		store.New(fs, logger.NewNoop(), ""), fs, logger.NewNoop(),
	)

	config := DefaultConfig()
	config.Input = "videos"
	result, _ := orch.Run(context.Background(), config)

	if len(got.Slots) != 1 {
		t.Errorf("expected gathered checkpoints to be persisted, got %+v", got)
	}
	if result.Videos[0].Status != StatusSkipped {
		t.Errorf("expected skipped status, got %s", result.Videos[0].Status)
	}
}

func TestOrchestrator_Run_PassesStoredCheckpoints(t *testing.T) {
	fs := batchFS("a.mp4")
	fs.SetFile(filepath.Join("videos", "a.json"), []byte(`{"video_file":"a","annotations":[{"start_frame":10,"end_frame":20,"start_time":0.5,"end_time":1.0}]}`))
	var stored map[int]checkpoint.Checkpoint
	var variant checkpoint.Variant
	orch := New(
		prepareFunc(passthrough),
		annotateFunc(func(ctx context.Context, in pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
			stored = in.Stored
			variant = in.Variant
			return nextVideo(ctx, in)
		}),
		persistFunc(nothingSaved),
		store.New(fs, logger.NewNoop(), ""), fs, logger.NewNoop(),
	)

	config := DefaultConfig()
	config.Input = "videos"
	config.Variant = checkpoint.VariantPair
	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if variant != checkpoint.VariantPair {
		t.Errorf("expected pair variant, got %s", variant)
	}
	if stored[1].Frame != 10 || stored[2].Frame != 20 {
		t.Errorf("unexpected stored checkpoints %v", stored)
	}
}

func TestOrchestrator_Run_PersistFailure(t *testing.T) {
	fs := batchFS("a.mp4", "b.mp4")
	orch := New(
		prepareFunc(passthrough),
		annotateFunc(nextVideo),
		persistFunc(func(ctx context.Context, in pipeline.PersistInput) (pipeline.PersistResult, error) {
			return pipeline.PersistResult{}, errors.New("write sidecar: read-only")
		}),
		store.New(fs, logger.NewNoop(), ""), fs, logger.NewNoop(),
	)

	config := DefaultConfig()
	config.Input = "videos"
	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count(StatusFailed) != 2 {
		t.Errorf("expected both videos failed, got %+v", result.Videos)
	}
}

func TestOrchestrator_Run_InputError(t *testing.T) {
	fs := mocks.NewFileSystem()
	orch := New(prepareFunc(passthrough), annotateFunc(nextVideo), persistFunc(nothingSaved),
		store.New(fs, logger.NewNoop(), ""), fs, logger.NewNoop())

	config := DefaultConfig()
	config.Input = "missing"
	if _, err := orch.Run(context.Background(), config); err == nil {
		t.Error("expected error for a missing input directory")
	}
}

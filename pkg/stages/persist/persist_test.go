package persist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/vidmark/pkg/adapters/logger"
	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/mocks"
	"github.com/user/vidmark/pkg/pipeline"
	"github.com/user/vidmark/pkg/store"
)

func newStage(fs *mocks.FileSystem) *Stage {
	return NewStage(store.New(fs, logger.NewNoop(), store.HistoryAppend), fs, logger.NewNoop())
}

func TestStage_Execute_Saves(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(fs)
	video := filepath.Join("videos", "clip.mp4")

	result, err := stage.Execute(context.Background(), pipeline.PersistInput{
		VideoPath: video,
		Pending: checkpoint.Pending{
			Variant: checkpoint.VariantKeyed,
			Slots:   map[int]checkpoint.Checkpoint{1: {Frame: 10, Time: 0.33}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Saved {
		t.Fatal("expected sidecar to be saved")
	}
	if result.SidecarPath != filepath.Join("videos", "clip.json") {
		t.Errorf("unexpected sidecar path %s", result.SidecarPath)
	}
	data, _ := fs.GetFile(result.SidecarPath)
	if result.Size != int64(len(data)) || result.Size == 0 {
		t.Errorf("expected size %d, got %d", len(data), result.Size)
	}
}

func TestStage_Execute_NothingPending(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(fs)

	result, err := stage.Execute(context.Background(), pipeline.PersistInput{
		VideoPath: "clip.mp4",
		Pending:   checkpoint.Pending{Variant: checkpoint.VariantPair},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Saved {
		t.Error("expected nothing saved")
	}
	if len(fs.GetAllFiles()) != 0 {
		t.Error("expected no file to be created")
	}
}

func TestStage_Execute_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}
	stage := newStage(fs)

	_, err := stage.Execute(context.Background(), pipeline.PersistInput{
		VideoPath: "clip.mp4",
		Pending: checkpoint.Pending{
			Variant: checkpoint.VariantKeyed,
			Slots:   map[int]checkpoint.Checkpoint{1: {Frame: 1}},
		},
	})
	if err == nil {
		t.Error("expected write error")
	}
}

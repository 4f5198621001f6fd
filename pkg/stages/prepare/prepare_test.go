package prepare

import (
	"context"
	"errors"
	"testing"

	"github.com/user/vidmark/pkg/adapters/logger"
	"github.com/user/vidmark/pkg/mocks"
	"github.com/user/vidmark/pkg/pipeline"
	"github.com/user/vidmark/pkg/ports"
)

func TestStage_Execute(t *testing.T) {
	transcoder := &mocks.Transcoder{
		EnsureDecodableFunc: func(ctx context.Context, path string) (ports.Decodable, error) {
			return ports.Decodable{Path: "/tmp/vidmark-1.mp4", Temporary: true}, nil
		},
	}
	stage := NewStage(transcoder, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.PrepareInput{VideoPath: "clip.webm"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decodable.Path != "/tmp/vidmark-1.mp4" || !result.Decodable.Temporary {
		t.Errorf("unexpected result %+v", result.Decodable)
	}
	if len(transcoder.Calls) != 1 || transcoder.Calls[0] != "clip.webm" {
		t.Errorf("expected one call for clip.webm, got %v", transcoder.Calls)
	}
}

func TestStage_Execute_Passthrough(t *testing.T) {
	stage := NewStage(&mocks.Transcoder{}, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.PrepareInput{VideoPath: "clip.mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Decodable.Path != "clip.mp4" || result.Decodable.Temporary {
		t.Errorf("expected input unchanged, got %+v", result.Decodable)
	}
}

func TestStage_Execute_Error(t *testing.T) {
	boom := errors.New("ffmpeg failed")
	stage := NewStage(&mocks.Transcoder{
		EnsureDecodableFunc: func(ctx context.Context, path string) (ports.Decodable, error) {
			return ports.Decodable{}, boom
		},
	}, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.PrepareInput{VideoPath: "clip.webm"})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

// Package prepare implements the stage that makes an input video decodable.
package prepare

import (
	"context"
	"fmt"

	"github.com/user/vidmark/pkg/pipeline"
	"github.com/user/vidmark/pkg/ports"
)

// Stage converts inputs the frame source cannot read.
type Stage struct {
	transcoder ports.Transcoder
	logger     ports.Logger
}

// NewStage creates a new prepare stage.
func NewStage(transcoder ports.Transcoder, logger ports.Logger) *Stage {
	return &Stage{
		transcoder: transcoder,
		logger:     logger.WithComponent("prepare"),
	}
}

// Execute returns the decodable file of input.VideoPath.
func (s *Stage) Execute(ctx context.Context, input pipeline.PrepareInput) (pipeline.PrepareResult, error) {
	d, err := s.transcoder.EnsureDecodable(ctx, input.VideoPath)
	if err != nil {
		return pipeline.PrepareResult{}, fmt.Errorf("prepare %s: %w", input.VideoPath, err)
	}
	if d.Temporary {
		s.logger.Debug("Using temporary file %s", d.Path)
	}
	return pipeline.PrepareResult{Decodable: d}, nil
}

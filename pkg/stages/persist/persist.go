// Package persist implements the stage that merges session checkpoints into sidecars.
package persist

import (
	"context"
	"fmt"

	"github.com/user/vidmark/pkg/pipeline"
	"github.com/user/vidmark/pkg/ports"
	"github.com/user/vidmark/pkg/store"
)

// Stage writes pending checkpoints through the annotation store.
type Stage struct {
	store  *store.Store
	fs     ports.FileSystem
	logger ports.Logger
}

// NewStage creates a new persist stage.
func NewStage(st *store.Store, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		store:  st,
		fs:     fs,
		logger: logger.WithComponent("persist"),
	}
}

// Execute merges input.Pending into the sidecar of input.VideoPath. Nothing is written
// when there is nothing pending.
func (s *Stage) Execute(ctx context.Context, input pipeline.PersistInput) (pipeline.PersistResult, error) {
	res, err := s.store.MergeAndSave(input.VideoPath, input.Pending)
	result := pipeline.PersistResult{Result: res}
	if err != nil {
		return result, fmt.Errorf("persist %s: %w", input.VideoPath, err)
	}

	if !res.Saved {
		s.logger.Info("No annotations for %s", store.DisplayName(input.VideoPath))
		return result, nil
	}

	if size, err := s.fs.Size(res.SidecarPath); err == nil {
		result.Size = size
	}
	s.logger.Info("Annotations saved to %s", res.SidecarPath)
	return result, nil
}

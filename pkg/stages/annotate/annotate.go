// Package annotate implements the interactive session of one video: playback, operator
// commands and checkpoint transitions.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/pipeline"
	"github.com/user/vidmark/pkg/playback"
	"github.com/user/vidmark/pkg/ports"
	"github.com/user/vidmark/pkg/store"
)

// Stage runs annotation sessions.
type Stage struct {
	opener  ports.FrameSourceOpener
	surface ports.Surface
	sink    ports.SnapshotSink
	logger  ports.Logger
}

// NewStage creates a new annotate stage.
func NewStage(opener ports.FrameSourceOpener, surface ports.Surface, sink ports.SnapshotSink, logger ports.Logger) *Stage {
	return &Stage{
		opener:  opener,
		surface: surface,
		sink:    sink,
		logger:  logger.WithComponent("annotate"),
	}
}

// session is the state of one running video.
type session struct {
	name    string
	ctrl    *playback.Controller
	machine *checkpoint.Machine
	result  pipeline.AnnotateResult
}

// Execute opens the source and runs the event loop until the operator moves on, quits,
// or ctx is cancelled. An error is returned only when the source cannot be read; the
// checkpoints gathered so far are still in the result.
func (s *Stage) Execute(ctx context.Context, input pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
	src, err := s.opener.Open(input.SourcePath)
	if err != nil {
		return pipeline.AnnotateResult{}, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	tick := input.Tick
	if tick <= 0 {
		tick = pipeline.DefaultTick
	}

	ss := &session{
		name:    store.DisplayName(input.VideoPath),
		ctrl:    playback.NewController(src),
		machine: checkpoint.NewMachine(input.Variant, input.Stored),
	}
	ss.result.FrameCount = src.FrameCount()
	s.logger.Info("Annotating %s (%d frames)", ss.name, ss.result.FrameCount)

	err = s.loop(ctx, ss, tick)
	ss.result.Pending = ss.machine.Pending()
	return ss.result, err
}

func (s *Stage) loop(ctx context.Context, ss *session, tick time.Duration) error {
	for {
		if ctx.Err() != nil {
			ss.result.Reason = pipeline.EndCancelled
			return nil
		}

		frame, _, err := ss.ctrl.Tick()
		if err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		if err := s.surface.Show(frame); err != nil {
			s.logger.Warn("Failed to show frame: %s", err)
		}
		s.surface.SetStatus(s.status(ss))

		cmd, err := s.surface.NextCommand(ctx, tick)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				ss.result.Reason = pipeline.EndCancelled
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		switch cmd.Kind {
		case ports.CommandNone:
		case ports.CommandQuit:
			ss.result.Reason = pipeline.EndQuit
			return nil
		case ports.CommandNext:
			ss.result.Reason = pipeline.EndNext
			return nil
		case ports.CommandTogglePause:
			ss.ctrl.TogglePause()
		case ports.CommandMark:
			s.mark(ss, cmd.Slot)
		case ports.CommandRecall:
			s.recall(ss, cmd.Slot)
		case ports.CommandClear:
			ss.machine.Clear()
			s.logger.Debug("Cleared checkpoints")
		case ports.CommandStepForward, ports.CommandStepBackward:
			if err := s.step(ss, cmd.Kind == ports.CommandStepForward); err != nil {
				return err
			}
		}
	}
}

func (s *Stage) mark(ss *session, slot int) {
	pos := ss.ctrl.Position()
	c := checkpoint.Checkpoint{Frame: pos.Frame, Time: pos.Time}
	out := ss.machine.Mark(slot, c)
	s.report(ss, out, c)

	if out.Kind != checkpoint.OutcomeSet && out.Kind != checkpoint.OutcomeCascaded {
		return
	}
	if !s.sink.Enabled() {
		return
	}
	shown, ok := ss.ctrl.Current()
	if !ok {
		return
	}
	// Named after the checkpoint frame; the picture is the displayed frame, one before it.
	snap := ports.Frame{Index: c.Frame, Time: c.Time, Image: shown.Image}
	if err := s.sink.SaveCheckpoint(ss.name, slot, snap, s.status(ss)); err != nil {
		s.logger.Warn("Failed to save snapshot: %s", err)
		return
	}
	ss.result.Snapshots++
}

func (s *Stage) recall(ss *session, slot int) {
	c, ok := ss.machine.Stored(slot)
	out := ss.machine.Recall(slot)
	if !ok {
		s.logger.Debug("Nothing stored for slot %d", slot)
		return
	}
	s.report(ss, out, c)
}

func (s *Stage) report(ss *session, out checkpoint.Outcome, c checkpoint.Checkpoint) {
	switch out.Kind {
	case checkpoint.OutcomeIgnored:
		s.logger.Debug("Slot %d needs slot %d first", out.Slot, out.Slot-1)
		return
	case checkpoint.OutcomeRejected:
		ss.result.Rejected++
		s.logger.Warn("Checkpoint %d at frame %d is before checkpoint %d, discarded", out.Slot, c.Frame, out.Slot-1)
		return
	case checkpoint.OutcomeCascaded:
		s.logger.Info("Checkpoint %d moved past later checkpoints, slots %d and above cleared", out.Slot, out.ResetFrom)
	}
	ss.result.Marks++
	s.logger.Debug("Checkpoint %d set to %s", out.Slot, c.String())
	if out.Completed {
		s.logger.Info("Checkpoint set complete for %s", ss.name)
	}
}

func (s *Stage) step(ss *session, forward bool) error {
	var frame ports.Frame
	var moved bool
	var err error
	if forward {
		frame, moved, err = ss.ctrl.StepForward()
	} else {
		frame, moved, err = ss.ctrl.StepBackward()
	}
	if err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	if moved {
		if err := s.surface.Show(frame); err != nil {
			s.logger.Warn("Failed to show frame: %s", err)
		}
	}
	return nil
}

// status builds the status line, for example
// "Frame: 120 | Time: 4.00s | Paused | 1: 100 (3.33s) | 2: - | 3: - | 4: - | Existing: 1: F(T): 90(3.00s)".
func (s *Stage) status(ss *session) string {
	pos := ss.ctrl.Position()
	parts := []string{fmt.Sprintf("Frame: %d", pos.Frame), fmt.Sprintf("Time: %.2fs", pos.Time)}
	if pos.Paused {
		parts = append(parts, "Paused")
	}
	if marks := ss.machine.Status(); marks != "" {
		parts = append(parts, marks)
	}
	if existing := ss.machine.StoredStatus(); existing != "" {
		parts = append(parts, existing)
	}
	return strings.Join(parts, " | ")
}

package pipeline

import (
	"time"

	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/ports"
	"github.com/user/vidmark/pkg/store"
)

// =============================================================================
// Prepare Stage Types
// =============================================================================

// PrepareInput names the video to make decodable.
type PrepareInput struct {
	VideoPath string
}

// PrepareResult is the decodable file for the video.
type PrepareResult struct {
	Decodable ports.Decodable
}

// =============================================================================
// Annotate Stage Types
// =============================================================================

// AnnotateInput contains what a session needs for one video.
type AnnotateInput struct {
	VideoPath  string // Original input, used for display and snapshots
	SourcePath string // Decodable file opened by the frame source
	Variant    checkpoint.Variant
	Stored     map[int]checkpoint.Checkpoint // Previously saved checkpoints, the recall source
	Tick       time.Duration                 // Playback interval (default: 33ms)
}

// DefaultTick is the playback interval, about 30 frames per second.
const DefaultTick = 33 * time.Millisecond

// EndReason tells how a session ended.
type EndReason int

const (
	// EndNext means the operator moved on to the next video.
	EndNext EndReason = iota
	// EndQuit means the operator asked to stop the whole batch.
	EndQuit
	// EndCancelled means the context was cancelled, for example by a signal.
	EndCancelled
)

// String returns the reason name.
func (r EndReason) String() string {
	switch r {
	case EndQuit:
		return "quit"
	case EndCancelled:
		return "cancelled"
	default:
		return "next"
	}
}

// StopsBatch reports whether the batch must stop after the video that ended this way.
func (r EndReason) StopsBatch() bool {
	return r == EndQuit || r == EndCancelled
}

// AnnotateResult is the outcome of a session.
type AnnotateResult struct {
	Pending    checkpoint.Pending
	Reason     EndReason
	FrameCount int
	Marks      int // Successful mark and recall commands
	Rejected   int // Marks discarded for breaking frame order
	Snapshots  int
}


// =============================================================================
// Persist Stage Types
// =============================================================================

// PersistInput contains the checkpoints to merge into a video's sidecar.
type PersistInput struct {
	VideoPath string
	Pending   checkpoint.Pending
}

// PersistResult is the outcome of the merge.
type PersistResult struct {
	store.Result
	Size int64 // Sidecar size in bytes after writing
}

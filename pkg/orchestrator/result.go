package orchestrator

import (
	"time"

	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/pipeline"
)

// VideoStatus is the outcome of one video.
type VideoStatus string

const (
	// StatusSaved means the sidecar was written.
	StatusSaved VideoStatus = "saved"
	// StatusUnchanged means the session produced no annotation to write.
	StatusUnchanged VideoStatus = "unchanged"
	// StatusSkipped means the video could not be prepared or read.
	StatusSkipped VideoStatus = "skipped"
	// StatusFailed means the sidecar could not be written.
	StatusFailed VideoStatus = "failed"
)

// VideoResult contains the outcome of one video for summary generation.
type VideoResult struct {
	Video      string
	Status     VideoStatus
	Reason     pipeline.EndReason
	Transcoded bool // A temporary decodable file was used
	Err        error

	// Session
	FrameCount int
	Marks      int
	Rejected   int
	Snapshots  int

	// Sidecar
	SidecarPath string
	SidecarSize int64
	Annotations int // Keyed slots or history takes stored after the merge
}

// BatchResult contains the results of a batch run for summary generation.
type BatchResult struct {
	Input    string
	Variant  checkpoint.Variant
	Total    int // Videos found in the input
	Videos   []VideoResult
	Quit     bool // The operator quit or the run was cancelled
	Duration time.Duration
}

// Count returns the number of videos with status.
func (r BatchResult) Count(status VideoStatus) int {
	n := 0
	for _, v := range r.Videos {
		if v.Status == status {
			n++
		}
	}
	return n
}

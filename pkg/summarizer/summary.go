// Package summarizer builds and formats the report of an annotation batch.
package summarizer

import "time"

// Summary contains all data collected during a batch.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Batch settings and outcome
	Batch BatchInfo

	// One entry per processed video, in processing order
	Videos []VideoInfo
}

// BatchInfo describes the batch as a whole.
type BatchInfo struct {
	Input    string
	Variant  string
	Found    int  // Videos found in the input
	Stopped  bool // The operator quit before the end of the batch
	Duration time.Duration
}

// VideoInfo describes the outcome of one video.
type VideoInfo struct {
	Name       string
	Status     string
	Transcoded bool
	Error      string

	FrameCount int
	Marks      int
	Rejected   int
	Snapshots  int

	SidecarPath string
	SidecarSize int64
	Annotations int
}

// Totals aggregates the per-video counters.
type Totals struct {
	Videos      int
	Marks       int
	Rejected    int
	Snapshots   int
	SidecarSize int64
	ByStatus    map[string]int
}

// Totals returns the aggregated counters of the summary.
func (s *Summary) Totals() Totals {
	t := Totals{Videos: len(s.Videos), ByStatus: make(map[string]int)}
	for _, v := range s.Videos {
		t.Marks += v.Marks
		t.Rejected += v.Rejected
		t.Snapshots += v.Snapshots
		t.SidecarSize += v.SidecarSize
		t.ByStatus[v.Status]++
	}
	return t
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithBatch sets the batch information.
func (b *Builder) WithBatch(batch BatchInfo) *Builder {
	b.summary.Batch = batch
	return b
}

// AddVideo appends the outcome of one video.
func (b *Builder) AddVideo(video VideoInfo) *Builder {
	b.summary.Videos = append(b.summary.Videos, video)
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

package summarizer

import (
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	summary := NewBuilder().
		WithBatch(BatchInfo{Input: "videos", Variant: "pair", Found: 3}).
		AddVideo(VideoInfo{Name: "videos/a.mp4", Status: "saved", Marks: 4, Rejected: 1, SidecarSize: 120}).
		AddVideo(VideoInfo{Name: "videos/b.webm", Status: "unchanged", Snapshots: 2}).
		Build()

	if summary.Batch.Input != "videos" || summary.Batch.Found != 3 {
		t.Errorf("unexpected batch %+v", summary.Batch)
	}
	if len(summary.Videos) != 2 || summary.Videos[1].Name != "videos/b.webm" {
		t.Fatalf("unexpected videos %+v", summary.Videos)
	}

	totals := summary.Totals()
	if totals.Videos != 2 || totals.Marks != 4 || totals.Rejected != 1 || totals.Snapshots != 2 {
		t.Errorf("unexpected totals %+v", totals)
	}
	if totals.SidecarSize != 120 {
		t.Errorf("expected sidecar size 120, got %d", totals.SidecarSize)
	}
	if totals.ByStatus["saved"] != 1 || totals.ByStatus["unchanged"] != 1 {
		t.Errorf("unexpected status counts %v", totals.ByStatus)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "-"},
		{245, "245 B"},
		{1234, "1.2 kB"},
		{2_500_000, "2.5 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatSize(tt.size); got != tt.want {
				t.Errorf("formatSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(1500 * time.Microsecond); got != "2ms" {
		t.Errorf("unexpected short duration %q", got)
	}
	if got := formatDuration(83*time.Second + 400*time.Millisecond); got != "1m23s" {
		t.Errorf("unexpected long duration %q", got)
	}
}

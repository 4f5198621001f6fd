package main

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/orchestrator"
)

func TestNormalizeExtensions(t *testing.T) {
	got := normalizeExtensions([]string{"mp4, .webm", "", "MKV"})
	want := []string{".mp4", ".webm", ".MKV"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuildSummary(t *testing.T) {
	result := orchestrator.BatchResult{
		Input:    "videos",
		Variant:  checkpoint.VariantPair,
		Total:    3,
		Quit:     true,
		Duration: 2 * time.Minute,
		Videos: []orchestrator.VideoResult{
			{Video: "videos/a.mp4", Status: orchestrator.StatusSaved, Marks: 2, SidecarSize: 90},
			{Video: "videos/b.webm", Status: orchestrator.StatusSkipped, Err: errors.New("open source: bad file")},
		},
	}

	summary := buildSummary(result)

	if !summary.Batch.Stopped || summary.Batch.Found != 3 || summary.Batch.Variant != "pair" {
		t.Errorf("unexpected batch info %+v", summary.Batch)
	}
	if len(summary.Videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(summary.Videos))
	}
	if summary.Videos[0].Status != "saved" || summary.Videos[0].SidecarSize != 90 {
		t.Errorf("unexpected first video %+v", summary.Videos[0])
	}
	if summary.Videos[1].Error != "open source: bad file" {
		t.Errorf("expected error text, got %q", summary.Videos[1].Error)
	}
}

func TestKeysCommand(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out

	if err := app.Run([]string{"vidmark", "keys", "--variant", "pair"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"pair", "mark-1: 1, s", "mark-2: 2, e", "quit: esc, q"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q\n%s", want, out.String())
		}
	}
}

func TestKeysCommand_InvalidVariant(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}

	if err := app.Run([]string{"vidmark", "keys", "--variant", "triple"}); err == nil {
		t.Error("expected error for an unknown variant")
	}
}

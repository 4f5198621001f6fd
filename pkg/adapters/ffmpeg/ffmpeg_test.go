package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/vidmark/pkg/adapters/codecdetect"
	"github.com/user/vidmark/pkg/adapters/logger"
)

func TestTranscodeArgs(t *testing.T) {
	got := strings.Join(TranscodeArgs("in.webm", "out.mp4", 23), " ")
	for _, want := range []string{"-y", "-i in.webm", "-c:v libx264", "-crf 23", "-c:a aac"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if !strings.HasSuffix(got, "out.mp4") {
		t.Errorf("expected output path last, got %q", got)
	}
}

func TestDecodeArgs(t *testing.T) {
	got := strings.Join(DecodeArgs("clip.mp4", 3.5, 640, 360), " ")
	for _, want := range []string{"-ss 3.500000 -i clip.mp4", "-f rawvideo", "-pix_fmt rgba", "-s 640x360", "pipe:1"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}

	fromStart := strings.Join(DecodeArgs("clip.mp4", 0, 640, 360), " ")
	if strings.Contains(fromStart, "-ss") {
		t.Errorf("expected no seek from the start, got %q", fromStart)
	}
}

func newTestTranscoder(probe codecdetect.Probe, probeErr error) (*Transcoder, *[][]string) {
	var calls [][]string
	tr := NewTranscoder("ffmpeg", 0, "", logger.NewNoop())
	tr.Probe = func(string) (codecdetect.Probe, error) { return probe, probeErr }
	tr.Run = func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	return tr, &calls
}

func TestTranscoder_AlreadyDecodable(t *testing.T) {
	tr, calls := newTestTranscoder(codecdetect.Probe{Container: codecdetect.ContainerMP4, Codec: codecdetect.CodecH264}, nil)

	d, err := tr.EnsureDecodable(context.Background(), "clip.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Path != "clip.mp4" || d.Temporary {
		t.Errorf("expected input unchanged, got %+v", d)
	}
	if len(*calls) != 0 {
		t.Errorf("expected ffmpeg not to run, got %v", *calls)
	}
}

func TestTranscoder_ConvertsWebM(t *testing.T) {
	tr, calls := newTestTranscoder(codecdetect.Probe{Container: codecdetect.ContainerWebM, Codec: codecdetect.CodecUnknown}, nil)
	tr.tempDir = t.TempDir()

	d, err := tr.EnsureDecodable(context.Background(), "clip.webm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Temporary || d.Path == "clip.webm" {
		t.Errorf("expected a temporary artifact, got %+v", d)
	}
	if filepath.Dir(d.Path) != tr.tempDir || filepath.Ext(d.Path) != ".mp4" {
		t.Errorf("unexpected artifact path %s", d.Path)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one ffmpeg run, got %d", len(*calls))
	}
	args := strings.Join((*calls)[0], " ")
	if !strings.Contains(args, "-crf 23") || !strings.HasSuffix(args, d.Path) {
		t.Errorf("unexpected ffmpeg args %q", args)
	}
	os.Remove(d.Path)
}

func TestTranscoder_ProbeFailureStillTranscodes(t *testing.T) {
	tr, calls := newTestTranscoder(codecdetect.Probe{}, codecdetect.ErrUnknownContainer)
	tr.tempDir = t.TempDir()

	d, err := tr.EnsureDecodable(context.Background(), "odd.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Temporary || len(*calls) != 1 {
		t.Errorf("expected transcoding, got %+v after %d runs", d, len(*calls))
	}
	os.Remove(d.Path)
}

func TestTranscoder_FailureRemovesArtifact(t *testing.T) {
	tr, _ := newTestTranscoder(codecdetect.Probe{Container: codecdetect.ContainerWebM}, nil)
	tr.tempDir = t.TempDir()
	tr.Run = func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	}

	if _, err := tr.EnsureDecodable(context.Background(), "clip.webm"); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(tr.tempDir)
	if len(entries) != 0 {
		t.Errorf("expected temp dir to be empty, got %d entries", len(entries))
	}
}

func TestRawReader(t *testing.T) {
	w, h := 2, 2
	frame := bytes.Repeat([]byte{10, 20, 30, 255}, w*h)
	data := append(append([]byte{}, frame...), frame...)
	data = append(data, 1, 2, 3) // trailing partial frame

	r := NewRawReader(bytes.NewReader(data), w, h)
	for i := 0; i < 2; i++ {
		img, err := r.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		rgba := img.(*image.RGBA)
		if rgba.Bounds().Dx() != w || rgba.Pix[0] != 10 || rgba.Pix[2] != 30 {
			t.Errorf("frame %d: unexpected pixels %v", i, rgba.Pix[:4])
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF on partial frame, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestFindFFmpeg_Custom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg")
	os.WriteFile(path, []byte("#!/bin/sh\n"), 0755)

	got, err := FindFFmpeg(path)
	if err != nil || got != path {
		t.Errorf("FindFFmpeg(custom) = %q, %v", got, err)
	}

	if _, err := FindFFmpeg(path + "-missing"); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestFindFFmpeg_Env(t *testing.T) {
	t.Setenv("FFMPEG_PATH", filepath.Join(t.TempDir(), "nope"))

	if _, err := FindFFmpeg(""); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound for a missing FFMPEG_PATH, got %v", err)
	}
}

// Package ffmpeg runs the ffmpeg binary to transcode videos and stream decoded frames.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
var ErrFFmpegNotFound = errors.New("ffmpeg: ffmpeg not found in PATH")

// FindFFmpeg searches for ffmpeg.
// Priority: 1) custom path, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func FindFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrFFmpegNotFound
}

func commonPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		return []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
}

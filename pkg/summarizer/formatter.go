package summarizer

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// Translator translates a message key.
type Translator func(key string) string

func identity(key string) string { return key }

// formatSize returns a human-readable size, "-" when nothing was written.
func formatSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func formatFrames(n int) string {
	if n <= 0 {
		return "-"
	}
	return formatCount(n)
}

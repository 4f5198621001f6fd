package summarizer

import (
	"fmt"

	"github.com/user/vidmark/pkg/ports"
)

// Writer writes formatted summaries to files.
type Writer struct {
	formatter Formatter
	fs        ports.FileSystem
}

// NewWriter creates a new Writer with the given Formatter.
func NewWriter(formatter Formatter, fs ports.FileSystem) *Writer {
	return &Writer{
		formatter: formatter,
		fs:        fs,
	}
}

// Write formats the summary and writes it to the specified path.
// The file system creates missing parent directories.
func (w *Writer) Write(path string, summary *Summary) error {
	content := w.formatter.Format(summary)
	if err := w.fs.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

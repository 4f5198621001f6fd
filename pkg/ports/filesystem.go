package ports

// DirEntry is a single entry returned by FileSystem.ReadDir.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating parent directories if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// ReadDir lists the entries of a directory sorted by name.
	ReadDir(path string) ([]DirEntry, error)

	// Size returns the size in bytes of a regular file.
	Size(path string) (int64, error)
}

package ports

import "context"

// Decodable is a video file the FrameSourceOpener can read.
type Decodable struct {
	// Path is the decodable file. It equals the input path when no conversion was needed.
	Path string

	// Temporary reports whether Path is an artifact created for this session.
	// Only temporary artifacts may be removed by the caller.
	Temporary bool
}

// Transcoder turns an input video into a decodable one.
type Transcoder interface {
	// EnsureDecodable returns a decodable version of path. It is idempotent: an input
	// that is already decodable is returned unchanged with Temporary set to false.
	EnsureDecodable(ctx context.Context, path string) (Decodable, error)
}

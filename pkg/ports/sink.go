package ports

// SnapshotSink stores a picture of every frame a checkpoint is marked on.
// It lets the operator review a take without reopening the video.
type SnapshotSink interface {
	// Enabled returns true if snapshots are stored.
	Enabled() bool

	// SaveCheckpoint stores the frame marked for slot of the named video.
	// Status is the status line at the time of marking and is drawn onto the picture.
	SaveCheckpoint(video string, slot int, frame Frame, status string) error
}

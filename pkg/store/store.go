package store

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/ports"
)

// ErrUnordered is returned when a keyed update holds slots out of frame order.
var ErrUnordered = errors.New("store: checkpoints are not in frame order")

// HistoryPolicy decides how the history layout merges a session's takes.
type HistoryPolicy string

const (
	// HistoryAppend adds the session's takes after the stored ones.
	HistoryAppend HistoryPolicy = "append"
	// HistoryReplace keeps only the most recent take of the session.
	HistoryReplace HistoryPolicy = "replace"
)

// ParseHistoryPolicy parses a policy name. An empty name selects HistoryAppend.
func ParseHistoryPolicy(s string) (HistoryPolicy, error) {
	switch HistoryPolicy(s) {
	case "", HistoryAppend:
		return HistoryAppend, nil
	case HistoryReplace:
		return HistoryReplace, nil
	default:
		return "", fmt.Errorf("unknown history policy %q (want append or replace)", s)
	}
}

// Result describes the outcome of MergeAndSave.
type Result struct {
	Saved       bool
	SidecarPath string
	Record      *Record
}

// Store loads and merges sidecar records through a FileSystem.
type Store struct {
	fs     ports.FileSystem
	logger ports.Logger
	policy HistoryPolicy
}

// New creates a Store.
func New(fs ports.FileSystem, logger ports.Logger, policy HistoryPolicy) *Store {
	if policy == "" {
		policy = HistoryAppend
	}
	return &Store{
		fs:     fs,
		logger: logger.WithComponent("store"),
		policy: policy,
	}
}

// SidecarPath returns the sidecar of a video: same directory and base name, .json extension.
func SidecarPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".json"
}

// DisplayName returns the identifier written to video_file: the base name without extension.
func DisplayName(videoPath string) string {
	base := filepath.Base(videoPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load returns the stored record of a video. A missing or malformed sidecar yields an
// empty record; only I/O failures other than absence are returned as errors.
func (s *Store) Load(videoPath string) (*Record, error) {
	rec, _, err := s.read(SidecarPath(videoPath))
	return rec, err
}

// MergeAndSave merges pending checkpoints into the stored record of a video and writes it.
// Nothing is written when pending is empty.
func (s *Store) MergeAndSave(videoPath string, pending checkpoint.Pending) (Result, error) {
	path := SidecarPath(videoPath)
	result := Result{SidecarPath: path}

	if pending.Empty() {
		return result, nil
	}
	if pending.Variant.Keyed() && !slotsOrdered(pending.Slots) {
		return result, ErrUnordered
	}

	rec, malformed, err := s.read(path)
	if err != nil {
		return result, err
	}
	if malformed != nil {
		backup := path + ".bak"
		if err := s.fs.WriteFile(backup, malformed); err != nil {
			return result, fmt.Errorf("back up malformed sidecar: %w", err)
		}
		s.logger.Warn("Malformed sidecar kept as %s", backup)
	}

	rec.VideoFile = DisplayName(videoPath)
	if pending.Variant.Keyed() {
		if dropped := mergeSlots(rec, pending.Slots); len(dropped) > 0 {
			s.logger.Warn("Dropped stored checkpoints %s, out of order after merge", strings.Join(dropped, ", "))
		}
	} else {
		s.mergeTakes(rec, pending.Takes)
	}

	data, err := rec.Encode()
	if err != nil {
		return result, fmt.Errorf("encode sidecar: %w", err)
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return result, fmt.Errorf("write sidecar: %w", err)
	}

	s.logger.Debug("Wrote %d bytes to %s", len(data), path)
	result.Saved = true
	result.Record = rec
	return result, nil
}

// read returns the record at path. When the file exists but cannot be parsed, an empty
// record is returned together with the raw bytes.
func (s *Store) read(path string) (*Record, []byte, error) {
	exists, err := s.fs.Exists(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat sidecar: %w", err)
	}
	if !exists {
		return &Record{}, nil, nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read sidecar: %w", err)
	}
	rec, err := Decode(data)
	if err != nil {
		s.logger.Warn("Ignoring malformed sidecar %s: %s", path, err)
		return &Record{}, data, nil
	}
	return rec, nil, nil
}

// mergeSlots writes slots over the stored keys and returns the stored keys it dropped.
//
// New checkpoints always win. Walking the numeric keys in slot order, the first stored
// checkpoint that is behind an earlier one, or ahead of a later new one, is dropped
// together with every stored checkpoint after it, as a mark that passes later slots
// reverts them. Keys that are not slot numbers are left alone.
func mergeSlots(rec *Record, slots map[int]checkpoint.Checkpoint) []string {
	if rec.VideoAnnotations == nil {
		rec.VideoAnnotations = make(map[string]checkpoint.Checkpoint, len(slots))
	}

	stored := make(map[int]string)
	for key := range rec.VideoAnnotations {
		if slot, err := strconv.Atoi(key); err == nil {
			stored[slot] = key
		}
	}
	for slot, c := range slots {
		key := strconv.Itoa(slot)
		if old, ok := stored[slot]; ok && old != key {
			delete(rec.VideoAnnotations, old)
		}
		rec.VideoAnnotations[key] = c
		delete(stored, slot)
	}

	order := make([]int, 0, len(stored)+len(slots))
	for slot := range stored {
		order = append(order, slot)
	}
	for slot := range slots {
		order = append(order, slot)
	}
	sort.Ints(order)

	// nextNew[i] is the smallest new frame at or after order[i].
	nextNew := make([]int, len(order)+1)
	nextNew[len(order)] = math.MaxInt
	for i := len(order) - 1; i >= 0; i-- {
		nextNew[i] = nextNew[i+1]
		if c, ok := slots[order[i]]; ok && c.Frame < nextNew[i] {
			nextNew[i] = c.Frame
		}
	}

	var dropped []string
	dropping := false
	last := -1
	for i, slot := range order {
		if c, ok := slots[slot]; ok {
			last = c.Frame
			continue
		}
		key := stored[slot]
		c := rec.VideoAnnotations[key]
		if dropping || c.Frame < last || c.Frame > nextNew[i+1] {
			dropping = true
			delete(rec.VideoAnnotations, key)
			dropped = append(dropped, key)
			continue
		}
		last = c.Frame
	}
	return dropped
}

func (s *Store) mergeTakes(rec *Record, takes []checkpoint.Set) {
	intervals := make([]Interval, 0, len(takes))
	for _, take := range takes {
		intervals = append(intervals, toInterval(take))
	}
	if s.policy == HistoryReplace {
		rec.Annotations = intervals[len(intervals)-1:]
		return
	}
	rec.Annotations = append(rec.Annotations, intervals...)
}

// toInterval converts a history take. A single-slot take is an instant: start equals end.
func toInterval(take checkpoint.Set) Interval {
	start, _ := take.Get(1)
	end, ok := take.Get(2)
	if !ok {
		end = start
	}
	return Interval{
		StartFrame: start.Frame,
		EndFrame:   end.Frame,
		StartTime:  start.Time,
		EndTime:    end.Time,
	}
}

func slotsOrdered(slots map[int]checkpoint.Checkpoint) bool {
	maxSlot := 0
	for slot := range slots {
		if slot > maxSlot {
			maxSlot = slot
		}
	}
	last := -1
	for slot := 1; slot <= maxSlot; slot++ {
		c, ok := slots[slot]
		if !ok {
			continue
		}
		if c.Frame < last {
			return false
		}
		last = c.Frame
	}
	return true
}

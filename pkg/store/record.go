// Package store reads and writes the per-video annotation sidecar files.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/user/vidmark/pkg/checkpoint"
)

const (
	keyVideoFile        = "video_file"
	keyAnnotations      = "annotations"
	keyVideoAnnotations = "video_annotations"
)

// Interval is one take of the history layout.
type Interval struct {
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// Record is the content of a sidecar file.
//
// The keyed layout fills VideoAnnotations, the history layout fills Annotations. Keys the
// tool does not know are kept in Extra and written back unchanged.
type Record struct {
	VideoFile        string
	Annotations      []Interval
	VideoAnnotations map[string]checkpoint.Checkpoint
	Extra            map[string]json.RawMessage
}

// IsEmpty reports whether the record holds no checkpoint.
func (r *Record) IsEmpty() bool {
	return len(r.Annotations) == 0 && len(r.VideoAnnotations) == 0
}

// Recallable returns the stored checkpoints keyed by slot for the variant. History
// layouts expose the most recent take.
func (r *Record) Recallable(variant checkpoint.Variant) map[int]checkpoint.Checkpoint {
	out := make(map[int]checkpoint.Checkpoint)
	if variant.Keyed() {
		for key, c := range r.VideoAnnotations {
			slot, err := strconv.Atoi(key)
			if err != nil || slot < 1 || slot > variant.Slots() {
				continue
			}
			out[slot] = c
		}
		return out
	}
	if len(r.Annotations) == 0 {
		return out
	}
	last := r.Annotations[len(r.Annotations)-1]
	out[1] = checkpoint.Checkpoint{Frame: last.StartFrame, Time: last.StartTime}
	if variant.Slots() > 1 {
		out[2] = checkpoint.Checkpoint{Frame: last.EndFrame, Time: last.EndTime}
	}
	return out
}

// UnmarshalJSON decodes a sidecar, keeping unknown keys.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("sidecar is not a JSON object")
	}

	*r = Record{}
	if v, ok := raw[keyVideoFile]; ok {
		if err := json.Unmarshal(v, &r.VideoFile); err != nil {
			return fmt.Errorf("%s: %w", keyVideoFile, err)
		}
		delete(raw, keyVideoFile)
	}
	if v, ok := raw[keyAnnotations]; ok {
		if err := json.Unmarshal(v, &r.Annotations); err != nil {
			return fmt.Errorf("%s: %w", keyAnnotations, err)
		}
		delete(raw, keyAnnotations)
	}
	if v, ok := raw[keyVideoAnnotations]; ok {
		if err := json.Unmarshal(v, &r.VideoAnnotations); err != nil {
			return fmt.Errorf("%s: %w", keyVideoAnnotations, err)
		}
		delete(raw, keyVideoAnnotations)
	}
	if len(raw) > 0 {
		r.Extra = raw
	}
	return nil
}

// MarshalJSON encodes the record with video_file first, then the annotation field, then
// the preserved keys in sorted order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	field := func(key string, value interface{}) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}

	if err := field(keyVideoFile, r.VideoFile); err != nil {
		return nil, err
	}
	if r.Annotations != nil {
		if err := field(keyAnnotations, r.Annotations); err != nil {
			return nil, err
		}
	}
	if r.VideoAnnotations != nil {
		if err := field(keyVideoAnnotations, r.VideoAnnotations); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := field(k, r.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the sidecar bytes: pretty-printed with four spaces and a trailing newline.
func (r *Record) Encode() ([]byte, error) {
	compact, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Decode parses sidecar bytes.
func Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

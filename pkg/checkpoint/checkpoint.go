// Package checkpoint implements the ordered checkpoint state machine of an annotation take.
//
// A take has K slots. Slot i can only be set once slot i-1 is set, and set slots are
// kept in non-decreasing frame order: a mark that breaks the order reverts every slot
// from the first offending one onward. Completed sets are committed for persistence
// according to the Variant.
package checkpoint

import "fmt"

// Checkpoint is one marked instant of a video.
type Checkpoint struct {
	Frame int     `json:"frame"`
	Time  float64 `json:"time"`
}

// String returns the compact "frame (time)" form used in status lines.
func (c Checkpoint) String() string {
	return fmt.Sprintf("%d (%.2fs)", c.Frame, c.Time)
}

// Set holds the K slots of one take. The zero value is unusable; use NewSet.
type Set struct {
	slots []*Checkpoint
}

// NewSet returns a set with k unset slots.
func NewSet(k int) Set {
	return Set{slots: make([]*Checkpoint, k)}
}

// K returns the number of slots.
func (s Set) K() int {
	return len(s.slots)
}

// Get returns the checkpoint in slot i (1-based) and whether it is set.
func (s Set) Get(i int) (Checkpoint, bool) {
	if i < 1 || i > len(s.slots) || s.slots[i-1] == nil {
		return Checkpoint{}, false
	}
	return *s.slots[i-1], true
}

// IsSet reports whether slot i is set.
func (s Set) IsSet(i int) bool {
	_, ok := s.Get(i)
	return ok
}

// Count returns the number of set slots.
func (s Set) Count() int {
	n := 0
	for _, c := range s.slots {
		if c != nil {
			n++
		}
	}
	return n
}

// IsComplete reports whether every slot is set.
func (s Set) IsComplete() bool {
	return len(s.slots) > 0 && s.Count() == len(s.slots)
}

// IsEmpty reports whether no slot is set.
func (s Set) IsEmpty() bool {
	return s.Count() == 0
}

// Ordered reports whether the set slots are in non-decreasing frame order.
func (s Set) Ordered() bool {
	last := -1
	for _, c := range s.slots {
		if c == nil {
			continue
		}
		if c.Frame < last {
			return false
		}
		last = c.Frame
	}
	return true
}

// Slots returns the set slots keyed by slot number.
func (s Set) Slots() map[int]Checkpoint {
	out := make(map[int]Checkpoint, len(s.slots))
	for i, c := range s.slots {
		if c != nil {
			out[i+1] = *c
		}
	}
	return out
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := NewSet(len(s.slots))
	for i, c := range s.slots {
		if c != nil {
			v := *c
			out.slots[i] = &v
		}
	}
	return out
}

func (s *Set) set(i int, c Checkpoint) {
	s.slots[i-1] = &c
}

// resetFrom reverts slots i..K to unset.
func (s *Set) resetFrom(i int) {
	for j := i; j <= len(s.slots); j++ {
		s.slots[j-1] = nil
	}
}

func (s *Set) clear() {
	s.resetFrom(1)
}

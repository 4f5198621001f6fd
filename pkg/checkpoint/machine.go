package checkpoint

// OutcomeKind describes what a Mark or Recall did to the in-progress set.
type OutcomeKind int

const (
	// OutcomeIgnored means the command had no effect: slot out of range, previous slot
	// unset, or nothing stored to recall.
	OutcomeIgnored OutcomeKind = iota
	// OutcomeSet means the slot was set and the set is still ordered.
	OutcomeSet
	// OutcomeRejected means the value fell below the previous slot; the slot and every
	// later slot are unset.
	OutcomeRejected
	// OutcomeCascaded means the slot was set but exceeded the next slot; every later slot
	// is unset.
	OutcomeCascaded
)

// String returns a short name for logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSet:
		return "set"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCascaded:
		return "cascaded"
	default:
		return "ignored"
	}
}

// Outcome is the result of one transition.
type Outcome struct {
	Kind      OutcomeKind
	Slot      int
	ResetFrom int  // First slot reverted to unset, 0 when nothing was reverted
	Completed bool // The transition committed the set
}

// Pending is what a session hands to the annotation store when it ends.
type Pending struct {
	Variant Variant

	// Slots is used by keyed variants.
	Slots map[int]Checkpoint

	// Takes is used by history variants, in commit order.
	Takes []Set
}

// Empty reports whether there is nothing to persist.
func (p Pending) Empty() bool {
	return len(p.Slots) == 0 && len(p.Takes) == 0
}

// Machine is the checkpoint state machine of one video session.
// It is not safe for concurrent use; a session drives it from a single loop.
type Machine struct {
	variant   Variant
	current   Set
	stored    map[int]Checkpoint
	committed []Set
}

// NewMachine creates a machine for the variant. Stored holds checkpoints of a previous
// session available to Recall, keyed by slot; it may be nil.
func NewMachine(variant Variant, stored map[int]Checkpoint) *Machine {
	s := make(map[int]Checkpoint, len(stored))
	for k, v := range stored {
		s[k] = v
	}
	return &Machine{
		variant: variant,
		current: NewSet(variant.Slots()),
		stored:  s,
	}
}

// Variant returns the machine's variant.
func (m *Machine) Variant() Variant {
	return m.variant
}

// Mark sets slot to c.
func (m *Machine) Mark(slot int, c Checkpoint) Outcome {
	return m.apply(slot, c)
}

// Recall copies the stored checkpoint of slot into the in-progress set, under the same
// rules as Mark.
func (m *Machine) Recall(slot int) Outcome {
	c, ok := m.stored[slot]
	if !ok {
		return Outcome{Kind: OutcomeIgnored, Slot: slot}
	}
	return m.apply(slot, c)
}

// Clear reverts every slot of the in-progress set. Committed sets are kept.
func (m *Machine) Clear() {
	m.current.clear()
}

// Current returns a copy of the in-progress set.
func (m *Machine) Current() Set {
	return m.current.Clone()
}

// Committed returns copies of the committed sets in commit order.
// A keyed machine holds at most one.
func (m *Machine) Committed() []Set {
	out := make([]Set, len(m.committed))
	for i, s := range m.committed {
		out[i] = s.Clone()
	}
	return out
}

// Stored returns the recallable checkpoint of slot.
func (m *Machine) Stored(slot int) (Checkpoint, bool) {
	c, ok := m.stored[slot]
	return c, ok
}

// Pending returns the checkpoints to persist.
//
// Keyed machines persist the set slots of the in-progress set, falling back to the last
// committed set when the in-progress set was cleared. History machines persist every
// take committed during the session.
func (m *Machine) Pending() Pending {
	p := Pending{Variant: m.variant}
	if !m.variant.Keyed() {
		p.Takes = m.Committed()
		return p
	}
	switch {
	case !m.current.IsEmpty():
		p.Slots = m.current.Slots()
	case len(m.committed) > 0:
		p.Slots = m.committed[len(m.committed)-1].Slots()
	}
	return p
}

func (m *Machine) apply(slot int, c Checkpoint) Outcome {
	k := m.current.K()
	if slot < 1 || slot > k {
		return Outcome{Kind: OutcomeIgnored, Slot: slot}
	}
	if slot > 1 && !m.current.IsSet(slot-1) {
		return Outcome{Kind: OutcomeIgnored, Slot: slot}
	}

	m.current.set(slot, c)
	out := Outcome{Kind: OutcomeSet, Slot: slot}

	if prev, ok := m.current.Get(slot - 1); ok && c.Frame < prev.Frame {
		m.current.resetFrom(slot)
		out.Kind = OutcomeRejected
		out.ResetFrom = slot
		return out
	}
	if next, ok := m.current.Get(slot + 1); ok && c.Frame > next.Frame {
		m.current.resetFrom(slot + 1)
		out.Kind = OutcomeCascaded
		out.ResetFrom = slot + 1
	}

	if !m.current.IsComplete() {
		return out
	}
	if m.variant.Keyed() {
		m.committed = []Set{m.current.Clone()}
		out.Completed = true
	} else if slot == k {
		m.committed = append(m.committed, m.current.Clone())
		out.Completed = true
	}
	return out
}

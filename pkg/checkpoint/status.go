package checkpoint

import (
	"fmt"
	"sort"
	"strings"
)

// Status returns the human-readable projection of the in-progress set, e.g.
//
//	1: 100 (3.33s) | 2: 200 (6.67s) | 3: - | 4: -
//
// The pair and single variants use start/end wording and only
// list the slots that are set, followed by the number of takes committed so far.
func (m *Machine) Status() string {
	if m.variant.Keyed() {
		parts := make([]string, 0, m.current.K())
		for i := 1; i <= m.current.K(); i++ {
			if c, ok := m.current.Get(i); ok {
				parts = append(parts, fmt.Sprintf("%d: %s", i, c))
			} else {
				parts = append(parts, fmt.Sprintf("%d: -", i))
			}
		}
		return strings.Join(parts, " | ")
	}

	labels := []string{"Start", "End"}
	if m.variant == VariantSingle {
		labels = []string{"Mark"}
	}
	var parts []string
	for i, label := range labels {
		if c, ok := m.current.Get(i + 1); ok {
			parts = append(parts, fmt.Sprintf("%s Frame(Time): %d(%.2fs)", label, c.Frame, c.Time))
		}
	}
	if n := len(m.committed); n > 0 {
		parts = append(parts, fmt.Sprintf("Takes: %d", n))
	}
	return strings.Join(parts, " | ")
}

// StoredStatus lists the recallable checkpoints of a previous session in slot order, e.g.
//
//	Existing: 1: F(T): 100(3.33s) 2: F(T): 200(6.67s)
//
// It returns "" when nothing is stored.
func (m *Machine) StoredStatus() string {
	if len(m.stored) == 0 {
		return ""
	}
	slots := make([]int, 0, len(m.stored))
	for slot := range m.stored {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	var b strings.Builder
	b.WriteString("Existing:")
	for _, slot := range slots {
		c := m.stored[slot]
		fmt.Fprintf(&b, " %d: F(T): %d(%.2fs)", slot, c.Frame, c.Time)
	}
	return b.String()
}

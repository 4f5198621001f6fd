package checkpoint

import (
	"testing"
)

func cp(frame int) Checkpoint {
	return Checkpoint{Frame: frame, Time: float64(frame) / 30}
}

func TestMachine_MarkRequiresPreviousSlot(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)

	out := m.Mark(2, cp(10))
	if out.Kind != OutcomeIgnored {
		t.Errorf("expected mark of slot 2 before slot 1 to be ignored, got %s", out.Kind)
	}
	if !m.Current().IsEmpty() {
		t.Error("expected set to stay empty")
	}

	if out := m.Mark(1, cp(10)); out.Kind != OutcomeSet {
		t.Fatalf("expected slot 1 to be set, got %s", out.Kind)
	}
	if out := m.Mark(2, cp(20)); out.Kind != OutcomeSet {
		t.Errorf("expected slot 2 to be set, got %s", out.Kind)
	}
}

func TestMachine_MarkOutOfRange(t *testing.T) {
	m := NewMachine(VariantPair, nil)

	for _, slot := range []int{0, -1, 3} {
		if out := m.Mark(slot, cp(1)); out.Kind != OutcomeIgnored {
			t.Errorf("slot %d: expected ignored, got %s", slot, out.Kind)
		}
	}
}

func TestMachine_MarkBelowPreviousIsRejected(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	m.Mark(1, cp(100))
	m.Mark(2, cp(200))

	out := m.Mark(3, cp(150))
	if out.Kind != OutcomeRejected {
		t.Fatalf("expected rejected, got %s", out.Kind)
	}
	if out.ResetFrom != 3 {
		t.Errorf("expected reset from slot 3, got %d", out.ResetFrom)
	}

	set := m.Current()
	if set.IsSet(3) {
		t.Error("expected slot 3 to stay unset")
	}
	if c, _ := set.Get(1); c.Frame != 100 {
		t.Errorf("expected slot 1 untouched at 100, got %d", c.Frame)
	}
	if c, _ := set.Get(2); c.Frame != 200 {
		t.Errorf("expected slot 2 untouched at 200, got %d", c.Frame)
	}
}

func TestMachine_MarkAboveNextCascades(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	m.Mark(1, cp(100))
	m.Mark(2, cp(200))
	m.Mark(3, cp(300))
	m.Mark(4, cp(400))

	out := m.Mark(2, cp(350))
	if out.Kind != OutcomeCascaded {
		t.Fatalf("expected cascaded, got %s", out.Kind)
	}
	if out.ResetFrom != 3 {
		t.Errorf("expected reset from slot 3, got %d", out.ResetFrom)
	}

	set := m.Current()
	if c, ok := set.Get(2); !ok || c.Frame != 350 {
		t.Errorf("expected slot 2 at 350, got %+v (set=%v)", c, ok)
	}
	if set.IsSet(3) || set.IsSet(4) {
		t.Error("expected slots 3 and 4 to be reverted")
	}
}

func TestMachine_EqualFramesAreOrdered(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	for slot := 1; slot <= 4; slot++ {
		if out := m.Mark(slot, cp(42)); out.Kind != OutcomeSet {
			t.Fatalf("slot %d: expected set, got %s", slot, out.Kind)
		}
	}
	if !m.Current().IsComplete() {
		t.Error("expected complete set")
	}
}

func TestMachine_RemarkFirstSlotScenario(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	m.Mark(1, cp(50))
	m.Mark(2, cp(300))

	out := m.Mark(1, cp(500))
	if out.Kind != OutcomeCascaded || out.ResetFrom != 2 {
		t.Fatalf("expected cascade from slot 2, got %+v", out)
	}
	if m.Current().IsSet(2) {
		t.Fatal("expected slot 2 to revert")
	}

	if out := m.Mark(2, cp(450)); out.Kind != OutcomeRejected {
		t.Errorf("expected slot 2 below 500 to be rejected, got %s", out.Kind)
	}
	m.Mark(2, cp(520))
	m.Mark(3, cp(600))
	out = m.Mark(4, cp(700))
	if !out.Completed {
		t.Fatal("expected completion")
	}

	committed := m.Committed()
	if len(committed) != 1 {
		t.Fatalf("expected 1 committed set, got %d", len(committed))
	}
	first, _ := committed[0].Get(1)
	second, _ := committed[0].Get(2)
	if first.Frame != 500 {
		t.Errorf("expected slot 1 at 500, got %d", first.Frame)
	}
	if second.Frame < 500 {
		t.Errorf("expected slot 2 >= 500, got %d", second.Frame)
	}
	if !committed[0].Ordered() {
		t.Error("committed set is not ordered")
	}
}

func TestMachine_KeyedRecompletionOverwrites(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	for slot := 1; slot <= 4; slot++ {
		m.Mark(slot, cp(slot*10))
	}
	out := m.Mark(4, cp(90))
	if !out.Completed {
		t.Fatal("expected recompletion")
	}

	committed := m.Committed()
	if len(committed) != 1 {
		t.Fatalf("expected a single committed set, got %d", len(committed))
	}
	if c, _ := committed[0].Get(4); c.Frame != 90 {
		t.Errorf("expected slot 4 overwritten to 90, got %d", c.Frame)
	}
}

func TestMachine_PairAppendsOnFreshEnd(t *testing.T) {
	m := NewMachine(VariantPair, nil)

	m.Mark(1, cp(10))
	if out := m.Mark(2, cp(20)); !out.Completed {
		t.Fatal("expected first pair to complete")
	}

	// Moving the start inside the interval keeps the set complete but is not a fresh end.
	if out := m.Mark(1, cp(15)); out.Completed {
		t.Error("expected start re-mark not to commit")
	}
	if out := m.Mark(2, cp(40)); !out.Completed {
		t.Fatal("expected second pair to complete")
	}

	takes := m.Pending().Takes
	if len(takes) != 2 {
		t.Fatalf("expected 2 takes, got %d", len(takes))
	}
	start, _ := takes[1].Get(1)
	end, _ := takes[1].Get(2)
	if start.Frame != 15 || end.Frame != 40 {
		t.Errorf("expected second take 15..40, got %d..%d", start.Frame, end.Frame)
	}
}

func TestMachine_PairEndBeforeStartIsRejected(t *testing.T) {
	m := NewMachine(VariantPair, nil)
	m.Mark(1, cp(100))

	out := m.Mark(2, cp(50))
	if out.Kind != OutcomeRejected || out.Completed {
		t.Errorf("expected rejected without completion, got %+v", out)
	}
	if !m.Pending().Empty() {
		t.Error("expected nothing pending")
	}
}

func TestMachine_SingleAppendsEveryMark(t *testing.T) {
	m := NewMachine(VariantSingle, nil)
	m.Mark(1, cp(5))
	m.Mark(1, cp(3))
	m.Mark(1, cp(8))

	if n := len(m.Pending().Takes); n != 3 {
		t.Errorf("expected 3 takes, got %d", n)
	}
}

func TestMachine_Recall(t *testing.T) {
	stored := map[int]Checkpoint{1: cp(100), 2: cp(200), 3: cp(50)}
	m := NewMachine(VariantKeyed, stored)

	if out := m.Recall(2); out.Kind != OutcomeIgnored {
		t.Errorf("expected recall of slot 2 before slot 1 to be ignored, got %s", out.Kind)
	}
	if out := m.Recall(1); out.Kind != OutcomeSet {
		t.Fatalf("expected recall of slot 1, got %s", out.Kind)
	}
	if out := m.Recall(2); out.Kind != OutcomeSet {
		t.Fatalf("expected recall of slot 2, got %s", out.Kind)
	}
	if out := m.Recall(3); out.Kind != OutcomeRejected {
		t.Errorf("expected stored slot 3 below slot 2 to be rejected, got %s", out.Kind)
	}
	if out := m.Recall(4); out.Kind != OutcomeIgnored {
		t.Errorf("expected recall without stored value to be ignored, got %s", out.Kind)
	}

	// The caller's map must not leak into the machine.
	stored[1] = cp(999)
	if c, _ := m.Stored(1); c.Frame != 100 {
		t.Errorf("expected stored copy to be isolated, got %d", c.Frame)
	}
}

func TestMachine_ClearKeepsCommitted(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	for slot := 1; slot <= 4; slot++ {
		m.Mark(slot, cp(slot))
	}
	m.Clear()

	if !m.Current().IsEmpty() {
		t.Error("expected in-progress set to be empty after clear")
	}
	p := m.Pending()
	if len(p.Slots) != 4 {
		t.Errorf("expected committed set to be pending after clear, got %d slots", len(p.Slots))
	}
}

func TestMachine_PendingKeyedPartial(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	if !m.Pending().Empty() {
		t.Fatal("expected nothing pending for a fresh machine")
	}

	m.Mark(1, Checkpoint{Frame: 100, Time: 3.33})
	m.Mark(2, Checkpoint{Frame: 200, Time: 6.67})

	p := m.Pending()
	if len(p.Slots) != 2 {
		t.Fatalf("expected 2 pending slots, got %d", len(p.Slots))
	}
	if p.Slots[1].Frame != 100 || p.Slots[2].Frame != 200 {
		t.Errorf("unexpected pending slots: %+v", p.Slots)
	}
}

func TestMachine_NeverCommitsUnorderedSets(t *testing.T) {
	m := NewMachine(VariantKeyed, nil)
	frames := []struct {
		slot  int
		frame int
	}{
		{1, 10}, {2, 5}, {2, 30}, {3, 20}, {3, 40}, {1, 35}, {2, 36}, {3, 50}, {4, 45}, {4, 60}, {1, 70}, {2, 80},
	}
	for _, f := range frames {
		m.Mark(f.slot, cp(f.frame))
		if !m.Current().Ordered() {
			t.Fatalf("after mark(%d, %d): in-progress set is not ordered", f.slot, f.frame)
		}
	}
	for _, set := range m.Committed() {
		if !set.Ordered() {
			t.Errorf("committed set is not ordered: %v", set.Slots())
		}
	}
}

package engine

// SlotAggregate summarizes one grid slot: how many group members are free
// and exactly which ones. Count always equals len(Members).
type SlotAggregate struct {
	Count   int
	Members map[string]struct{}
}

// Aggregation is the immutable result of one aggregation run. Callers hold
// the latest value and discard superseded ones instead of mutating shared
// state between recomputations.
type Aggregation struct {
	Window      WeekWindow
	Members     []string
	Slots       []SlotAggregate
	SlotsPerDay int
}

// Aggregate computes per-slot headcounts and member sets for a group.
// memberSlots maps each member to their decompressed slot-start epochs,
// already clamped to the window. An empty member list yields an all-zero
// grid; the caller must treat that as "no quorum possible", not "everyone
// is free". Runs in O(members x slots) and is fully deterministic.
func Aggregate(members []string, memberSlots map[string]map[int64]struct{}, window WeekWindow, slotsPerDay int) Aggregation {
	total := 7 * slotsPerDay
	slots := make([]SlotAggregate, total)
	for g := 0; g < total; g++ {
		day, idx := SplitIndex(g, slotsPerDay)
		epoch := SlotEpoch(window, day, idx)
		set := make(map[string]struct{})
		for _, member := range members {
			if avail, ok := memberSlots[member]; ok {
				if _, free := avail[epoch]; free {
					set[member] = struct{}{}
				}
			}
		}
		slots[g] = SlotAggregate{Count: len(set), Members: set}
	}
	return Aggregation{
		Window:      window,
		Members:     append([]string(nil), members...),
		Slots:       slots,
		SlotsPerDay: slotsPerDay,
	}
}

// Counts extracts the per-slot headcount array.
func (a Aggregation) Counts() []int {
	counts := make([]int, len(a.Slots))
	for i, s := range a.Slots {
		counts[i] = s.Count
	}
	return counts
}

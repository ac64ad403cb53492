package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testWindow = WeekWindow{BaseEpoch: 1717372800, Timezone: "UTC", StartDay: WeekStartMonday}

// slotSet builds a member's availability from global slot index ranges,
// half-open like everything else.
func slotSet(w WeekWindow, ranges ...[2]int) map[int64]struct{} {
	set := make(map[int64]struct{})
	for _, r := range ranges {
		for g := r[0]; g < r[1]; g++ {
			day, idx := SplitIndex(g, SlotsPerDay)
			set[SlotEpoch(w, day, idx)] = struct{}{}
		}
	}
	return set
}

func TestAggregateCountsAndMembers(t *testing.T) {
	members := []string{"alice", "bob", "cara"}
	memberSlots := map[string]map[int64]struct{}{
		"alice": slotSet(testWindow, [2]int{0, 4}),
		"bob":   slotSet(testWindow, [2]int{2, 6}),
		"cara":  slotSet(testWindow, [2]int{3, 4}),
	}

	agg := Aggregate(members, memberSlots, testWindow, SlotsPerDay)
	require.Len(t, agg.Slots, SlotsPerWeek)

	counts := agg.Counts()
	require.Equal(t, []int{1, 1, 2, 3, 2, 2}, counts[:6])
	for _, c := range counts[6:] {
		require.Zero(t, c)
	}

	for g, slot := range agg.Slots {
		require.Equal(t, len(slot.Members), slot.Count, "slot %d", g)
		require.LessOrEqual(t, slot.Count, len(members))
	}

	require.Equal(t, map[string]struct{}{"alice": {}, "bob": {}, "cara": {}}, agg.Slots[3].Members)
}

func TestAggregateEmptyGroup(t *testing.T) {
	agg := Aggregate(nil, nil, testWindow, SlotsPerDay)
	require.Len(t, agg.Slots, SlotsPerWeek)
	for _, slot := range agg.Slots {
		require.Zero(t, slot.Count)
		require.Empty(t, slot.Members)
	}
}

func TestAggregateMemberWithoutData(t *testing.T) {
	agg := Aggregate([]string{"alice", "ghost"}, map[string]map[int64]struct{}{
		"alice": slotSet(testWindow, [2]int{0, 1}),
	}, testWindow, SlotsPerDay)
	require.Equal(t, 1, agg.Slots[0].Count)
}

func TestAggregateAddingMemberNeverLowersCounts(t *testing.T) {
	base := map[string]map[int64]struct{}{
		"alice": slotSet(testWindow, [2]int{0, 10}),
		"bob":   slotSet(testWindow, [2]int{5, 15}),
	}
	before := Aggregate([]string{"alice", "bob"}, base, testWindow, SlotsPerDay).Counts()

	base["cara"] = slotSet(testWindow, [2]int{8, 12})
	after := Aggregate([]string{"alice", "bob", "cara"}, base, testWindow, SlotsPerDay).Counts()

	for g := range before {
		require.GreaterOrEqual(t, after[g], before[g], "slot %d", g)
	}
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSortMode(t *testing.T) {
	require.Equal(t, SortMost, ParseSortMode(""))
	require.Equal(t, SortMost, ParseSortMode("bogus"))
	require.Equal(t, SortLongest, ParseSortMode("longest"))
	require.Equal(t, SortEarliestWeek, ParseSortMode("earliest-week"))
}

func TestFindCandidatesEmptyGroup(t *testing.T) {
	agg := Aggregate(nil, nil, testWindow, SlotsPerDay)
	out := FindCandidates(agg, 0, 0, 1, SlotsPerHour, 0, SortMost)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestFindCandidatesDegenerateQuorum(t *testing.T) {
	agg := Aggregate([]string{"alice"}, map[string]map[int64]struct{}{
		"alice": slotSet(testWindow, [2]int{0, 10}),
	}, testWindow, SlotsPerDay)
	require.Empty(t, FindCandidates(agg, 1, 1, 1, SlotsPerHour, 0, SortMost))
}

// Four members, nobody may be missing. A is free 09:00-10:00, the others
// 08:30-10:30, all on the window's Monday. The only viable window is the
// full-cohort hour.
func TestFindCandidatesExactQuorum(t *testing.T) {
	free := func(fromMin, toMin int) map[int64]struct{} {
		return slotSet(testWindow, [2]int{fromMin / 30, toMin / 30})
	}
	members := []string{"a", "b", "c", "d"}
	memberSlots := map[string]map[int64]struct{}{
		"a": free(540, 600),
		"b": free(510, 630),
		"c": free(510, 630),
		"d": free(510, 630),
	}
	agg := Aggregate(members, memberSlots, testWindow, SlotsPerDay)

	out := FindCandidates(agg, 4, 0, 1, SlotsPerHour, 0, SortMost)
	require.Len(t, out, 1)

	win := out[0]
	require.Equal(t, []string{"a", "b", "c", "d"}, win.Participants)
	require.Equal(t, 18, win.StartSlot) // 09:00
	require.Equal(t, 20, win.EndSlot)   // 10:00
	require.Equal(t, 2, win.DurationSlots)
	require.Equal(t, testWindow.BaseEpoch+18*SlotSeconds, win.StartEpoch)
	require.Equal(t, testWindow.BaseEpoch+20*SlotSeconds, win.EndEpoch)
}

// shrinkFixture: three members whose joint availability dwindles. Slots
// 0-3 have everyone, 4-5 keep alice+bob, slot 6 only alice.
func shrinkFixture() Aggregation {
	members := []string{"alice", "bob", "cara"}
	memberSlots := map[string]map[int64]struct{}{
		"alice": slotSet(testWindow, [2]int{0, 7}),
		"bob":   slotSet(testWindow, [2]int{0, 6}),
		"cara":  slotSet(testWindow, [2]int{0, 4}),
	}
	return Aggregate(members, memberSlots, testWindow, SlotsPerDay)
}

func TestFindCandidatesShrinkingCohort(t *testing.T) {
	out := FindCandidates(shrinkFixture(), 3, 1, 0, SlotsPerHour, 0, SortMost)
	require.Len(t, out, 2)

	// Full cohort over the first four slots, then the shrunk pair over the
	// whole six-slot stretch it was jointly free for.
	require.Equal(t, []string{"alice", "bob", "cara"}, out[0].Participants)
	require.Equal(t, 0, out[0].StartSlot)
	require.Equal(t, 4, out[0].EndSlot)

	require.Equal(t, []string{"alice", "bob"}, out[1].Participants)
	require.Equal(t, 0, out[1].StartSlot)
	require.Equal(t, 6, out[1].EndSlot)
}

func TestFindCandidatesParticipantsFreeThroughout(t *testing.T) {
	agg := shrinkFixture()
	for _, win := range FindCandidates(agg, 3, 1, 0, SlotsPerHour, 0, SortMost) {
		for g := win.StartSlot; g < win.EndSlot; g++ {
			for _, p := range win.Participants {
				require.Contains(t, agg.Slots[g].Members, p, "slot %d participant %s", g, p)
			}
		}
	}
}

func TestFindCandidatesNoDominatedWindows(t *testing.T) {
	out := FindCandidates(shrinkFixture(), 3, 1, 0, SlotsPerHour, 0, SortMost)
	for i, a := range out {
		for j, b := range out {
			if i == j || a.key() != b.key() {
				continue
			}
			contained := a.StartSlot <= b.StartSlot && a.EndSlot >= b.EndSlot &&
				(a.StartSlot != b.StartSlot || a.EndSlot != b.EndSlot)
			require.False(t, contained, "window %d dominates %d", i, j)
		}
	}
}

func TestFindCandidatesMinDuration(t *testing.T) {
	// With a two-hour minimum only the four-slot window survives.
	out := FindCandidates(shrinkFixture(), 3, 1, 2, SlotsPerHour, 0, SortMost)
	require.Len(t, out, 2)
	for _, win := range out {
		require.GreaterOrEqual(t, win.DurationSlots, 4)
	}

	out = FindCandidates(shrinkFixture(), 3, 1, 2.5, SlotsPerHour, 0, SortMost)
	require.Len(t, out, 1)
	require.Equal(t, []string{"alice", "bob"}, out[0].Participants)
}

func TestFindCandidatesStartIndexSkipsPast(t *testing.T) {
	out := FindCandidates(shrinkFixture(), 3, 1, 0, SlotsPerHour, 2, SortMost)
	for _, win := range out {
		require.GreaterOrEqual(t, win.StartSlot, 2)
	}
	require.NotEmpty(t, out)
}

func TestFindCandidatesSortModes(t *testing.T) {
	agg := shrinkFixture()

	most := FindCandidates(agg, 3, 1, 0, SlotsPerHour, 0, SortMost)
	require.Equal(t, 3, len(most[0].Participants))

	longest := FindCandidates(agg, 3, 1, 0, SlotsPerHour, 0, SortLongest)
	require.Equal(t, 6, longest[0].DurationSlots)

	earliestWeek := FindCandidates(agg, 3, 1, 0, SlotsPerHour, 0, SortEarliestWeek)
	// Same start: the shorter window wins the end-ascending tie-break.
	require.Equal(t, 4, earliestWeek[0].EndSlot)
}

func TestFindCandidatesTimeOfDaySorts(t *testing.T) {
	// One pair free early on Monday, the other late on Tuesday.
	members := []string{"a", "b"}
	day2 := SlotsPerDay
	memberSlots := map[string]map[int64]struct{}{
		"a": slotSet(testWindow, [2]int{2, 4}, [2]int{day2 + 40, day2 + 44}),
		"b": slotSet(testWindow, [2]int{2, 4}, [2]int{day2 + 40, day2 + 44}),
	}
	agg := Aggregate(members, memberSlots, testWindow, SlotsPerDay)

	earliest := FindCandidates(agg, 2, 0, 0, SlotsPerHour, 0, SortEarliest)
	require.Equal(t, 2, earliest[0].StartSlot%SlotsPerDay)

	latest := FindCandidates(agg, 2, 0, 0, SlotsPerHour, 0, SortLatest)
	require.Equal(t, 40, latest[0].StartSlot%SlotsPerDay)

	latestWeek := FindCandidates(agg, 2, 0, 0, SlotsPerHour, 0, SortLatestWeek)
	require.Equal(t, day2+40, latestWeek[0].StartSlot)
}

func TestFindCandidatesDeterministic(t *testing.T) {
	for _, mode := range []SortMode{SortMost, SortEarliestWeek, SortLatestWeek, SortEarliest, SortLatest, SortLongest} {
		first := FindCandidates(shrinkFixture(), 3, 1, 0, SlotsPerHour, 0, mode)
		for i := 0; i < 5; i++ {
			require.Equal(t, first, FindCandidates(shrinkFixture(), 3, 1, 0, SlotsPerHour, 0, mode), "mode %s", mode)
		}
	}
}

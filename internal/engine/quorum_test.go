package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeededMembers(t *testing.T) {
	require.Equal(t, 4, NeededMembers(4, 0))
	require.Equal(t, 2, NeededMembers(4, 2))
	require.Equal(t, 0, NeededMembers(4, 4))
	require.Equal(t, 0, NeededMembers(2, 5))
}

func TestMinSlots(t *testing.T) {
	require.Equal(t, 1, MinSlots(0, SlotsPerHour))
	require.Equal(t, 1, MinSlots(0.5, SlotsPerHour))
	require.Equal(t, 2, MinSlots(0.75, SlotsPerHour)) // rounds to nearest
	require.Equal(t, 3, MinSlots(1.5, SlotsPerHour))
	require.Equal(t, 1, MinSlots(-2, SlotsPerHour))
}

func allFalse(mask []bool) bool {
	for _, m := range mask {
		if m {
			return false
		}
	}
	return true
}

func TestDimMaskDegenerate(t *testing.T) {
	counts := []int{0, 1, 2, 3}

	require.True(t, allFalse(DimMask(counts, 0, 0, 1, SlotsPerHour, 0)))
	require.True(t, allFalse(DimMask(counts, 3, 3, 1, SlotsPerHour, 0)))
	require.True(t, allFalse(DimMask(counts, 3, 10, 1, SlotsPerHour, 0)))
}

func TestDimMaskPastSlots(t *testing.T) {
	counts := []int{2, 2, 2, 2, 2, 2}
	mask := DimMask(counts, 2, 0, 0.5, SlotsPerHour, 3)
	require.Equal(t, []bool{true, true, true, false, false, false}, mask)
}

func TestDimMaskShortRunsDimmedInFull(t *testing.T) {
	// Eligible runs: [1,3) of length 2 and [5,9) of length 4. With a
	// 1.5-hour minimum (3 slots) the first run dims entirely, not just its
	// excess.
	counts := []int{0, 2, 2, 0, 0, 2, 2, 2, 2, 0}
	mask := DimMask(counts, 2, 0, 1.5, SlotsPerHour, 0)
	require.Equal(t, []bool{
		true, true, true, true, true,
		false, false, false, false, true,
	}, mask)
}

func TestDimMaskRunEndingAtGridEnd(t *testing.T) {
	counts := []int{0, 0, 2, 2, 2}
	mask := DimMask(counts, 2, 0, 1.5, SlotsPerHour, 0)
	require.Equal(t, []bool{true, true, false, false, false}, mask)
}

package engine

import "math"

// NeededMembers converts a "max missing" tolerance into the minimum
// headcount a slot must reach.
func NeededMembers(totalMembers, maxMissing int) int {
	needed := totalMembers - maxMissing
	if needed < 0 {
		return 0
	}
	return needed
}

// MinSlots converts a duration in hours into a slot count, never below one.
func MinSlots(minHours float64, slotsPerHour int) int {
	n := int(math.Round(minHours * float64(slotsPerHour)))
	if n < 1 {
		return 1
	}
	return n
}

// DimMask marks which slots should be dimmed out of the grid: true means
// the slot cannot be part of a qualifying session. A slot survives only if
// it sits at or past startIndex, reaches the needed headcount, and belongs
// to a contiguous eligible run of at least minSlots slots. Runs that are
// too short are dimmed in full.
//
// When totalMembers is zero or the needed headcount is zero the filter is
// degenerate and returns an all-false mask: a deliberately neutral state,
// distinct from "nothing qualifies".
func DimMask(counts []int, totalMembers, maxMissing int, minHours float64, slotsPerHour, startIndex int) []bool {
	mask := make([]bool, len(counts))

	needed := NeededMembers(totalMembers, maxMissing)
	if totalMembers == 0 || needed <= 0 {
		return mask
	}
	minSlots := MinSlots(minHours, slotsPerHour)

	if startIndex < 0 {
		startIndex = 0
	}
	for g := 0; g < startIndex && g < len(counts); g++ {
		mask[g] = true // already past, cannot schedule
	}

	runStart := -1
	closeRun := func(end int) {
		if runStart < 0 {
			return
		}
		if end-runStart < minSlots {
			for g := runStart; g < end; g++ {
				mask[g] = true
			}
		}
		runStart = -1
	}

	for g := startIndex; g < len(counts); g++ {
		if counts[g] >= needed {
			if runStart < 0 {
				runStart = g
			}
			continue
		}
		mask[g] = true
		closeRun(g)
	}
	closeRun(len(counts))

	return mask
}

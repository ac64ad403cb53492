package engine

import (
	"sort"
	"strconv"
	"strings"
)

// SortMode selects the ordering of the ranked candidate list.
type SortMode string

const (
	SortMost         SortMode = "most"          // participants desc, duration desc, start asc
	SortEarliestWeek SortMode = "earliest-week" // start asc
	SortLatestWeek   SortMode = "latest-week"   // start desc
	SortEarliest     SortMode = "earliest"      // time of day asc, start asc
	SortLatest       SortMode = "latest"        // time of day desc, start asc
	SortLongest      SortMode = "longest"       // duration desc, participants desc, start asc
)

// ParseSortMode maps a request string onto a known mode, defaulting to most.
func ParseSortMode(raw string) SortMode {
	switch SortMode(raw) {
	case SortMost, SortEarliestWeek, SortLatestWeek, SortEarliest, SortLatest, SortLongest:
		return SortMode(raw)
	default:
		return SortMost
	}
}

// CandidateWindow is one proposed meeting window. Every slot inside
// [StartSlot, EndSlot) has at least the declared participants free; slots
// may additionally have more members free, which show up as separate,
// possibly overlapping windows with a larger participant set.
type CandidateWindow struct {
	StartSlot     int      `json:"start_slot"`
	EndSlot       int      `json:"end_slot"`
	StartEpoch    int64    `json:"start_epoch"`
	EndEpoch      int64    `json:"end_epoch"`
	Participants  []string `json:"participants"`
	DurationSlots int      `json:"duration_slots"`
}

func (c CandidateWindow) key() string {
	return strings.Join(c.Participants, ",")
}

// FindCandidates scans the aggregation for maximal meeting windows that keep
// at least needed members jointly free for at least minHours, then
// deduplicates, prunes dominated sub-windows, and sorts.
//
// Two complementary passes feed the candidate pool. The intersection pass
// lets the reported cohort shrink along the run, emitting a window for each
// cohort the moment it shrinks, so a large group that dwindles toward the
// quorum still yields its longest viable stretches. The exact pass keys
// windows to one unchanged cohort, splitting on any membership change. Both
// evolved independently in the original system and neither subsumes the
// other; the union is reconciled by dedup and dominance pruning.
//
// A zero totalMembers or non-positive quorum returns an empty list: no
// usable group is a displayable state, not an error.
func FindCandidates(agg Aggregation, totalMembers, maxMissing int, minHours float64, slotsPerHour, startIndex int, sortMode SortMode) []CandidateWindow {
	needed := NeededMembers(totalMembers, maxMissing)
	if totalMembers == 0 || needed <= 0 {
		return []CandidateWindow{}
	}
	minSlots := MinSlots(minHours, slotsPerHour)
	if startIndex < 0 {
		startIndex = 0
	}

	raw := intersectionPass(agg, needed, startIndex)
	raw = append(raw, exactPass(agg, needed, startIndex)...)

	pool := make([]CandidateWindow, 0, len(raw))
	seen := make(map[string]struct{})
	for _, span := range raw {
		if span.end-span.start < minSlots || len(span.cohort) < needed {
			continue
		}
		cand := buildWindow(agg, span)
		dedupKey := windowKey(cand)
		if _, dup := seen[dedupKey]; dup {
			continue
		}
		seen[dedupKey] = struct{}{}
		pool = append(pool, cand)
	}

	pool = pruneDominated(pool)
	sortWindows(pool, sortMode, agg.SlotsPerDay)
	return pool
}

type span struct {
	start  int
	end    int
	cohort map[string]struct{}
}

// intersectionPass opens a window at the first qualifying slot and narrows
// the running cohort by intersection. Whenever the cohort shrinks but still
// meets the quorum, the previous cohort's window is emitted and the run
// continues from the original start with the smaller cohort, which has been
// jointly free the whole time.
func intersectionPass(agg Aggregation, needed, startIndex int) []span {
	var out []span
	var cur map[string]struct{}
	start := -1

	for g := startIndex; g < len(agg.Slots); g++ {
		slot := agg.Slots[g]
		if cur == nil {
			if slot.Count >= needed {
				cur = copySet(slot.Members)
				start = g
			}
			continue
		}

		inter := intersect(cur, slot.Members)
		if len(inter) >= needed {
			if len(inter) != len(cur) {
				out = append(out, span{start: start, end: g, cohort: cur})
				cur = inter
			}
			continue
		}

		out = append(out, span{start: start, end: g, cohort: cur})
		cur = nil
		if slot.Count >= needed {
			cur = copySet(slot.Members)
			start = g
		}
	}
	if cur != nil {
		out = append(out, span{start: start, end: len(agg.Slots), cohort: cur})
	}
	return out
}

// exactPass emits windows keyed to one exact recurring cohort, closing on
// any membership change, growth included.
func exactPass(agg Aggregation, needed, startIndex int) []span {
	var out []span
	var cur map[string]struct{}
	start := -1

	for g := startIndex; g < len(agg.Slots); g++ {
		slot := agg.Slots[g]
		if cur != nil && setsEqual(cur, slot.Members) {
			continue
		}
		if cur != nil {
			out = append(out, span{start: start, end: g, cohort: cur})
			cur = nil
		}
		if slot.Count >= needed {
			cur = copySet(slot.Members)
			start = g
		}
	}
	if cur != nil {
		out = append(out, span{start: start, end: len(agg.Slots), cohort: cur})
	}
	return out
}

func buildWindow(agg Aggregation, s span) CandidateWindow {
	participants := make([]string, 0, len(s.cohort))
	for m := range s.cohort {
		participants = append(participants, m)
	}
	sort.Strings(participants)

	startDay, startIdx := SplitIndex(s.start, agg.SlotsPerDay)
	endDay, endIdx := SplitIndex(s.end, agg.SlotsPerDay)

	return CandidateWindow{
		StartSlot:     s.start,
		EndSlot:       s.end,
		StartEpoch:    SlotEpoch(agg.Window, startDay, startIdx),
		EndEpoch:      SlotEpoch(agg.Window, endDay, endIdx),
		Participants:  participants,
		DurationSlots: s.end - s.start,
	}
}

func windowKey(c CandidateWindow) string {
	return c.key() + "|" + strconv.Itoa(c.StartSlot) + "-" + strconv.Itoa(c.EndSlot)
}

// pruneDominated drops any window whose slot range is fully contained by an
// already kept window with the same participant set.
func pruneDominated(pool []CandidateWindow) []CandidateWindow {
	groups := make(map[string][]CandidateWindow)
	order := make([]string, 0)
	for _, c := range pool {
		k := c.key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}
	sort.Strings(order)

	var out []CandidateWindow
	for _, k := range order {
		group := groups[k]
		sort.Slice(group, func(i, j int) bool {
			if group[i].StartSlot != group[j].StartSlot {
				return group[i].StartSlot < group[j].StartSlot
			}
			return group[i].EndSlot > group[j].EndSlot
		})
		var kept []CandidateWindow
		for _, cand := range group {
			dominated := false
			for _, k := range kept {
				if k.StartSlot <= cand.StartSlot && k.EndSlot >= cand.EndSlot {
					dominated = true
					break
				}
			}
			if !dominated {
				kept = append(kept, cand)
			}
		}
		out = append(out, kept...)
	}
	return out
}

// sortWindows orders the final list. Every mode ends in deterministic
// tie-breaks (start asc, then end asc, then participant key) so identical
// inputs always produce byte-identical ordering.
func sortWindows(pool []CandidateWindow, mode SortMode, slotsPerDay int) {
	less := func(a, b CandidateWindow) bool {
		switch mode {
		case SortEarliestWeek:
			if a.StartSlot != b.StartSlot {
				return a.StartSlot < b.StartSlot
			}
		case SortLatestWeek:
			if a.StartSlot != b.StartSlot {
				return a.StartSlot > b.StartSlot
			}
		case SortEarliest:
			at, bt := a.StartSlot%slotsPerDay, b.StartSlot%slotsPerDay
			if at != bt {
				return at < bt
			}
		case SortLatest:
			at, bt := a.StartSlot%slotsPerDay, b.StartSlot%slotsPerDay
			if at != bt {
				return at > bt
			}
		case SortLongest:
			if a.DurationSlots != b.DurationSlots {
				return a.DurationSlots > b.DurationSlots
			}
			if len(a.Participants) != len(b.Participants) {
				return len(a.Participants) > len(b.Participants)
			}
		default: // SortMost
			if len(a.Participants) != len(b.Participants) {
				return len(a.Participants) > len(b.Participants)
			}
			if a.DurationSlots != b.DurationSlots {
				return a.DurationSlots > b.DurationSlots
			}
		}
		if a.StartSlot != b.StartSlot {
			return a.StartSlot < b.StartSlot
		}
		if a.EndSlot != b.EndSlot {
			return a.EndSlot < b.EndSlot
		}
		return a.key() < b.key()
	}
	sort.SliceStable(pool, func(i, j int) bool { return less(pool[i], pool[j]) })
}

func copySet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

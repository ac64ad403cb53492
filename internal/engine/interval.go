package engine

import "sort"

// Interval is one continuous availability span, half-open [From, To) in
// epoch seconds. Spans with To <= From are treated as corrupt input and
// filtered out by the codec rather than aborting the computation.
type Interval struct {
	From int64 `json:"from" db:"slot_from"`
	To   int64 `json:"to" db:"slot_to"`
}

// Valid reports whether the interval is non-empty.
func (iv Interval) Valid() bool { return iv.To > iv.From }

// Decompress expands intervals into the set of slot-start epochs that fall
// inside [rangeFrom, rangeTo). Each interval is clamped to the range first;
// partially overlapping intervals are truncated, never extended. The first
// emitted epoch is the interval start ceiling-aligned to a slot boundary.
func Decompress(intervals []Interval, rangeFrom, rangeTo, slotSeconds int64) map[int64]struct{} {
	slots := make(map[int64]struct{})
	for _, iv := range intervals {
		if !iv.Valid() {
			continue
		}
		from := iv.From
		if from < rangeFrom {
			from = rangeFrom
		}
		to := iv.To
		if to > rangeTo {
			to = rangeTo
		}
		if to <= from {
			continue
		}
		start := ((from + slotSeconds - 1) / slotSeconds) * slotSeconds
		for t := start; t < to; t += slotSeconds {
			slots[t] = struct{}{}
		}
	}
	return slots
}

// Compress folds a set of slot-start epochs back into minimal sorted,
// non-adjacent, non-overlapping intervals. Compress(Decompress(x)) equals
// the merged-and-clamped form of x.
func Compress(slots map[int64]struct{}, slotSeconds int64) []Interval {
	if len(slots) == 0 {
		return nil
	}
	epochs := make([]int64, 0, len(slots))
	for e := range slots {
		epochs = append(epochs, e)
	}
	sort.Slice(epochs, func(i, j int) bool { return epochs[i] < epochs[j] })

	var out []Interval
	runStart := epochs[0]
	prev := epochs[0]
	for _, e := range epochs[1:] {
		if e == prev+slotSeconds {
			prev = e
			continue
		}
		out = append(out, Interval{From: runStart, To: prev + slotSeconds})
		runStart = e
		prev = e
	}
	out = append(out, Interval{From: runStart, To: prev + slotSeconds})
	return out
}

// MergeOverlapping sorts intervals by start and folds together any that
// overlap or exactly touch. Invalid intervals are dropped. The input slice
// is not modified.
func MergeOverlapping(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Valid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].From < valid[j].From })

	merged := []Interval{valid[0]}
	for _, cur := range valid[1:] {
		last := &merged[len(merged)-1]
		if cur.From <= last.To {
			if cur.To > last.To {
				last.To = cur.To
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

// Clamp restricts intervals to [from, to), dropping anything fully outside.
func Clamp(intervals []Interval, from, to int64) []Interval {
	var out []Interval
	for _, iv := range intervals {
		if !iv.Valid() || iv.To <= from || iv.From >= to {
			continue
		}
		c := iv
		if c.From < from {
			c.From = from
		}
		if c.To > to {
			c.To = to
		}
		out = append(out, c)
	}
	return out
}

package engine

import (
	"encoding/json"
	"fmt"
)

// Clients historically sent interval payloads in three shapes: weekly
// availability as {"from":..,"to":..} epoch seconds, day templates as
// {"fromMin":..,"toMin":..} minute offsets, and older templates as bare
// [from,to] pairs. DecodeIntervals normalizes all three at the boundary so
// nothing downstream has to sniff fields.

// RawInterval is the tagged union of accepted interval encodings.
type RawInterval struct {
	kind    rawKind
	from    int64
	to      int64
	fromMin int
	toMin   int
}

type rawKind int

const (
	rawEpoch rawKind = iota
	rawMinutes
)

// UnmarshalJSON accepts {"from","to"}, {"fromMin","toMin"} and [a,b].
func (r *RawInterval) UnmarshalJSON(data []byte) error {
	var pair [2]int64
	if err := json.Unmarshal(data, &pair); err == nil {
		r.kind = rawMinutes
		r.fromMin = int(pair[0])
		r.toMin = int(pair[1])
		return nil
	}

	var obj struct {
		From    *int64 `json:"from"`
		To      *int64 `json:"to"`
		FromMin *int   `json:"fromMin"`
		ToMin   *int   `json:"toMin"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode interval: %w", err)
	}
	switch {
	case obj.From != nil && obj.To != nil:
		r.kind = rawEpoch
		r.from = *obj.From
		r.to = *obj.To
	case obj.FromMin != nil && obj.ToMin != nil:
		r.kind = rawMinutes
		r.fromMin = *obj.FromMin
		r.toMin = *obj.ToMin
	default:
		return fmt.Errorf("decode interval: missing from/to or fromMin/toMin")
	}
	return nil
}

// MarshalJSON always emits the canonical epoch-second object form for epoch
// intervals and the minute-offset object form for template intervals.
func (r RawInterval) MarshalJSON() ([]byte, error) {
	if r.kind == rawEpoch {
		return json.Marshal(map[string]int64{"from": r.from, "to": r.to})
	}
	return json.Marshal(map[string]int{"fromMin": r.fromMin, "toMin": r.toMin})
}

// IsMinutes reports whether the raw value carried minute offsets.
func (r RawInterval) IsMinutes() bool { return r.kind == rawMinutes }

// Epoch returns the interval as epoch seconds. Minute-offset intervals are
// anchored at dayStart (local midnight of the target day in epoch seconds).
func (r RawInterval) Epoch(dayStart int64) Interval {
	if r.kind == rawEpoch {
		return Interval{From: r.from, To: r.to}
	}
	return Interval{
		From: dayStart + int64(r.fromMin)*60,
		To:   dayStart + int64(r.toMin)*60,
	}
}

// Minutes returns the minute offsets of a minute-offset interval. Epoch
// intervals report ok=false.
func (r RawInterval) Minutes() (fromMin, toMin int, ok bool) {
	if r.kind != rawMinutes {
		return 0, 0, false
	}
	return r.fromMin, r.toMin, true
}

// NewEpochInterval builds a canonical epoch-second raw interval.
func NewEpochInterval(from, to int64) RawInterval {
	return RawInterval{kind: rawEpoch, from: from, to: to}
}

// NewMinuteInterval builds a minute-offset raw interval.
func NewMinuteInterval(fromMin, toMin int) RawInterval {
	return RawInterval{kind: rawMinutes, fromMin: fromMin, toMin: toMin}
}

// DecodeIntervals normalizes raw payload intervals into epoch intervals,
// anchoring minute-offset entries at dayStart. Corrupt members (to <= from)
// survive decoding and are filtered later by the codec, mirroring how stored
// data is treated.
func DecodeIntervals(raw []RawInterval, dayStart int64) []Interval {
	out := make([]Interval, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Epoch(dayStart))
	}
	return out
}

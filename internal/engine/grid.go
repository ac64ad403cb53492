// Package engine implements the availability intersection pipeline: it turns
// per-user stored intervals into a weekly slot grid, aggregates headcounts per
// slot, filters slots against a quorum and minimum duration, ranks candidate
// meeting windows, and maps headcounts onto heatmap colors. Everything in this
// package is pure and synchronous; callers fetch data first and hand it in.
package engine

import (
	"time"

	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

const (
	// SlotSeconds is the canonical slot width: 30 minutes.
	SlotSeconds = 1800

	// SlotsPerDay at the canonical resolution.
	SlotsPerDay = 86400 / SlotSeconds

	// SlotsPerWeek covers a full 7-day window.
	SlotsPerWeek = 7 * SlotsPerDay

	// SlotsPerHour at the canonical resolution.
	SlotsPerHour = 3600 / SlotSeconds
)

// WeekStartDay selects the first day of the weekly grid.
type WeekStartDay string

const (
	WeekStartSunday WeekStartDay = "sun"
	WeekStartMonday WeekStartDay = "mon"
)

// WeekWindow frames the 7-day grid the engine operates over. BaseEpoch is
// local midnight of the window's first day expressed in epoch seconds.
type WeekWindow struct {
	BaseEpoch int64
	Timezone  string
	StartDay  WeekStartDay
}

// From returns the inclusive lower bound of the window.
func (w WeekWindow) From() int64 { return w.BaseEpoch }

// To returns the exclusive upper bound of the window.
//
// Day stepping is wall-clock-naive: every day is treated as exactly 86400
// seconds from the previous local midnight, even across DST transitions.
// Slot rows therefore keep their wall-clock identity through a transition
// week instead of shifting by an hour. Stored availability was saved under
// this indexing, so it must not change.
func (w WeekWindow) To() int64 { return w.BaseEpoch + 7*86400 }

// WeekStart computes the window for the week containing "now" in the given
// IANA zone, shifted by weekOffset whole weeks. An unknown zone name fails
// here, before any slot math runs; the engine never falls back to UTC on its
// own.
func WeekStart(tz string, startDay WeekStartDay, weekOffset int, now time.Time) (WeekWindow, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return WeekWindow{}, appErrors.Wrap(err, appErrors.ErrUnknownTimezone.Code, appErrors.ErrUnknownTimezone.Status, "unknown timezone "+tz)
	}

	local := now.In(loc)
	year, month, day := local.Date()

	weekday := int(local.Weekday()) // 0 = Sunday
	target := 0
	if startDay == WeekStartMonday {
		target = 1
	}
	delta := weekday - target
	if delta < 0 {
		delta += 7
	}

	day += -delta + weekOffset*7

	base := civilMidnightEpoch(year, int(month), day, loc)
	return WeekWindow{BaseEpoch: base, Timezone: tz, StartDay: startDay}, nil
}

// civilMidnightEpoch converts a civil date's local midnight to epoch seconds
// using two-pass offset resolution: guess a UTC-naive epoch, subtract the
// zone offset at that instant, then subtract the offset at the corrected
// instant. Real-world offset rules converge within the second pass.
func civilMidnightEpoch(year, month, day int, loc *time.Location) int64 {
	naive := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Unix()

	_, off1 := time.Unix(naive, 0).In(loc).Zone()
	guess := naive - int64(off1)

	_, off2 := time.Unix(guess, 0).In(loc).Zone()
	return naive - int64(off2)
}

// SlotEpoch returns the start epoch of the slot at (dayIndex, slotIndex).
// Wall-clock-naive, see WeekWindow.To.
func SlotEpoch(w WeekWindow, dayIndex, slotIndex int) int64 {
	return w.BaseEpoch + int64(dayIndex)*86400 + int64(slotIndex)*SlotSeconds
}

// GlobalIndex flattens a (day, slot) coordinate into a single week index.
func GlobalIndex(dayIndex, slotIndex, slotsPerDay int) int {
	return dayIndex*slotsPerDay + slotIndex
}

// SplitIndex is the inverse of GlobalIndex.
func SplitIndex(global, slotsPerDay int) (dayIndex, slotIndex int) {
	return global / slotsPerDay, global % slotsPerDay
}

// NowIndex returns the global index of the first slot that has not yet
// started in the given window, ceiling-rounded to the next slot boundary.
// Slots before it can no longer be scheduled. Returns 0 when the whole
// window is in the future and SlotsPerWeek when it is entirely past.
func NowIndex(w WeekWindow, now time.Time) int {
	elapsed := now.Unix() - w.BaseEpoch
	if elapsed <= 0 {
		return 0
	}
	idx := int((elapsed + SlotSeconds - 1) / SlotSeconds)
	if idx > SlotsPerWeek {
		return SlotsPerWeek
	}
	return idx
}

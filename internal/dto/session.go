package dto

import "github.com/noah-isme/freeweek-api/internal/engine"

// ComputeSessionsRequest asks for the aggregated week view of a group.
type ComputeSessionsRequest struct {
	Members    []string `json:"members" validate:"required,min=1,dive,required"`
	WeekOffset int      `json:"week_offset" validate:"min=-52,max=52"`
	MaxMissing int      `json:"max_missing" validate:"min=0"`
	MinHours   float64  `json:"min_hours" validate:"min=0"`
	Sort       string   `json:"sort"`
}

// SlotCell is the render contract for one grid cell.
type SlotCell struct {
	Epoch int64  `json:"epoch"`
	Count int    `json:"count"`
	Color string `json:"color"`
	Dim   bool   `json:"dim"`
}

// SessionWindow is one ranked candidate meeting window plus its
// presentation strings.
type SessionWindow struct {
	StartEpoch    int64    `json:"start_epoch"`
	EndEpoch      int64    `json:"end_epoch"`
	DurationSlots int      `json:"duration_slots"`
	Participants  []string `json:"participants"`
	Missing       []string `json:"missing"`
	TimeRange     string   `json:"time_range"`
	Invitation    string   `json:"invitation"`
}

// ComputeSessionsResponse is the full week payload for the grid, the
// results panel and the legend.
type ComputeSessionsResponse struct {
	WeekFrom   int64           `json:"week_from"`
	WeekTo     int64           `json:"week_to"`
	Timezone   string          `json:"timezone"`
	WeekStart  string          `json:"week_start"`
	Heatmap    string          `json:"heatmap"`
	Members    []string        `json:"members"`
	Slots      []SlotCell      `json:"slots"`
	Windows    []SessionWindow `json:"windows"`
	EmptyState string          `json:"empty_state,omitempty"`
	Generation uint64          `json:"generation"`
}

// ReplaceAvailabilityRequest overwrites the caller's stored spans inside
// the given range. Interval entries accept {from,to} epoch seconds,
// {fromMin,toMin} minute offsets or bare [a,b] pairs.
type ReplaceAvailabilityRequest struct {
	From      int64                `json:"from" validate:"required"`
	To        int64                `json:"to" validate:"required,gtfield=From"`
	Intervals []engine.RawInterval `json:"intervals"`
}

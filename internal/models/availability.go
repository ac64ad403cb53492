package models

import "time"

// AvailabilityInterval is one stored availability span for a user,
// half-open [SlotFrom, SlotTo) in epoch seconds.
type AvailabilityInterval struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	SlotFrom  int64     `db:"slot_from" json:"from"`
	SlotTo    int64     `db:"slot_to" json:"to"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserIntervals pairs a username with their stored spans for the batched
// multi-user fetch. Users without rows still appear with an empty list.
type UserIntervals struct {
	Username  string
	Intervals []AvailabilityInterval
}

package models

import "time"

// Clock formats for rendering times.
const (
	Clock12 = "12"
	Clock24 = "24"
)

// TimezoneAuto resolves to the runtime's local zone at evaluation time.
const TimezoneAuto = "auto"

// UserSettings stores per-user presentation and grid preferences.
type UserSettings struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Timezone  string    `db:"timezone" json:"timezone"`
	Clock     string    `db:"clock" json:"clock"`
	WeekStart string    `db:"week_start" json:"week_start"`
	Heatmap   string    `db:"heatmap" json:"heatmap"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultSettings is applied until the user saves their own.
func DefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:    userID,
		Timezone:  TimezoneAuto,
		Clock:     Clock24,
		WeekStart: "mon",
		Heatmap:   "viridis",
	}
}

package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// DayTemplate is a named, reusable single-day availability pattern stored
// as minute-offset intervals from local midnight. The JSON column accepts
// both {"fromMin","toMin"} objects and legacy [from,to] pairs; decoding is
// normalized at the engine boundary.
type DayTemplate struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	Name      string         `db:"name" json:"name"`
	Intervals types.JSONText `db:"intervals" json:"intervals"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

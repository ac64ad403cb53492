package models

import "time"

// FriendshipStatus tracks the lifecycle of a friend edge.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
)

// Friendship is a directed row; an accepted friendship always exists as a
// symmetric pair so lookups never need to check both column orders.
type Friendship struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	FriendID  string           `db:"friend_id" json:"friend_id"`
	Status    FriendshipStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// FriendEntry is a friend row joined with the friend's public profile.
type FriendEntry struct {
	FriendID    string           `db:"friend_id" json:"friend_id"`
	Username    string           `db:"username" json:"username"`
	DisplayName string           `db:"display_name" json:"display_name"`
	Status      FriendshipStatus `db:"status" json:"status"`
	Requested   bool             `db:"requested" json:"requested"`
}

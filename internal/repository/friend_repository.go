package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/freeweek-api/internal/models"
)

// FriendRepository persists the friend graph. Accepted edges are stored as
// symmetric row pairs so queries only ever filter on user_id.
type FriendRepository struct {
	db *sqlx.DB
}

// NewFriendRepository constructs a friend repository.
func NewFriendRepository(db *sqlx.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// List returns all friend entries for a user joined with profile data.
func (r *FriendRepository) List(ctx context.Context, userID string) ([]models.FriendEntry, error) {
	const query = `SELECT f.friend_id, u.username, u.display_name, f.status, f.requested
FROM friendships f
JOIN users u ON u.id = f.friend_id
WHERE f.user_id = $1
ORDER BY u.username ASC`
	var entries []models.FriendEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return entries, nil
}

// Find returns the edge from userID to friendID, if any.
func (r *FriendRepository) Find(ctx context.Context, userID, friendID string) (*models.Friendship, error) {
	const query = `SELECT id, user_id, friend_id, status, created_at, updated_at FROM friendships WHERE user_id = $1 AND friend_id = $2`
	var f models.Friendship
	if err := r.db.GetContext(ctx, &f, query, userID, friendID); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateRequest inserts the pending pair for a friend request: the
// requester side carries requested=true.
func (r *FriendRepository) CreateRequest(ctx context.Context, userID, friendID string) error {
	now := time.Now().UTC()
	const query = `INSERT INTO friendships (id, user_id, friend_id, status, requested, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin friend request: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, query, uuid.NewString(), userID, friendID, models.FriendshipPending, true, now); err != nil {
		return fmt.Errorf("create friend request: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, uuid.NewString(), friendID, userID, models.FriendshipPending, false, now); err != nil {
		return fmt.Errorf("mirror friend request: %w", err)
	}
	return tx.Commit()
}

// Accept flips both rows of a pending pair to accepted.
func (r *FriendRepository) Accept(ctx context.Context, userID, friendID string) error {
	const query = `UPDATE friendships SET status = $3, updated_at = $4
WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)`
	res, err := r.db.ExecContext(ctx, query, userID, friendID, models.FriendshipAccepted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("accept friendship: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("accept friendship: no pending pair")
	}
	return nil
}

// Remove deletes both rows of a pair.
func (r *FriendRepository) Remove(ctx context.Context, userID, friendID string) error {
	const query = `DELETE FROM friendships
WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)`
	if _, err := r.db.ExecContext(ctx, query, userID, friendID); err != nil {
		return fmt.Errorf("remove friendship: %w", err)
	}
	return nil
}

// AcceptedUsernames filters the given usernames down to those who are
// accepted friends of userID (the user's own username always passes).
func (r *FriendRepository) AcceptedUsernames(ctx context.Context, userID string, usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	const query = `SELECT u.username
FROM friendships f
JOIN users u ON u.id = f.friend_id
WHERE f.user_id = $1 AND f.status = $2 AND u.username = ANY($3)`
	var accepted []string
	if err := r.db.SelectContext(ctx, &accepted, query, userID, models.FriendshipAccepted, pq.Array(usernames)); err != nil {
		return nil, fmt.Errorf("filter accepted friends: %w", err)
	}
	return accepted, nil
}

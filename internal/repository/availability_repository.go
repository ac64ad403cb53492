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

// AvailabilityRepository persists stored availability spans.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByUser returns a user's spans overlapping [from, to).
func (r *AvailabilityRepository) ListByUser(ctx context.Context, userID string, from, to int64) ([]models.AvailabilityInterval, error) {
	const query = `SELECT id, user_id, slot_from, slot_to, created_at
FROM availability_intervals
WHERE user_id = $1 AND slot_to > $2 AND slot_from < $3
ORDER BY slot_from ASC`
	var intervals []models.AvailabilityInterval
	if err := r.db.SelectContext(ctx, &intervals, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return intervals, nil
}

// ListByUsernames fetches every member's spans overlapping [from, to) in
// one query. Latency must stay flat in group size, so this is the only
// fetch path the session pipeline uses; usernames without rows are present
// in the result with an empty slice.
func (r *AvailabilityRepository) ListByUsernames(ctx context.Context, usernames []string, from, to int64) (map[string][]models.AvailabilityInterval, error) {
	out := make(map[string][]models.AvailabilityInterval, len(usernames))
	for _, name := range usernames {
		out[name] = []models.AvailabilityInterval{}
	}
	if len(usernames) == 0 {
		return out, nil
	}

	const query = `SELECT u.username, a.id, a.user_id, a.slot_from, a.slot_to, a.created_at
FROM availability_intervals a
JOIN users u ON u.id = a.user_id
WHERE u.username = ANY($1) AND a.slot_to > $2 AND a.slot_from < $3
ORDER BY u.username ASC, a.slot_from ASC`
	rows := []struct {
		Username string `db:"username"`
		models.AvailabilityInterval
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(usernames), from, to); err != nil {
		return nil, fmt.Errorf("batched availability fetch: %w", err)
	}

	for _, row := range rows {
		out[row.Username] = append(out[row.Username], row.AvailabilityInterval)
	}
	return out, nil
}

// ReplaceRange deletes a user's spans inside [from, to) and inserts the
// replacement set in one transaction.
func (r *AvailabilityRepository) ReplaceRange(ctx context.Context, userID string, from, to int64, intervals []models.AvailabilityInterval) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const del = `DELETE FROM availability_intervals WHERE user_id = $1 AND slot_from >= $2 AND slot_to <= $3`
	if _, err := tx.ExecContext(ctx, del, userID, from, to); err != nil {
		return fmt.Errorf("clear availability range: %w", err)
	}

	const ins = `INSERT INTO availability_intervals (id, user_id, slot_from, slot_to, created_at)
VALUES ($1, $2, $3, $4, $5)`
	now := time.Now().UTC()
	for _, iv := range intervals {
		id := iv.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, ins, id, userID, iv.SlotFrom, iv.SlotTo, now); err != nil {
			return fmt.Errorf("insert availability interval: %w", err)
		}
	}
	return tx.Commit()
}

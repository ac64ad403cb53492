package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/freeweek-api/internal/models"
)

// SettingsRepository persists per-user preferences.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a settings repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns stored settings, or the defaults when none were saved yet.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (models.UserSettings, error) {
	const query = `SELECT user_id, timezone, clock, week_start, heatmap, updated_at FROM user_settings WHERE user_id = $1`
	var s models.UserSettings
	if err := r.db.GetContext(ctx, &s, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultSettings(userID), nil
		}
		return models.UserSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// Upsert stores settings, replacing any previous row.
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.UserSettings) error {
	s.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO user_settings (user_id, timezone, clock, week_start, heatmap, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET timezone = $2, clock = $3, week_start = $4, heatmap = $5, updated_at = $6`
	if _, err := r.db.ExecContext(ctx, query, s.UserID, s.Timezone, s.Clock, s.WeekStart, s.Heatmap, s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

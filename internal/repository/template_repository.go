package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/freeweek-api/internal/models"
)

// TemplateRepository persists reusable day templates.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository constructs a template repository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = "id, user_id, name, intervals, created_at, updated_at"

// ListByUser returns all templates owned by a user.
func (r *TemplateRepository) ListByUser(ctx context.Context, userID string) ([]models.DayTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM day_templates WHERE user_id = $1 ORDER BY name ASC", templateColumns)
	var templates []models.DayTemplate
	if err := r.db.SelectContext(ctx, &templates, query, userID); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// FindByID loads one template.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*models.DayTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM day_templates WHERE id = $1", templateColumns)
	var tpl models.DayTemplate
	if err := r.db.GetContext(ctx, &tpl, query, id); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Create inserts a template.
func (r *TemplateRepository) Create(ctx context.Context, tpl *models.DayTemplate) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	const query = `INSERT INTO day_templates (id, user_id, name, intervals, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, tpl.ID, tpl.UserID, tpl.Name, tpl.Intervals, tpl.CreatedAt, tpl.UpdatedAt); err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// Update replaces a template's name and intervals.
func (r *TemplateRepository) Update(ctx context.Context, tpl *models.DayTemplate) error {
	tpl.UpdatedAt = time.Now().UTC()
	const query = `UPDATE day_templates SET name = $2, intervals = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, tpl.ID, tpl.Name, tpl.Intervals, tpl.UpdatedAt); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM day_templates WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/freeweek-api/internal/engine"
	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type templateRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.DayTemplate, error)
	FindByID(ctx context.Context, id string) (*models.DayTemplate, error)
	Create(ctx context.Context, tpl *models.DayTemplate) error
	Update(ctx context.Context, tpl *models.DayTemplate) error
	Delete(ctx context.Context, id string) error
}

// SaveTemplateRequest creates or updates a day template. Interval entries
// accept {fromMin,toMin} objects or legacy [from,to] minute pairs.
type SaveTemplateRequest struct {
	Name      string               `json:"name" validate:"required,max=64"`
	Intervals []engine.RawInterval `json:"intervals" validate:"required"`
}

// TemplateService manages reusable day templates.
type TemplateService struct {
	repo      templateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService instantiates TemplateService.
func NewTemplateService(repo templateRepository, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{repo: repo, validator: validate, logger: logger}
}

// List returns the caller's templates.
func (s *TemplateService) List(ctx context.Context, userID string) ([]models.DayTemplate, error) {
	templates, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	return templates, nil
}

// Create stores a new template.
func (s *TemplateService) Create(ctx context.Context, userID string, req SaveTemplateRequest) (*models.DayTemplate, error) {
	payload, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	tpl := models.DayTemplate{UserID: userID, Name: req.Name, Intervals: payload}
	if err := s.repo.Create(ctx, &tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}
	return &tpl, nil
}

// Update replaces an owned template.
func (s *TemplateService) Update(ctx context.Context, userID, id string, req SaveTemplateRequest) (*models.DayTemplate, error) {
	tpl, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	payload, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	tpl.Name = req.Name
	tpl.Intervals = payload
	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template")
	}
	return tpl, nil
}

// Delete removes an owned template.
func (s *TemplateService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete template")
	}
	return nil
}

// Expand converts an owned template into epoch intervals anchored at the
// local midnight of a target day, ready for an availability replace.
func (s *TemplateService) Expand(ctx context.Context, userID, id string, dayStart int64) ([]engine.Interval, error) {
	tpl, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	var raw []engine.RawInterval
	if err := json.Unmarshal(tpl.Intervals, &raw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored template is unreadable")
	}
	return engine.MergeOverlapping(engine.DecodeIntervals(raw, dayStart)), nil
}

func (s *TemplateService) normalize(req SaveTemplateRequest) (types.JSONText, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	for _, iv := range req.Intervals {
		if fromMin, toMin, ok := iv.Minutes(); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "template intervals must use minute offsets")
		} else if fromMin < 0 || toMin > 24*60 || toMin <= fromMin {
			return nil, appErrors.Clone(appErrors.ErrValidation, "template intervals must fit within one day")
		}
	}
	payload, err := json.Marshal(req.Intervals)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode template")
	}
	return types.JSONText(payload), nil
}

func (s *TemplateService) owned(ctx context.Context, userID, id string) (*models.DayTemplate, error) {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	if tpl.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "template belongs to another user")
	}
	return tpl, nil
}

package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/freeweek-api/internal/engine"
	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context, userID string) (models.UserSettings, error)
	Upsert(ctx context.Context, s *models.UserSettings) error
}

// UpdateSettingsRequest replaces the caller's preferences.
type UpdateSettingsRequest struct {
	Timezone  string `json:"timezone" validate:"required"`
	Clock     string `json:"clock" validate:"required,oneof=12 24"`
	WeekStart string `json:"week_start" validate:"required,oneof=sun mon"`
	Heatmap   string `json:"heatmap" validate:"required"`
}

// SettingsService manages per-user preferences. The "auto" timezone policy
// lives here: the engine only ever sees concrete IANA names.
type SettingsService struct {
	repo      settingsRepository
	sessions  sessionCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	fallback  string
}

// NewSettingsService instantiates SettingsService. fallbackTZ is used when
// "auto" cannot resolve the runtime zone.
func NewSettingsService(repo settingsRepository, sessions sessionCacheInvalidator, validate *validator.Validate, logger *zap.Logger, fallbackTZ string) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallbackTZ == "" {
		fallbackTZ = "UTC"
	}
	return &SettingsService{repo: repo, sessions: sessions, validator: validate, logger: logger, fallback: fallbackTZ}
}

// AttachSessions late-binds the session cache invalidator. The session
// service consumes this service, so it cannot exist at construction time.
func (s *SettingsService) AttachSessions(sessions sessionCacheInvalidator) {
	s.sessions = sessions
}

// Get returns the caller's settings, defaults when none are stored.
func (s *SettingsService) Get(ctx context.Context, userID string) (models.UserSettings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.UserSettings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Update validates and stores settings. The timezone must be "auto" or a
// resolvable IANA name; unknown zones are rejected here so they never reach
// the grid indexer from storage.
func (s *SettingsService) Update(ctx context.Context, userID, username string, req UpdateSettingsRequest) (models.UserSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.UserSettings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	if req.Timezone != models.TimezoneAuto {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return models.UserSettings{}, appErrors.Clone(appErrors.ErrUnknownTimezone, "unknown timezone "+req.Timezone)
		}
	}
	if !engine.KnownColormap(req.Heatmap) {
		return models.UserSettings{}, appErrors.Clone(appErrors.ErrValidation, "unknown heatmap "+req.Heatmap)
	}

	settings := models.UserSettings{
		UserID:    userID,
		Timezone:  req.Timezone,
		Clock:     req.Clock,
		WeekStart: req.WeekStart,
		Heatmap:   req.Heatmap,
	}
	if err := s.repo.Upsert(ctx, &settings); err != nil {
		return models.UserSettings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store settings")
	}

	if s.sessions != nil {
		s.sessions.InvalidateUser(ctx, username)
	}
	return settings, nil
}

// ResolveTimezone applies the "auto" policy: auto resolves to the runtime's
// local zone, falling back to the configured default. This is settings
// policy, not engine policy; the engine rejects anything unresolvable.
func (s *SettingsService) ResolveTimezone(settings models.UserSettings) string {
	if settings.Timezone != models.TimezoneAuto {
		return settings.Timezone
	}
	// time.Local only carries a usable IANA name when TZ is set; bare
	// "Local" is useless downstream, so fall back to the configured zone.
	name := time.Local.String()
	if name == "" || name == "Local" {
		if _, err := time.LoadLocation(s.fallback); err != nil {
			return "UTC"
		}
		return s.fallback
	}
	return name
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/freeweek-api/internal/dto"
	"github.com/noah-isme/freeweek-api/internal/engine"
	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type availabilityRepository interface {
	ListByUser(ctx context.Context, userID string, from, to int64) ([]models.AvailabilityInterval, error)
	ListByUsernames(ctx context.Context, usernames []string, from, to int64) (map[string][]models.AvailabilityInterval, error)
	ReplaceRange(ctx context.Context, userID string, from, to int64, intervals []models.AvailabilityInterval) error
}

type sessionCacheInvalidator interface {
	InvalidateUser(ctx context.Context, username string)
}

// AvailabilityService manages stored availability spans.
type AvailabilityService struct {
	repo      availabilityRepository
	sessions  sessionCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, sessions sessionCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, sessions: sessions, validator: validate, logger: logger}
}

// AttachSessions late-binds the session cache invalidator. The session
// service consumes this service, so it cannot exist at construction time.
func (s *AvailabilityService) AttachSessions(sessions sessionCacheInvalidator) {
	s.sessions = sessions
}

// List returns the caller's spans overlapping [from, to).
func (s *AvailabilityService) List(ctx context.Context, userID string, from, to int64) ([]models.AvailabilityInterval, error) {
	if to <= from {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end must be after range start")
	}
	intervals, err := s.repo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return intervals, nil
}

// Replace overwrites the caller's spans inside the request range. Incoming
// intervals are normalized from any accepted payload shape, merged, and
// clamped before persisting, so storage only ever holds minimal sorted
// spans. Corrupt entries are dropped, not rejected; one bad interval must
// not lose the rest of the submission.
func (s *AvailabilityService) Replace(ctx context.Context, userID, username string, req dto.ReplaceAvailabilityRequest) ([]models.AvailabilityInterval, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	decoded := engine.DecodeIntervals(req.Intervals, req.From)
	merged := engine.Clamp(engine.MergeOverlapping(decoded), req.From, req.To)

	rows := make([]models.AvailabilityInterval, 0, len(merged))
	for _, iv := range merged {
		rows = append(rows, models.AvailabilityInterval{UserID: userID, SlotFrom: iv.From, SlotTo: iv.To})
	}

	if err := s.repo.ReplaceRange(ctx, userID, req.From, req.To, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace availability")
	}

	if s.sessions != nil {
		s.sessions.InvalidateUser(ctx, username)
	}
	return rows, nil
}

// FetchGroup is the batched read used by the session pipeline: one query
// for all members, users without rows present with empty lists.
func (s *AvailabilityService) FetchGroup(ctx context.Context, usernames []string, from, to int64) (map[string][]models.AvailabilityInterval, error) {
	fetched, err := s.repo.ListByUsernames(ctx, usernames, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group availability")
	}
	return fetched, nil
}

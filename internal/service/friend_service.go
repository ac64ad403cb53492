package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type friendRepository interface {
	List(ctx context.Context, userID string) ([]models.FriendEntry, error)
	Find(ctx context.Context, userID, friendID string) (*models.Friendship, error)
	CreateRequest(ctx context.Context, userID, friendID string) error
	Accept(ctx context.Context, userID, friendID string) error
	Remove(ctx context.Context, userID, friendID string) error
	AcceptedUsernames(ctx context.Context, userID string, usernames []string) ([]string, error)
}

type friendUserResolver interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// FriendRequestPayload names the counterpart by username.
type FriendRequestPayload struct {
	Username string `json:"username" validate:"required"`
}

// FriendService manages the friend graph.
type FriendService struct {
	repo      friendRepository
	users     friendUserResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFriendService instantiates FriendService.
func NewFriendService(repo friendRepository, users friendUserResolver, validate *validator.Validate, logger *zap.Logger) *FriendService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FriendService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns the caller's friend entries, pending ones included.
func (s *FriendService) List(ctx context.Context, userID string) ([]models.FriendEntry, error) {
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list friends")
	}
	return entries, nil
}

// Request creates a pending friendship pair.
func (s *FriendService) Request(ctx context.Context, userID string, req FriendRequestPayload) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid friend request payload")
	}

	friend, err := s.resolve(ctx, req.Username)
	if err != nil {
		return err
	}
	if friend.ID == userID {
		return appErrors.Clone(appErrors.ErrValidation, "cannot befriend yourself")
	}

	if existing, err := s.repo.Find(ctx, userID, friend.ID); err == nil && existing != nil {
		return appErrors.Clone(appErrors.ErrConflict, "friendship already exists")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check friendship")
	}

	if err := s.repo.CreateRequest(ctx, userID, friend.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create friend request")
	}
	return nil
}

// Accept confirms a pending request addressed to the caller.
func (s *FriendService) Accept(ctx context.Context, userID string, req FriendRequestPayload) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid friend accept payload")
	}

	friend, err := s.resolve(ctx, req.Username)
	if err != nil {
		return err
	}

	edge, err := s.repo.Find(ctx, userID, friend.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no friend request from this user")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load friendship")
	}
	if edge.Status != models.FriendshipPending {
		return appErrors.Clone(appErrors.ErrConflict, "friendship already accepted")
	}

	if err := s.repo.Accept(ctx, userID, friend.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to accept friendship")
	}
	return nil
}

// Remove deletes the pair in both directions.
func (s *FriendService) Remove(ctx context.Context, userID, username string) error {
	friend, err := s.resolve(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, userID, friend.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove friendship")
	}
	return nil
}

// EnsureGroupAllowed verifies every listed username is either the caller or
// an accepted friend. The session pipeline calls this before fetching any
// availability.
func (s *FriendService) EnsureGroupAllowed(ctx context.Context, userID, callerUsername string, usernames []string) error {
	others := make([]string, 0, len(usernames))
	for _, name := range usernames {
		if name != callerUsername {
			others = append(others, name)
		}
	}
	if len(others) == 0 {
		return nil
	}

	accepted, err := s.repo.AcceptedUsernames(ctx, userID, others)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check group membership")
	}
	allowed := make(map[string]struct{}, len(accepted))
	for _, name := range accepted {
		allowed[name] = struct{}{}
	}
	for _, name := range others {
		if _, ok := allowed[name]; !ok {
			return appErrors.Clone(appErrors.ErrNotFriends, "user "+name+" is not an accepted friend")
		}
	}
	return nil
}

func (s *FriendService) resolve(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user "+username+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve user")
	}
	return user, nil
}

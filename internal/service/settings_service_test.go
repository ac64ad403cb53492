package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type settingsRepoStub struct {
	stored models.UserSettings
	getErr error
	upserts int
}

func (r *settingsRepoStub) Get(ctx context.Context, userID string) (models.UserSettings, error) {
	if r.getErr != nil {
		return models.UserSettings{}, r.getErr
	}
	return r.stored, nil
}

func (r *settingsRepoStub) Upsert(ctx context.Context, s *models.UserSettings) error {
	r.upserts++
	r.stored = *s
	return nil
}

type invalidatorStub struct {
	usernames []string
}

func (i *invalidatorStub) InvalidateUser(ctx context.Context, username string) {
	i.usernames = append(i.usernames, username)
}

func validSettingsRequest() UpdateSettingsRequest {
	return UpdateSettingsRequest{
		Timezone:  "Europe/Berlin",
		Clock:     models.Clock12,
		WeekStart: "sun",
		Heatmap:   "magma",
	}
}

func TestSettingsServiceUpdate(t *testing.T) {
	repo := &settingsRepoStub{}
	invalidator := &invalidatorStub{}
	svc := NewSettingsService(repo, invalidator, nil, nil, "")

	got, err := svc.Update(context.Background(), "u1", "alice", validSettingsRequest())
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, "Europe/Berlin", got.Timezone)
	require.Equal(t, 1, repo.upserts)
	require.Equal(t, []string{"alice"}, invalidator.usernames)
}

func TestSettingsServiceUpdateAcceptsAuto(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, nil, nil, nil, "")
	req := validSettingsRequest()
	req.Timezone = models.TimezoneAuto

	got, err := svc.Update(context.Background(), "u1", "alice", req)
	require.NoError(t, err)
	require.Equal(t, models.TimezoneAuto, got.Timezone)
}

func TestSettingsServiceUpdateRejectsUnknownTimezone(t *testing.T) {
	repo := &settingsRepoStub{}
	svc := NewSettingsService(repo, nil, nil, nil, "")
	req := validSettingsRequest()
	req.Timezone = "Mars/Olympus"

	_, err := svc.Update(context.Background(), "u1", "alice", req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrUnknownTimezone.Code, appErr.Code)
	require.Zero(t, repo.upserts)
}

func TestSettingsServiceUpdateRejectsUnknownHeatmap(t *testing.T) {
	repo := &settingsRepoStub{}
	svc := NewSettingsService(repo, nil, nil, nil, "")
	req := validSettingsRequest()
	req.Heatmap = "jet"

	_, err := svc.Update(context.Background(), "u1", "alice", req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Zero(t, repo.upserts)
}

func TestSettingsServiceUpdateRejectsBadClock(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, nil, nil, nil, "")
	req := validSettingsRequest()
	req.Clock = "13"

	_, err := svc.Update(context.Background(), "u1", "alice", req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSettingsServiceResolveTimezone(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, nil, nil, nil, "Europe/Berlin")

	explicit := models.UserSettings{Timezone: "America/New_York"}
	require.Equal(t, "America/New_York", svc.ResolveTimezone(explicit))

	// "auto" resolves to a usable zone name regardless of environment.
	auto := models.UserSettings{Timezone: models.TimezoneAuto}
	resolved := svc.ResolveTimezone(auto)
	require.NotEmpty(t, resolved)
	require.NotEqual(t, "Local", resolved)
}

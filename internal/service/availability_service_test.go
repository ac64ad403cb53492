package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/freeweek-api/internal/dto"
	"github.com/noah-isme/freeweek-api/internal/engine"
	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type availabilityRepoStub struct {
	rows       []models.AvailabilityInterval
	replaced   []models.AvailabilityInterval
	replaceErr error
}

func (r *availabilityRepoStub) ListByUser(ctx context.Context, userID string, from, to int64) ([]models.AvailabilityInterval, error) {
	return r.rows, nil
}

func (r *availabilityRepoStub) ListByUsernames(ctx context.Context, usernames []string, from, to int64) (map[string][]models.AvailabilityInterval, error) {
	out := make(map[string][]models.AvailabilityInterval, len(usernames))
	for _, u := range usernames {
		out[u] = r.rows
	}
	return out, nil
}

func (r *availabilityRepoStub) ReplaceRange(ctx context.Context, userID string, from, to int64, intervals []models.AvailabilityInterval) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.replaced = intervals
	return nil
}

func TestAvailabilityServiceReplaceMergesAndClamps(t *testing.T) {
	repo := &availabilityRepoStub{}
	invalidator := &invalidatorStub{}
	svc := NewAvailabilityService(repo, invalidator, nil, nil)

	day := int64(1717977600) // Mon 2024-06-10 00:00:00 UTC
	req := dto.ReplaceAvailabilityRequest{
		From: day,
		To:   day + 86400,
		Intervals: []engine.RawInterval{
			engine.NewEpochInterval(day+3600, day+7200),
			engine.NewEpochInterval(day+7200, day+10800), // touches the first, folds in
			engine.NewEpochInterval(day-3600, day+1800),  // clipped to the range start
		},
	}

	rows, err := svc.Replace(context.Background(), "u1", "alice", req)
	require.NoError(t, err)
	require.Equal(t, rows, repo.replaced)

	require.Len(t, rows, 2)
	require.Equal(t, day, rows[0].SlotFrom)
	require.Equal(t, day+1800, rows[0].SlotTo)
	require.Equal(t, day+3600, rows[1].SlotFrom)
	require.Equal(t, day+10800, rows[1].SlotTo)
	for _, row := range rows {
		require.Equal(t, "u1", row.UserID)
	}
	require.Equal(t, []string{"alice"}, invalidator.usernames)
}

func TestAvailabilityServiceReplaceEmptyClears(t *testing.T) {
	repo := &availabilityRepoStub{}
	svc := NewAvailabilityService(repo, nil, nil, nil)

	day := int64(1717977600)
	rows, err := svc.Replace(context.Background(), "u1", "alice", dto.ReplaceAvailabilityRequest{
		From: day, To: day + 86400,
	})
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Empty(t, repo.replaced)
}

func TestAvailabilityServiceReplaceRejectsInvertedRange(t *testing.T) {
	svc := NewAvailabilityService(&availabilityRepoStub{}, nil, nil, nil)

	_, err := svc.Replace(context.Background(), "u1", "alice", dto.ReplaceAvailabilityRequest{
		From: 200, To: 100,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAvailabilityServiceReplaceStoreFailure(t *testing.T) {
	repo := &availabilityRepoStub{replaceErr: errors.New("boom")}
	invalidator := &invalidatorStub{}
	svc := NewAvailabilityService(repo, invalidator, nil, nil)

	day := int64(1717977600)
	_, err := svc.Replace(context.Background(), "u1", "alice", dto.ReplaceAvailabilityRequest{
		From: day, To: day + 86400,
		Intervals: []engine.RawInterval{engine.NewEpochInterval(day, day+1800)},
	})
	require.Error(t, err)
	// Nothing was written, so nothing is invalidated.
	require.Empty(t, invalidator.usernames)
}

func TestAvailabilityServiceListRejectsInvertedRange(t *testing.T) {
	svc := NewAvailabilityService(&availabilityRepoStub{}, nil, nil, nil)
	_, err := svc.List(context.Background(), "u1", 100, 100)
	require.Error(t, err)
}

func TestAvailabilityServiceFetchGroupSeedsEveryMember(t *testing.T) {
	repo := &availabilityRepoStub{}
	svc := NewAvailabilityService(repo, nil, nil, nil)

	got, err := svc.FetchGroup(context.Background(), []string{"alice", "bob"}, 0, 86400)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Contains(t, got, "alice")
	require.Contains(t, got, "bob")
}

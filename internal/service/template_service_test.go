package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/freeweek-api/internal/engine"
	"github.com/noah-isme/freeweek-api/internal/models"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
)

type templateRepoStub struct {
	byID    map[string]*models.DayTemplate
	created *models.DayTemplate
	updated *models.DayTemplate
	deleted []string
}

func newTemplateRepoStub() *templateRepoStub {
	return &templateRepoStub{byID: map[string]*models.DayTemplate{}}
}

func (r *templateRepoStub) ListByUser(ctx context.Context, userID string) ([]models.DayTemplate, error) {
	return nil, nil
}

func (r *templateRepoStub) FindByID(ctx context.Context, id string) (*models.DayTemplate, error) {
	tpl, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *tpl
	return &clone, nil
}

func (r *templateRepoStub) Create(ctx context.Context, tpl *models.DayTemplate) error {
	tpl.ID = "t1"
	r.created = tpl
	r.byID[tpl.ID] = tpl
	return nil
}

func (r *templateRepoStub) Update(ctx context.Context, tpl *models.DayTemplate) error {
	r.updated = tpl
	r.byID[tpl.ID] = tpl
	return nil
}

func (r *templateRepoStub) Delete(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	delete(r.byID, id)
	return nil
}

func workdayTemplate() SaveTemplateRequest {
	return SaveTemplateRequest{
		Name: "workday evenings",
		Intervals: []engine.RawInterval{
			engine.NewMinuteInterval(18*60, 20*60),
			engine.NewMinuteInterval(21*60, 22*60),
		},
	}
}

func TestTemplateServiceCreate(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	tpl, err := svc.Create(context.Background(), "u1", workdayTemplate())
	require.NoError(t, err)
	require.Equal(t, "u1", tpl.UserID)
	require.Equal(t, "workday evenings", tpl.Name)

	var raw []engine.RawInterval
	require.NoError(t, json.Unmarshal(tpl.Intervals, &raw))
	require.Len(t, raw, 2)
	fromMin, toMin, ok := raw[0].Minutes()
	require.True(t, ok)
	require.Equal(t, 18*60, fromMin)
	require.Equal(t, 20*60, toMin)
}

func TestTemplateServiceCreateRejectsEpochIntervals(t *testing.T) {
	svc := NewTemplateService(newTemplateRepoStub(), nil, nil)

	req := SaveTemplateRequest{
		Name:      "bad",
		Intervals: []engine.RawInterval{engine.NewEpochInterval(0, 3600)},
	}
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTemplateServiceCreateRejectsOutOfDayIntervals(t *testing.T) {
	svc := NewTemplateService(newTemplateRepoStub(), nil, nil)

	req := SaveTemplateRequest{
		Name:      "bad",
		Intervals: []engine.RawInterval{engine.NewMinuteInterval(23*60, 25*60)},
	}
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
}

func TestTemplateServiceUpdateOwnership(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	created, err := svc.Create(context.Background(), "u1", workdayTemplate())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "u2", created.ID, workdayTemplate())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	req := workdayTemplate()
	req.Name = "renamed"
	updated, err := svc.Update(context.Background(), "u1", created.ID, req)
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Name)
}

func TestTemplateServiceDelete(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	created, err := svc.Create(context.Background(), "u1", workdayTemplate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", created.ID))
	require.Equal(t, []string{created.ID}, repo.deleted)

	err = svc.Delete(context.Background(), "u1", created.ID)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestTemplateServiceExpand(t *testing.T) {
	repo := newTemplateRepoStub()
	svc := NewTemplateService(repo, nil, nil)

	created, err := svc.Create(context.Background(), "u1", workdayTemplate())
	require.NoError(t, err)

	day := int64(1717977600) // Mon 2024-06-10 00:00:00 UTC
	intervals, err := svc.Expand(context.Background(), "u1", created.ID, day)
	require.NoError(t, err)
	require.Equal(t, []engine.Interval{
		{From: day + 18*3600, To: day + 20*3600},
		{From: day + 21*3600, To: day + 22*3600},
	}, intervals)
}

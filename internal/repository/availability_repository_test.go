package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/freeweek-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "slot_from", "slot_to", "created_at"}).
		AddRow("i1", "u1", int64(1800), int64(3600), now).
		AddRow("i2", "u1", int64(7200), int64(9000), now)
	mock.ExpectQuery("SELECT id, user_id, slot_from, slot_to, created_at").
		WithArgs("u1", int64(0), int64(86400)).
		WillReturnRows(rows)

	intervals, err := repo.ListByUser(context.Background(), "u1", 0, 86400)
	require.NoError(t, err)
	assert.Len(t, intervals, 2)
	assert.Equal(t, int64(1800), intervals[0].SlotFrom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUsernames(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"username", "id", "user_id", "slot_from", "slot_to", "created_at"}).
		AddRow("alice", "i1", "u1", int64(1800), int64(3600), now)
	mock.ExpectQuery("SELECT u.username, a.id, a.user_id, a.slot_from, a.slot_to, a.created_at").
		WithArgs(pq.Array([]string{"alice", "bob"}), int64(0), int64(86400)).
		WillReturnRows(rows)

	got, err := repo.ListByUsernames(context.Background(), []string{"alice", "bob"}, 0, 86400)
	require.NoError(t, err)
	assert.Len(t, got["alice"], 1)
	// bob has no rows but must still be present with an empty list.
	empty, ok := got["bob"]
	assert.True(t, ok)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUsernamesEmptyInput(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	got, err := repo.ListByUsernames(context.Background(), nil, 0, 86400)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_intervals WHERE user_id = $1 AND slot_from >= $2 AND slot_to <= $3")).
		WithArgs("u1", int64(0), int64(86400)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO availability_intervals").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO availability_intervals").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceRange(context.Background(), "u1", 0, 86400, []models.AvailabilityInterval{
		{SlotFrom: 1800, SlotTo: 3600},
		{SlotFrom: 7200, SlotTo: 9000},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRangeEmptySetOnlyDeletes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_intervals").
		WithArgs("u1", int64(0), int64(86400)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.ReplaceRange(context.Background(), "u1", 0, 86400, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
)

func newBusinessRepo(t *testing.T) (*BusinessRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &BusinessRepository{DB: db}, mock
}

func businessRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "website", "email", "phone_number", "address", "status", "created_at", "updated_at",
	})
}

func TestBusinessGetByNameMissingIsNotAnError(t *testing.T) {
	repo, mock := newBusinessRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM businesses WHERE name=$1")).
		WithArgs("Ghost Co").
		WillReturnRows(businessRows())

	b, err := repo.GetByName("Ghost Co")
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessGetByIDNotFound(t *testing.T) {
	repo, mock := newBusinessRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM businesses WHERE id=$1")).
		WithArgs(42).
		WillReturnRows(businessRows())

	_, err := repo.GetByID(42)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessUpdateStatus(t *testing.T) {
	repo, mock := newBusinessRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE businesses SET status=$1, updated_at=NOW() WHERE id=$2")).
		WithArgs(model.BusinessStatusScanned, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(1, model.BusinessStatusScanned))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessCountByStatusFillsAllStatuses(t *testing.T) {
	repo, mock := newBusinessRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM businesses GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(model.BusinessStatusPendingScan, 3).
			AddRow(model.BusinessStatusScanned, 2))

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, counts[model.BusinessStatusPendingScan])
	assert.Equal(t, 2, counts[model.BusinessStatusScanned])
	assert.Equal(t, 0, counts[model.BusinessStatusActive])
	assert.NoError(t, mock.ExpectationsWereMet())
}

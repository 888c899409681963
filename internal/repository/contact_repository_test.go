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

func newContactRepo(t *testing.T) (*ContactRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ContactRepository{DB: db}, mock
}

func TestContactCreate(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO contacts")).
		WithArgs(1, model.ContactTypeEmail, "hello@acme.example.com", model.ContactSourceCSV, true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	c := &model.Contact{
		BusinessID: 1,
		Type:       model.ContactTypeEmail,
		Value:      "hello@acme.example.com",
		Source:     model.ContactSourceCSV,
		IsPrimary:  true,
	}
	require.NoError(t, repo.Create(c))
	assert.Equal(t, 3, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactExists(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM contacts")).
		WithArgs(1, model.ContactTypePhone, "+1 555 0100").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(1, model.ContactTypePhone, "+1 555 0100")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactFindByBusinessAndTypeMissing(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM contacts")).
		WithArgs(1, model.ContactTypeInstagram).
		WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "type", "value", "source", "is_primary", "created_at", "updated_at"}))

	c, err := repo.FindByBusinessAndType(1, model.ContactTypeInstagram)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactDeleteMissing(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contacts WHERE id=$1 AND business_id=$2")).
		WithArgs(9, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(1, 9)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

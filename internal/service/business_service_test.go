package service_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/service"
)

func newBusinessService(businesses *memBusinessRepo, contacts *memContactRepo) *service.BusinessService {
	return &service.BusinessService{
		Businesses: businesses,
		Contacts:   contacts,
		Logger:     zap.NewNop(),
	}
}

const importCSVHeader = "Business Name,Website,Email,Phone Number,Address\n"

func TestImportCSVCreatesBusinessesAndPrimaryContacts(t *testing.T) {
	businesses := newMemBusinessRepo()
	contacts := newMemContactRepo()
	svc := newBusinessService(businesses, contacts)

	csv := importCSVHeader +
		"Acme,https://acme.example.com,hello@acme.example.com,+1 555 0100,1 Main St\n" +
		"Globex,https://globex.example.com,,,\n"

	report, err := svc.ImportCSV(strings.NewReader(csv), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, "completed", report.Status)

	acme, err := businesses.GetByName("Acme")
	require.NoError(t, err)
	require.NotNil(t, acme)
	assert.Equal(t, model.BusinessStatusPendingScan, acme.Status)
	assert.Equal(t, "https://acme.example.com", acme.Website)

	acmeContacts, err := contacts.ListByBusiness(acme.ID)
	require.NoError(t, err)
	require.Len(t, acmeContacts, 2)
	for _, c := range acmeContacts {
		assert.Equal(t, model.ContactSourceCSV, c.Source)
		assert.True(t, c.IsPrimary)
	}

	globex, err := businesses.GetByName("Globex")
	require.NoError(t, err)
	require.NotNil(t, globex)
	globexContacts, err := contacts.ListByBusiness(globex.ID)
	require.NoError(t, err)
	assert.Empty(t, globexContacts, "blank email and phone columns create no contacts")
}

func TestImportCSVSkipsExistingBusinesses(t *testing.T) {
	businesses := newMemBusinessRepo(
		&model.Business{ID: 1, Name: "Acme", Status: model.BusinessStatusScanned},
	)
	svc := newBusinessService(businesses, newMemContactRepo())

	csv := importCSVHeader + "Acme,,,,\nInitech,,,,\n"

	report, err := svc.ImportCSV(strings.NewReader(csv), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed, "duplicate name is skipped, not an error")
	assert.Equal(t, 0, report.Errors)

	existing, err := businesses.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, model.BusinessStatusScanned, existing.Status, "existing business is left untouched")
}

func TestImportCSVRecordsRowErrorsWithoutAborting(t *testing.T) {
	svc := newBusinessService(newMemBusinessRepo(), newMemContactRepo())

	csv := importCSVHeader + ",,,,\nAcme,,,,\n"

	report, err := svc.ImportCSV(strings.NewReader(csv), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Errors)
	require.Len(t, report.ErrorDetails, 1)
	assert.Contains(t, report.ErrorDetails[0], "Row 1")
}

func TestImportCSVCapsErrorDetails(t *testing.T) {
	svc := newBusinessService(newMemBusinessRepo(), newMemContactRepo())

	var b strings.Builder
	b.WriteString(importCSVHeader)
	for i := 0; i < 15; i++ {
		b.WriteString(",,,,\n")
	}

	report, err := svc.ImportCSV(strings.NewReader(b.String()), nil)
	require.NoError(t, err)

	assert.Equal(t, 15, report.Errors)
	assert.Len(t, report.ErrorDetails, 10)
}

func TestImportCSVRejectsMissingRequiredHeader(t *testing.T) {
	svc := newBusinessService(newMemBusinessRepo(), newMemContactRepo())

	_, err := svc.ImportCSV(strings.NewReader("Name,Website\nAcme,\n"), nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestImportCSVRejectsEmptyFile(t *testing.T) {
	svc := newBusinessService(newMemBusinessRepo(), newMemContactRepo())

	_, err := svc.ImportCSV(strings.NewReader(importCSVHeader), nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestImportCSVReportsProgress(t *testing.T) {
	svc := newBusinessService(newMemBusinessRepo(), newMemContactRepo())

	var calls []string
	csv := importCSVHeader + "Acme,,,,\nGlobex,,,,\nInitech,,,,\n"
	_, err := svc.ImportCSV(strings.NewReader(csv), func(current, total int) {
		calls = append(calls, fmt.Sprintf("%d/%d", current, total))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1/3", "2/3", "3/3"}, calls)
}

func TestUpdateBusinessFields(t *testing.T) {
	businesses := newMemBusinessRepo(
		&model.Business{ID: 1, Name: "Acme", Website: "https://old.example.com", Status: model.BusinessStatusPendingScan},
	)
	svc := newBusinessService(businesses, newMemContactRepo())

	updated, err := svc.Update(1, map[string]string{"website": "https://new.example.com", "status": model.BusinessStatusActive})
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", updated.Website)
	assert.Equal(t, model.BusinessStatusActive, updated.Status)
	assert.Equal(t, "Acme", updated.Name)

	_, err = svc.Update(1, map[string]string{"name": "  "})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Update(99, map[string]string{"name": "Ghost"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddContactValidation(t *testing.T) {
	businesses := newMemBusinessRepo(
		&model.Business{ID: 1, Name: "Acme", Status: model.BusinessStatusScanned},
	)
	contacts := newMemContactRepo(
		&model.Contact{ID: 1, BusinessID: 1, Type: model.ContactTypeEmail, Value: "hello@acme.example.com", Source: model.ContactSourceCSV},
	)
	svc := newBusinessService(businesses, contacts)

	_, err := svc.AddContact(99, model.ContactTypeEmail, "a@b.c", model.ContactSourceManual, false)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.AddContact(1, "carrier_pigeon", "coop 7", model.ContactSourceManual, false)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.AddContact(1, model.ContactTypeEmail, "a@b.c", "guesswork", false)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.AddContact(1, model.ContactTypeEmail, " ", model.ContactSourceManual, false)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.AddContact(1, model.ContactTypeEmail, "hello@acme.example.com", model.ContactSourceManual, false)
	assert.True(t, apperrors.IsValidation(err), "duplicate business/type/value is rejected")

	contact, err := svc.AddContact(1, model.ContactTypeInstagram, "https://instagram.com/acme", model.ContactSourceManual, true)
	require.NoError(t, err)
	assert.True(t, contact.IsPrimary)
	assert.NotZero(t, contact.ID)
}

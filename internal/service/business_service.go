package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/repository"
)

// CSV column names accepted on business upload.
const (
	csvHeaderName    = "Business Name"
	csvHeaderWebsite = "Website"
	csvHeaderEmail   = "Email"
	csvHeaderPhone   = "Phone Number"
	csvHeaderAddress = "Address"
)

const maxImportErrorDetails = 10

type BusinessService struct {
	Businesses repository.BusinessRepositoryInterface
	Contacts   repository.ContactRepositoryInterface
	Logger     *zap.Logger
}

// ImportReport aggregates a CSV import batch. Row failures never abort the
// batch; only the first maxImportErrorDetails are spelled out.
type ImportReport struct {
	TotalRows    int      `json:"total_rows"`
	Processed    int      `json:"processed"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"error_details"`
	Status       string   `json:"status"`
}

// ImportCSV reads business rows and creates one business plus its csv-sourced
// contacts per row. The returned error is reserved for malformed input
// (missing header, unreadable CSV) before iteration begins.
func (s *BusinessService) ImportCSV(r io.Reader, progress func(current, total int)) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewValidation("unable to read CSV header: %v", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col[csvHeaderName]; !ok {
		return nil, apperrors.NewValidation("CSV must contain required header: %s", csvHeaderName)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewValidation("unable to parse CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewValidation("CSV file is empty")
	}

	report := &ImportReport{TotalRows: len(records), ErrorDetails: []string{}, Status: "completed"}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for i, record := range records {
		if progress != nil {
			progress(i+1, len(records))
		}

		name := field(record, csvHeaderName)
		if name == "" {
			s.recordImportError(report, fmt.Sprintf("Row %d: Missing business name", i+1))
			continue
		}

		existing, err := s.Businesses.GetByName(name)
		if err != nil {
			s.recordImportError(report, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		if existing != nil {
			s.Logger.Info("business already exists, skipping", zap.String("name", name))
			continue
		}

		business := &model.Business{
			Name:        name,
			Website:     field(record, csvHeaderWebsite),
			Email:       field(record, csvHeaderEmail),
			PhoneNumber: field(record, csvHeaderPhone),
			Address:     field(record, csvHeaderAddress),
			Status:      model.BusinessStatusPendingScan,
		}
		if err := s.Businesses.Create(business); err != nil {
			s.recordImportError(report, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}

		if business.Email != "" {
			s.createPrimaryContact(business.ID, model.ContactTypeEmail, business.Email)
		}
		if business.PhoneNumber != "" {
			s.createPrimaryContact(business.ID, model.ContactTypePhone, business.PhoneNumber)
		}

		report.Processed++
	}

	s.Logger.Info("CSV import completed", zap.Int("processed", report.Processed), zap.Int("errors", report.Errors))
	return report, nil
}

func (s *BusinessService) recordImportError(report *ImportReport, detail string) {
	report.Errors++
	if len(report.ErrorDetails) < maxImportErrorDetails {
		report.ErrorDetails = append(report.ErrorDetails, detail)
	}
	s.Logger.Warn("CSV import row failed", zap.String("detail", detail))
}

func (s *BusinessService) createPrimaryContact(businessID int, contactType, value string) {
	contact := &model.Contact{
		BusinessID: businessID,
		Type:       contactType,
		Value:      value,
		Source:     model.ContactSourceCSV,
		IsPrimary:  true,
	}
	if err := s.Contacts.Create(contact); err != nil {
		s.Logger.Error("CSV import: create contact", zap.Int("business_id", businessID), zap.String("type", contactType), zap.Error(err))
	}
}

func (s *BusinessService) Get(id int) (*model.Business, error) {
	return s.Businesses.GetByID(id)
}

func (s *BusinessService) GetWithContacts(id int) (*model.Business, []*model.Contact, error) {
	business, err := s.Businesses.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	contacts, err := s.Contacts.ListByBusiness(id)
	if err != nil {
		return nil, nil, err
	}
	return business, contacts, nil
}

func (s *BusinessService) List(page, pageSize int, status, search string) ([]*model.Business, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	businesses, total, err := s.Businesses.List(offset, pageSize, status, search)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return businesses, pagination, nil
}

// Update modifies the subset of business fields callers may set.
func (s *BusinessService) Update(id int, fields map[string]string) (*model.Business, error) {
	business, err := s.Businesses.GetByID(id)
	if err != nil {
		return nil, err
	}

	if v, ok := fields["name"]; ok {
		if strings.TrimSpace(v) == "" {
			return nil, apperrors.NewValidation("business name cannot be empty")
		}
		business.Name = v
	}
	if v, ok := fields["website"]; ok {
		business.Website = v
	}
	if v, ok := fields["email"]; ok {
		business.Email = v
	}
	if v, ok := fields["phone_number"]; ok {
		business.PhoneNumber = v
	}
	if v, ok := fields["address"]; ok {
		business.Address = v
	}
	if v, ok := fields["status"]; ok {
		business.Status = v
	}

	if err := s.Businesses.Update(business); err != nil {
		return nil, err
	}
	return business, nil
}

func (s *BusinessService) Delete(id int) error {
	return s.Businesses.Delete(id)
}

// AddContact attaches a manually supplied contact to a business.
func (s *BusinessService) AddContact(businessID int, contactType, value, source string, isPrimary bool) (*model.Contact, error) {
	if _, err := s.Businesses.GetByID(businessID); err != nil {
		return nil, err
	}
	if !slices.Contains(model.ValidContactTypes, contactType) {
		return nil, apperrors.NewValidation("invalid contact type: %s", contactType)
	}
	if !slices.Contains(model.ValidContactSources, source) {
		return nil, apperrors.NewValidation("invalid contact source: %s", source)
	}
	if strings.TrimSpace(value) == "" {
		return nil, apperrors.NewValidation("contact value is required")
	}

	exists, err := s.Contacts.Exists(businessID, contactType, value)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewValidation("contact already exists for this business")
	}

	contact := &model.Contact{
		BusinessID: businessID,
		Type:       contactType,
		Value:      value,
		Source:     source,
		IsPrimary:  isPrimary,
	}
	if err := s.Contacts.Create(contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *BusinessService) DeleteContact(businessID, contactID int) error {
	return s.Contacts.Delete(businessID, contactID)
}

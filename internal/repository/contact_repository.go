package repository

import (
	"database/sql"
	"time"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
)

type ContactRepositoryInterface interface {
	Create(c *model.Contact) error
	Exists(businessID int, contactType, value string) (bool, error)
	FindByBusinessAndType(businessID int, contactType string) (*model.Contact, error)
	ListByBusiness(businessID int) ([]*model.Contact, error)
	Delete(businessID, contactID int) error
}

type ContactRepository struct {
	DB *sql.DB
}

func (r *ContactRepository) Create(c *model.Contact) error {
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO contacts (business_id, type, value, source, is_primary, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.BusinessID, c.Type, c.Value, c.Source, c.IsPrimary, c.CreatedAt).Scan(&c.ID)
}

// Exists checks the (business_id, type, value) uniqueness key. Callers guard
// inserts with it so a duplicate never reaches the storage constraint.
func (r *ContactRepository) Exists(businessID int, contactType, value string) (bool, error) {
	query := `SELECT 1 FROM contacts WHERE business_id=$1 AND type=$2 AND value=$3 LIMIT 1`
	var tmp int
	err := r.DB.QueryRow(query, businessID, contactType, value).Scan(&tmp)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindByBusinessAndType returns the first contact of the given type for a
// business, or nil, nil when the business has none.
func (r *ContactRepository) FindByBusinessAndType(businessID int, contactType string) (*model.Contact, error) {
	query := `
        SELECT id, business_id, type, value, source, is_primary, created_at, updated_at
        FROM contacts
        WHERE business_id=$1 AND type=$2
        ORDER BY id
        LIMIT 1
    `
	var c model.Contact
	err := r.DB.QueryRow(query, businessID, contactType).Scan(
		&c.ID, &c.BusinessID, &c.Type, &c.Value, &c.Source, &c.IsPrimary, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) ListByBusiness(businessID int) ([]*model.Contact, error) {
	query := `
        SELECT id, business_id, type, value, source, is_primary, created_at, updated_at
        FROM contacts
        WHERE business_id=$1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Type, &c.Value, &c.Source, &c.IsPrimary, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) Delete(businessID, contactID int) error {
	res, err := r.DB.Exec(`DELETE FROM contacts WHERE id=$1 AND business_id=$2`, contactID, businessID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("contact", contactID)
	}
	return nil
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)

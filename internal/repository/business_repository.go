package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
)

type BusinessRepositoryInterface interface {
	Create(b *model.Business) error
	GetByID(id int) (*model.Business, error)
	GetByName(name string) (*model.Business, error)
	List(offset, limit int, status, search string) ([]*model.Business, int, error)
	ListByStatus(status string) ([]*model.Business, error)
	ListByIDs(ids []int) ([]*model.Business, error)
	ListAll() ([]*model.Business, error)
	Update(b *model.Business) error
	UpdateStatus(id int, status string) error
	UpdateWebsite(id int, website string) error
	Delete(id int) error
	CountByStatus() (map[string]int, error)
}

type BusinessRepository struct {
	DB *sql.DB
}

const businessColumns = `id, name, COALESCE(website, ''), COALESCE(email, ''), COALESCE(phone_number, ''), COALESCE(address, ''), status, created_at, updated_at`

func scanBusiness(row interface{ Scan(...any) error }) (*model.Business, error) {
	var b model.Business
	err := row.Scan(&b.ID, &b.Name, &b.Website, &b.Email, &b.PhoneNumber, &b.Address, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) Create(b *model.Business) error {
	b.CreatedAt = time.Now()
	if b.Status == "" {
		b.Status = model.BusinessStatusPendingScan
	}
	query := `
        INSERT INTO businesses (name, website, email, phone_number, address, status, created_at)
        VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query, b.Name, b.Website, b.Email, b.PhoneNumber, b.Address, b.Status, b.CreatedAt).Scan(&b.ID)
}

func (r *BusinessRepository) GetByID(id int) (*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id=$1`
	b, err := scanBusiness(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("business", id)
		}
		return nil, err
	}
	return b, nil
}

// GetByName returns nil, nil when no business carries the name.
func (r *BusinessRepository) GetByName(name string) (*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE name=$1`
	b, err := scanBusiness(r.DB.QueryRow(query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (r *BusinessRepository) List(offset, limit int, status, search string) ([]*model.Business, int, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM businesses WHERE 1=1`
	args := []any{}
	argPos := 1

	if status != "" {
		cond := fmt.Sprintf(" AND status=$%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, status)
		argPos++
	}
	if search != "" {
		cond := fmt.Sprintf(" AND (name ILIKE $%d OR address ILIKE $%d)", argPos, argPos)
		query += cond
		countQuery += cond
		args = append(args, "%"+search+"%")
		argPos++
	}

	var total int
	if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	businesses := []*model.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, err
		}
		businesses = append(businesses, b)
	}
	return businesses, total, rows.Err()
}

func (r *BusinessRepository) ListByStatus(status string) ([]*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE status=$1 ORDER BY id`
	return r.queryBusinesses(query, status)
}

func (r *BusinessRepository) ListByIDs(ids []int) ([]*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = ANY($1) ORDER BY id`
	return r.queryBusinesses(query, pq.Array(ids))
}

func (r *BusinessRepository) ListAll() ([]*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses ORDER BY id`
	return r.queryBusinesses(query)
}

func (r *BusinessRepository) queryBusinesses(query string, args ...any) ([]*model.Business, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []*model.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

func (r *BusinessRepository) Update(b *model.Business) error {
	query := `
        UPDATE businesses
        SET name=$1, website=NULLIF($2, ''), email=NULLIF($3, ''), phone_number=NULLIF($4, ''),
            address=NULLIF($5, ''), status=$6, updated_at=NOW()
        WHERE id=$7
    `
	_, err := r.DB.Exec(query, b.Name, b.Website, b.Email, b.PhoneNumber, b.Address, b.Status, b.ID)
	return err
}

func (r *BusinessRepository) UpdateStatus(id int, status string) error {
	query := `UPDATE businesses SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

func (r *BusinessRepository) UpdateWebsite(id int, website string) error {
	query := `UPDATE businesses SET website=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, website, id)
	return err
}

func (r *BusinessRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM businesses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("business", id)
	}
	return nil
}

func (r *BusinessRepository) CountByStatus() (map[string]int, error) {
	rows, err := r.DB.Query(`SELECT status, COUNT(*) FROM businesses GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{
		model.BusinessStatusPendingScan: 0,
		model.BusinessStatusScanned:     0,
		model.BusinessStatusActive:      0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

var _ BusinessRepositoryInterface = (*BusinessRepository)(nil)

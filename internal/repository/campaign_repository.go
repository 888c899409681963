package repository

import (
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
	"github.com/openoutreach/outreach-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	GetByName(name string) (*model.Campaign, error)
	List(offset, limit int, status string) ([]*model.Campaign, int, error)
	ListCreatedSince(since time.Time) ([]*model.Campaign, error)
	Update(c *model.Campaign) error
	UpdateStatus(id int, status string) error
	Delete(id int) error
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (name, message_template, status, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.Name, c.MessageTemplate, c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, name, message_template, status, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.MessageTemplate, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("campaign", id)
		}
		return nil, err
	}
	return &c, nil
}

// GetByName returns nil, nil when no campaign carries the name.
func (r *CampaignRepository) GetByName(name string) (*model.Campaign, error) {
	query := `
        SELECT id, name, message_template, status, created_at, updated_at
        FROM campaigns WHERE name=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, name).Scan(&c.ID, &c.Name, &c.MessageTemplate, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) List(offset, limit int, status string) ([]*model.Campaign, int, error) {
	query := `SELECT id, name, message_template, status, created_at, updated_at FROM campaigns WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	args := []any{}
	argPos := 1

	if status != "" {
		cond := fmt.Sprintf(" AND status=$%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, status)
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

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.ID, &c.Name, &c.MessageTemplate, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, total, rows.Err()
}

func (r *CampaignRepository) ListCreatedSince(since time.Time) ([]*model.Campaign, error) {
	query := `
        SELECT id, name, message_template, status, created_at, updated_at
        FROM campaigns
        WHERE created_at >= $1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.ID, &c.Name, &c.MessageTemplate, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET name=$1, message_template=$2, status=$3, updated_at=NOW()
        WHERE id=$4
    `
	_, err := r.DB.Exec(query, c.Name, c.MessageTemplate, c.Status, c.ID)
	return err
}

func (r *CampaignRepository) UpdateStatus(id int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

func (r *CampaignRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("campaign", id)
	}
	return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)

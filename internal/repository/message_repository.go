package repository

import (
	"database/sql"
	"time"

	"github.com/openoutreach/outreach-backend/internal/model"
)

type MessageRepositoryInterface interface {
	Create(m *model.Message) error
	Exists(campaignID, businessID, contactID int, platform string) (bool, error)
	MarkSent(id int, sentAt time.Time) error
	MarkFailed(id int) error
	ListByCampaign(campaignID int) ([]*model.Message, error)
	StatsByCampaign(campaignID int) (map[string]int, error)
}

type MessageRepository struct {
	DB *sql.DB
}

func (r *MessageRepository) Create(m *model.Message) error {
	if m.Status == "" {
		m.Status = model.MessageStatusPending
	}
	query := `
        INSERT INTO messages (campaign_id, business_id, contact_id, platform, personalized_content, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRow(
		query,
		m.CampaignID, m.BusinessID, m.ContactID, m.Platform, m.PersonalizedContent, m.Status,
	).Scan(&m.ID)
}

// Exists checks the (campaign_id, business_id, contact_id, platform)
// uniqueness key; dispatch skips covered tuples instead of double-sending.
func (r *MessageRepository) Exists(campaignID, businessID, contactID int, platform string) (bool, error) {
	query := `
        SELECT 1 FROM messages
        WHERE campaign_id=$1 AND business_id=$2 AND contact_id=$3 AND platform=$4
        LIMIT 1
    `
	var tmp int
	err := r.DB.QueryRow(query, campaignID, businessID, contactID, platform).Scan(&tmp)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *MessageRepository) MarkSent(id int, sentAt time.Time) error {
	query := `UPDATE messages SET status=$1, sent_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, model.MessageStatusSent, sentAt, id)
	return err
}

func (r *MessageRepository) MarkFailed(id int) error {
	query := `UPDATE messages SET status=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, model.MessageStatusFailed, id)
	return err
}

func (r *MessageRepository) ListByCampaign(campaignID int) ([]*model.Message, error) {
	query := `
        SELECT id, campaign_id, business_id, contact_id, platform, personalized_content, status, sent_at, opened_at, replied_at
        FROM messages
        WHERE campaign_id=$1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		m := &model.Message{}
		err := rows.Scan(
			&m.ID, &m.CampaignID, &m.BusinessID, &m.ContactID, &m.Platform,
			&m.PersonalizedContent, &m.Status, &m.SentAt, &m.OpenedAt, &m.RepliedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) StatsByCampaign(campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM messages WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{
		"total":                     0,
		model.MessageStatusPending: 0,
		model.MessageStatusSent:    0,
		model.MessageStatusFailed:  0,
		model.MessageStatusOpened:  0,
		model.MessageStatusReplied: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		if _, ok := stats[status]; ok {
			stats[status] = count
		}
		stats["total"] += count
	}
	return stats, rows.Err()
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)

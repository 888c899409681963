package model

import "time"

// Message statuses. Opened/replied are set by out-of-band tracking.
const (
	MessageStatusPending = "pending"
	MessageStatusSent    = "sent"
	MessageStatusFailed  = "failed"
	MessageStatusOpened  = "opened"
	MessageStatusReplied = "replied"
)

// Message is one outreach attempt for a campaign/business/contact/platform
// tuple. The tuple is unique; dispatch is idempotent against it.
type Message struct {
	ID                  int        `db:"id" json:"id"`
	CampaignID          int        `db:"campaign_id" json:"campaign_id"`
	BusinessID          int        `db:"business_id" json:"business_id"`
	ContactID           int        `db:"contact_id" json:"contact_id"`
	Platform            string     `db:"platform" json:"platform"`
	PersonalizedContent string     `db:"personalized_content" json:"personalized_content"`
	Status              string     `db:"status" json:"status"`
	SentAt              *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	OpenedAt            *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	RepliedAt           *time.Time `db:"replied_at" json:"replied_at,omitempty"`
}

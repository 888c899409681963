package model

import "time"

// Business lifecycle statuses.
const (
	BusinessStatusPendingScan = "pending_scan"
	BusinessStatusScanned     = "scanned"
	BusinessStatusActive      = "active"
)

type Business struct {
	ID          int        `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Website     string     `db:"website" json:"website,omitempty"`
	Email       string     `db:"email" json:"email,omitempty"`
	PhoneNumber string     `db:"phone_number" json:"phone_number,omitempty"`
	Address     string     `db:"address" json:"address,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

package model

import "time"

// Contact types. Each value doubles as a dispatch platform name.
const (
	ContactTypeEmail       = "email"
	ContactTypeInstagram   = "instagram"
	ContactTypeFacebook    = "facebook"
	ContactTypeTwitter     = "twitter"
	ContactTypeLinkedIn    = "linkedin"
	ContactTypePhone       = "phone"
	ContactTypeContactForm = "contact_form"
)

// Contact sources.
const (
	ContactSourceCSV           = "csv"
	ContactSourceScannedSite   = "scanned_website"
	ContactSourceScannedSocial = "scanned_social_media"
	ContactSourceManual        = "manual"
)

// ValidContactTypes lists every accepted contact type.
var ValidContactTypes = []string{
	ContactTypeEmail,
	ContactTypeInstagram,
	ContactTypeFacebook,
	ContactTypeTwitter,
	ContactTypeLinkedIn,
	ContactTypePhone,
	ContactTypeContactForm,
}

// ValidContactSources lists every accepted contact source.
var ValidContactSources = []string{
	ContactSourceCSV,
	ContactSourceScannedSite,
	ContactSourceScannedSocial,
	ContactSourceManual,
}

// Contact is one channel for reaching a business. (business_id, type, value)
// is unique; repeated scans and re-uploads must not create duplicates.
type Contact struct {
	ID         int        `db:"id" json:"id"`
	BusinessID int        `db:"business_id" json:"business_id"`
	Type       string     `db:"type" json:"type"`
	Value      string     `db:"value" json:"value"`
	Source     string     `db:"source" json:"source"`
	IsPrimary  bool       `db:"is_primary" json:"is_primary"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

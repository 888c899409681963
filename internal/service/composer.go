package service

import (
	"strings"

	"github.com/openoutreach/outreach-backend/internal/model"
)

// Compose renders a message template for a business/contact pair by literal
// placeholder substitution. It is total: absent fields substitute to the
// empty string, unknown tokens pass through, and a nil business or contact
// simply contributes nothing.
func Compose(template string, business *model.Business, contact *model.Contact) string {
	if business == nil {
		business = &model.Business{}
	}
	if contact == nil {
		contact = &model.Contact{}
	}

	replacements := []struct {
		token string
		value string
	}{
		{"{business_name}", business.Name},
		{"{website}", business.Website},
		{"{email}", business.Email},
		{"{phone}", business.PhoneNumber},
		{"{address}", business.Address},
		{"{contact_value}", contact.Value},
		{"{contact_type}", contact.Type},
	}

	result := template
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.token, r.value)
	}
	return result
}

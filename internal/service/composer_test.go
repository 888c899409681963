package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/service"
)

func TestComposeReplacesAllPlaceholders(t *testing.T) {
	business := &model.Business{
		Name:        "Acme",
		Website:     "acme.com",
		Email:       "info@acme.com",
		PhoneNumber: "555-1234",
		Address:     "1 Main St",
	}
	contact := &model.Contact{Type: "email", Value: "info@acme.com"}

	template := "Hi {business_name} ({website}, {email}, {phone}, {address}) via {contact_type}: {contact_value}"
	got := service.Compose(template, business, contact)

	assert.Equal(t, "Hi Acme (acme.com, info@acme.com, 555-1234, 1 Main St) via email: info@acme.com", got)
}

func TestComposeExampleFromDocs(t *testing.T) {
	business := &model.Business{Name: "Acme", Website: "acme.com"}
	contact := &model.Contact{Type: "email", Value: "hi@acme.com"}

	got := service.Compose("Hi {business_name}, visit {website}", business, contact)
	assert.Equal(t, "Hi Acme, visit acme.com", got)
}

func TestComposeMissingFieldsBecomeEmpty(t *testing.T) {
	business := &model.Business{Name: "Acme"}
	contact := &model.Contact{}

	got := service.Compose("{business_name}|{website}|{phone}", business, contact)
	assert.Equal(t, "Acme||", got)
}

func TestComposeLeavesUnknownTokensAlone(t *testing.T) {
	got := service.Compose("Hello {nobody}, {business_name}", &model.Business{Name: "Acme"}, &model.Contact{})
	assert.Equal(t, "Hello {nobody}, Acme", got)
}

func TestComposeTemplateWithoutPlaceholders(t *testing.T) {
	template := "No placeholders here."
	got := service.Compose(template, &model.Business{Name: "Acme"}, &model.Contact{Value: "x"})
	assert.Equal(t, template, got)
}

func TestComposeNilArgumentsNeverPanic(t *testing.T) {
	got := service.Compose("Hi {business_name}{contact_value}", nil, nil)
	assert.Equal(t, "Hi ", got)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	for _, ok := range []string{"+15550199", "+1 (555) 010-2030", "5550199"} {
		assert.True(t, ValidatePhone(ok), ok)
	}
	for _, bad := range []string{"", "+0123", "call me", "+1234567890123456"} {
		assert.False(t, ValidatePhone(bad), bad)
	}
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	type item struct {
		Qty int `json:"quantity" validate:"gte=1"`
	}
	type form struct {
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone" validate:"omitempty,phone"`
		Items []item `json:"items" validate:"min=1,dive"`
	}
	v := NewValidator()

	errs := FieldErrors(v.Struct(form{Email: "nope", Phone: "abc", Items: []item{{Qty: 0}}}))
	assert.Equal(t, "must be a valid email", errs["email"])
	assert.Equal(t, "must be a valid phone number", errs["phone"])
	assert.Equal(t, "must be at least 1", errs["items[0].quantity"])

	errs = FieldErrors(v.Struct(form{Email: "a@b.co"}))
	assert.Equal(t, "must have at least 1 entries", errs["items"])
}

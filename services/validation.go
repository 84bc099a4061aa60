package services

import (
	"strings"

	"salonsmart-backend/utils"

	"github.com/go-playground/validator/v10"
)

// checkStruct runs the validator tags on v and converts failures into a
// *ValidationError.
func checkStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return &ValidationError{Fields: utils.FieldErrors(err)}
	}
	return nil
}

// trimmed returns nil for a blank optional string.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

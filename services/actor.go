package services

import (
	"salonsmart-backend/models"

	"github.com/google/uuid"
)

// Actor is the authenticated user a service call is made on behalf of.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

func (a Actor) IsOperator() bool {
	return a.Role == models.RoleAdmin
}

func requireOperator(actor Actor) error {
	if !actor.IsOperator() {
		return ErrForbidden
	}
	return nil
}

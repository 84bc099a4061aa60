package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleCustomer
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name" validate:"required,max=100"`
	Phone    string    `json:"phone" validate:"omitempty,phone"`

	Role Role `gorm:"type:varchar(20);not null" json:"role" validate:"oneof=admin customer"` // 'admin' or 'customer'

	LastLogin *time.Time `json:"last_login"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

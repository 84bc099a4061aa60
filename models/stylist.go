package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultStylistRole   = "Stylist"
	DefaultStylistRating = 5.0
)

type Stylist struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name" validate:"required,max=100"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Phone       *string   `json:"phone" validate:"omitempty,phone"`
	Role        string    `gorm:"type:varchar(50);default:'Stylist'" json:"role" validate:"max=50"`
	Specialties []string  `gorm:"type:text;serializer:json" json:"specialties" validate:"max=20,dive,required,max=50"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	Rating      float64   `gorm:"type:decimal(2,1)" json:"rating" validate:"gte=0,lte=5"`
	AvatarURL   *string   `json:"avatar_url" validate:"omitempty,url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Stylist) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (s *Stylist) Summary() *StylistSummary {
	return &StylistSummary{Name: s.Name, AvatarURL: s.AvatarURL}
}

type StylistSummary struct {
	Name      string  `json:"name" validate:"required,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

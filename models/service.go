package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service categories offered in the salon menu.
const (
	CategoryHair      = "Hair"
	CategoryTreatment = "Treatment"
	CategoryNails     = "Nails"
	CategorySkincare  = "Skincare"
	CategoryMassage   = "Massage"
)

var ServiceCategories = []string{
	CategoryHair,
	CategoryTreatment,
	CategoryNails,
	CategorySkincare,
	CategoryMassage,
}

const (
	MinServiceDuration = 1
	MaxServiceDuration = 480 // 8 hours
)

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name" validate:"required,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	Duration    int       `gorm:"not null" json:"duration" validate:"gte=1,lte=480"` // in minutes
	Category    string    `gorm:"default:'Hair'" json:"category" validate:"oneof=Hair Treatment Nails Skincare Massage"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,url"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Summary is the slice of a service shown next to an appointment.
func (s *Service) Summary() *ServiceSummary {
	return &ServiceSummary{Name: s.Name, Price: s.Price, Duration: s.Duration}
}

type ServiceSummary struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Price    float64 `json:"price" validate:"gte=0"`
	Duration int     `json:"duration" validate:"gte=1,lte=480"`
}

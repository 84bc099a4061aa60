package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:mm
	DateFormat = "2006-01-02" // yyyy-MM-dd
)

const MaxNotesLength = 500

type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID      uuid.UUID         `gorm:"type:uuid;index;not null" json:"customer_id"`
	ServiceID       uuid.UUID         `gorm:"type:uuid;index;not null" json:"service_id" validate:"required"`
	StylistID       *uuid.UUID        `gorm:"type:uuid;index" json:"stylist_id"`
	AppointmentDate string            `gorm:"type:varchar(10);index;not null" json:"appointment_date" validate:"required,datetime=2006-01-02"`
	AppointmentTime string            `gorm:"type:varchar(5);not null" json:"appointment_time" validate:"required,datetime=15:04"`
	Status          AppointmentStatus `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status" validate:"oneof=pending confirmed completed cancelled"`
	Notes           *string           `json:"notes" validate:"omitempty,max=500"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Filled in by the service layer for list views, never stored.
	Service *ServiceSummary `gorm:"-" json:"services,omitempty"`
	Stylist *StylistSummary `gorm:"-" json:"stylists,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// IsActive reports whether the appointment still holds its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true while the appointment has not been served or cancelled.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanTransitionTo encodes pending -> confirmed -> completed and
// pending|confirmed -> cancelled. Completed and cancelled are terminal.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Date parses AppointmentDate in loc.
func (a *Appointment) Date(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, a.AppointmentDate, loc)
}

func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

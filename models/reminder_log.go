// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderTypeReminder     = "reminder"
	ReminderTypeConfirmation = "confirmation"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

const (
	ReminderStatusSent   = "sent"
	ReminderStatusFailed = "failed"
)

type ReminderTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Type      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"type" validate:"oneof=reminder confirmation"`
	Message   string    `gorm:"type:text;not null" json:"message" validate:"required,max=1000"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointment_id"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	TemplateID    uuid.UUID `gorm:"type:uuid;index;not null" json:"template_id"`
	Type          string    `gorm:"type:varchar(20)" json:"type"`    // reminder, confirmation
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"`  // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"error_message"`
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt        time.Time `json:"sent_at"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

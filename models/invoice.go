package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

type Invoice struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string     `gorm:"uniqueIndex;not null" json:"invoice_number"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	ClientName    string     `gorm:"not null" json:"client_name" validate:"required,max=100"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id"`
	InvoiceDate   string     `gorm:"type:varchar(10);index;not null" json:"invoice_date" validate:"required,datetime=2006-01-02"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount float64 `gorm:"type:decimal(10,2);default:0.0" json:"discount" validate:"gte=0"`
	Tax      float64 `gorm:"type:decimal(10,2);default:0.0" json:"tax" validate:"gte=0,lte=100"`
	Total    float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status" validate:"oneof=paid pending overdue"`
	PaymentMethod string        `gorm:"type:varchar(20)" json:"payment_method" validate:"omitempty,oneof=card cash"`
	Notes         string        `json:"notes"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items" validate:"required,min=1,dive"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Recalculate sets item totals, Subtotal and Total from the items.
// Tax is a percentage of the subtotal; Discount is an absolute amount.
func (i *Invoice) Recalculate() {
	subtotal := 0.0
	for idx := range i.Items {
		item := &i.Items[idx]
		item.TotalPrice = item.UnitPrice * float64(item.Quantity)
		subtotal += item.TotalPrice
	}
	i.Subtotal = subtotal
	i.Total = subtotal - i.Discount + (subtotal * i.Tax / 100)
}

type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null" json:"invoice_id"`
	ServiceID   uuid.UUID `gorm:"type:uuid;index;not null" json:"service_id"`
	ServiceName string    `gorm:"not null" json:"service_name" validate:"required"`
	Quantity    int       `gorm:"default:1" json:"quantity" validate:"gte=1"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null" json:"unit_price" validate:"gte=0"`
	TotalPrice  float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ExpenseCategories = []string{
	"Products",
	"Equipment",
	"Training",
	"Utilities",
	"Marketing",
	"Insurance",
	"Decor",
}

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Description string    `gorm:"not null" json:"description" validate:"required,max=200"`
	Category    string    `gorm:"type:varchar(30);index;not null" json:"category" validate:"oneof=Products Equipment Training Utilities Marketing Insurance Decor"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount" validate:"gt=0"`
	ExpenseDate string    `gorm:"type:varchar(10);index;not null" json:"expense_date" validate:"required,datetime=2006-01-02"`
	Notes       string    `json:"notes" validate:"max=500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

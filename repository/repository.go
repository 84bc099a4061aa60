// Package repository is the persistence boundary. Each entity has an explicit
// interface with two implementations: an in-memory store for demo mode and
// tests, and a GORM store for PostgreSQL/SQLite.
package repository

import (
	"context"

	"salonsmart-backend/models"

	"github.com/google/uuid"
)

type ServiceFilter struct {
	ActiveOnly bool
	Category   string
}

type StylistFilter struct {
	AvailableOnly bool
}

// AppointmentFilter narrows appointment lists. Dates are inclusive yyyy-MM-dd bounds.
type AppointmentFilter struct {
	CustomerID *uuid.UUID
	StylistID  *uuid.UUID
	Date       string
	From       string
	To         string
	Statuses   []models.AppointmentStatus
}

type InvoiceFilter struct {
	Status models.PaymentStatus
	From   string
	To     string
}

type ExpenseFilter struct {
	Category string
	From     string
	To       string
}

// ServiceRepository lists services ordered by name.
type ServiceRepository interface {
	List(ctx context.Context, filter ServiceFilter) ([]models.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StylistRepository lists stylists ordered by name.
type StylistRepository interface {
	List(ctx context.Context, filter StylistFilter) ([]models.Stylist, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Stylist, error)
	Create(ctx context.Context, stylist *models.Stylist) error
	Update(ctx context.Context, stylist *models.Stylist) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AppointmentRepository lists appointments ordered by date then time.
// There is no Delete: cancelling is a status update.
type AppointmentRepository interface {
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	Update(ctx context.Context, appointment *models.Appointment) error
}

// InvoiceRepository lists invoices newest first, items included.
type InvoiceRepository interface {
	List(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseRepository lists expenses newest first.
type ExpenseRepository interface {
	List(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type ReminderTemplateRepository interface {
	List(ctx context.Context) ([]models.ReminderTemplate, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ReminderTemplate, error)
	GetByType(ctx context.Context, templateType string) (*models.ReminderTemplate, error)
	Create(ctx context.Context, template *models.ReminderTemplate) error
	Update(ctx context.Context, template *models.ReminderTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReminderLogRepository interface {
	Create(ctx context.Context, log *models.ReminderLog) error
	List(ctx context.Context, limit int) ([]models.ReminderLog, error)
	Exists(ctx context.Context, appointmentID uuid.UUID, reminderType string) (bool, error)
}

// MonthlyAmount is a sum for one yyyy-MM month.
type MonthlyAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type ServiceStat struct {
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"name"`
	Bookings  int       `json:"bookings"`
	Revenue   float64   `json:"revenue"`
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ReportRepository computes aggregates over an inclusive yyyy-MM-dd range.
type ReportRepository interface {
	MonthlyRevenue(ctx context.Context, from, to string) ([]MonthlyAmount, error)
	MonthlyExpenses(ctx context.Context, from, to string) ([]MonthlyAmount, error)
	ServiceStats(ctx context.Context, from, to string) ([]ServiceStat, error)
	ExpensesByCategory(ctx context.Context, from, to string) ([]CategoryAmount, error)
	AppointmentCount(ctx context.Context, from, to string) (int64, error)
}

// Store groups the repositories of one backend.
type Store struct {
	Services          ServiceRepository
	Stylists          StylistRepository
	Appointments      AppointmentRepository
	Invoices          InvoiceRepository
	Expenses          ExpenseRepository
	Users             UserRepository
	ReminderTemplates ReminderTemplateRepository
	ReminderLogs      ReminderLogRepository
	Reports           ReportRepository
}

func matchesStatus(status models.AppointmentStatus, statuses []models.AppointmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

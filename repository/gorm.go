package repository

import (
	"context"
	"errors"
	"fmt"

	"salonsmart-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewGormStore returns a Store backed by db. The schema is expected to be
// migrated already (see config.Migrate).
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Services:          &gormServiceRepo{db: db},
		Stylists:          &gormStylistRepo{db: db},
		Appointments:      &gormAppointmentRepo{db: db},
		Invoices:          &gormInvoiceRepo{db: db},
		Expenses:          &gormExpenseRepo{db: db},
		Users:             &gormUserRepo{db: db},
		ReminderTemplates: &gormTemplateRepo{db: db},
		ReminderLogs:      &gormLogRepo{db: db},
		Reports:           &gormReportRepo{db: db},
	}
}

func readError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func writeError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s: %w", ErrWrite, op, ErrDuplicate)
	}
	return fmt.Errorf("%w: %s: %v", ErrWrite, op, err)
}

func first[T any](ctx context.Context, db *gorm.DB, op string, query string, args ...any) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		return nil, readError(op, err)
	}
	return &row, nil
}

func create[T any](ctx context.Context, db *gorm.DB, op string, row *T) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return writeError(op, err)
	}
	return nil
}

// update writes every column of row. Save would insert a missing row, so a
// plain UPDATE is used and zero affected rows means the id is unknown.
func update[T any](ctx context.Context, db *gorm.DB, op string, id uuid.UUID, row *T) error {
	res := db.WithContext(ctx).Model(row).
		Where("id = ?", id).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(row)
	if res.Error != nil {
		return writeError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, id)
	}
	return nil
}

func remove[T any](ctx context.Context, db *gorm.DB, op string, id uuid.UUID) error {
	var row T
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&row)
	if res.Error != nil {
		return writeError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, id)
	}
	return nil
}

// Services

type gormServiceRepo struct {
	db *gorm.DB
}

func (r *gormServiceRepo) List(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	q := r.db.WithContext(ctx).Model(&models.Service{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	var out []models.Service
	if err := q.Order("LOWER(name) ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, readError("ServiceRepository.List", err)
	}
	return out, nil
}

func (r *gormServiceRepo) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return first[models.Service](ctx, r.db, "ServiceRepository.Get", "id = ?", id)
}

func (r *gormServiceRepo) Create(ctx context.Context, service *models.Service) error {
	return create(ctx, r.db, "ServiceRepository.Create", service)
}

func (r *gormServiceRepo) Update(ctx context.Context, service *models.Service) error {
	return update(ctx, r.db, "ServiceRepository.Update", service.ID, service)
}

func (r *gormServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return remove[models.Service](ctx, r.db, "ServiceRepository.Delete", id)
}

// Stylists

type gormStylistRepo struct {
	db *gorm.DB
}

func (r *gormStylistRepo) List(ctx context.Context, filter StylistFilter) ([]models.Stylist, error) {
	q := r.db.WithContext(ctx).Model(&models.Stylist{})
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	var out []models.Stylist
	if err := q.Order("LOWER(name) ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, readError("StylistRepository.List", err)
	}
	return out, nil
}

func (r *gormStylistRepo) Get(ctx context.Context, id uuid.UUID) (*models.Stylist, error) {
	return first[models.Stylist](ctx, r.db, "StylistRepository.Get", "id = ?", id)
}

func (r *gormStylistRepo) Create(ctx context.Context, stylist *models.Stylist) error {
	return create(ctx, r.db, "StylistRepository.Create", stylist)
}

func (r *gormStylistRepo) Update(ctx context.Context, stylist *models.Stylist) error {
	return update(ctx, r.db, "StylistRepository.Update", stylist.ID, stylist)
}

func (r *gormStylistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return remove[models.Stylist](ctx, r.db, "StylistRepository.Delete", id)
}

// Appointments

type gormAppointmentRepo struct {
	db *gorm.DB
}

func (r *gormAppointmentRepo) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.StylistID != nil {
		q = q.Where("stylist_id = ?", *filter.StylistID)
	}
	if filter.Date != "" {
		q = q.Where("appointment_date = ?", filter.Date)
	}
	if filter.From != "" {
		q = q.Where("appointment_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("appointment_date <= ?", filter.To)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	var out []models.Appointment
	err := q.Order("appointment_date ASC").
		Order("appointment_time ASC").
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, readError("AppointmentRepository.List", err)
	}
	return out, nil
}

func (r *gormAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return first[models.Appointment](ctx, r.db, "AppointmentRepository.Get", "id = ?", id)
}

func (r *gormAppointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.Status == "" {
		appointment.Status = models.StatusPending
	}
	return create(ctx, r.db, "AppointmentRepository.Create", appointment)
}

func (r *gormAppointmentRepo) Update(ctx context.Context, appointment *models.Appointment) error {
	return update(ctx, r.db, "AppointmentRepository.Update", appointment.ID, appointment)
}

// Invoices

type gormInvoiceRepo struct {
	db *gorm.DB
}

func (r *gormInvoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if filter.Status != "" {
		q = q.Where("payment_status = ?", filter.Status)
	}
	if filter.From != "" {
		q = q.Where("invoice_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("invoice_date <= ?", filter.To)
	}
	var out []models.Invoice
	if err := q.Order("invoice_date DESC").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, readError("InvoiceRepository.List", err)
	}
	return out, nil
}

func (r *gormInvoiceRepo) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).Preload("Items").First(&inv, "id = ?", id).Error; err != nil {
		return nil, readError("InvoiceRepository.Get", err)
	}
	return &inv, nil
}

func (r *gormInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	return create(ctx, r.db, "InvoiceRepository.Create", invoice)
}

// Update rewrites the invoice row and replaces its items in one transaction.
func (r *gormInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	const op = "InvoiceRepository.Update"
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := update(ctx, tx, op, invoice.ID, invoice); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return writeError(op, err)
		}
		for idx := range invoice.Items {
			item := &invoice.Items[idx]
			item.ID = uuid.Nil
			item.InvoiceID = invoice.ID
		}
		if len(invoice.Items) > 0 {
			if err := tx.Create(&invoice.Items).Error; err != nil {
				return writeError(op, err)
			}
		}
		return nil
	})
}

func (r *gormInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "InvoiceRepository.Delete"
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return writeError(op, err)
		}
		return remove[models.Invoice](ctx, tx, op, id)
	})
}

// Expenses

type gormExpenseRepo struct {
	db *gorm.DB
}

func (r *gormExpenseRepo) List(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	q := r.db.WithContext(ctx).Model(&models.Expense{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.From != "" {
		q = q.Where("expense_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("expense_date <= ?", filter.To)
	}
	var out []models.Expense
	if err := q.Order("expense_date DESC").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, readError("ExpenseRepository.List", err)
	}
	return out, nil
}

func (r *gormExpenseRepo) Get(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	return first[models.Expense](ctx, r.db, "ExpenseRepository.Get", "id = ?", id)
}

func (r *gormExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	return create(ctx, r.db, "ExpenseRepository.Create", expense)
}

func (r *gormExpenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	return update(ctx, r.db, "ExpenseRepository.Update", expense.ID, expense)
}

func (r *gormExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return remove[models.Expense](ctx, r.db, "ExpenseRepository.Delete", id)
}

// Users

type gormUserRepo struct {
	db *gorm.DB
}

func (r *gormUserRepo) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return first[models.User](ctx, r.db, "UserRepository.Get", "id = ?", id)
}

func (r *gormUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](ctx, r.db, "UserRepository.GetByEmail", "LOWER(email) = LOWER(?)", email)
}

func (r *gormUserRepo) Create(ctx context.Context, user *models.User) error {
	return create(ctx, r.db, "UserRepository.Create", user)
}

func (r *gormUserRepo) Update(ctx context.Context, user *models.User) error {
	return update(ctx, r.db, "UserRepository.Update", user.ID, user)
}

// Reminder templates

type gormTemplateRepo struct {
	db *gorm.DB
}

func (r *gormTemplateRepo) List(ctx context.Context) ([]models.ReminderTemplate, error) {
	var out []models.ReminderTemplate
	if err := r.db.WithContext(ctx).Order("type ASC").Find(&out).Error; err != nil {
		return nil, readError("ReminderTemplateRepository.List", err)
	}
	return out, nil
}

func (r *gormTemplateRepo) Get(ctx context.Context, id uuid.UUID) (*models.ReminderTemplate, error) {
	return first[models.ReminderTemplate](ctx, r.db, "ReminderTemplateRepository.Get", "id = ?", id)
}

func (r *gormTemplateRepo) GetByType(ctx context.Context, templateType string) (*models.ReminderTemplate, error) {
	return first[models.ReminderTemplate](ctx, r.db, "ReminderTemplateRepository.GetByType", "type = ?", templateType)
}

func (r *gormTemplateRepo) Create(ctx context.Context, template *models.ReminderTemplate) error {
	return create(ctx, r.db, "ReminderTemplateRepository.Create", template)
}

func (r *gormTemplateRepo) Update(ctx context.Context, template *models.ReminderTemplate) error {
	return update(ctx, r.db, "ReminderTemplateRepository.Update", template.ID, template)
}

func (r *gormTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return remove[models.ReminderTemplate](ctx, r.db, "ReminderTemplateRepository.Delete", id)
}

// Reminder logs

type gormLogRepo struct {
	db *gorm.DB
}

func (r *gormLogRepo) Create(ctx context.Context, log *models.ReminderLog) error {
	return create(ctx, r.db, "ReminderLogRepository.Create", log)
}

func (r *gormLogRepo) List(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	q := r.db.WithContext(ctx).Order("sent_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.ReminderLog
	if err := q.Find(&out).Error; err != nil {
		return nil, readError("ReminderLogRepository.List", err)
	}
	return out, nil
}

func (r *gormLogRepo) Exists(ctx context.Context, appointmentID uuid.UUID, reminderType string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("appointment_id = ? AND type = ? AND status = ?", appointmentID, reminderType, models.ReminderStatusSent).
		Count(&n).Error
	if err != nil {
		return false, readError("ReminderLogRepository.Exists", err)
	}
	return n > 0, nil
}

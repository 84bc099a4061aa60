package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"salonsmart-backend/models"

	"github.com/google/uuid"
)

// memTable is a mutex-guarded map of rows keyed by id. Rows are cloned on the
// way in and out so callers never share memory with the table.
type memTable[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]T
	clone func(T) T
}

func newMemTable[T any](clone func(T) T) *memTable[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &memTable[T]{rows: make(map[uuid.UUID]T), clone: clone}
}

func (t *memTable[T]) get(id uuid.UUID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return row, false
	}
	return t.clone(row), true
}

func (t *memTable[T]) find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if match(row) {
			return t.clone(row), true
		}
	}
	var zero T
	return zero, false
}

func (t *memTable[T]) list(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

// insert adds row under id. conflict, when set, is checked against every
// existing row under the same lock.
func (t *memTable[T]) insert(id uuid.UUID, row T, conflict func(T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("%w: id %s already exists", ErrDuplicate, id)
	}
	if conflict != nil {
		for _, existing := range t.rows {
			if conflict(existing) {
				return ErrDuplicate
			}
		}
	}
	t.rows[id] = t.clone(row)
	return nil
}

func (t *memTable[T]) replace(id uuid.UUID, row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = t.clone(row)
	return true
}

func (t *memTable[T]) remove(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func stamp(id *uuid.UUID, createdAt, updatedAt *time.Time) {
	now := time.Now()
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt != nil && createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}

func notFound(op string, id uuid.UUID) error {
	return fmt.Errorf("%w: %s: id %s", ErrNotFound, op, id)
}

func writeFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrWrite, op, err)
}

// NewMemoryStore returns a Store backed by process memory. It starts empty;
// use Seed to load demo data.
func NewMemoryStore() *Store {
	services := newMemTable[models.Service](nil)
	stylists := newMemTable(cloneStylist)
	appointments := newMemTable[models.Appointment](nil)
	invoices := newMemTable(cloneInvoice)
	expenses := newMemTable[models.Expense](nil)

	return &Store{
		Services:          &memServiceRepo{rows: services},
		Stylists:          &memStylistRepo{rows: stylists},
		Appointments:      &memAppointmentRepo{rows: appointments},
		Invoices:          &memInvoiceRepo{rows: invoices},
		Expenses:          &memExpenseRepo{rows: expenses},
		Users:             &memUserRepo{rows: newMemTable[models.User](nil)},
		ReminderTemplates: &memTemplateRepo{rows: newMemTable[models.ReminderTemplate](nil)},
		ReminderLogs:      &memLogRepo{rows: newMemTable[models.ReminderLog](nil)},
		Reports: &memReportRepo{
			services:     services,
			appointments: appointments,
			invoices:     invoices,
			expenses:     expenses,
		},
	}
}

func cloneStylist(s models.Stylist) models.Stylist {
	if s.Specialties != nil {
		s.Specialties = append([]string(nil), s.Specialties...)
	}
	return s
}

func cloneInvoice(i models.Invoice) models.Invoice {
	if i.Items != nil {
		i.Items = append([]models.InvoiceItem(nil), i.Items...)
	}
	return i
}

// Services

type memServiceRepo struct {
	rows *memTable[models.Service]
}

func (r *memServiceRepo) List(_ context.Context, filter ServiceFilter) ([]models.Service, error) {
	out := r.rows.list(func(s models.Service) bool {
		if filter.ActiveOnly && !s.IsActive {
			return false
		}
		return filter.Category == "" || s.Category == filter.Category
	})
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *memServiceRepo) Get(_ context.Context, id uuid.UUID) (*models.Service, error) {
	s, ok := r.rows.get(id)
	if !ok {
		return nil, notFound("ServiceRepository.Get", id)
	}
	return &s, nil
}

func (r *memServiceRepo) Create(_ context.Context, service *models.Service) error {
	stamp(&service.ID, &service.CreatedAt, &service.UpdatedAt)
	if err := r.rows.insert(service.ID, *service, nil); err != nil {
		return writeFailed("ServiceRepository.Create", err)
	}
	return nil
}

func (r *memServiceRepo) Update(_ context.Context, service *models.Service) error {
	service.UpdatedAt = time.Now()
	if !r.rows.replace(service.ID, *service) {
		return notFound("ServiceRepository.Update", service.ID)
	}
	return nil
}

func (r *memServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	if !r.rows.remove(id) {
		return notFound("ServiceRepository.Delete", id)
	}
	return nil
}

// Stylists

type memStylistRepo struct {
	rows *memTable[models.Stylist]
}

func (r *memStylistRepo) List(_ context.Context, filter StylistFilter) ([]models.Stylist, error) {
	out := r.rows.list(func(s models.Stylist) bool {
		return !filter.AvailableOnly || s.IsAvailable
	})
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *memStylistRepo) Get(_ context.Context, id uuid.UUID) (*models.Stylist, error) {
	s, ok := r.rows.get(id)
	if !ok {
		return nil, notFound("StylistRepository.Get", id)
	}
	return &s, nil
}

func (r *memStylistRepo) Create(_ context.Context, stylist *models.Stylist) error {
	stamp(&stylist.ID, &stylist.CreatedAt, &stylist.UpdatedAt)
	if err := r.rows.insert(stylist.ID, *stylist, nil); err != nil {
		return writeFailed("StylistRepository.Create", err)
	}
	return nil
}

func (r *memStylistRepo) Update(_ context.Context, stylist *models.Stylist) error {
	stylist.UpdatedAt = time.Now()
	if !r.rows.replace(stylist.ID, *stylist) {
		return notFound("StylistRepository.Update", stylist.ID)
	}
	return nil
}

func (r *memStylistRepo) Delete(_ context.Context, id uuid.UUID) error {
	if !r.rows.remove(id) {
		return notFound("StylistRepository.Delete", id)
	}
	return nil
}

// Appointments

type memAppointmentRepo struct {
	rows *memTable[models.Appointment]
}

func (r *memAppointmentRepo) List(_ context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	out := r.rows.list(func(a models.Appointment) bool {
		if filter.CustomerID != nil && a.CustomerID != *filter.CustomerID {
			return false
		}
		if filter.StylistID != nil && (a.StylistID == nil || *a.StylistID != *filter.StylistID) {
			return false
		}
		if filter.Date != "" && a.AppointmentDate != filter.Date {
			return false
		}
		return inRange(a.AppointmentDate, filter.From, filter.To) && matchesStatus(a.Status, filter.Statuses)
	})
	sortAppointments(out)
	return out, nil
}

func (r *memAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	a, ok := r.rows.get(id)
	if !ok {
		return nil, notFound("AppointmentRepository.Get", id)
	}
	return &a, nil
}

func (r *memAppointmentRepo) Create(_ context.Context, appointment *models.Appointment) error {
	stamp(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
	if appointment.Status == "" {
		appointment.Status = models.StatusPending
	}
	row := *appointment
	row.Service, row.Stylist = nil, nil
	if err := r.rows.insert(row.ID, row, nil); err != nil {
		return writeFailed("AppointmentRepository.Create", err)
	}
	return nil
}

func (r *memAppointmentRepo) Update(_ context.Context, appointment *models.Appointment) error {
	appointment.UpdatedAt = time.Now()
	row := *appointment
	row.Service, row.Stylist = nil, nil
	if !r.rows.replace(row.ID, row) {
		return notFound("AppointmentRepository.Update", appointment.ID)
	}
	return nil
}

func sortAppointments(out []models.Appointment) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		if out[i].AppointmentTime != out[j].AppointmentTime {
			return out[i].AppointmentTime < out[j].AppointmentTime
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
}

// Invoices

type memInvoiceRepo struct {
	rows *memTable[models.Invoice]
}

func (r *memInvoiceRepo) List(_ context.Context, filter InvoiceFilter) ([]models.Invoice, error) {
	out := r.rows.list(func(i models.Invoice) bool {
		if filter.Status != "" && i.PaymentStatus != filter.Status {
			return false
		}
		return inRange(i.InvoiceDate, filter.From, filter.To)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].InvoiceDate != out[j].InvoiceDate {
			return out[i].InvoiceDate > out[j].InvoiceDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memInvoiceRepo) Get(_ context.Context, id uuid.UUID) (*models.Invoice, error) {
	i, ok := r.rows.get(id)
	if !ok {
		return nil, notFound("InvoiceRepository.Get", id)
	}
	return &i, nil
}

func (r *memInvoiceRepo) Create(_ context.Context, invoice *models.Invoice) error {
	stamp(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	prepareItems(invoice)
	number := invoice.InvoiceNumber
	err := r.rows.insert(invoice.ID, *invoice, func(existing models.Invoice) bool {
		return existing.InvoiceNumber == number
	})
	if err != nil {
		return writeFailed("InvoiceRepository.Create", err)
	}
	return nil
}

func (r *memInvoiceRepo) Update(_ context.Context, invoice *models.Invoice) error {
	invoice.UpdatedAt = time.Now()
	prepareItems(invoice)
	if !r.rows.replace(invoice.ID, *invoice) {
		return notFound("InvoiceRepository.Update", invoice.ID)
	}
	return nil
}

func (r *memInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	if !r.rows.remove(id) {
		return notFound("InvoiceRepository.Delete", id)
	}
	return nil
}

func prepareItems(invoice *models.Invoice) {
	for idx := range invoice.Items {
		item := &invoice.Items[idx]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = invoice.ID
	}
}

// Expenses

type memExpenseRepo struct {
	rows *memTable[models.Expense]
}

func (r *memExpenseRepo) List(_ context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	out := r.rows.list(func(e models.Expense) bool {
		if filter.Category != "" && e.Category != filter.Category {
			return false
		}
		return inRange(e.ExpenseDate, filter.From, filter.To)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExpenseDate != out[j].ExpenseDate {
			return out[i].ExpenseDate > out[j].ExpenseDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memExpenseRepo) Get(_ context.Context, id uuid.UUID) (*models.Expense, error) {
	e, ok := r.rows.get(id)
	if !ok {
		return nil, notFound("ExpenseRepository.Get", id)
	}
	return &e, nil
}

func (r *memExpenseRepo) Create(_ context.Context, expense *models.Expense) error {
	stamp(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	if err := r.rows.insert(expense.ID, *expense, nil); err != nil {
		return writeFailed("ExpenseRepository.Create", err)
	}
	return nil
}

func (r *memExpenseRepo) Update(_ context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now()
	if !r.rows.replace(expense.ID, *expense) {
		return notFound("ExpenseRepository.Update", expense.ID)
	}
	return nil
}

func (r *memExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if !r.rows.remove(id) {
		return notFound("ExpenseRepository.Delete", id)
	}
	return nil
}

// Users

type memUserRepo struct {
	rows *memTable[models.User]
}

func (r *memUserRepo) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.rows.get(id)
	if !ok {
		return nil, notFound("UserRepository.Get", id)
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.rows.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, fmt.Errorf("%w: UserRepository.GetByEmail: %s", ErrNotFound, email)
	}
	return &u, nil
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	email := user.Email
	err := r.rows.insert(user.ID, *user, func(existing models.User) bool {
		return strings.EqualFold(existing.Email, email)
	})
	if err != nil {
		return writeFailed("UserRepository.Create", err)
	}
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	if !r.rows.replace(user.ID, *user) {
		return notFound("UserRepository.Update", user.ID)
	}
	return nil
}

// Reminder templates

type memTemplateRepo struct {
	rows *memTable[models.ReminderTemplate]
}

func (r *memTemplateRepo) List(_ context.Context) ([]models.ReminderTemplate, error) {
	out := r.rows.list(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (r *memTemplateRepo) Get(_ context.Context, id uuid.UUID) (*models.ReminderTemplate, error) {
	t, ok := r.rows.get(id)
	if !ok {
		return nil, notFound("ReminderTemplateRepository.Get", id)
	}
	return &t, nil
}

func (r *memTemplateRepo) GetByType(_ context.Context, templateType string) (*models.ReminderTemplate, error) {
	t, ok := r.rows.find(func(t models.ReminderTemplate) bool { return t.Type == templateType })
	if !ok {
		return nil, fmt.Errorf("%w: ReminderTemplateRepository.GetByType: %s", ErrNotFound, templateType)
	}
	return &t, nil
}

func (r *memTemplateRepo) Create(_ context.Context, template *models.ReminderTemplate) error {
	stamp(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	kind := template.Type
	err := r.rows.insert(template.ID, *template, func(existing models.ReminderTemplate) bool {
		return existing.Type == kind
	})
	if err != nil {
		return writeFailed("ReminderTemplateRepository.Create", err)
	}
	return nil
}

func (r *memTemplateRepo) Update(_ context.Context, template *models.ReminderTemplate) error {
	template.UpdatedAt = time.Now()
	if !r.rows.replace(template.ID, *template) {
		return notFound("ReminderTemplateRepository.Update", template.ID)
	}
	return nil
}

func (r *memTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	if !r.rows.remove(id) {
		return notFound("ReminderTemplateRepository.Delete", id)
	}
	return nil
}

// Reminder logs

type memLogRepo struct {
	rows *memTable[models.ReminderLog]
}

func (r *memLogRepo) Create(_ context.Context, log *models.ReminderLog) error {
	stamp(&log.ID, nil, nil)
	if log.SentAt.IsZero() {
		log.SentAt = time.Now()
	}
	if err := r.rows.insert(log.ID, *log, nil); err != nil {
		return writeFailed("ReminderLogRepository.Create", err)
	}
	return nil
}

func (r *memLogRepo) List(_ context.Context, limit int) ([]models.ReminderLog, error) {
	out := r.rows.list(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memLogRepo) Exists(_ context.Context, appointmentID uuid.UUID, reminderType string) (bool, error) {
	_, ok := r.rows.find(func(l models.ReminderLog) bool {
		return l.AppointmentID == appointmentID && l.Type == reminderType && l.Status == models.ReminderStatusSent
	})
	return ok, nil
}

func byName(a, b string, idA, idB uuid.UUID) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return idA.String() < idB.String()
}

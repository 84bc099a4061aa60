package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvoiceItemInput struct {
	ServiceID uuid.UUID `json:"service_id"`
	Quantity  int       `json:"quantity"`
	// UnitPrice overrides the service's list price.
	UnitPrice *float64 `json:"unit_price"`
}

type InvoiceFields struct {
	CustomerID    *uuid.UUID            `json:"customer_id"`
	ClientName    *string               `json:"client_name"`
	AppointmentID *uuid.UUID            `json:"appointment_id"`
	InvoiceDate   *string               `json:"invoice_date"`
	Items         *[]InvoiceItemInput   `json:"items"`
	Discount      *float64              `json:"discount"`
	Tax           *float64              `json:"tax"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
	PaymentMethod *string               `json:"payment_method"`
	Notes         *string               `json:"notes"`
}

// InvoiceSummary backs the billing page header cards.
type InvoiceSummary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingAmount float64 `json:"pendingAmount"`
	OverdueAmount float64 `json:"overdueAmount"`
	PaidCount     int     `json:"paidCount"`
	PendingCount  int     `json:"pendingCount"`
	OverdueCount  int     `json:"overdueCount"`
	InvoiceCount  int     `json:"invoiceCount"`
}

type BillingConfig struct {
	// DefaultTax is the tax percentage applied when a request omits it.
	DefaultTax float64
	// OverdueAfterDays marks pending invoices overdue once they are this old.
	OverdueAfterDays int
	Now              func() time.Time
}

type BillingService struct {
	store    *repository.Store
	validate *validator.Validate
	logger   *zap.Logger
	cfg      BillingConfig
}

func NewBillingService(store *repository.Store, validate *validator.Validate, logger *zap.Logger, cfg BillingConfig) *BillingService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BillingService{store: store, validate: validate, logger: logger.Named("billing"), cfg: cfg}
}

func (s *BillingService) List(ctx context.Context, actor Actor, filter repository.InvoiceFilter) ([]models.Invoice, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	return s.store.Invoices.List(ctx, filter)
}

func (s *BillingService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	return s.store.Invoices.Get(ctx, id)
}

func (s *BillingService) Create(ctx context.Context, actor Actor, fields InvoiceFields) (*models.Invoice, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	now := s.cfg.Now()
	inv := &models.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: s.invoiceNumber(now),
		InvoiceDate:   now.Format(models.DateFormat),
		Tax:           s.cfg.DefaultTax,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.apply(ctx, inv, fields); err != nil {
		return nil, err
	}
	if err := checkStruct(s.validate, inv); err != nil {
		return nil, err
	}
	if err := s.store.Invoices.Create(ctx, inv); err != nil {
		s.logger.Error("create invoice failed", zap.String("number", inv.InvoiceNumber), zap.Error(err))
		return nil, err
	}
	s.logger.Info("invoice created", zap.String("number", inv.InvoiceNumber), zap.Float64("total", inv.Total))
	return inv, nil
}

func (s *BillingService) Update(ctx context.Context, actor Actor, id uuid.UUID, fields InvoiceFields) (*models.Invoice, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	inv, err := s.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, inv, fields); err != nil {
		return nil, err
	}
	if err := checkStruct(s.validate, inv); err != nil {
		return nil, err
	}
	if err := s.store.Invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *BillingService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireOperator(actor); err != nil {
		return err
	}
	return s.store.Invoices.Delete(ctx, id)
}

// FromAppointment drafts and stores a pending invoice for a completed
// appointment, priced at the service's list price.
func (s *BillingService) FromAppointment(ctx context.Context, actor Actor, appointmentID uuid.UUID) (*models.Invoice, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	apt, err := s.store.Appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if apt.Status != models.StatusCompleted {
		return nil, fmt.Errorf("%w: appointment is %s, only completed appointments are billed", ErrInvalidTransition, apt.Status)
	}

	clientName := "Walk-in client"
	customerID := apt.CustomerID
	if user, err := s.store.Users.Get(ctx, apt.CustomerID); err == nil {
		clientName = user.Name
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	method := models.PaymentMethodCard
	return s.Create(ctx, actor, InvoiceFields{
		CustomerID:    &customerID,
		ClientName:    &clientName,
		AppointmentID: &apt.ID,
		InvoiceDate:   &apt.AppointmentDate,
		Items:         &[]InvoiceItemInput{{ServiceID: apt.ServiceID, Quantity: 1}},
		PaymentMethod: &method,
	})
}

func (s *BillingService) Summary(ctx context.Context, actor Actor) (*InvoiceSummary, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	invoices, err := s.store.Invoices.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	sum := &InvoiceSummary{InvoiceCount: len(invoices)}
	for _, inv := range invoices {
		switch inv.PaymentStatus {
		case models.PaymentPaid:
			sum.TotalRevenue += inv.Total
			sum.PaidCount++
		case models.PaymentPending:
			sum.PendingAmount += inv.Total
			sum.PendingCount++
		case models.PaymentOverdue:
			sum.OverdueAmount += inv.Total
			sum.OverdueCount++
		}
	}
	return sum, nil
}

// MarkOverdue flips pending invoices older than the configured age to
// overdue. It runs from the scheduler, not on behalf of a user.
func (s *BillingService) MarkOverdue(ctx context.Context) (int, error) {
	if s.cfg.OverdueAfterDays <= 0 {
		return 0, nil
	}
	now := s.cfg.Now()
	pending, err := s.store.Invoices.List(ctx, repository.InvoiceFilter{
		Status: models.PaymentPending,
		To:     now.AddDate(0, 0, -s.cfg.OverdueAfterDays).Format(models.DateFormat),
	})
	if err != nil {
		return 0, err
	}
	marked := 0
	for i := range pending {
		inv := &pending[i]
		issued, err := time.ParseInLocation(models.DateFormat, inv.InvoiceDate, now.Location())
		if err != nil || utils.DaysBetween(issued, now) <= s.cfg.OverdueAfterDays {
			continue
		}
		inv.PaymentStatus = models.PaymentOverdue
		if err := s.store.Invoices.Update(ctx, inv); err != nil {
			s.logger.Warn("mark overdue failed", zap.String("number", inv.InvoiceNumber), zap.Error(err))
			continue
		}
		marked++
	}
	if marked > 0 {
		s.logger.Info("invoices marked overdue", zap.Int("count", marked))
	}
	return marked, nil
}

func (s *BillingService) invoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), utils.GenerateRandomString(6))
}

// apply merges fields into inv, resolving item names and prices from the
// service catalogue, then recalculates the totals.
func (s *BillingService) apply(ctx context.Context, inv *models.Invoice, f InvoiceFields) error {
	if f.CustomerID != nil {
		inv.CustomerID = f.CustomerID
	}
	if f.ClientName != nil {
		inv.ClientName = strings.TrimSpace(*f.ClientName)
	}
	if f.AppointmentID != nil {
		inv.AppointmentID = f.AppointmentID
	}
	if f.InvoiceDate != nil {
		inv.InvoiceDate = strings.TrimSpace(*f.InvoiceDate)
	}
	if f.Discount != nil {
		inv.Discount = *f.Discount
	}
	if f.Tax != nil {
		inv.Tax = *f.Tax
	}
	if f.PaymentStatus != nil {
		inv.PaymentStatus = *f.PaymentStatus
	}
	if f.PaymentMethod != nil {
		inv.PaymentMethod = strings.TrimSpace(*f.PaymentMethod)
	}
	if f.Notes != nil {
		inv.Notes = strings.TrimSpace(*f.Notes)
	}
	if f.Items != nil {
		items := make([]models.InvoiceItem, 0, len(*f.Items))
		missing := map[string]string{}
		for i, in := range *f.Items {
			svc, err := s.store.Services.Get(ctx, in.ServiceID)
			if errors.Is(err, repository.ErrNotFound) {
				missing[fmt.Sprintf("items[%d].service_id", i)] = "does not exist"
				continue
			}
			if err != nil {
				return err
			}
			item := models.InvoiceItem{
				ServiceID:   svc.ID,
				ServiceName: svc.Name,
				Quantity:    in.Quantity,
				UnitPrice:   svc.Price,
			}
			if item.Quantity == 0 {
				item.Quantity = 1
			}
			if in.UnitPrice != nil {
				item.UnitPrice = *in.UnitPrice
			}
			items = append(items, item)
		}
		if len(missing) > 0 {
			return &ValidationError{Fields: missing}
		}
		inv.Items = items
	}
	inv.Recalculate()
	if inv.Total < 0 {
		return NewValidationError("discount", "must not exceed the invoice amount")
	}
	return nil
}

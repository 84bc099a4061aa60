package services

import (
	"context"
	"strings"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExpenseFields struct {
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Amount      *float64 `json:"amount"`
	ExpenseDate *string  `json:"expense_date"`
	Notes       *string  `json:"notes"`
}

func (f ExpenseFields) apply(e *models.Expense) {
	if f.Description != nil {
		e.Description = strings.TrimSpace(*f.Description)
	}
	if f.Category != nil {
		e.Category = *f.Category
	}
	if f.Amount != nil {
		e.Amount = *f.Amount
	}
	if f.ExpenseDate != nil {
		e.ExpenseDate = strings.TrimSpace(*f.ExpenseDate)
	}
	if f.Notes != nil {
		e.Notes = strings.TrimSpace(*f.Notes)
	}
}

type ExpenseBreakdown struct {
	From       string                      `json:"from"`
	To         string                      `json:"to"`
	Total      float64                     `json:"total"`
	Categories []repository.CategoryAmount `json:"categories"`
}

type ExpenseService struct {
	store    *repository.Store
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewExpenseService(store *repository.Store, validate *validator.Validate, logger *zap.Logger, now func() time.Time) *ExpenseService {
	if now == nil {
		now = time.Now
	}
	return &ExpenseService{store: store, validate: validate, logger: logger.Named("expenses"), now: now}
}

func (s *ExpenseService) List(ctx context.Context, actor Actor, filter repository.ExpenseFilter) ([]models.Expense, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	return s.store.Expenses.List(ctx, filter)
}

func (s *ExpenseService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Expense, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	return s.store.Expenses.Get(ctx, id)
}

func (s *ExpenseService) Create(ctx context.Context, actor Actor, fields ExpenseFields) (*models.Expense, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	e := &models.Expense{ID: uuid.New(), ExpenseDate: s.now().Format(models.DateFormat)}
	fields.apply(e)
	if err := checkStruct(s.validate, e); err != nil {
		return nil, err
	}
	if err := s.store.Expenses.Create(ctx, e); err != nil {
		s.logger.Error("create expense failed", zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (s *ExpenseService) Update(ctx context.Context, actor Actor, id uuid.UUID, fields ExpenseFields) (*models.Expense, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	e, err := s.store.Expenses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields.apply(e)
	if err := checkStruct(s.validate, e); err != nil {
		return nil, err
	}
	if err := s.store.Expenses.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireOperator(actor); err != nil {
		return err
	}
	return s.store.Expenses.Delete(ctx, id)
}

// Breakdown sums expenses per category. An empty range defaults to the
// current month.
func (s *ExpenseService) Breakdown(ctx context.Context, actor Actor, from, to string) (*ExpenseBreakdown, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	if from == "" && to == "" {
		start, end := utils.MonthBounds(s.now())
		from, to = start.Format(models.DateFormat), end.Format(models.DateFormat)
	}
	cats, err := s.store.Reports.ExpensesByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &ExpenseBreakdown{From: from, To: to, Categories: cats}
	for _, c := range cats {
		out.Total += c.Amount
	}
	return out, nil
}

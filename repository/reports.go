package repository

import (
	"context"
	"fmt"
	"sort"

	"salonsmart-backend/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

func sortedMonths(sums map[string]float64) []MonthlyAmount {
	out := make([]MonthlyAmount, 0, len(sums))
	for month, amount := range sums {
		out = append(out, MonthlyAmount{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

type memReportRepo struct {
	services     *memTable[models.Service]
	appointments *memTable[models.Appointment]
	invoices     *memTable[models.Invoice]
	expenses     *memTable[models.Expense]
}

func (r *memReportRepo) MonthlyRevenue(_ context.Context, from, to string) ([]MonthlyAmount, error) {
	sums := map[string]float64{}
	for _, inv := range r.invoices.list(nil) {
		if inv.PaymentStatus == models.PaymentPaid && inRange(inv.InvoiceDate, from, to) {
			sums[monthOf(inv.InvoiceDate)] += inv.Total
		}
	}
	return sortedMonths(sums), nil
}

func (r *memReportRepo) MonthlyExpenses(_ context.Context, from, to string) ([]MonthlyAmount, error) {
	sums := map[string]float64{}
	for _, e := range r.expenses.list(nil) {
		if inRange(e.ExpenseDate, from, to) {
			sums[monthOf(e.ExpenseDate)] += e.Amount
		}
	}
	return sortedMonths(sums), nil
}

func (r *memReportRepo) ServiceStats(_ context.Context, from, to string) ([]ServiceStat, error) {
	stats := map[uuid.UUID]*ServiceStat{}
	for _, a := range r.appointments.list(nil) {
		if !a.IsActive() || !inRange(a.AppointmentDate, from, to) {
			continue
		}
		svc, ok := r.services.get(a.ServiceID)
		if !ok {
			continue
		}
		st, ok := stats[svc.ID]
		if !ok {
			st = &ServiceStat{ServiceID: svc.ID, Name: svc.Name}
			stats[svc.ID] = st
		}
		st.Bookings++
		if a.Status == models.StatusCompleted {
			st.Revenue += svc.Price
		}
	}
	out := make([]ServiceStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memReportRepo) ExpensesByCategory(_ context.Context, from, to string) ([]CategoryAmount, error) {
	sums := map[string]float64{}
	for _, e := range r.expenses.list(nil) {
		if inRange(e.ExpenseDate, from, to) {
			sums[e.Category] += e.Amount
		}
	}
	out := make([]CategoryAmount, 0, len(sums))
	for category, amount := range sums {
		out = append(out, CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *memReportRepo) AppointmentCount(_ context.Context, from, to string) (int64, error) {
	var n int64
	for _, a := range r.appointments.list(nil) {
		if a.IsActive() && inRange(a.AppointmentDate, from, to) {
			n++
		}
	}
	return n, nil
}

// gormReportRepo builds the aggregate queries with squirrel and runs them
// through GORM, which rebinds the ? placeholders for the active dialect.
type gormReportRepo struct {
	db *gorm.DB
}

func between(b sq.SelectBuilder, column, from, to string) sq.SelectBuilder {
	if from != "" {
		b = b.Where(sq.GtOrEq{column: from})
	}
	if to != "" {
		b = b.Where(sq.LtOrEq{column: to})
	}
	return b
}

func (r *gormReportRepo) scan(ctx context.Context, op string, b sq.SelectBuilder, dest any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s: build query: %v", ErrUnavailable, op, err)
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return nil
}

func (r *gormReportRepo) MonthlyRevenue(ctx context.Context, from, to string) ([]MonthlyAmount, error) {
	b := sq.Select("SUBSTR(invoice_date, 1, 7) AS month", "COALESCE(SUM(total), 0) AS amount").
		From("invoices").
		Where(sq.Eq{"payment_status": string(models.PaymentPaid)}).
		GroupBy("SUBSTR(invoice_date, 1, 7)").
		OrderBy("month ASC")
	b = between(b, "invoice_date", from, to)

	out := []MonthlyAmount{}
	if err := r.scan(ctx, "ReportRepository.MonthlyRevenue", b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormReportRepo) MonthlyExpenses(ctx context.Context, from, to string) ([]MonthlyAmount, error) {
	b := sq.Select("SUBSTR(expense_date, 1, 7) AS month", "COALESCE(SUM(amount), 0) AS amount").
		From("expenses").
		GroupBy("SUBSTR(expense_date, 1, 7)").
		OrderBy("month ASC")
	b = between(b, "expense_date", from, to)

	out := []MonthlyAmount{}
	if err := r.scan(ctx, "ReportRepository.MonthlyExpenses", b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormReportRepo) ServiceStats(ctx context.Context, from, to string) ([]ServiceStat, error) {
	b := sq.Select(
		"services.id AS service_id",
		"services.name AS name",
		"COUNT(appointments.id) AS bookings",
		"COALESCE(SUM(CASE WHEN appointments.status = 'completed' THEN services.price ELSE 0 END), 0) AS revenue",
	).
		From("appointments").
		Join("services ON services.id = appointments.service_id").
		Where(sq.NotEq{"appointments.status": string(models.StatusCancelled)}).
		GroupBy("services.id", "services.name").
		OrderBy("bookings DESC", "name ASC")
	b = between(b, "appointments.appointment_date", from, to)

	out := []ServiceStat{}
	if err := r.scan(ctx, "ReportRepository.ServiceStats", b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormReportRepo) ExpensesByCategory(ctx context.Context, from, to string) ([]CategoryAmount, error) {
	b := sq.Select("category", "COALESCE(SUM(amount), 0) AS amount").
		From("expenses").
		GroupBy("category").
		OrderBy("amount DESC", "category ASC")
	b = between(b, "expense_date", from, to)

	out := []CategoryAmount{}
	if err := r.scan(ctx, "ReportRepository.ExpensesByCategory", b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormReportRepo) AppointmentCount(ctx context.Context, from, to string) (int64, error) {
	b := sq.Select("COUNT(*)").
		From("appointments").
		Where(sq.NotEq{"status": string(models.StatusCancelled)})
	b = between(b, "appointment_date", from, to)

	var n int64
	if err := r.scan(ctx, "ReportRepository.AppointmentCount", b, &n); err != nil {
		return 0, err
	}
	return n, nil
}

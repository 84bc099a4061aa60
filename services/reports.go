package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	DefaultReportMonths = 6
	MaxReportMonths     = 24
	topServicesLimit    = 5
)

// MonthRow is one month of the revenue vs expenses chart.
type MonthRow struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// ReportSummary represents the reports page data.
type ReportSummary struct {
	From                  string                      `json:"from"`
	To                    string                      `json:"to"`
	Months                []MonthRow                  `json:"months"`
	TotalRevenue          float64                     `json:"totalRevenue"`
	TotalExpenses         float64                     `json:"totalExpenses"`
	NetProfit             float64                     `json:"netProfit"`
	ProfitMargin          float64                     `json:"profitMargin"`
	CurrentMonthRevenue   float64                     `json:"currentMonthRevenue"`
	MonthGrowth           float64                     `json:"monthGrowth"`
	CurrentQuarterRevenue float64                     `json:"currentQuarterRevenue"`
	QuarterGrowth         float64                     `json:"quarterGrowth"`
	CurrentYearRevenue    float64                     `json:"currentYearRevenue"`
	YearGrowth            float64                     `json:"yearGrowth"`
	TopServices           []repository.ServiceStat    `json:"topServices"`
	ExpenseBreakdown      []repository.CategoryAmount `json:"expenseBreakdown"`
	Appointments          int64                       `json:"appointments"`
}

type ReportService struct {
	reports repository.ReportRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewReportService(reports repository.ReportRepository, logger *zap.Logger, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{reports: reports, logger: logger.Named("reports"), now: now}
}

// Summary covers the last months calendar months, the current one included.
func (s *ReportService) Summary(ctx context.Context, actor Actor, months int) (*ReportSummary, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = DefaultReportMonths
	}
	if months > MaxReportMonths {
		return nil, NewValidationError("months", fmt.Sprintf("must be at most %d", MaxReportMonths))
	}

	now := s.now()
	monthStart, monthEnd := utils.MonthBounds(now)
	rangeStart := monthStart.AddDate(0, -(months - 1), 0)
	from, to := rangeStart.Format(models.DateFormat), monthEnd.Format(models.DateFormat)

	revenue, err := s.reports.MonthlyRevenue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reports.MonthlyExpenses(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := &ReportSummary{From: from, To: to, Months: fillMonths(rangeStart, months, revenue, expenses)}
	for _, m := range out.Months {
		out.TotalRevenue += m.Revenue
		out.TotalExpenses += m.Expenses
	}
	out.NetProfit = out.TotalRevenue - out.TotalExpenses
	if out.TotalRevenue > 0 {
		out.ProfitMargin = out.NetProfit / out.TotalRevenue * 100
	}

	if out.CurrentMonthRevenue, out.MonthGrowth, err = s.periodGrowth(ctx, monthStart, monthEnd, monthStart.AddDate(0, -1, 0), monthStart.AddDate(0, 0, -1)); err != nil {
		return nil, err
	}
	qStart := utils.QuarterStart(now)
	qEnd := qStart.AddDate(0, 3, -1)
	if out.CurrentQuarterRevenue, out.QuarterGrowth, err = s.periodGrowth(ctx, qStart, qEnd, qStart.AddDate(0, -3, 0), qStart.AddDate(0, 0, -1)); err != nil {
		return nil, err
	}
	yStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	yEnd := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location())
	if out.CurrentYearRevenue, out.YearGrowth, err = s.periodGrowth(ctx, yStart, yEnd, yStart.AddDate(-1, 0, 0), yStart.AddDate(0, 0, -1)); err != nil {
		return nil, err
	}

	stats, err := s.reports.ServiceStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(stats) > topServicesLimit {
		stats = stats[:topServicesLimit]
	}
	out.TopServices = stats

	if out.ExpenseBreakdown, err = s.reports.ExpensesByCategory(ctx, from, to); err != nil {
		return nil, err
	}
	if out.Appointments, err = s.reports.AppointmentCount(ctx, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReportService) revenue(ctx context.Context, start, end time.Time) (float64, error) {
	rows, err := s.reports.MonthlyRevenue(ctx, start.Format(models.DateFormat), end.Format(models.DateFormat))
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range rows {
		total += r.Amount
	}
	return total, nil
}

func (s *ReportService) periodGrowth(ctx context.Context, start, end, prevStart, prevEnd time.Time) (float64, float64, error) {
	current, err := s.revenue(ctx, start, end)
	if err != nil {
		return 0, 0, err
	}
	previous, err := s.revenue(ctx, prevStart, prevEnd)
	if err != nil {
		return 0, 0, err
	}
	return current, calculateGrowthPercentage(current, previous), nil
}

// Export writes the summary as an xlsx workbook with one sheet per table.
func (s *ReportService) Export(ctx context.Context, actor Actor, months int, w io.Writer) error {
	summary, err := s.Summary(ctx, actor, months)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const monthly = "Monthly"
	if err := f.SetSheetName("Sheet1", monthly); err != nil {
		return err
	}
	rows := [][]any{{"Month", "Revenue", "Expenses", "Profit"}}
	for _, m := range summary.Months {
		rows = append(rows, []any{m.Month, m.Revenue, m.Expenses, m.Profit})
	}
	rows = append(rows, []any{"Total", summary.TotalRevenue, summary.TotalExpenses, summary.NetProfit})
	if err := writeRows(f, monthly, rows); err != nil {
		return err
	}

	const services = "Top services"
	if _, err := f.NewSheet(services); err != nil {
		return err
	}
	rows = [][]any{{"Service", "Bookings", "Revenue"}}
	for _, st := range summary.TopServices {
		rows = append(rows, []any{st.Name, st.Bookings, st.Revenue})
	}
	if err := writeRows(f, services, rows); err != nil {
		return err
	}

	const expenses = "Expenses"
	if _, err := f.NewSheet(expenses); err != nil {
		return err
	}
	rows = [][]any{{"Category", "Amount"}}
	for _, c := range summary.ExpenseBreakdown {
		rows = append(rows, []any{c.Category, c.Amount})
	}
	if err := writeRows(f, expenses, rows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("report exported", zap.String("from", summary.From), zap.String("to", summary.To))
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// fillMonths returns one row per month from start, zero-filling gaps.
func fillMonths(start time.Time, months int, revenue, expenses []repository.MonthlyAmount) []MonthRow {
	rev := make(map[string]float64, len(revenue))
	for _, r := range revenue {
		rev[r.Month] = r.Amount
	}
	exp := make(map[string]float64, len(expenses))
	for _, e := range expenses {
		exp[e.Month] = e.Amount
	}
	out := make([]MonthRow, 0, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		out = append(out, MonthRow{
			Month:    key,
			Revenue:  rev[key],
			Expenses: exp[key],
			Profit:   rev[key] - exp[key],
		})
	}
	return out
}

func calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

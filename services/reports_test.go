package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportSummary(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.store.Reports, f.logger, fixedClock)

	got, err := svc.Summary(context.Background(), admin, 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-10-01", got.From)
	assert.Equal(t, "2025-03-31", got.To)
	require.Len(t, got.Months, DefaultReportMonths)
	assert.Equal(t, "2024-10", got.Months[0].Month)
	assert.Equal(t, "2025-02", got.Months[4].Month)
	assert.InDelta(t, 264.6, got.Months[4].Revenue, 0.001)
	assert.InDelta(t, 750.5, got.Months[4].Expenses, 0.001)
	assert.InDelta(t, 264.6-750.5, got.Months[4].Profit, 0.001)
	assert.Zero(t, got.Months[0].Revenue)

	assert.InDelta(t, 264.6, got.TotalRevenue, 0.001)
	assert.InDelta(t, 750.5, got.TotalExpenses, 0.001)
	assert.InDelta(t, -485.9, got.NetProfit, 0.001)
	assert.Equal(t, -100.0, got.MonthGrowth)
	assert.InDelta(t, 264.6, got.CurrentQuarterRevenue, 0.001)
	assert.Equal(t, 100.0, got.QuarterGrowth)

	require.NotEmpty(t, got.TopServices)
	assert.Equal(t, "Haircut & Styling", got.TopServices[0].Name)
	assert.Equal(t, 2, got.TopServices[0].Bookings)
	assert.Equal(t, 65.0, got.TopServices[0].Revenue)
	require.NotEmpty(t, got.ExpenseBreakdown)
	assert.Equal(t, "Products", got.ExpenseBreakdown[0].Category)
	assert.Equal(t, int64(6), got.Appointments)
}

func TestReportSummaryLimits(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.store.Reports, f.logger, fixedClock)

	_, err := svc.Summary(context.Background(), admin, MaxReportMonths+1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Summary(context.Background(), customer, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReportExport(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.store.Reports, f.logger, fixedClock)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), admin, 3, &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Monthly", "Top services", "Expenses"}, book.GetSheetList())

	rows, err := book.GetRows("Monthly")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Month", "Revenue", "Expenses", "Profit"}, rows[0])
	assert.Equal(t, "2025-01", rows[1][0])
	assert.Equal(t, "Total", rows[4][0])

	rows, err = book.GetRows("Expenses")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestCalculateGrowthPercentage(t *testing.T) {
	assert.Equal(t, 0.0, calculateGrowthPercentage(0, 0))
	assert.Equal(t, 100.0, calculateGrowthPercentage(50, 0))
	assert.Equal(t, 50.0, calculateGrowthPercentage(150, 100))
	assert.Equal(t, -25.0, calculateGrowthPercentage(75, 100))
}

func TestDashboardOverview(t *testing.T) {
	f := newFixture(t)
	appointments := f.appointments(AppointmentServiceConfig{})
	svc := NewDashboardService(f.store, appointments, f.logger, fixedClock)

	got, err := svc.Overview(context.Background(), admin)
	require.NoError(t, err)

	assert.Equal(t, 4.0, got.Appointments.Value)
	assert.Equal(t, "4", got.Appointments.Display)
	assert.Equal(t, 100.0, got.Appointments.Change)
	assert.Zero(t, got.Revenue.Value)
	assert.Equal(t, -100.0, got.Revenue.Change)
	assert.Equal(t, -100.0, got.Expenses.Change)
	assert.Equal(t, 3.0, got.Staff.Value)

	assert.Len(t, got.TodaySchedule, 2)
	assert.Len(t, got.RecentAppointments, recentAppointmentsLimit)
	for _, r := range got.RecentAppointments {
		assert.NotEmpty(t, r.BookedAgo)
	}

	total := 0.0
	for _, s := range got.ServiceDistribution {
		total += s.Percent
	}
	assert.InDelta(t, 100.0, total, 0.001)

	_, err = svc.Overview(context.Background(), customer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "$1,234.50", money(1234.5))
	assert.Equal(t, "$264.60", money(264.6))
}

package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/utils"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

type StatCard struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Change  float64 `json:"change"`
}

type RecentAppointment struct {
	models.Appointment
	BookedAgo string `json:"booked_ago"`
}

type ServiceShare struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// DashboardOverview is the dashboard landing page.
type DashboardOverview struct {
	Appointments        StatCard             `json:"appointments"`
	Revenue             StatCard             `json:"revenue"`
	Expenses            StatCard             `json:"expenses"`
	Staff               StatCard             `json:"staff"`
	TodaySchedule       []models.Appointment `json:"todaySchedule"`
	RecentAppointments  []RecentAppointment  `json:"recentAppointments"`
	ServiceDistribution []ServiceShare       `json:"serviceDistribution"`
}

const recentAppointmentsLimit = 5

type DashboardService struct {
	store        *repository.Store
	appointments *AppointmentService
	logger       *zap.Logger
	now          func() time.Time
}

func NewDashboardService(store *repository.Store, appointments *AppointmentService, logger *zap.Logger, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{store: store, appointments: appointments, logger: logger.Named("dashboard"), now: now}
}

// Overview compares the current month against the previous one.
func (s *DashboardService) Overview(ctx context.Context, actor Actor) (*DashboardOverview, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	now := s.now()
	curStart, curEnd := utils.MonthBounds(now)
	prevStart, prevEnd := utils.MonthBounds(curStart.AddDate(0, -1, 0))
	cur := [2]string{curStart.Format(models.DateFormat), curEnd.Format(models.DateFormat)}
	prev := [2]string{prevStart.Format(models.DateFormat), prevEnd.Format(models.DateFormat)}

	out := &DashboardOverview{}

	curCount, err := s.store.Reports.AppointmentCount(ctx, cur[0], cur[1])
	if err != nil {
		return nil, err
	}
	prevCount, err := s.store.Reports.AppointmentCount(ctx, prev[0], prev[1])
	if err != nil {
		return nil, err
	}
	out.Appointments = StatCard{
		Value:   float64(curCount),
		Display: humanize.Comma(curCount),
		Change:  calculateGrowthPercentage(float64(curCount), float64(prevCount)),
	}

	curRevenue, err := sumMonthly(s.store.Reports.MonthlyRevenue(ctx, cur[0], cur[1]))
	if err != nil {
		return nil, err
	}
	prevRevenue, err := sumMonthly(s.store.Reports.MonthlyRevenue(ctx, prev[0], prev[1]))
	if err != nil {
		return nil, err
	}
	out.Revenue = StatCard{Value: curRevenue, Display: money(curRevenue), Change: calculateGrowthPercentage(curRevenue, prevRevenue)}

	curExpenses, err := sumMonthly(s.store.Reports.MonthlyExpenses(ctx, cur[0], cur[1]))
	if err != nil {
		return nil, err
	}
	prevExpenses, err := sumMonthly(s.store.Reports.MonthlyExpenses(ctx, prev[0], prev[1]))
	if err != nil {
		return nil, err
	}
	out.Expenses = StatCard{Value: curExpenses, Display: money(curExpenses), Change: calculateGrowthPercentage(curExpenses, prevExpenses)}

	stylists, err := s.store.Stylists.List(ctx, repository.StylistFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}
	out.Staff = StatCard{Value: float64(len(stylists)), Display: humanize.Comma(int64(len(stylists)))}

	if out.TodaySchedule, err = s.appointments.Today(ctx, actor); err != nil {
		return nil, err
	}
	if out.RecentAppointments, err = s.recent(ctx, actor, now); err != nil {
		return nil, err
	}
	if out.ServiceDistribution, err = s.distribution(ctx, cur[0], cur[1]); err != nil {
		return nil, err
	}
	return out, nil
}

// recent returns the latest bookings by creation time with a relative label.
func (s *DashboardService) recent(ctx context.Context, actor Actor, now time.Time) ([]RecentAppointment, error) {
	all, err := s.appointments.List(ctx, actor, AppointmentQuery{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > recentAppointmentsLimit {
		all = all[:recentAppointmentsLimit]
	}
	out := make([]RecentAppointment, 0, len(all))
	for _, a := range all {
		out = append(out, RecentAppointment{Appointment: a, BookedAgo: humanize.RelTime(a.CreatedAt, now, "ago", "from now")})
	}
	return out, nil
}

func (s *DashboardService) distribution(ctx context.Context, from, to string) ([]ServiceShare, error) {
	stats, err := s.store.Reports.ServiceStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, st := range stats {
		total += st.Bookings
	}
	out := make([]ServiceShare, 0, len(stats))
	for _, st := range stats {
		share := ServiceShare{Name: st.Name, Count: st.Bookings}
		if total > 0 {
			share.Percent = float64(st.Bookings) / float64(total) * 100
		}
		out = append(out, share)
	}
	return out, nil
}

func sumMonthly(rows []repository.MonthlyAmount, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range rows {
		total += r.Amount
	}
	return total, nil
}

// money formats an amount as "$1,234.50".
func money(v float64) string {
	return fmt.Sprintf("$%s", humanize.FormatFloat("#,###.##", v))
}

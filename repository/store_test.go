package repository

import (
	"context"
	"testing"
	"time"

	"salonsmart-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour every Store implementation must share.
func storeContract(t *testing.T, newStore func(t *testing.T) *Store) {
	ctx := context.Background()

	t.Run("services are listed by name and filtered by active flag", func(t *testing.T) {
		store := newStore(t)
		for _, s := range []models.Service{
			{Name: "Pedicure", Price: 40, Duration: 45, Category: models.CategoryNails, IsActive: true},
			{Name: "Blow Dry", Price: 30, Duration: 30, Category: models.CategoryHair, IsActive: false},
			{Name: "Color", Price: 90, Duration: 120, Category: models.CategoryHair, IsActive: true},
		} {
			svc := s
			require.NoError(t, store.Services.Create(ctx, &svc))
			assert.NotEqual(t, uuid.Nil, svc.ID)
		}

		all, err := store.Services.List(ctx, ServiceFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"Blow Dry", "Color", "Pedicure"}, serviceNames(all))

		active, err := store.Services.List(ctx, ServiceFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Color", "Pedicure"}, serviceNames(active))

		hair, err := store.Services.List(ctx, ServiceFilter{Category: models.CategoryHair})
		require.NoError(t, err)
		assert.Len(t, hair, 2)
	})

	t.Run("service update and delete report unknown ids", func(t *testing.T) {
		store := newStore(t)
		svc := &models.Service{Name: "Trim", Price: 25, Duration: 20, Category: models.CategoryHair, IsActive: true}
		require.NoError(t, store.Services.Create(ctx, svc))

		svc.Price = 35
		svc.IsActive = false
		require.NoError(t, store.Services.Update(ctx, svc))

		got, err := store.Services.Get(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, 35.0, got.Price)
		assert.False(t, got.IsActive)

		missing := &models.Service{ID: uuid.New(), Name: "Ghost", Duration: 10}
		assert.ErrorIs(t, store.Services.Update(ctx, missing), ErrNotFound)

		require.NoError(t, store.Services.Delete(ctx, svc.ID))
		_, err = store.Services.Get(ctx, svc.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Services.Delete(ctx, svc.ID), ErrNotFound)
	})

	t.Run("stylist specialties keep their order", func(t *testing.T) {
		store := newStore(t)
		st := &models.Stylist{Name: "Ava", Role: models.DefaultStylistRole, Specialties: []string{"Color", "Cuts", "Bridal"}, IsAvailable: true, Rating: 4.5}
		require.NoError(t, store.Stylists.Create(ctx, st))

		got, err := store.Stylists.Get(ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Color", "Cuts", "Bridal"}, got.Specialties)

		got.Specialties[0] = "Changed"
		again, err := store.Stylists.Get(ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, "Color", again.Specialties[0])

		available, err := store.Stylists.List(ctx, StylistFilter{AvailableOnly: true})
		require.NoError(t, err)
		assert.Len(t, available, 1)
	})

	t.Run("appointments are ordered by date then time", func(t *testing.T) {
		store := newStore(t)
		customer := uuid.New()
		other := uuid.New()
		service := uuid.New()
		for _, a := range []models.Appointment{
			{CustomerID: customer, ServiceID: service, AppointmentDate: "2030-05-02", AppointmentTime: "09:00"},
			{CustomerID: customer, ServiceID: service, AppointmentDate: "2030-05-01", AppointmentTime: "14:30"},
			{CustomerID: customer, ServiceID: service, AppointmentDate: "2030-05-01", AppointmentTime: "10:00", Status: models.StatusCancelled},
			{CustomerID: other, ServiceID: service, AppointmentDate: "2030-04-30", AppointmentTime: "11:00"},
		} {
			apt := a
			require.NoError(t, store.Appointments.Create(ctx, &apt))
		}

		mine, err := store.Appointments.List(ctx, AppointmentFilter{CustomerID: &customer})
		require.NoError(t, err)
		require.Len(t, mine, 3)
		assert.Equal(t, "2030-05-01 10:00", mine[0].AppointmentDate+" "+mine[0].AppointmentTime)
		assert.Equal(t, "2030-05-01 14:30", mine[1].AppointmentDate+" "+mine[1].AppointmentTime)
		assert.Equal(t, "2030-05-02 09:00", mine[2].AppointmentDate+" "+mine[2].AppointmentTime)
		assert.Equal(t, models.StatusPending, mine[1].Status)

		pending, err := store.Appointments.List(ctx, AppointmentFilter{Statuses: []models.AppointmentStatus{models.StatusPending}})
		require.NoError(t, err)
		assert.Len(t, pending, 3)

		day, err := store.Appointments.List(ctx, AppointmentFilter{Date: "2030-05-01"})
		require.NoError(t, err)
		assert.Len(t, day, 2)

		ranged, err := store.Appointments.List(ctx, AppointmentFilter{From: "2030-05-01", To: "2030-05-01"})
		require.NoError(t, err)
		assert.Len(t, ranged, 2)
	})

	t.Run("cancelling is an update that keeps the row", func(t *testing.T) {
		store := newStore(t)
		apt := &models.Appointment{CustomerID: uuid.New(), ServiceID: uuid.New(), AppointmentDate: "2030-01-10", AppointmentTime: "12:00"}
		require.NoError(t, store.Appointments.Create(ctx, apt))

		apt.Status = models.StatusCancelled
		require.NoError(t, store.Appointments.Update(ctx, apt))

		all, err := store.Appointments.List(ctx, AppointmentFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, models.StatusCancelled, all[0].Status)
	})

	t.Run("invoice items are replaced on update", func(t *testing.T) {
		store := newStore(t)
		inv := &models.Invoice{
			InvoiceNumber: "INV-20300101-000001",
			ClientName:    "Jane",
			InvoiceDate:   "2030-01-01",
			PaymentStatus: models.PaymentPending,
			Items: []models.InvoiceItem{
				{ServiceID: uuid.New(), ServiceName: "Cut", Quantity: 1, UnitPrice: 50},
				{ServiceID: uuid.New(), ServiceName: "Wash", Quantity: 2, UnitPrice: 10},
			},
		}
		inv.Recalculate()
		require.NoError(t, store.Invoices.Create(ctx, inv))

		got, err := store.Invoices.Get(ctx, inv.ID)
		require.NoError(t, err)
		assert.Len(t, got.Items, 2)
		assert.InDelta(t, 70.0, got.Total, 0.001)

		got.Items = got.Items[:1]
		got.PaymentStatus = models.PaymentPaid
		got.Recalculate()
		require.NoError(t, store.Invoices.Update(ctx, got))

		again, err := store.Invoices.Get(ctx, inv.ID)
		require.NoError(t, err)
		assert.Len(t, again.Items, 1)
		assert.Equal(t, models.PaymentPaid, again.PaymentStatus)

		dup := &models.Invoice{InvoiceNumber: inv.InvoiceNumber, ClientName: "Other", InvoiceDate: "2030-01-02"}
		assert.ErrorIs(t, store.Invoices.Create(ctx, dup), ErrWrite)

		require.NoError(t, store.Invoices.Delete(ctx, inv.ID))
		_, err = store.Invoices.Get(ctx, inv.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("user emails are unique and looked up case-insensitively", func(t *testing.T) {
		store := newStore(t)
		u := &models.User{Email: "ana@example.com", Password: "x", Name: "Ana", Role: models.RoleCustomer, IsActive: true}
		require.NoError(t, store.Users.Create(ctx, u))

		got, err := store.Users.GetByEmail(ctx, "ANA@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		dup := &models.User{Email: "ana@example.com", Password: "y", Name: "Other", Role: models.RoleCustomer}
		assert.ErrorIs(t, store.Users.Create(ctx, dup), ErrWrite)

		_, err = store.Users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reminder logs answer whether a reminder went out", func(t *testing.T) {
		store := newStore(t)
		apt := uuid.New()
		require.NoError(t, store.ReminderLogs.Create(ctx, &models.ReminderLog{
			AppointmentID: apt, CustomerID: uuid.New(), TemplateID: uuid.New(),
			Type: models.ReminderTypeReminder, Status: models.ReminderStatusFailed, SentAt: time.Now(),
		}))
		sent, err := store.ReminderLogs.Exists(ctx, apt, models.ReminderTypeReminder)
		require.NoError(t, err)
		assert.False(t, sent)

		require.NoError(t, store.ReminderLogs.Create(ctx, &models.ReminderLog{
			AppointmentID: apt, CustomerID: uuid.New(), TemplateID: uuid.New(),
			Type: models.ReminderTypeReminder, Status: models.ReminderStatusSent, SentAt: time.Now(),
		}))
		sent, err = store.ReminderLogs.Exists(ctx, apt, models.ReminderTypeReminder)
		require.NoError(t, err)
		assert.True(t, sent)

		logs, err := store.ReminderLogs.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("reports aggregate seeded data", func(t *testing.T) {
		store := newStore(t)
		today := time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)
		require.NoError(t, Seed(ctx, store, today))
		require.NoError(t, Seed(ctx, store, today))

		services, err := store.Services.List(ctx, ServiceFilter{})
		require.NoError(t, err)
		assert.Len(t, services, 6)

		tmpl, err := store.ReminderTemplates.GetByType(ctx, models.ReminderTypeReminder)
		require.NoError(t, err)
		assert.True(t, tmpl.IsActive)

		revenue, err := store.Reports.MonthlyRevenue(ctx, "2030-05-01", "2030-06-30")
		require.NoError(t, err)
		var total float64
		for _, m := range revenue {
			total += m.Amount
		}
		// 65 and 180 plus 8% tax
		assert.InDelta(t, 264.6, total, 0.01)

		count, err := store.Reports.AppointmentCount(ctx, "2030-05-01", "2030-06-30")
		require.NoError(t, err)
		assert.Equal(t, int64(6), count)

		stats, err := store.Reports.ServiceStats(ctx, "2030-05-01", "2030-06-30")
		require.NoError(t, err)
		require.NotEmpty(t, stats)
		assert.Equal(t, "Haircut & Styling", stats[0].Name)
		assert.Equal(t, 2, stats[0].Bookings)
		assert.InDelta(t, 65.0, stats[0].Revenue, 0.01)

		byCategory, err := store.Reports.ExpensesByCategory(ctx, "2030-05-01", "2030-06-30")
		require.NoError(t, err)
		require.Len(t, byCategory, 3)
		assert.Equal(t, "Products", byCategory[0].Category)

		expenses, err := store.Reports.MonthlyExpenses(ctx, "2030-06-01", "2030-06-30")
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "2030-06", expenses[0].Month)
		assert.InDelta(t, 750.5, expenses[0].Amount, 0.01)
	})
}

func serviceNames(services []models.Service) []string {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	return names
}

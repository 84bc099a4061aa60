package repository

import (
	"context"
	"fmt"
	"time"

	"salonsmart-backend/models"

	"github.com/google/uuid"
)

// DemoCustomerID owns the seeded appointments, so demo logins see data in
// "my appointments".
var DemoCustomerID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

func strPtr(s string) *string { return &s }

// Seed loads demo data into store relative to today. It is a no-op when the
// store already holds services.
func Seed(ctx context.Context, store *Store, today time.Time) error {
	existing, err := store.Services.List(ctx, ServiceFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	services := []models.Service{
		{Name: "Haircut & Styling", Description: strPtr("Precision cut with wash and blow-dry"), Price: 65, Duration: 60, Category: models.CategoryHair, IsActive: true},
		{Name: "Balayage", Description: strPtr("Hand-painted highlights for a natural finish"), Price: 180, Duration: 150, Category: models.CategoryHair, IsActive: true},
		{Name: "Keratin Treatment", Description: strPtr("Smoothing treatment that tames frizz"), Price: 220, Duration: 180, Category: models.CategoryTreatment, IsActive: true},
		{Name: "Gel Manicure", Price: 45, Duration: 45, Category: models.CategoryNails, IsActive: true},
		{Name: "Deep Cleansing Facial", Price: 95, Duration: 60, Category: models.CategorySkincare, IsActive: true},
		{Name: "Hot Stone Massage", Price: 120, Duration: 90, Category: models.CategoryMassage, IsActive: false},
	}
	for i := range services {
		if err := store.Services.Create(ctx, &services[i]); err != nil {
			return err
		}
	}

	stylists := []models.Stylist{
		{Name: "Emma W.", Email: strPtr("emma@salonsmart.app"), Phone: strPtr("+15550100"), Role: "Senior Stylist", Specialties: []string{"Balayage", "Color"}, IsAvailable: true, Rating: 4.9},
		{Name: "James K.", Email: strPtr("james@salonsmart.app"), Role: models.DefaultStylistRole, Specialties: []string{"Cuts", "Styling"}, IsAvailable: true, Rating: 4.7},
		{Name: "Sofia R.", Role: "Nail Artist", Specialties: []string{"Nails"}, IsAvailable: true, Rating: 4.8},
		{Name: "Liam T.", Role: "Therapist", Specialties: []string{"Massage", "Skincare"}, IsAvailable: false, Rating: models.DefaultStylistRating},
	}
	for i := range stylists {
		if err := store.Stylists.Create(ctx, &stylists[i]); err != nil {
			return err
		}
	}

	customer := &models.User{
		ID:       DemoCustomerID,
		Email:    "customer@salonsmart.app",
		Name:     "Demo Customer",
		Phone:    "+15550199",
		Role:     models.RoleCustomer,
		IsActive: true,
	}
	if err := store.Users.Create(ctx, customer); err != nil {
		return err
	}

	day := func(offset int) string { return today.AddDate(0, 0, offset).Format(models.DateFormat) }
	stylistID := func(i int) *uuid.UUID { id := stylists[i].ID; return &id }

	appointments := []models.Appointment{
		{ServiceID: services[0].ID, StylistID: stylistID(1), AppointmentDate: day(-21), AppointmentTime: "10:00", Status: models.StatusCompleted},
		{ServiceID: services[1].ID, StylistID: stylistID(0), AppointmentDate: day(-7), AppointmentTime: "13:30", Status: models.StatusCompleted},
		{ServiceID: services[3].ID, StylistID: stylistID(2), AppointmentDate: day(-2), AppointmentTime: "11:00", Status: models.StatusCancelled},
		{ServiceID: services[0].ID, StylistID: stylistID(0), AppointmentDate: day(0), AppointmentTime: "09:30", Status: models.StatusConfirmed},
		{ServiceID: services[4].ID, StylistID: stylistID(1), AppointmentDate: day(0), AppointmentTime: "15:00", Status: models.StatusPending},
		{ServiceID: services[2].ID, StylistID: stylistID(0), AppointmentDate: day(1), AppointmentTime: "10:30", Status: models.StatusConfirmed, Notes: strPtr("Sensitive scalp")},
		{ServiceID: services[3].ID, StylistID: stylistID(2), AppointmentDate: day(3), AppointmentTime: "16:00", Status: models.StatusPending},
	}
	for i := range appointments {
		appointments[i].CustomerID = DemoCustomerID
		if err := store.Appointments.Create(ctx, &appointments[i]); err != nil {
			return err
		}
	}

	for i, a := range appointments[:2] {
		svc := services[0]
		if i == 1 {
			svc = services[1]
		}
		aptID := a.ID
		inv := &models.Invoice{
			InvoiceNumber: fmt.Sprintf("INV-%s-%06d", today.Format("20060102"), i+1),
			CustomerID:    &customer.ID,
			ClientName:    customer.Name,
			AppointmentID: &aptID,
			InvoiceDate:   a.AppointmentDate,
			Tax:           8,
			PaymentStatus: models.PaymentPaid,
			PaymentMethod: models.PaymentMethodCard,
			Items: []models.InvoiceItem{
				{ServiceID: svc.ID, ServiceName: svc.Name, Quantity: 1, UnitPrice: svc.Price},
			},
		}
		inv.Recalculate()
		if err := store.Invoices.Create(ctx, inv); err != nil {
			return err
		}
	}

	expenses := []models.Expense{
		{Description: "Color stock reorder", Category: "Products", Amount: 420, ExpenseDate: day(-12)},
		{Description: "Electricity", Category: "Utilities", Amount: 180.5, ExpenseDate: day(-10)},
		{Description: "Instagram promotion", Category: "Marketing", Amount: 150, ExpenseDate: day(-3)},
	}
	for i := range expenses {
		if err := store.Expenses.Create(ctx, &expenses[i]); err != nil {
			return err
		}
	}

	templates := []models.ReminderTemplate{
		{Type: models.ReminderTypeReminder, Message: "Hi [CustomerName], a reminder of your [ServiceName] with [StylistName] on [Date] at [Time].", IsActive: true},
		{Type: models.ReminderTypeConfirmation, Message: "Hi [CustomerName], your [ServiceName] with [StylistName] on [Date] at [Time] is confirmed.", IsActive: true},
	}
	for i := range templates {
		if err := store.ReminderTemplates.Create(ctx, &templates[i]); err != nil {
			return err
		}
	}
	return nil
}

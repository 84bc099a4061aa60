package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Service{},
		&Stylist{},
		&Appointment{},
		&Invoice{},
		&InvoiceItem{},
		&Expense{},
		&ReminderTemplate{},
		&ReminderLog{},
	}
}

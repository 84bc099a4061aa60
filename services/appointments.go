package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"salonsmart-backend/booking"
	"salonsmart-backend/models"
	"salonsmart-backend/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppointmentInput creates an appointment. CustomerID is only honoured for
// operators booking on behalf of a customer.
type AppointmentInput struct {
	CustomerID      *uuid.UUID `json:"customer_id"`
	ServiceID       uuid.UUID  `json:"service_id"`
	StylistID       *uuid.UUID `json:"stylist_id"`
	AppointmentDate string     `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	Notes           *string    `json:"notes"`
}

// AppointmentPatch is a partial update. Customers may only send
// {"status": "cancelled"}.
type AppointmentPatch struct {
	Status          *models.AppointmentStatus `json:"status"`
	StylistID       *uuid.UUID                `json:"stylist_id"`
	AppointmentDate *string                   `json:"appointment_date"`
	AppointmentTime *string                   `json:"appointment_time"`
	Notes           *string                   `json:"notes"`
}

func (p AppointmentPatch) onlyCancels() bool {
	return p.Status != nil && *p.Status == models.StatusCancelled &&
		p.StylistID == nil && p.AppointmentDate == nil && p.AppointmentTime == nil && p.Notes == nil
}

type AppointmentQuery struct {
	Date      string
	From      string
	To        string
	Status    models.AppointmentStatus
	StylistID *uuid.UUID
}

// MyAppointments splits a customer's bookings the way the "my appointments"
// page shows them.
type MyAppointments struct {
	Upcoming []models.Appointment `json:"upcoming"`
	Past     []models.Appointment `json:"past"`
}

type AppointmentServiceConfig struct {
	PreventDoubleBooking bool
	Now                  func() time.Time
}

type AppointmentService struct {
	store    *repository.Store
	validate *validator.Validate
	logger   *zap.Logger
	recorder Recorder
	cfg      AppointmentServiceConfig
}

func NewAppointmentService(store *repository.Store, validate *validator.Validate, logger *zap.Logger, recorder Recorder, cfg AppointmentServiceConfig) *AppointmentService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AppointmentService{
		store:    store,
		validate: validate,
		logger:   logger.Named("appointments"),
		recorder: orNop(recorder),
		cfg:      cfg,
	}
}

func (s *AppointmentService) today() string {
	return s.cfg.Now().Format(models.DateFormat)
}

// List returns appointments ordered by date then time. Customers only ever
// see their own.
func (s *AppointmentService) List(ctx context.Context, actor Actor, q AppointmentQuery) ([]models.Appointment, error) {
	filter := repository.AppointmentFilter{
		Date:      q.Date,
		From:      q.From,
		To:        q.To,
		StylistID: q.StylistID,
	}
	if q.Status != "" {
		if !models.ValidStatus(q.Status) {
			return nil, NewValidationError("status", "must be one of: pending confirmed completed cancelled")
		}
		filter.Statuses = []models.AppointmentStatus{q.Status}
	}
	if !actor.IsOperator() {
		id := actor.UserID
		filter.CustomerID = &id
	}
	list, err := s.store.Appointments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, list)
}

// ListMine returns the actor's appointments: upcoming are today or later and
// not cancelled, everything else is past. Past is newest first.
func (s *AppointmentService) ListMine(ctx context.Context, actor Actor) (*MyAppointments, error) {
	id := actor.UserID
	list, err := s.store.Appointments.List(ctx, repository.AppointmentFilter{CustomerID: &id})
	if err != nil {
		return nil, err
	}
	list, err = s.hydrate(ctx, list)
	if err != nil {
		return nil, err
	}
	today := s.today()
	out := &MyAppointments{Upcoming: []models.Appointment{}, Past: []models.Appointment{}}
	for _, a := range list {
		if a.AppointmentDate >= today && a.IsActive() {
			out.Upcoming = append(out.Upcoming, a)
		} else {
			out.Past = append(out.Past, a)
		}
	}
	sort.SliceStable(out.Past, func(i, j int) bool {
		if out.Past[i].AppointmentDate != out.Past[j].AppointmentDate {
			return out.Past[i].AppointmentDate > out.Past[j].AppointmentDate
		}
		return out.Past[i].AppointmentTime > out.Past[j].AppointmentTime
	})
	return out, nil
}

// Today is the operator's schedule for the current day, cancellations excluded.
func (s *AppointmentService) Today(ctx context.Context, actor Actor) ([]models.Appointment, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	list, err := s.store.Appointments.List(ctx, repository.AppointmentFilter{
		Date:     s.today(),
		Statuses: []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed, models.StatusCompleted},
	})
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, list)
}

func (s *AppointmentService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Appointment, error) {
	a, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	list, err := s.hydrate(ctx, []models.Appointment{*a})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// owned loads an appointment the actor may see. Another customer's
// appointment is reported as not found.
func (s *AppointmentService) owned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Appointment, error) {
	a, err := s.store.Appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsOperator() && a.CustomerID != actor.UserID {
		return nil, fmt.Errorf("%w: appointment %s", repository.ErrNotFound, id)
	}
	return a, nil
}

// Create validates the booking before any write and stores it as pending.
func (s *AppointmentService) Create(ctx context.Context, actor Actor, in AppointmentInput) (*models.Appointment, error) {
	customerID := actor.UserID
	if in.CustomerID != nil && *in.CustomerID != actor.UserID {
		if !actor.IsOperator() {
			return nil, ErrForbidden
		}
		customerID = *in.CustomerID
	}

	a := &models.Appointment{
		ID:              uuid.New(),
		CustomerID:      customerID,
		ServiceID:       in.ServiceID,
		StylistID:       in.StylistID,
		AppointmentDate: strings.TrimSpace(in.AppointmentDate),
		AppointmentTime: strings.TrimSpace(in.AppointmentTime),
		Status:          models.StatusPending,
		Notes:           trimmed(in.Notes),
	}
	if err := s.check(ctx, actor, a, true); err != nil {
		return nil, err
	}
	if err := s.store.Appointments.Create(ctx, a); err != nil {
		s.logger.Error("create appointment failed", zap.String("customer", customerID.String()), zap.Error(err))
		return nil, err
	}
	s.recorder.AppointmentBooked(string(actor.Role))
	s.logger.Info("appointment booked",
		zap.String("id", a.ID.String()),
		zap.String("date", a.AppointmentDate),
		zap.String("time", a.AppointmentTime),
	)
	list, err := s.hydrate(ctx, []models.Appointment{*a})
	if err != nil {
		return a, nil
	}
	return &list[0], nil
}

// Submitter binds the booking flow's single create call to actor.
func (s *AppointmentService) Submitter(actor Actor) booking.Submitter {
	return booking.SubmitterFunc(func(ctx context.Context, req booking.Request) (*models.Appointment, error) {
		stylistID := req.StylistID
		in := AppointmentInput{
			ServiceID:       req.ServiceID,
			StylistID:       &stylistID,
			AppointmentDate: req.Date,
			AppointmentTime: req.Time,
		}
		if req.Notes != "" {
			notes := req.Notes
			in.Notes = &notes
		}
		return s.Create(ctx, actor, in)
	})
}

// check validates a new or rescheduled appointment before any write. Status
// and notes changes only need the field rules.
func (s *AppointmentService) check(ctx context.Context, actor Actor, a *models.Appointment, slotChanged bool) error {
	if err := checkStruct(s.validate, a); err != nil {
		return err
	}
	if !slotChanged {
		return nil
	}
	fields := map[string]string{}

	if !booking.IsSlot(a.AppointmentTime) {
		fields["appointment_time"] = "must be one of the offered slots"
	}
	// operators may record walk-ins and back-dated bookings
	if err := booking.ValidDate(a.AppointmentDate, s.cfg.Now()); err != nil && !actor.IsOperator() {
		fields["appointment_date"] = "must be today or later and not a Sunday"
	}

	svc, err := s.store.Services.Get(ctx, a.ServiceID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fields["service_id"] = "does not exist"
	case err != nil:
		return err
	case !svc.IsActive && !actor.IsOperator():
		fields["service_id"] = "is not available for booking"
	}

	if a.StylistID != nil {
		st, err := s.store.Stylists.Get(ctx, *a.StylistID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			fields["stylist_id"] = "does not exist"
		case err != nil:
			return err
		case !st.IsAvailable:
			fields["stylist_id"] = "is not available"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	if s.cfg.PreventDoubleBooking && a.StylistID != nil {
		return s.ensureSlotFree(ctx, a)
	}
	return nil
}

func (s *AppointmentService) ensureSlotFree(ctx context.Context, a *models.Appointment) error {
	held, err := s.store.Appointments.List(ctx, repository.AppointmentFilter{
		StylistID: a.StylistID,
		Date:      a.AppointmentDate,
		Statuses:  []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed, models.StatusCompleted},
	})
	if err != nil {
		return err
	}
	for _, other := range held {
		if other.ID != a.ID && other.AppointmentTime == a.AppointmentTime {
			return fmt.Errorf("%w: %s at %s", ErrSlotTaken, a.AppointmentDate, a.AppointmentTime)
		}
	}
	return nil
}

// Update merges patch into the stored appointment. Status changes follow
// the appointment lifecycle; customers may only cancel their own bookings.
func (s *AppointmentService) Update(ctx context.Context, actor Actor, id uuid.UUID, patch AppointmentPatch) (*models.Appointment, error) {
	if !actor.IsOperator() && !patch.onlyCancels() {
		return nil, ErrForbidden
	}
	a, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != a.Status {
		if !models.ValidStatus(*patch.Status) {
			return nil, NewValidationError("status", "must be one of: pending confirmed completed cancelled")
		}
		if !a.CanTransitionTo(*patch.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, *patch.Status)
		}
		a.Status = *patch.Status
	}

	slotChanged := false
	if patch.StylistID != nil && (a.StylistID == nil || *a.StylistID != *patch.StylistID) {
		a.StylistID = patch.StylistID
		slotChanged = true
	}
	if patch.AppointmentDate != nil && *patch.AppointmentDate != a.AppointmentDate {
		a.AppointmentDate = strings.TrimSpace(*patch.AppointmentDate)
		slotChanged = true
	}
	if patch.AppointmentTime != nil && *patch.AppointmentTime != a.AppointmentTime {
		a.AppointmentTime = strings.TrimSpace(*patch.AppointmentTime)
		slotChanged = true
	}
	if patch.Notes != nil {
		a.Notes = trimmed(patch.Notes)
	}
	if slotChanged && !a.CanBeCancelled() {
		return nil, fmt.Errorf("%w: cannot reschedule a %s appointment", ErrInvalidTransition, a.Status)
	}

	if err := s.check(ctx, actor, a, slotChanged); err != nil {
		return nil, err
	}
	if err := s.store.Appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("appointment updated", zap.String("id", id.String()), zap.String("status", string(a.Status)))
	list, err := s.hydrate(ctx, []models.Appointment{*a})
	if err != nil {
		return a, nil
	}
	return &list[0], nil
}

// Delete cancels the appointment; appointments are never removed.
func (s *AppointmentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	cancelled := models.StatusCancelled
	_, err := s.Update(ctx, actor, id, AppointmentPatch{Status: &cancelled})
	return err
}

// hydrate fills the service and stylist summaries with one list call each.
func (s *AppointmentService) hydrate(ctx context.Context, list []models.Appointment) ([]models.Appointment, error) {
	if len(list) == 0 {
		return list, nil
	}
	services, err := s.store.Services.List(ctx, repository.ServiceFilter{})
	if err != nil {
		return nil, err
	}
	stylists, err := s.store.Stylists.List(ctx, repository.StylistFilter{})
	if err != nil {
		return nil, err
	}
	svcByID := make(map[uuid.UUID]*models.ServiceSummary, len(services))
	for i := range services {
		svcByID[services[i].ID] = services[i].Summary()
	}
	stByID := make(map[uuid.UUID]*models.StylistSummary, len(stylists))
	for i := range stylists {
		stByID[stylists[i].ID] = stylists[i].Summary()
	}
	for i := range list {
		list[i].Service = svcByID[list[i].ServiceID]
		if list[i].StylistID != nil {
			list[i].Stylist = stByID[*list[i].StylistID]
		}
	}
	return list, nil
}

package services

import (
	"context"

	"salonsmart-backend/booking"
	"salonsmart-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitResult is what a booking session submit returns to the client.
type SubmitResult struct {
	Appointment  *models.Appointment  `json:"appointment,omitempty"`
	Notification booking.Notification `json:"notification"`
	State        booking.Snapshot     `json:"state"`
}

// BookingService drives server-side booking sessions. Service and stylist
// choices are resolved through the catalogue so customers cannot pick
// hidden entries.
type BookingService struct {
	sessions     *booking.Sessions
	catalog      *CatalogService
	staff        *StaffService
	appointments *AppointmentService
	logger       *zap.Logger
}

func NewBookingService(sessions *booking.Sessions, catalog *CatalogService, staff *StaffService, appointments *AppointmentService, logger *zap.Logger) *BookingService {
	return &BookingService{
		sessions:     sessions,
		catalog:      catalog,
		staff:        staff,
		appointments: appointments,
		logger:       logger.Named("booking"),
	}
}

// Open starts a session, optionally with a preselected service.
func (s *BookingService) Open(ctx context.Context, actor Actor, serviceID *uuid.UUID) (uuid.UUID, booking.Snapshot, error) {
	var preselected *models.Service
	if serviceID != nil {
		svc, err := s.catalog.Get(ctx, actor, *serviceID)
		if err != nil {
			return uuid.Nil, booking.Snapshot{}, err
		}
		if !svc.IsActive {
			return uuid.Nil, booking.Snapshot{}, booking.ErrServiceInactive
		}
		preselected = svc
	}
	sess := s.sessions.Open(actor.UserID, preselected)
	return sess.ID, sess.Flow.Snapshot(), nil
}

func (s *BookingService) flow(actor Actor, id uuid.UUID) (*booking.Flow, error) {
	sess, err := s.sessions.Get(id, actor.UserID)
	if err != nil {
		return nil, err
	}
	return sess.Flow, nil
}

// do runs op against the session's flow and returns the resulting state.
func (s *BookingService) do(actor Actor, id uuid.UUID, op func(*booking.Flow) error) (booking.Snapshot, error) {
	f, err := s.flow(actor, id)
	if err != nil {
		return booking.Snapshot{}, err
	}
	if err := op(f); err != nil {
		return f.Snapshot(), err
	}
	return f.Snapshot(), nil
}

func (s *BookingService) Snapshot(actor Actor, id uuid.UUID) (booking.Snapshot, error) {
	return s.do(actor, id, func(*booking.Flow) error { return nil })
}

func (s *BookingService) SelectService(ctx context.Context, actor Actor, id, serviceID uuid.UUID) (booking.Snapshot, error) {
	f, err := s.flow(actor, id)
	if err != nil {
		return booking.Snapshot{}, err
	}
	svc, err := s.catalog.Get(ctx, actor, serviceID)
	if err != nil {
		return f.Snapshot(), err
	}
	if err := f.SelectService(svc); err != nil {
		return f.Snapshot(), err
	}
	return f.Snapshot(), nil
}

func (s *BookingService) SelectStylist(ctx context.Context, actor Actor, id, stylistID uuid.UUID) (booking.Snapshot, error) {
	f, err := s.flow(actor, id)
	if err != nil {
		return booking.Snapshot{}, err
	}
	st, err := s.staff.Get(ctx, actor, stylistID)
	if err != nil {
		return f.Snapshot(), err
	}
	if err := f.SelectStylist(st); err != nil {
		return f.Snapshot(), err
	}
	return f.Snapshot(), nil
}

// SelectDateTime sets whichever of date and time is given.
func (s *BookingService) SelectDateTime(actor Actor, id uuid.UUID, date, slot *string) (booking.Snapshot, error) {
	return s.do(actor, id, func(f *booking.Flow) error {
		if date != nil {
			if err := f.SelectDate(*date); err != nil {
				return err
			}
		}
		if slot != nil {
			return f.SelectTime(*slot)
		}
		return nil
	})
}

func (s *BookingService) SetNotes(actor Actor, id uuid.UUID, notes string) (booking.Snapshot, error) {
	return s.do(actor, id, func(f *booking.Flow) error { return f.SetNotes(notes) })
}

func (s *BookingService) Next(actor Actor, id uuid.UUID) (booking.Snapshot, error) {
	return s.do(actor, id, (*booking.Flow).Next)
}

func (s *BookingService) Back(actor Actor, id uuid.UUID) (booking.Snapshot, error) {
	return s.do(actor, id, (*booking.Flow).Back)
}

// Submit books the session's selections. A successful submit closes the
// session; after a failure it stays open with its selections for a retry.
func (s *BookingService) Submit(ctx context.Context, actor Actor, id uuid.UUID) (*SubmitResult, error) {
	f, err := s.flow(actor, id)
	if err != nil {
		return nil, err
	}
	apt, note, err := f.Submit(ctx, s.appointments.Submitter(actor))
	res := &SubmitResult{Appointment: apt, Notification: note, State: f.Snapshot()}
	if err != nil {
		s.logger.Info("booking submit failed", zap.String("session", id.String()), zap.Error(err))
		return res, err
	}
	if err := s.sessions.Close(id, actor.UserID); err != nil {
		s.logger.Warn("close booked session failed", zap.String("session", id.String()), zap.Error(err))
	}
	return res, nil
}

func (s *BookingService) Close(actor Actor, id uuid.UUID) error {
	return s.sessions.Close(id, actor.UserID)
}

// Package booking drives the step-by-step booking flow:
// service -> stylist -> datetime -> confirm -> submit.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"salonsmart-backend/models"

	"github.com/google/uuid"
)

type Step string

const (
	StepService  Step = "service"
	StepStylist  Step = "stylist"
	StepDateTime Step = "datetime"
	StepConfirm  Step = "confirm"
)

var stepOrder = []Step{StepService, StepStylist, StepDateTime, StepConfirm}

func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// Request is the single create call a submit performs.
type Request struct {
	ServiceID uuid.UUID
	StylistID uuid.UUID
	Date      string
	Time      string
	Notes     string
}

// Submitter creates the appointment for a completed flow.
type Submitter interface {
	Book(ctx context.Context, req Request) (*models.Appointment, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req Request) (*models.Appointment, error)

func (f SubmitterFunc) Book(ctx context.Context, req Request) (*models.Appointment, error) {
	return f(ctx, req)
}

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is the message shown to the user after a submit.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

// Snapshot is a read-only copy of the flow state.
type Snapshot struct {
	Step       Step            `json:"step"`
	Service    *models.Service `json:"service"`
	Stylist    *models.Stylist `json:"stylist"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Notes      string          `json:"notes"`
	Submitting bool            `json:"submitting"`
	CanGoBack  bool            `json:"can_go_back"`
	CanGoNext  bool            `json:"can_go_next"`
}

// Flow holds the selections of one booking in progress. It is safe for
// concurrent use; a second Submit while one is running fails fast.
type Flow struct {
	mu  sync.Mutex
	now func() time.Time

	preselected *models.Service

	step       Step
	service    *models.Service
	stylist    *models.Stylist
	date       string
	time       string
	notes      string
	submitting bool
}

// New opens a flow. With a preselected service the flow starts at the
// stylist step and the service step cannot be reached.
func New(preselected *models.Service, now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}
	f := &Flow{now: now}
	if preselected != nil {
		s := *preselected
		f.preselected = &s
	}
	f.reset()
	return f
}

func (f *Flow) initialStep() Step {
	if f.preselected != nil {
		return StepStylist
	}
	return StepService
}

func (f *Flow) reset() {
	f.step = f.initialStep()
	f.service = nil
	if f.preselected != nil {
		s := *f.preselected
		f.service = &s
	}
	f.stylist = nil
	f.date = ""
	f.time = ""
	f.notes = ""
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) SelectService(service *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepService {
		return fmt.Errorf("%w: service is chosen at the %s step", ErrWrongStep, StepService)
	}
	if !service.IsActive {
		return ErrServiceInactive
	}
	s := *service
	f.service = &s
	return nil
}

func (f *Flow) SelectStylist(stylist *models.Stylist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepStylist {
		return fmt.Errorf("%w: stylist is chosen at the %s step", ErrWrongStep, StepStylist)
	}
	if !stylist.IsAvailable {
		return ErrStylistUnavailable
	}
	s := *stylist
	s.Specialties = append([]string(nil), stylist.Specialties...)
	f.stylist = &s
	return nil
}

// SelectDate takes a yyyy-MM-dd date that is today or later and not a Sunday.
func (f *Flow) SelectDate(date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepDateTime {
		return fmt.Errorf("%w: date is chosen at the %s step", ErrWrongStep, StepDateTime)
	}
	if err := ValidDate(date, f.now()); err != nil {
		return err
	}
	f.date = date
	return nil
}

func (f *Flow) SelectTime(slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepDateTime {
		return fmt.Errorf("%w: time is chosen at the %s step", ErrWrongStep, StepDateTime)
	}
	if !IsSlot(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	f.time = slot
	return nil
}

func (f *Flow) SetNotes(notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepConfirm {
		return fmt.Errorf("%w: notes are added at the %s step", ErrWrongStep, StepConfirm)
	}
	if f.submitting {
		return ErrSubmitInFlight
	}
	if len([]rune(notes)) > models.MaxNotesLength {
		return fmt.Errorf("%w: at most %d characters", ErrNotesTooLong, models.MaxNotesLength)
	}
	f.notes = notes
	return nil
}

// complete is the gate for leaving the current step.
func (f *Flow) complete() error {
	switch f.step {
	case StepService:
		if f.service == nil {
			return fmt.Errorf("%w: select a service", ErrIncomplete)
		}
	case StepStylist:
		if f.stylist == nil {
			return fmt.Errorf("%w: select a stylist", ErrIncomplete)
		}
	case StepDateTime:
		if f.date == "" || f.time == "" {
			return fmt.Errorf("%w: select a date and a time", ErrIncomplete)
		}
		// the date may have become past while the flow sat idle
		if err := ValidDate(f.date, f.now()); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepConfirm {
		return fmt.Errorf("%w: submit from the %s step", ErrWrongStep, StepConfirm)
	}
	if err := f.complete(); err != nil {
		return err
	}
	f.step = stepOrder[f.step.index()+1]
	return nil
}

// Back moves one step backwards keeping every selection.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == f.initialStep() {
		return ErrAtFirstStep
	}
	if f.submitting {
		return ErrSubmitInFlight
	}
	f.step = stepOrder[f.step.index()-1]
	return nil
}

// Reset discards every selection except a preselected service.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := Snapshot{
		Step:       f.step,
		Date:       f.date,
		Time:       f.time,
		Notes:      f.notes,
		Submitting: f.submitting,
		CanGoBack:  f.step != f.initialStep() && !f.submitting,
		CanGoNext:  f.step != StepConfirm && f.complete() == nil,
	}
	if f.service != nil {
		s := *f.service
		snap.Service = &s
	}
	if f.stylist != nil {
		s := *f.stylist
		snap.Stylist = &s
	}
	return snap
}

// Submit performs exactly one Book call. On success the flow resets; on
// failure every selection is kept so the user can retry.
func (f *Flow) Submit(ctx context.Context, submitter Submitter) (*models.Appointment, Notification, error) {
	f.mu.Lock()
	if f.step != StepConfirm {
		f.mu.Unlock()
		return nil, Notification{}, fmt.Errorf("%w: submit from the %s step", ErrWrongStep, StepConfirm)
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, Notification{}, ErrSubmitInFlight
	}
	if f.service == nil || f.stylist == nil || f.date == "" || f.time == "" {
		f.mu.Unlock()
		return nil, Notification{}, ErrIncomplete
	}
	if err := ValidDate(f.date, f.now()); err != nil {
		f.mu.Unlock()
		return nil, Notification{}, err
	}
	f.submitting = true
	req := Request{
		ServiceID: f.service.ID,
		StylistID: f.stylist.ID,
		Date:      f.date,
		Time:      f.time,
		Notes:     f.notes,
	}
	serviceName, stylistName := f.service.Name, f.stylist.Name
	f.mu.Unlock()

	appointment, err := submitter.Book(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		return nil, Notification{
			Title:       "Booking Failed",
			Description: "There was an error booking your appointment. Please try again.",
			Variant:     VariantDestructive,
		}, err
	}
	f.reset()
	return appointment, Notification{
		Title:       "Appointment Booked!",
		Description: fmt.Sprintf("Your %s appointment with %s is confirmed.", serviceName, stylistName),
		Variant:     VariantDefault,
	}, nil
}

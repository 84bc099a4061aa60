package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"salonsmart-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Monday 3 March 2025
var testNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Book(ctx context.Context, req Request) (*models.Appointment, error) {
	args := m.Called(ctx, req)
	apt, _ := args.Get(0).(*models.Appointment)
	return apt, args.Error(1)
}

func testService() *models.Service {
	return &models.Service{ID: uuid.New(), Name: "Balayage", Price: 180, Duration: 150, IsActive: true}
}

func testStylist() *models.Stylist {
	return &models.Stylist{ID: uuid.New(), Name: "Emma W.", IsAvailable: true, Specialties: []string{"Color"}}
}

// walkToConfirm drives a fresh flow to the confirm step.
func walkToConfirm(t *testing.T, f *Flow, svc *models.Service, st *models.Stylist) {
	t.Helper()
	if f.Step() == StepService {
		require.NoError(t, f.SelectService(svc))
		require.NoError(t, f.Next())
	}
	require.NoError(t, f.SelectStylist(st))
	require.NoError(t, f.Next())
	require.NoError(t, f.SelectDate("2025-03-10"))
	require.NoError(t, f.SelectTime("10:00"))
	require.NoError(t, f.Next())
	require.Equal(t, StepConfirm, f.Step())
}

func TestSlots(t *testing.T) {
	require.Len(t, Slots, 18)
	assert.Equal(t, "09:00", Slots[0])
	assert.Equal(t, "17:30", Slots[len(Slots)-1])
	assert.True(t, IsSlot("12:30"))
	assert.False(t, IsSlot("18:00"))
	assert.False(t, IsSlot("10:15"))
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		ok   bool
	}{
		{"today", "2025-03-03", true},
		{"next monday", "2025-03-10", true},
		{"yesterday", "2025-03-02", false},
		{"sunday", "2025-03-09", false},
		{"garbage", "10/03/2025", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidDate(tt.date, testNow)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidDate)
			}
		})
	}
}

func TestFlow_EntryStep(t *testing.T) {
	assert.Equal(t, StepService, New(nil, fixedClock).Step())

	svc := testService()
	f := New(svc, fixedClock)
	assert.Equal(t, StepStylist, f.Step())
	assert.Equal(t, svc.ID, f.Snapshot().Service.ID)
	assert.ErrorIs(t, f.Back(), ErrAtFirstStep)
}

func TestFlow_ForwardIsGated(t *testing.T) {
	f := New(nil, fixedClock)
	assert.ErrorIs(t, f.Next(), ErrIncomplete)
	assert.ErrorIs(t, f.SelectStylist(testStylist()), ErrWrongStep)

	require.NoError(t, f.SelectService(testService()))
	require.NoError(t, f.Next())
	assert.ErrorIs(t, f.Next(), ErrIncomplete)

	require.NoError(t, f.SelectStylist(testStylist()))
	require.NoError(t, f.Next())

	assert.ErrorIs(t, f.SelectDate("2025-03-09"), ErrInvalidDate)
	assert.ErrorIs(t, f.SelectTime("08:30"), ErrInvalidSlot)
	require.NoError(t, f.SelectDate("2025-03-10"))
	assert.ErrorIs(t, f.Next(), ErrIncomplete)
	assert.False(t, f.Snapshot().CanGoNext)

	require.NoError(t, f.SelectTime("10:00"))
	assert.True(t, f.Snapshot().CanGoNext)
	require.NoError(t, f.Next())
	assert.ErrorIs(t, f.Next(), ErrWrongStep)
}

func TestFlow_RejectsInactiveAndUnavailable(t *testing.T) {
	f := New(nil, fixedClock)
	svc := testService()
	svc.IsActive = false
	assert.ErrorIs(t, f.SelectService(svc), ErrServiceInactive)

	require.NoError(t, f.SelectService(testService()))
	require.NoError(t, f.Next())
	st := testStylist()
	st.IsAvailable = false
	assert.ErrorIs(t, f.SelectStylist(st), ErrStylistUnavailable)
}

func TestFlow_BackKeepsSelections(t *testing.T) {
	f := New(nil, fixedClock)
	svc, st := testService(), testStylist()
	walkToConfirm(t, f, svc, st)

	require.NoError(t, f.Back())
	assert.Equal(t, StepDateTime, f.Step())
	require.NoError(t, f.Back())
	assert.Equal(t, StepStylist, f.Step())
	assert.Equal(t, st.ID, f.Snapshot().Stylist.ID)

	require.NoError(t, f.Next())
	snap := f.Snapshot()
	assert.Equal(t, StepDateTime, snap.Step)
	assert.Equal(t, "2025-03-10", snap.Date)
	assert.Equal(t, "10:00", snap.Time)
	assert.Equal(t, svc.ID, snap.Service.ID)
}

func TestFlow_ResetRestoresDefaults(t *testing.T) {
	t.Run("without preselection", func(t *testing.T) {
		f := New(nil, fixedClock)
		walkToConfirm(t, f, testService(), testStylist())
		require.NoError(t, f.SetNotes("window seat"))

		f.Reset()
		snap := f.Snapshot()
		assert.Equal(t, StepService, snap.Step)
		assert.Nil(t, snap.Service)
		assert.Nil(t, snap.Stylist)
		assert.Empty(t, snap.Date)
		assert.Empty(t, snap.Time)
		assert.Empty(t, snap.Notes)
	})

	t.Run("with preselection", func(t *testing.T) {
		svc := testService()
		f := New(svc, fixedClock)
		walkToConfirm(t, f, nil, testStylist())

		f.Reset()
		snap := f.Snapshot()
		assert.Equal(t, StepStylist, snap.Step)
		require.NotNil(t, snap.Service)
		assert.Equal(t, svc.ID, snap.Service.ID)
		assert.Nil(t, snap.Stylist)
	})
}

func TestFlow_NotesLimit(t *testing.T) {
	f := New(nil, fixedClock)
	walkToConfirm(t, f, testService(), testStylist())
	assert.ErrorIs(t, f.SetNotes(strings.Repeat("a", models.MaxNotesLength+1)), ErrNotesTooLong)
	assert.NoError(t, f.SetNotes(strings.Repeat("a", models.MaxNotesLength)))
}

func TestFlow_SubmitSuccess(t *testing.T) {
	f := New(nil, fixedClock)
	svc, st := testService(), testStylist()
	walkToConfirm(t, f, svc, st)
	require.NoError(t, f.SetNotes("first visit"))

	want := Request{ServiceID: svc.ID, StylistID: st.ID, Date: "2025-03-10", Time: "10:00", Notes: "first visit"}
	created := &models.Appointment{ID: uuid.New(), Status: models.StatusPending}
	sub := &mockSubmitter{}
	sub.On("Book", mock.Anything, want).Return(created, nil).Once()

	apt, note, err := f.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, created, apt)
	assert.Equal(t, "Appointment Booked!", note.Title)
	assert.Equal(t, "Your Balayage appointment with Emma W. is confirmed.", note.Description)
	assert.Equal(t, VariantDefault, note.Variant)

	sub.AssertExpectations(t)
	sub.AssertNumberOfCalls(t, "Book", 1)
	assert.Equal(t, StepService, f.Step())
	assert.Nil(t, f.Snapshot().Service)
}

func TestFlow_SubmitFailureKeepsState(t *testing.T) {
	f := New(nil, fixedClock)
	walkToConfirm(t, f, testService(), testStylist())

	sub := &mockSubmitter{}
	sub.On("Book", mock.Anything, mock.Anything).Return(nil, errors.New("write failed")).Once()

	apt, note, err := f.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Nil(t, apt)
	assert.Equal(t, "Booking Failed", note.Title)
	assert.Equal(t, VariantDestructive, note.Variant)

	snap := f.Snapshot()
	assert.Equal(t, StepConfirm, snap.Step)
	assert.Equal(t, "2025-03-10", snap.Date)
	assert.False(t, snap.Submitting)
}

func TestFlow_SubmitOutsideConfirm(t *testing.T) {
	f := New(nil, fixedClock)
	_, _, err := f.Submit(context.Background(), &mockSubmitter{})
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestFlow_SubmitInFlightGuard(t *testing.T) {
	f := New(nil, fixedClock)
	walkToConfirm(t, f, testService(), testStylist())

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	slow := SubmitterFunc(func(ctx context.Context, req Request) (*models.Appointment, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return &models.Appointment{ID: uuid.New()}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, _, err := f.Submit(context.Background(), slow)
		done <- err
	}()
	<-started

	assert.True(t, f.Snapshot().Submitting)
	_, _, err := f.Submit(context.Background(), slow)
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.ErrorIs(t, f.Back(), ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestFlow_SubmitRevalidatesDate(t *testing.T) {
	now := testNow
	f := New(nil, func() time.Time { return now })
	walkToConfirm(t, f, testService(), testStylist())

	now = time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	_, _, err := f.Submit(context.Background(), &mockSubmitter{})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

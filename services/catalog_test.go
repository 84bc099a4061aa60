package services

import (
	"context"
	"testing"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockServiceRepo struct {
	mock.Mock
}

func (m *mockServiceRepo) List(ctx context.Context, filter repository.ServiceFilter) ([]models.Service, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]models.Service)
	return list, args.Error(1)
}

func (m *mockServiceRepo) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	svc, _ := args.Get(0).(*models.Service)
	return svc, args.Error(1)
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	return m.Called(ctx, svc).Error(0)
}

func (m *mockServiceRepo) Update(ctx context.Context, svc *models.Service) error {
	return m.Called(ctx, svc).Error(0)
}

func (m *mockServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestCatalogRejectsInvalidServiceBeforeWriting(t *testing.T) {
	repo := &mockServiceRepo{}
	svc := NewCatalogService(repo, utils.NewValidator(), zap.NewNop())

	_, err := svc.Create(context.Background(), admin, ServiceFields{
		Name:     ptr("Marathon Spa Day"),
		Price:    ptr(300.0),
		Duration: ptr(500),
	})

	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "duration")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields ServiceFields
		field  string
	}{
		{"blank name", ServiceFields{Name: ptr("  "), Price: ptr(10.0), Duration: ptr(30)}, "name"},
		{"negative price", ServiceFields{Name: ptr("Trim"), Price: ptr(-1.0), Duration: ptr(30)}, "price"},
		{"zero duration", ServiceFields{Name: ptr("Trim"), Price: ptr(10.0), Duration: ptr(0)}, "duration"},
		{"unknown category", ServiceFields{Name: ptr("Trim"), Price: ptr(10.0), Duration: ptr(30), Category: ptr("Tattoo")}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockServiceRepo{}
			svc := NewCatalogService(repo, utils.NewValidator(), zap.NewNop())
			_, err := svc.Create(context.Background(), admin, tt.fields)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogCreateDefaults(t *testing.T) {
	repo := &mockServiceRepo{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Service")).Return(nil).Once()
	svc := NewCatalogService(repo, utils.NewValidator(), zap.NewNop())

	got, err := svc.Create(context.Background(), admin, ServiceFields{
		Name:     ptr(" Express Blow Dry "),
		Price:    ptr(0.0),
		Duration: ptr(480),
	})
	require.NoError(t, err)
	assert.Equal(t, "Express Blow Dry", got.Name)
	assert.Equal(t, models.CategoryHair, got.Category)
	assert.True(t, got.IsActive)
	assert.NotEqual(t, uuid.Nil, got.ID)
	repo.AssertExpectations(t)
}

func TestCatalogVisibility(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store.Services, f.validate, f.logger)
	ctx := context.Background()

	all, err := svc.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	visible, err := svc.List(ctx, customer, "")
	require.NoError(t, err)
	assert.Len(t, visible, 5)
	for _, s := range visible {
		assert.True(t, s.IsActive, s.Name)
	}

	massage := f.serviceNamed(t, "Hot Stone Massage")
	_, err = svc.Get(ctx, customer, massage.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := svc.Get(ctx, admin, massage.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCatalogCapabilities(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store.Services, f.validate, f.logger)
	ctx := context.Background()
	haircut := f.serviceNamed(t, "Haircut & Styling")

	_, err := svc.Create(ctx, customer, ServiceFields{Name: ptr("Trim"), Price: ptr(10.0), Duration: ptr(15)})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(ctx, customer, haircut.ID, ServiceFields{Price: ptr(1.0)})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, customer, haircut.ID), ErrForbidden)
}

func TestCatalogUpdateMergesPartialFields(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store.Services, f.validate, f.logger)
	ctx := context.Background()
	haircut := f.serviceNamed(t, "Haircut & Styling")

	got, err := svc.Update(ctx, admin, haircut.ID, ServiceFields{Price: ptr(70.0)})
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.Price)
	assert.Equal(t, haircut.Name, got.Name)
	assert.Equal(t, haircut.Duration, got.Duration)

	_, err = svc.Update(ctx, admin, haircut.ID, ServiceFields{Duration: ptr(481)})
	assert.ErrorIs(t, err, ErrValidation)
	stored, err := f.store.Services.Get(ctx, haircut.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.Duration)

	_, err = svc.Update(ctx, admin, uuid.New(), ServiceFields{Price: ptr(1.0)})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, admin, haircut.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin, haircut.ID), repository.ErrNotFound)
}

func TestStaffVisibilityAndDefaults(t *testing.T) {
	f := newFixture(t)
	svc := NewStaffService(f.store.Stylists, f.validate, f.logger)
	ctx := context.Background()

	visible, err := svc.List(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	liam := f.stylistNamed(t, "Liam T.")
	_, err = svc.Get(ctx, customer, liam.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	st, err := svc.Create(ctx, admin, StylistFields{
		Name:        ptr("Nora P."),
		Specialties: &[]string{" Color ", "", "Cuts"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStylistRole, st.Role)
	assert.Equal(t, models.DefaultStylistRating, st.Rating)
	assert.True(t, st.IsAvailable)
	assert.Equal(t, []string{"Color", "Cuts"}, st.Specialties)

	_, err = svc.Create(ctx, admin, StylistFields{Name: ptr("Bad Mail"), Email: ptr("not-an-email")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, err = svc.Create(ctx, customer, StylistFields{Name: ptr("Nope")})
	assert.ErrorIs(t, err, ErrForbidden)
}

package services

import (
	"context"
	"testing"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Monday 3 March 2025
var testNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

var (
	admin    = Actor{UserID: uuid.MustParse("00000000-0000-4000-8000-00000000000a"), Role: models.RoleAdmin}
	customer = Actor{UserID: repository.DemoCustomerID, Role: models.RoleCustomer}
	stranger = Actor{UserID: uuid.MustParse("00000000-0000-4000-8000-00000000000b"), Role: models.RoleCustomer}
)

type fixture struct {
	store    *repository.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// newFixture returns a seeded memory store dated at testNow.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store, testNow))
	return &fixture{store: store, validate: utils.NewValidator(), logger: zap.NewNop()}
}

func (f *fixture) appointments(cfg AppointmentServiceConfig) *AppointmentService {
	if cfg.Now == nil {
		cfg.Now = fixedClock
	}
	return NewAppointmentService(f.store, f.validate, f.logger, nil, cfg)
}

func (f *fixture) serviceNamed(t *testing.T, name string) *models.Service {
	t.Helper()
	all, err := f.store.Services.List(context.Background(), repository.ServiceFilter{})
	require.NoError(t, err)
	for i := range all {
		if all[i].Name == name {
			return &all[i]
		}
	}
	t.Fatalf("service %q not seeded", name)
	return nil
}

func (f *fixture) stylistNamed(t *testing.T, name string) *models.Stylist {
	t.Helper()
	all, err := f.store.Stylists.List(context.Background(), repository.StylistFilter{})
	require.NoError(t, err)
	for i := range all {
		if all[i].Name == name {
			return &all[i]
		}
	}
	t.Fatalf("stylist %q not seeded", name)
	return nil
}

func ptr[T any](v T) *T { return &v }

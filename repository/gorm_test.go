package repository

import (
	"context"
	"testing"

	"salonsmart-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        ":memory:",
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestGormStore(t *testing.T) {
	storeContract(t, func(t *testing.T) *Store { return NewGormStore(newSQLiteDB(t)) })
}

func TestGormStoreClosedDatabase(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	store := NewGormStore(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = store.Services.List(ctx, ServiceFilter{})
	assert.ErrorIs(t, err, ErrUnavailable)

	// a failed read is not reported as a missing record
	_, err = store.Appointments.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = store.Services.Create(ctx, &models.Service{Name: "Trim", Price: 20, Duration: 20, IsActive: true})
	assert.ErrorIs(t, err, ErrWrite)
}

package config

import (
	"fmt"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ConnectDB opens the configured database. It returns nil for the memory
// driver.
func ConnectDB(cfg DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverMemory:
		return nil, nil
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.URL), gcfg)
	case DriverSQLite:
		dsn := cfg.URL
		if dsn == "" {
			dsn = "salonsmart.db"
		}
		db, err = gorm.Open(gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}), gcfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
		sqlDB.SetConnMaxIdleTime(time.Minute)
	}
	log.Info("database connected", zap.String("driver", cfg.Driver))
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// OpenStore returns the repository store for the configured driver,
// migrating SQL databases first.
func OpenStore(cfg DatabaseConfig, log *zap.Logger) (*repository.Store, *gorm.DB, error) {
	db, err := ConnectDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return repository.NewMemoryStore(), nil, nil
	}
	if err := Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return repository.NewGormStore(db), db, nil
}

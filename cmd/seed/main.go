// Command seed migrates the configured database and loads the demo data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"salonsmart-backend/config"
	"salonsmart-backend/repository"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg.Logs)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Database.Driver == config.DriverMemory {
		log.Fatal("nothing to seed: database.driver is memory")
	}

	store, db, err := config.OpenStore(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := repository.Seed(ctx, store, time.Now()); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("demo data loaded")
}

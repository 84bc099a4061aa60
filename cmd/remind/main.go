// Command remind sends tomorrow's appointment reminders once and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"salonsmart-backend/config"
	"salonsmart-backend/routes"

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

	store, db, err := config.OpenStore(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	app, err := routes.NewApp(cfg, log, store, db, routes.AppOptions{})
	if err != nil {
		log.Fatal("failed to wire services", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	run, err := app.Reminders.SendUpcomingReminders(ctx)
	if err != nil {
		log.Fatal("reminder run failed", zap.Error(err))
	}
	log.Info("reminder run finished",
		zap.String("date", run.Date),
		zap.Int("sent", run.Sent),
		zap.Int("failed", run.Failed),
		zap.Int("skipped", run.Skipped),
	)
}

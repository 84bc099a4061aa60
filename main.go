package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonsmart-backend/config"
	"salonsmart-backend/repository"
	"salonsmart-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("config.toml")
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

	gin.SetMode(cfg.Server.Mode)
	log.Info("starting salonsmart backend", zap.String("driver", cfg.Database.Driver), zap.Bool("demoMode", cfg.Auth.DemoMode))

	store, db, err := config.OpenStore(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	if cfg.Database.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := repository.Seed(ctx, store, time.Now())
		cancel()
		if err != nil {
			log.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	app, err := routes.NewApp(cfg, log, store, db, routes.AppOptions{Registerer: prometheus.DefaultRegisterer})
	if err != nil {
		log.Fatal("failed to wire services", zap.Error(err))
	}

	scheduler, err := app.Scheduler()
	if err != nil {
		log.Fatal("failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	r := app.Router(prometheus.DefaultGatherer)
	if gin.Mode() == gin.DebugMode {
		routes.PrintRoutes(os.Stdout, r)
	}

	srv := &http.Server{
		Addr:         routes.Addr(cfg),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

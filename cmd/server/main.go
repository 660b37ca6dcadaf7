// Package main is the entry point for expiryd, the futures expiry service.
// It resolves contract expiration timestamps from declarative rules and
// exchange holiday calendars, and exposes them over an HTTP API.
//
// Startup sequence:
// 1. Load configuration from environment variables (.env file)
// 2. Initialize structured logging
// 3. Open and migrate the calendar database
// 4. Build the immutable holiday calendar snapshots
// 5. Build the contract rule registry
// 6. Start the HTTP server and wait for a shutdown signal
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/expiryd/internal/config"
	"github.com/aristath/expiryd/internal/database"
	"github.com/aristath/expiryd/internal/modules/calendar"
	"github.com/aristath/expiryd/internal/modules/expiry"
	"github.com/aristath/expiryd/internal/server"
	"github.com/aristath/expiryd/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting expiryd")

	// Calendar database holds curated holiday closures imported from
	// exchange notices. The service still starts when it is empty; the
	// generated rule sets cover the regular schedule.
	calendarDB, err := database.New(database.Config{
		Path: cfg.CalendarDBPath(),
		Name: "calendar",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open calendar database")
	}
	defer calendarDB.Close()

	if err := calendarDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate calendar database")
	}

	calendarRepo := calendar.NewRepository(calendarDB, log)
	calendarSvc, err := calendar.NewService(calendar.Config{
		Repo:      calendarRepo,
		StartYear: cfg.CalendarStartYear,
		EndYear:   cfg.CalendarEndYear,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build holiday calendars")
	}

	// The registry is built once at startup. A duplicate or invalid rule
	// is a configuration error, so it aborts the process rather than
	// serving a partial contract table.
	registry, err := expiry.NewRegistry(expiry.DefaultRegistrations())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build contract registry")
	}
	log.Info().Int("contracts", registry.Len()).Msg("Contract registry built")

	expirySvc := expiry.NewService(registry, calendarSvc, log)

	srv := server.New(server.Config{
		Log:             log,
		Port:            cfg.Port,
		DevMode:         cfg.DevMode,
		Config:          cfg,
		CalendarDB:      calendarDB,
		ExpiryService:   expirySvc,
		CalendarService: calendarSvc,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("expiryd is running")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown gives in-flight requests up to 10 seconds.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

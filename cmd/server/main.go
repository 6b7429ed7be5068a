package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/arkatama/pembukuan-backend/internal/adapter/httpapi"
	"github.com/arkatama/pembukuan-backend/internal/adapter/repository/postgres"
	"github.com/arkatama/pembukuan-backend/internal/config"
	"github.com/arkatama/pembukuan-backend/internal/logger"
	"github.com/arkatama/pembukuan-backend/internal/usecase/prepaid"
	"github.com/arkatama/pembukuan-backend/internal/usecase/report"
	"github.com/arkatama/pembukuan-backend/internal/usecase/seeder"
)

func main() {
	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.Database.ConnString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	itemRepo := postgres.NewItemRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	prepaidRepo := postgres.NewPrepaidRepository(db)

	// 3. Seed global default settings
	settingsSeeder := seeder.NewSettingsSeeder(settingsRepo)
	if err := settingsSeeder.Seed(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default amortization settings")
	}
	log.Info().Msg("Default amortization settings seeded")

	// 4. Initialize Services (Use Cases)
	reportService := report.NewReportService(itemRepo, settingsRepo, log)
	prepaidService := prepaid.NewPrepaidService(prepaidRepo)

	// 5. Start HTTP Server
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewRouter(reportService, prepaidService, cfg.Server.APIToken, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	waitForShutdown(server, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("HTTP server stopped")
}

// Package main initializes and starts the MoodKeeper API server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/moodkeeper/MoodKeeper/internal/config"
	"github.com/moodkeeper/MoodKeeper/internal/db"
	"github.com/moodkeeper/MoodKeeper/internal/logger"
	"github.com/moodkeeper/MoodKeeper/internal/repository"
	"github.com/moodkeeper/MoodKeeper/internal/server/handler/http"
	"github.com/moodkeeper/MoodKeeper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted entries in the background.
	db.StartSoftDeleteCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories for authentication and entries.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	entryRepo := repository.NewPostgresEntryRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	entryService := service.NewEntryService(entryRepo)
	analyticsService := service.NewAnalyticsService(entryRepo)
	aiService := service.NewAIService(options.AIBaseURL, options.AIAPIKey, options.AIModel)
	sentimentService := service.NewSentimentService(options.SentimentBaseURL, options.SentimentAPIKey)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	entryHandler := &http.EntryHandler{EntryService: entryService}
	analyticsHandler := &http.AnalyticsHandler{AnalyticsService: analyticsService}
	promptHandler := &http.PromptHandler{}
	aiHandler := &http.AIHandler{AIService: aiService, SentimentService: sentimentService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, entryHandler, analyticsHandler, promptHandler, aiHandler, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}

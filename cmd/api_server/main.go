package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backoffice-ledger/internal/api_server"
	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/config"
	"github.com/backoffice-ledger/internal/data/mongo"
	"github.com/backoffice-ledger/internal/data/postgres"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/backoffice-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	// Migrations run here when POSTGRES_AUTO_MIGRATE is set
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	clientRepo := postgres.NewClientRepository(log, postgresDB)
	serviceRepo := postgres.NewServiceRepository(log, postgresDB)
	contractRepo := postgres.NewContractRepository(log, postgresDB)
	financeRepo := postgres.NewFinanceRepository(log, postgresDB)
	entryRepo := postgres.NewEntryRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())

	// Initialize services
	server := api_server.NewServer(log, cfg, api_server.Services{
		Registry:   bookkeeping.NewRegistryService(log, clientRepo, serviceRepo, contractRepo),
		Finance:    bookkeeping.NewFinanceService(log, financeRepo, entryRepo, contractRepo),
		Entries:    bookkeeping.NewEntryService(log, postgresDB, entryRepo, outboxRepo, contractRepo, financeRepo),
		Generator:  bookkeeping.NewRecurrenceGenerator(log, postgresDB, contractRepo, financeRepo, entryRepo, outboxRepo),
		ActivityDB: activityRepo,
		Probes:     map[string]api_server.Pinger{
			"postgres": postgresDB,
			"mongodb":  mongoDB,
		},
	})
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before the pools go away
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}

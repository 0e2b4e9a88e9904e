package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/config"
	"github.com/backoffice-ledger/internal/data/mongo"
	"github.com/backoffice-ledger/internal/data/postgres"
	"github.com/backoffice-ledger/internal/ledger_worker/consumer"
	"github.com/backoffice-ledger/internal/ledger_worker/outbox_poller"
	"github.com/backoffice-ledger/internal/ledger_worker/scheduler"
	"github.com/backoffice-ledger/internal/ledger_worker/service"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/backoffice-ledger/internal/platform/messaging/consumers"
	"github.com/backoffice-ledger/internal/platform/messaging/producers"
	"github.com/backoffice-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger Worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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
	contractRepo := postgres.NewContractRepository(log, postgresDB)
	financeRepo := postgres.NewFinanceRepository(log, postgresDB)
	entryRepo := postgres.NewEntryRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())

	if err := activityRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create activity indexes", "error", err)
		os.Exit(1)
	}

	// Producers: relayed entry events, notices, dead letters
	eventProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.EntryEventsTopic)
	if err != nil {
		log.Error("Failed to initialize entry event producer", "error", err)
		os.Exit(1)
	}

	noticeProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.NoticesTopic)
	if err != nil {
		log.Error("Failed to initialize notice producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// A nil producer means the DLQ topic is not configured
	var deadLetters producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetters = dlqProducer
	}

	// Activity recording behind the worker pool
	recorder, err := service.NewWorkerPoolRecorder(
		service.NewActivityService(log, activityRepo),
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	entryEventHandler := consumer.NewEntryEventHandler(log, recorder, deadLetters)
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka, cfg.Kafka.EntryEventsTopic)

	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		outboxRepo,
		outbox_poller.NewKafkaEventRelay(outboxRepo, eventProducer, log),
		log,
	)

	jobs := scheduler.NewScheduler(
		cfg,
		bookkeeping.NewRecurrenceGenerator(log, postgresDB, contractRepo, financeRepo, entryRepo, outboxRepo),
		bookkeeping.NewNoticeScanner(log, postgresDB, entryRepo, outboxRepo, noticeProducer, cfg.Notices.LeadDays, cfg.Notices.BatchSize),
		log,
	)

	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	if err := kafkaConsumer.Subscribe(appCtx, entryEventHandler.HandleMessage); err != nil {
		errChan <- fmt.Errorf("kafka consumer error: %w", err)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()
	go func() {
		defer wg.Done()
		jobs.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	recorder.Shutdown()

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing entry event producer", "error", err)
	}
	if err = noticeProducer.Close(); err != nil {
		log.Error("Error closing notice producer", "error", err)
	}
	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Ledger Worker shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Ledger Worker shutdown completed with errors")
	} else {
		log.Info("Ledger Worker shutdown completed successfully")
	}
}

// Package config provides configuration structures and validation for the ledger services.
// Values come from an optional .env file and the environment, and are validated once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds the complete application configuration with settings for all components.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Recurrence  RecurrenceConfig
	Notices     NoticesConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	EntryEventsTopic  string // entry lifecycle events relayed from the outbox
	NoticesTopic      string // due-date and invoice reminders
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string
}

// BrokerList splits the comma separated broker string.
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
	AutoMigrate     bool // apply migrations when the pool is opened
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int
}

// RecurrenceConfig drives the scheduled recurring-entry generation.
// The default IDs are kept as strings so an unset value can be told apart
// from an invalid one.
type RecurrenceConfig struct {
	Enabled             bool
	Interval            time.Duration
	DefaultCategoryID   string
	DefaultAccountID    string
	DefaultCostCenterID string
}

// DefaultIDs parses the configured defaults. Unset category or account
// yield uuid.Nil; an unset cost center yields nil.
func (r RecurrenceConfig) DefaultIDs() (category, account uuid.UUID, costCenter *uuid.UUID, err error) {
	if category, err = parseOptionalUUID(r.DefaultCategoryID); err != nil {
		return uuid.Nil, uuid.Nil, nil, fmt.Errorf("RECURRENCE_DEFAULT_CATEGORY_ID: %w", err)
	}
	if account, err = parseOptionalUUID(r.DefaultAccountID); err != nil {
		return uuid.Nil, uuid.Nil, nil, fmt.Errorf("RECURRENCE_DEFAULT_ACCOUNT_ID: %w", err)
	}
	cc, err := parseOptionalUUID(r.DefaultCostCenterID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, fmt.Errorf("RECURRENCE_DEFAULT_COST_CENTER_ID: %w", err)
	}
	if cc != uuid.Nil {
		costCenter = &cc
	}
	return category, account, costCenter, nil
}

func parseOptionalUUID(s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(strings.TrimSpace(s))
}

// NoticesConfig drives the due-date and invoice notice scanner.
type NoticesConfig struct {
	Enabled   bool
	Interval  time.Duration
	LeadDays  int // entries due within this many days get a due-date notice
	BatchSize int
}

// validate checks every section and reports all problems at once
func (c *Config) validate() error {
	var validationErrors []string
	check := func(failed bool, msg string) {
		if failed {
			validationErrors = append(validationErrors, msg)
		}
	}

	check(c.Server.Port <= 0, "SERVER_PORT must be greater than 0")
	check(c.Server.ShutdownTimeout <= 0, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	check(c.Server.ReadTimeout <= 0, "SERVER_READ_TIMEOUT must be greater than 0")
	check(c.Server.WriteTimeout <= 0, "SERVER_WRITE_TIMEOUT must be greater than 0")
	check(c.Server.IdleTimeout <= 0, "SERVER_IDLE_TIMEOUT must be greater than 0")

	check(len(c.Kafka.BrokerList()) == 0, "KAFKA_BROKERS is required")
	check(c.Kafka.EntryEventsTopic == "", "KAFKA_ENTRY_EVENTS_TOPIC is required")
	check(c.Kafka.NoticesTopic == "", "KAFKA_NOTICES_TOPIC is required")
	check(c.Kafka.ConsumerGroup == "", "KAFKA_CONSUMER_GROUP is required")
	check(c.Kafka.MinBytes <= 0, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	check(c.Kafka.MaxBytes <= 0, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	check(c.Kafka.MaxWait <= 0, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	check(c.Kafka.DLQTopic == "", "KAFKA_DLQ_TOPIC is required")

	check(c.Postgres.URL == "", "POSTGRES_URL is required")
	check(c.Postgres.MaxConns <= 0, "POSTGRES_MAX_CONNS must be greater than 0")
	check(c.Postgres.MinConns <= 0, "POSTGRES_MIN_CONNS must be greater than 0")
	check(c.Postgres.MinConns > c.Postgres.MaxConns, "POSTGRES_MIN_CONNS cannot exceed POSTGRES_MAX_CONNS")
	check(c.Postgres.ConnMaxLifetime <= 0, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	check(c.Postgres.ConnMaxIdleTime <= 0, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	check(c.Postgres.AutoMigrate && c.Postgres.MigrationsPath == "", "POSTGRES_MIGRATIONS_PATH is required when POSTGRES_AUTO_MIGRATE is set")

	check(c.MongoDB.URI == "", "MONGO_URI is required")
	check(c.MongoDB.Database == "", "MONGO_DATABASE is required")
	check(c.MongoDB.Timeout <= 0, "MONGO_TIMEOUT must be greater than 0")
	check(c.MongoDB.MaxPoolSize <= 0, "MONGO_MAX_POOL_SIZE must be greater than 0")
	check(c.MongoDB.MinPoolSize <= 0, "MONGO_MIN_POOL_SIZE must be greater than 0")
	check(c.MongoDB.MaxConnIdleTime <= 0, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")

	check(c.Outbox.PollingInterval <= 0, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	check(c.Outbox.BatchSize <= 0, "OUTBOX_BATCH_SIZE must be greater than 0")
	check(c.Outbox.MaxRetryAttempts <= 0, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")

	check(c.WorkerPool.Size <= 0, "WORKER_POOL_SIZE must be greater than 0")

	check(c.Recurrence.Interval <= 0, "RECURRENCE_INTERVAL must be greater than 0")
	if _, _, _, err := c.Recurrence.DefaultIDs(); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	check(c.Notices.Interval <= 0, "NOTICES_INTERVAL must be greater than 0")
	check(c.Notices.LeadDays < 0, "NOTICES_LEAD_DAYS cannot be negative")
	check(c.Notices.BatchSize <= 0, "NOTICES_BATCH_SIZE must be greater than 0")

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

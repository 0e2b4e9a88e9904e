package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "configs"), 0755))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalWD) })
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	categoryID := uuid.New()
	accountID := uuid.New()
	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nKAFKA_BROKERS=%s\nRECURRENCE_ENABLED=true\nRECURRENCE_DEFAULT_CATEGORY_ID=%s\nRECURRENCE_DEFAULT_ACCOUNT_ID=%s\n",
		"TestLedger", 9090, "debug", "kafka1:9092, kafka2:9092", categoryID, accountID,
	)
	envFilePath := filepath.Join(tempDir, "configs", "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)

	assert.Equal(t, "TestLedger", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.Kafka.BrokerList())

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "ledger_entry_events", cfg.Kafka.EntryEventsTopic)
	assert.Equal(t, "ledger_notices", cfg.Kafka.NoticesTopic)
	assert.True(t, cfg.Postgres.AutoMigrate)
	assert.Equal(t, 3, cfg.Notices.LeadDays)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	assert.True(t, cfg.Recurrence.Enabled)
	category, account, costCenter, err := cfg.Recurrence.DefaultIDs()
	require.NoError(t, err)
	assert.Equal(t, categoryID, category)
	assert.Equal(t, accountID, account)
	assert.Nil(t, costCenter)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, "TestLedger", cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	assert.Equal(t, "TestLedger", cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_InvalidRecurrenceDefaults(t *testing.T) {
	tempDir := chdirTemp(t)
	envFilePath := filepath.Join(tempDir, "configs", "bad_ids.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte("RECURRENCE_DEFAULT_ACCOUNT_ID=not-a-uuid\n"), 0644))

	_, err := LoadConfig("bad_ids")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECURRENCE_DEFAULT_ACCOUNT_ID")
}

func TestConfig_Validate(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	t.Run("DefaultsAreValid", func(t *testing.T) {
		assert.NoError(t, fromViper(v).validate())
	})

	t.Run("CollectsEveryProblem", func(t *testing.T) {
		cfg := fromViper(v)
		cfg.Server.Port = 0
		cfg.Kafka.Brokers = " , "
		cfg.Postgres.MinConns = cfg.Postgres.MaxConns + 1
		cfg.Notices.LeadDays = -1

		err := cfg.validate()
		require.Error(t, err)
		for _, msg := range []string{
			"SERVER_PORT must be greater than 0",
			"KAFKA_BROKERS is required",
			"POSTGRES_MIN_CONNS cannot exceed POSTGRES_MAX_CONNS",
			"NOTICES_LEAD_DAYS cannot be negative",
		} {
			assert.Contains(t, err.Error(), msg)
		}
	})
}

func TestRecurrenceConfig_DefaultIDs(t *testing.T) {
	costCenter := uuid.New()
	cfg := RecurrenceConfig{DefaultCostCenterID: " " + costCenter.String() + " "}

	category, account, cc, err := cfg.DefaultIDs()
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, category)
	assert.Equal(t, uuid.Nil, account)
	require.NotNil(t, cc)
	assert.Equal(t, costCenter, *cc)
}

package cfg

import (
	"testing"
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "backoffice")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, 5*time.Second, cfg.Http.ReadTimeout)
	assert.Equal(t, "8091", cfg.Grpc.Port)
	assert.Equal(t, "localhost", cfg.Db.Host)
	assert.Equal(t, "file://db/migrations", cfg.Db.MigrationsPath)
	assert.Equal(t, 3*time.Minute, cfg.Redis.ProductTTL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "product-images", cfg.Minio.BucketName)
	assert.Equal(t, int64(5<<20), cfg.Minio.MaxImageSize)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "order-events", cfg.Kafka.Topic)
	assert.Equal(t, 10, cfg.Kafka.OutboxBatchSize)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("READ_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "4s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Http.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 4*time.Second, cfg.Redis.Timeout())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "postgres user", unset: "POSTGRES_USER"},
		{name: "postgres password", unset: "POSTGRES_PASSWORD"},
		{name: "postgres db", unset: "POSTGRES_DB"},
		{name: "kafka brokers", unset: "KAFKA_BROKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load(logger.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsNonPositiveBatch(t *testing.T) {
	setRequired(t)
	t.Setenv("OUTBOX_BATCH_SIZE", "0")

	_, err := Load(logger.NewNop())
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := PGDBCfg{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", c.DSN())
}

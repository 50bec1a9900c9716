package cfg

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/caarlos0/env/v11"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Log   LogCfg
	Http  HTTPConfig
	Grpc  GRPCConfig
	Db    PGDBCfg
	Redis RedisCfg
	Minio MinIOCfg
	Kafka KafkaCfg
}

type LogCfg struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Port         string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"KEEP_ALIVE" envDefault:"60s"`
	SwaggerHost  string        `env:"SWAGGER_HOST" envDefault:"localhost:8080"`
}

type GRPCConfig struct {
	Port        string `env:"GRPC_PORT" envDefault:"8091"`
	NetworkMode string `env:"GRPC_NETWORK_MODE" envDefault:"tcp"`
}

type PGDBCfg struct {
	Host           string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port           string `env:"POSTGRES_PORT" envDefault:"5432"`
	User           string `env:"POSTGRES_USER,required"`
	Password       string `env:"POSTGRES_PASSWORD,required"`
	DBName         string `env:"POSTGRES_DB,required"`
	SSLMode        string `env:"SSL_MODE" envDefault:"disable"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://db/migrations"`
}

// DSN собирает строку подключения к PostgreSQL.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RedisCfg struct {
	Addr           string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	User           string        `env:"REDIS_USER"`
	DB             int           `env:"REDIS_DB_ID" envDefault:"0"`
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"3"`
	DialTimeout    time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
	ProductTTL     time.Duration `env:"PRODUCT_TTL" envDefault:"3m"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

// Timeout возвращает общий таймаут операций клиента Redis.
func (c *RedisCfg) Timeout() time.Duration {
	if c.WriteTimeout > c.ReadTimeout {
		return c.WriteTimeout
	}
	return c.ReadTimeout
}

type MinIOCfg struct {
	Endpoint     string `env:"MINIO_ENDPOINT" envDefault:"minio:9000"`
	BucketName   string `env:"BUCKET_NAME" envDefault:"product-images"`
	RootUser     string `env:"MINIO_ROOT_USER"`
	RootPassword string `env:"MINIO_ROOT_PASSWORD"`
	UseSSL       bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MaxImageSize int64  `env:"MAX_IMAGE_SIZE" envDefault:"5242880"` // 5 MiB
}

type KafkaCfg struct {
	Brokers           []string `env:"KAFKA_BROKERS,required" envSeparator:","`
	Topic             string   `env:"KAFKA_TOPIC" envDefault:"order-events"`
	NetworkMode       string   `env:"KAFKA_NETWORK_MODE" envDefault:"tcp"`
	Partitions        int      `env:"KAFKA_PARTITIONS" envDefault:"3"`
	ReplicationFactor int      `env:"REPLICATION_FACTOR" envDefault:"1"`
	OutboxBatchSize   int      `env:"OUTBOX_BATCH_SIZE" envDefault:"10"`
}

// Load загружает конфигурацию из переменных окружения и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Errorf(err, "failed to parse environment")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if cfg.Kafka.OutboxBatchSize <= 0 {
		err := fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", cfg.Kafka.OutboxBatchSize)
		log.Errorf(err, "invalid OUTBOX_BATCH_SIZE")
		return nil, err
	}

	if cfg.Minio.MaxImageSize <= 0 {
		err := fmt.Errorf("MAX_IMAGE_SIZE must be positive, got %d", cfg.Minio.MaxImageSize)
		log.Errorf(err, "invalid MAX_IMAGE_SIZE")
		return nil, err
	}

	return &cfg, nil
}

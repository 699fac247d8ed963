package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig
	HTTPServer  HTTPServerConfig
	Logger      LoggerConfig
	Store       StoreConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	MinIO       MinIOConfig
	SES         SESConfig
	Gateway     GatewayConfig

	Scheduler SchedulerConfig
	Outreach  OutreachConfig
	Action    ActionConfig

	JWT         JWTConfig
	Encrypter   EncrypterConfig
	InternalKey InternalKeyConfig
	Discord     DiscordConfig
}

// EnvironmentConfig is the configuration for environment-aware features
type EnvironmentConfig struct {
	Name string `env:"ENV" envDefault:"production"`
}

type HTTPServerConfig struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"HTTP_PORT" envDefault:"8080"`
	Mode string `env:"HTTP_MODE" envDefault:"release"`

	// MetricsPort serves /metrics from cmd/scheduler.
	MetricsPort int `env:"METRICS_PORT" envDefault:"9090"`
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string `env:"LOGGER_LEVEL" envDefault:"info"`
	Mode         string `env:"LOGGER_MODE" envDefault:"production"`
	Encoding     string `env:"LOGGER_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOGGER_COLOR_ENABLED" envDefault:"false"`
}

// StoreConfig selects the persistence backend. memory is meant for local runs.
type StoreConfig struct {
	Driver string `env:"STORE_DRIVER" envDefault:"postgres"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB" envDefault:"ndr"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
	Enabled         bool          `env:"REDIS_ENABLED" envDefault:"true"`
	Host            string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port            int           `env:"REDIS_PORT" envDefault:"6379"`
	Password        string        `env:"REDIS_PASSWORD"`
	DB              int           `env:"REDIS_DB" envDefault:"0"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"10"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"100"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	EventChannel    string        `env:"REDIS_EVENT_CHANNEL" envDefault:"ndr:events"`
	StatsTTL        time.Duration `env:"REDIS_STATS_TTL" envDefault:"30s"`
}

type KafkaConfig struct {
	Enabled              bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers              string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	EventTopic           string `env:"KAFKA_TOPIC_EVENTS" envDefault:"ndr.events"`
	DeliveryAttemptTopic string `env:"KAFKA_TOPIC_DELIVERY_ATTEMPTS" envDefault:"delivery-attempts"`
	ConsumerGroup        string `env:"KAFKA_CONSUMER_GROUP" envDefault:"ndr-engine"`
}

type MinIOConfig struct {
	Enabled   bool   `env:"MINIO_ENABLED" envDefault:"false"`
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Region    string `env:"MINIO_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"ndr-audit"`
}

type SESConfig struct {
	Enabled   bool   `env:"SES_ENABLED" envDefault:"false"`
	Region    string `env:"SES_REGION" envDefault:"ap-southeast-1"`
	FromEmail string `env:"SES_FROM_EMAIL"`
}

// GatewayConfig points at the SMS / WhatsApp / voice messaging gateway.
type GatewayConfig struct {
	BaseURL string `env:"GATEWAY_BASE_URL"`
	APIKey  string `env:"GATEWAY_API_KEY"`
}

type SchedulerConfig struct {
	Enabled  bool          `env:"SCHEDULER_ENABLED" envDefault:"false"`
	Interval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"15m"`
	Timeout  time.Duration `env:"SCHEDULER_TIMEOUT" envDefault:"10m"`
	Workers  int           `env:"SCHEDULER_WORKERS" envDefault:"8"`
}

type OutreachConfig struct {
	ProviderTimeout time.Duration `env:"OUTREACH_PROVIDER_TIMEOUT" envDefault:"10s"`
	SendRateLimit   int           `env:"OUTREACH_SEND_RATE_LIMIT" envDefault:"30"`
	SendRateWindow  time.Duration `env:"OUTREACH_SEND_RATE_WINDOW" envDefault:"1m"`
}

type ActionConfig struct {
	// ApprovalRequired lists extra action kinds that must wait for an operator.
	ApprovalRequired []string `env:"ACTION_APPROVAL_REQUIRED" envSeparator:","`
}

// JWTConfig is the configuration for the JWT
type JWTConfig struct {
	SecretKey string `env:"JWT_SECRET_KEY"`
}

type EncrypterConfig struct {
	Key string `env:"ENCRYPT_KEY"`
}

// InternalKeyConfig holds the bcrypt hash of the key accepted on /internal routes.
type InternalKeyConfig struct {
	Hash string `env:"INTERNAL_KEY_HASH"`
}

// DiscordConfig is the configuration for Discord webhook notifications
type DiscordConfig struct {
	WebhookURL string `env:"DISCORD_WEBHOOK_URL"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWT.SecretKey == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if len(cfg.JWT.SecretKey) < 32 {
		return errors.New("JWT_SECRET_KEY must be at least 32 characters for security")
	}

	switch len(cfg.Encrypter.Key) {
	case 16, 24, 32:
	default:
		return errors.New("ENCRYPT_KEY must be 16, 24 or 32 bytes")
	}

	switch cfg.Store.Driver {
	case StoreDriverPostgres:
		if cfg.Postgres.Host == "" || cfg.Postgres.DBName == "" {
			return errors.New("POSTGRES_HOST and POSTGRES_DB are required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}

	if cfg.Scheduler.Interval <= 0 {
		return errors.New("SCHEDULER_INTERVAL must be positive")
	}
	if cfg.Scheduler.Timeout <= 0 || cfg.Scheduler.Timeout > cfg.Scheduler.Interval {
		return errors.New("SCHEDULER_TIMEOUT must be positive and not exceed SCHEDULER_INTERVAL")
	}
	if cfg.Scheduler.Workers < 1 {
		return errors.New("SCHEDULER_WORKERS must be at least 1")
	}
	if cfg.Outreach.ProviderTimeout <= 0 {
		return errors.New("OUTREACH_PROVIDER_TIMEOUT must be positive")
	}

	if cfg.MinIO.Enabled && (cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "") {
		return errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MinIO is enabled")
	}
	if cfg.SES.Enabled && cfg.SES.FromEmail == "" {
		return errors.New("SES_FROM_EMAIL is required when SES is enabled")
	}

	return nil
}

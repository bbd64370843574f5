package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	strutil "tokenguard/pkg/platform/strings"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Server captures process level configuration.
type Server struct {
	Addr            string        `env:"TOKENGUARD_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// StoreBackend selects where identity records live. The ledger uses
	// Postgres whenever DatabaseURL is set.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	DatabaseURL  string `env:"DATABASE_URL"`

	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"tokenguard"`

	Redis     RedisConfig
	Kafka     KafkaConfig
	Audit     AuditConfig
	Token     TokenConfig
	RateLimit RateLimitConfig
}

// RedisConfig configures the shared Redis client.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

type KafkaConfig struct {
	Brokers           []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic        string   `env:"AUDIT_TOPIC" envDefault:"tokenguard.audit"`
	CreateTopic       bool     `env:"KAFKA_CREATE_TOPIC" envDefault:"true"`
	TopicPartitions   int32    `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	ReplicationFactor int16    `env:"KAFKA_REPLICATION_FACTOR" envDefault:"1"`
}

// AuditConfig tunes the audit publisher and the outbox relay.
type AuditConfig struct {
	Buffer         int           `env:"AUDIT_BUFFER" envDefault:"1024"`
	RelayInterval  time.Duration `env:"AUDIT_RELAY_INTERVAL" envDefault:"2s"`
	RelayBatchSize int           `env:"AUDIT_RELAY_BATCH_SIZE" envDefault:"100"`
}

// RateLimitConfig sets per-window request budgets. Buckets live in Redis
// when REDIS_URL is set, otherwise in process memory.
type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Read    int           `env:"RATE_LIMIT_READ" envDefault:"300"`
	Write   int           `env:"RATE_LIMIT_WRITE" envDefault:"60"`
	Agent   int           `env:"RATE_LIMIT_AGENT" envDefault:"600"`
}

// TokenConfig seeds the ledger settings at startup.
type TokenConfig struct {
	Name           string   `env:"TOKEN_NAME" envDefault:"Tokenguard Security"`
	Symbol         string   `env:"TOKEN_SYMBOL" envDefault:"TGS"`
	Decimals       uint8    `env:"TOKEN_DECIMALS" envDefault:"0"`
	Address        string   `env:"TOKEN_ADDRESS" envDefault:"0x00000000000000000000000000000000000000a1"`
	RequiredTopics []uint64 `env:"REQUIRED_CLAIM_TOPICS" envSeparator:","`
	// SupplyLimit binds the supply-limit module at startup when set.
	SupplyLimit string `env:"SUPPLY_LIMIT"`
}

// FromEnv loads and validates the server configuration.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Kafka.Brokers = strutil.DedupeAndTrim(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.JWTSigningKey == "" {
		return errors.New("JWT_SIGNING_KEY is required")
	}
	if c.RateLimit.Enabled && c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.CreateTopic &&
		(c.Kafka.TopicPartitions <= 0 || c.Kafka.ReplicationFactor <= 0) {
		return errors.New("KAFKA_TOPIC_PARTITIONS and KAFKA_REPLICATION_FACTOR must be positive")
	}
	if c.Audit.Buffer < 0 {
		return errors.New("AUDIT_BUFFER must not be negative")
	}
	return nil
}

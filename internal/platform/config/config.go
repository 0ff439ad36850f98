package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean; every
// field has a development default except the Twilio credentials, which have no
// sane default and leave the verifier unconfigured when absent.
type Server struct {
	Addr     string
	LogLevel string

	Twilio TwilioConfig
	Redis  RedisConfig
	Kafka  KafkaConfig

	// DatabaseURL selects the postgres-backed stores when set. RedisURL wins
	// over memory, postgres wins over redis.
	DatabaseURL string

	JWTSigningKey string
	SessionTTL    time.Duration

	// PendingTTL bounds how long an unverified registration survives.
	PendingTTL time.Duration

	// AllowLegacyHeaderAuth keeps the unauthenticated X-User-Phone header
	// working for old clients. Off by default; the header carries no proof of
	// possession.
	AllowLegacyHeaderAuth bool
}

// TwilioConfig points at the Twilio Verify v2 REST API.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	VerifySID  string
	BaseURL    string
}

// Configured reports whether the credentials needed to call Verify are present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.VerifySID != ""
}

// RedisConfig mirrors the go-redis options we override.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig selects the kafka audit sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:     envOr("CERTVAULT_ADDR", ":8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			VerifySID:  os.Getenv("TWILIO_VERIFY_SID"),
			BaseURL:    envOr("TWILIO_BASE_URL", "https://verify.twilio.com"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "certvault.audit"),
		},
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTSigningKey:         os.Getenv("JWT_SIGNING_KEY"),
		SessionTTL:            envDuration("SESSION_TTL", 24*time.Hour),
		PendingTTL:            envDuration("PENDING_REGISTRATION_TTL", 15*time.Minute),
		AllowLegacyHeaderAuth: os.Getenv("ALLOW_LEGACY_HEADER_AUTH") == "true",
	}
	if cfg.JWTSigningKey == "" {
		// Development fallback - must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean. Zero values fall back to development defaults.
type Config struct {
	Addr          string
	JWTSigningKey string
	AdminToken    string

	PostgresURL string
	Redis       RedisConfig

	KafkaBrokers []string
	AuditTopic   string
	AuditBuffer  int

	RoleCacheTTL time.Duration

	Bulk BulkConfig
}

// RedisConfig tunes the role cache connection. An empty URL disables redis
// and the engine falls back to the in-process cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BulkConfig bounds bulk administrative batches.
type BulkConfig struct {
	MaxBatchSize int
	Parallelism  int
	Timeout      time.Duration
	UndoWindow   time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:          envString("WORKPAPER_ADDR", ":8080"),
		JWTSigningKey: envString("WORKPAPER_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AdminToken:    os.Getenv("WORKPAPER_ADMIN_TOKEN"),
		PostgresURL:   os.Getenv("WORKPAPER_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("WORKPAPER_REDIS_URL"),
			PoolSize:     envInt("WORKPAPER_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("WORKPAPER_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("WORKPAPER_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("WORKPAPER_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("WORKPAPER_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		KafkaBrokers: envList("WORKPAPER_KAFKA_BROKERS"),
		AuditTopic:   envString("WORKPAPER_AUDIT_TOPIC", "workpaper.audit.events"),
		AuditBuffer:  envInt("WORKPAPER_AUDIT_BUFFER", 1024),
		RoleCacheTTL: envDuration("WORKPAPER_ROLE_CACHE_TTL", 5*time.Minute),
		Bulk: BulkConfig{
			MaxBatchSize: envInt("WORKPAPER_BULK_MAX_BATCH_SIZE", 100),
			Parallelism:  envInt("WORKPAPER_BULK_PARALLELISM", 8),
			Timeout:      envDuration("WORKPAPER_BULK_TIMEOUT", 30*time.Second),
			UndoWindow:   envDuration("WORKPAPER_BULK_UNDO_WINDOW", 24*time.Hour),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

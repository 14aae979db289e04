package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string // empty runs on the in-memory store
	RedisURL    string // empty disables the profile cache
	CacheTTL    time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	Port     string // HTTP gateway
	GRPCPort string // realtime stream

	NotifyUnchangedStatus bool
	OutboxSize            int

	RateLimitAuthRPS   float64 // register/login, per client IP
	RateLimitAuthBurst int
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		CacheTTL:              getEnvDuration("CACHE_TTL", 5*time.Minute),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTTTL:                getEnvDuration("JWT_TTL", 7*24*time.Hour),
		Port:                  getEnv("PORT", "8080"),
		GRPCPort:              getEnv("GRPC_PORT", "50051"),
		NotifyUnchangedStatus: getEnvBool("NOTIFY_UNCHANGED_STATUS", true),
		OutboxSize:            getEnvInt("OUTBOX_SIZE", 64),
		RateLimitAuthRPS:      getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst:    getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string // Required: issuer claim for session tokens
	SessionSecret string // Required: HMAC secret for session tokens
	SessionTTL    time.Duration

	DatabaseFile string // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Argon2MemoryKiB   int // Optional: Argon2id memory cost in KiB (default: 65536)
	Argon2Iterations  int // Optional: Argon2id time cost (default: 3)
	Argon2Parallelism int // Optional: Argon2id lanes (default: 4)

	MinPasswordLength int // Optional: password policy minimum length (default: 12)

	RateLimitWindow      time.Duration // Optional: login attempt window (default: 15m)
	RateLimitMaxAttempts int           // Optional: attempts allowed per window (default: 5)
	LockoutThreshold     int           // Optional: consecutive failures before lockout (default: 5)
	LockoutDuration      time.Duration // Optional: lockout period (default: 30m)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "agora-auth"),
		SessionSecret: os.Getenv("AUTH_SESSION_SECRET"),
		SessionTTL:    getEnvDurationOrDefault("AUTH_SESSION_TTL", 30*24*time.Hour),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		Argon2MemoryKiB:   getEnvIntOrDefault("AUTH_ARGON2_MEMORY_KIB", 64*1024),
		Argon2Iterations:  getEnvIntOrDefault("AUTH_ARGON2_ITERATIONS", 3),
		Argon2Parallelism: getEnvIntOrDefault("AUTH_ARGON2_PARALLELISM", 4),

		MinPasswordLength: getEnvIntOrDefault("AUTH_MIN_PASSWORD_LENGTH", 12),

		RateLimitWindow:      getEnvDurationOrDefault("AUTH_RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMaxAttempts: getEnvIntOrDefault("AUTH_RATE_LIMIT_MAX_ATTEMPTS", 5),
		LockoutThreshold:     getEnvIntOrDefault("AUTH_LOCKOUT_THRESHOLD", 5),
		LockoutDuration:      getEnvDurationOrDefault("AUTH_LOCKOUT_DURATION", 30*time.Minute),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./admin.db)
	PepperFile   string // Optional: path to pepper file for password hashing (default: ./pepper)

	SessionTTL       time.Duration // Session lifetime (default: 12h)
	MaxLoginAttempts int           // Failures before an account lock (default: 5)
	LockDuration     time.Duration // Account lock length (default: 15m)

	IPMaxAttempts int           // Login attempts per IP per window (default: 10)
	IPWindow      time.Duration // Fixed window length (default: 10m)

	IPAllowlist    []string // Optional: IPs admitted to the service; empty admits all
	AllowlistDebug bool     // Echo detected caller IPs on rejection pages

	TOTPIssuer string // Issuer shown in authenticator apps

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 5m)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("ADMIN_DATABASE_FILE", "admin.db"),
		PepperFile:   getEnvOrDefault("ADMIN_PEPPER_FILE", "pepper"),

		SessionTTL:       getEnvDurationOrDefault("SESSION_TTL_HOURS", 12*time.Hour),
		MaxLoginAttempts: getEnvIntOrDefault("MAX_LOGIN_ATTEMPTS", 5),
		LockDuration:     getEnvDurationOrDefault("LOCK_DURATION_MINUTES", 15*time.Minute),

		IPMaxAttempts: getEnvIntOrDefault("IP_MAX_ATTEMPTS", 10),
		IPWindow:      getEnvDurationOrDefault("IP_WINDOW_MINUTES", 10*time.Minute),

		IPAllowlist:    splitList(os.Getenv("ADMIN_IP_ALLOWLIST")),
		AllowlistDebug: getEnvBoolOrDefault("ALLOWLIST_DEBUG", false),

		TOTPIssuer: getEnvOrDefault("TOTP_ISSUER", "Admin Panel"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 5*time.Minute),
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
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

	// Bare integers honour the unit named in the variable.
	if n, err := strconv.Atoi(value); err == nil {
		switch {
		case strings.HasSuffix(key, "_HOURS"):
			return time.Duration(n) * time.Hour
		case strings.HasSuffix(key, "_MINUTES"):
			return time.Duration(n) * time.Minute
		default:
			return time.Duration(n) * time.Second
		}
	}

	return defaultValue
}

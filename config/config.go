package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Accessor structs keep call sites in the config.Section.Value() shape.

var (
	Server    serverConfig
	Database  databaseConfig
	Provider  providerConfig
	Artifacts artifactsConfig
)

// IsDev reports whether the service runs in development mode.
func IsDev() bool {
	return getString("CARDVAULT_ENV", "dev") == "dev"
}

type serverConfig struct{}

func (serverConfig) Port() int64 {
	return getInt64("CARDVAULT_PORT", 8080)
}

func (serverConfig) CorsAllowedOrigins() []string {
	return getStrings("CARDVAULT_CORS_ORIGINS", []string{"*"})
}

type databaseConfig struct{}

func (databaseConfig) Dsn() string {
	return getString("CARDVAULT_DATABASE_DSN", "postgres://localhost:5432/cardvault")
}

type providerConfig struct{}

// RequestTimeout bounds every remote object-store call.
func (providerConfig) RequestTimeout() time.Duration {
	return getDuration("CARDVAULT_PROVIDER_TIMEOUT", 30*time.Second)
}

type artifactsConfig struct{}

func (artifactsConfig) BaseURL() string {
	return getString("CARDVAULT_ARTIFACTS_URL", "http://localhost:3000")
}

func (artifactsConfig) Timeout() time.Duration {
	return getDuration("CARDVAULT_ARTIFACTS_TIMEOUT", 60*time.Second)
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getStrings(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

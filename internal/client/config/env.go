package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from environment variables, seeding
// the environment from a .env file first when one exists. godotenv never
// overrides variables that are already set, so real environment always wins
// over the file.
//
// Recognized variables:
//
//	CERTAPPLY_API_BASE_URL    base URL of the backend REST endpoint
//	CERTAPPLY_POLL_INTERVAL   notification poll interval, e.g. "10s"
//	CERTAPPLY_HTTP_TIMEOUT    per-request timeout, e.g. "15s"
//	CERTAPPLY_SESSION_DB      path of the local session database
func parseEnv(cfg *Config) {
	_ = godotenv.Load(".env")

	if v := os.Getenv("CERTAPPLY_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CERTAPPLY_SESSION_DB"); v != "" {
		cfg.SessionDBPath = v
	}
	if d := durationEnv("CERTAPPLY_POLL_INTERVAL"); d > 0 {
		cfg.PollInterval = d
	}
	if d := durationEnv("CERTAPPLY_HTTP_TIMEOUT"); d > 0 {
		cfg.HTTPTimeout = d
	}
}

func durationEnv(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

package config

import "time"

// Config holds runtime settings for the CertApply CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST endpoint.
//   - PollInterval: how often the client polls for notifications.
//   - HTTPTimeout: per-request timeout for backend calls.
//   - SessionDBPath: path of the local sqlite file holding the session.
type Config struct {
	APIBaseURL    string
	SessionDBPath string
	PollInterval  time.Duration
	HTTPTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.SessionDBPath = "certapply.db"
	c.PollInterval = 10 * time.Second
	c.HTTPTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (optionally seeded from a .env file), a JSON file (if
// present) and command-line flags. Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

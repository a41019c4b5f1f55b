package config

import (
	"flag"
	"os"
	"time"

	"github.com/certapply/certapply/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend REST endpoint (default from Config)
//	-i int      notification poll interval in seconds (default from Config)
//	-t int      per-request HTTP timeout in seconds (default from Config)
//	-s string   path of the local session database (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend server")
	fs.StringVar(&cfg.SessionDBPath, "s", cfg.SessionDBPath, "path of the local session database")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "notification poll interval (in seconds)")
	httpTimeout := fs.Int("t", int(cfg.HTTPTimeout.Seconds()), "HTTP request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	cfg.HTTPTimeout = time.Duration(*httpTimeout) * time.Second
}

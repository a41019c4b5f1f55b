package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/certapply/certapply/internal/client/cli"
	"github.com/certapply/certapply/internal/client/config"
	"github.com/certapply/certapply/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := logging.NewSlogLogger(slog.New(handler))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}

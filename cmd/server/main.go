// Command server starts the task management API server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/taskmaster/taskmaster-api/internal/config"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}

	app, err := newApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer app.Close()

	return app.Run()
}

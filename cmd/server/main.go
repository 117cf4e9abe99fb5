package main

import (
	"flag"
	"os"

	"github.com/SphrGhfri/collabhub_golang_nats/config"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/app"
	"github.com/SphrGhfri/collabhub_golang_nats/pkg/logger"
)

var configPath = flag.String("config", "config.json", "service configuration file")

func main() {
	flag.Parse()
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		*configPath = envPath
	}

	cfg := config.MustReadConfig(*configPath)

	logg := logger.NewLogger(cfg.LogLevel, cfg.LogFile).WithModule("main")
	logg.Infof("Starting collaboration server on port %d (idle timeout %s, sweep every %s)",
		cfg.Port, cfg.IdleTimeout(), cfg.SweepInterval())

	application, err := app.NewApp(cfg)
	if err != nil {
		logg.Fatalf("Failed to initialize application: %v", err)
	}

	// Block until Stop is called or an error occurs
	if err := application.Start(); err != nil {
		logg.Fatalf("Server terminated: %v", err)
	}
}

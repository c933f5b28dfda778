// Command apiserver runs the MolViz web application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/MolViz/internal/app"
	"github.com/turtacn/MolViz/internal/config"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
)

const defaultConfigPath = "configs/config.yaml"

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	app.Version, app.GitCommit, app.BuildDate = version, commit, buildDate

	// Load configuration (or use defaults if file not found)
	path := *configPath
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s not found, using defaults and MOLVIZ_* environment\n", path)
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if path != "" {
		if err := app.WatchLogLevel(path, logger); err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	logger.Info("starting MolViz API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.Int("http_port", cfg.Server.Port))

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", logging.Err(err))
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("MolViz API server stopped")
}

//Personal.AI order the ending

// Command worker consumes molecule.visualized events from Kafka and keeps the
// popularity statistics in Redis.
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

const defaultWorkerConfigPath = "configs/config.yaml"

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", defaultWorkerConfigPath, "path to configuration file")
	healthPort := flag.Int("health-port", 0, "probe and metrics port (overrides worker.health_port)")
	group := flag.String("group", "", "consumer group (overrides kafka.group_id)")
	flag.Parse()

	app.Version, app.GitCommit, app.BuildDate = version, commit, buildDate

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *healthPort > 0 {
		cfg.Worker.HealthPort = *healthPort
	}
	if *group != "" {
		cfg.Kafka.GroupID = *group
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting MolViz worker",
		logging.String("version", version),
		logging.String("topic", cfg.Kafka.Topic),
		logging.String("group", cfg.Kafka.GroupID))

	w, err := app.NewWorker(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize worker", logging.Err(err))
		os.Exit(1)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

//Personal.AI order the ending

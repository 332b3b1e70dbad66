package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/neuronaut/clarity/pkg/clarity"
	"github.com/neuronaut/clarity/pkg/logging"
	"github.com/neuronaut/clarity/pkg/redact"
	"github.com/neuronaut/clarity/pkg/runner"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	cfg, err := clarity.LoadConfig(*configPath)
	if err != nil {
		slog.Error("load config failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	redact.SetEnabled(cfg.Privacy.RedactPII)

	app, err := clarity.NewApp(cfg, clarity.DefaultProviderRegistry(), logger)
	if err != nil {
		logger.Error("build app failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lc := runner.NewLifecycleRunner(app, runner.Hooks{
		OnStart: func() {
			go func() {
				if err := app.Serve(); err != nil {
					logger.Error("http server stopped", slog.String("error", err.Error()))
				}
			}()
		},
		OnStop: func() {
			logger.Info("clarity stopped")
		},
	}, 15*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := lc.Run(ctx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

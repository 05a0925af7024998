package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cvwizard/internal/cli"
	"cvwizard/internal/config"
	"cvwizard/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; it only exists in development checkouts.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cvwizard: configuration:", err)
		return 1
	}
	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cvwizard: logging:", err)
		return 1
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Vault secrets unavailable")
		return 1
	}

	logger.Debug("cvwizard starting", "version", cli.Version, "provider", cfg.AI.Provider)
	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Command failed")
		return 1
	}
	return 0
}

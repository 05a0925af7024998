package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cvwizard/internal/config"
	"cvwizard/internal/observability"
)

const (
	observabilityStopTimeout = 5 * time.Second
	drainTimeout             = 30 * time.Second
)

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	var settings observability.Settings
	if s.AppConfig != nil {
		settings = observability.SettingsFrom(s.AppConfig.Observability, s.Version)
	}
	om, err := observability.NewManager(settings, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), observabilityStopTimeout)
		defer cancel()
		if err := om.Shutdown(stopCtx); err != nil {
			s.Logger.LogError(err, "Failed to stop observability")
		}
	}()

	defer s.stopBackground()
	if err := s.startPromptReload(); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:           s.Handler(om),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}
	s.writeBanner(os.Stdout)

	failed := make(chan error, 1)
	go func() {
		s.Logger.Info("Listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	s.Logger.Info("Draining connections", "timeout", drainTimeout)
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := httpServer.Shutdown(drainCtx); err != nil {
		s.Logger.LogError(err, "Drain timed out, closing connections")
		return httpServer.Close()
	}
	s.Logger.Info("Server stopped")
	return nil
}

// startPromptReload starts the prompt file watcher and the Vault prompt
// poller when they are configured.
func (s *Server) startPromptReload() error {
	if s.AppConfig == nil {
		return nil
	}

	if files := s.AppConfig.PromptFiles(); s.AppConfig.Server.WatchPrompts && len(files) > 0 {
		s.PromptWatcher = config.NewPromptWatcher(files, config.Prompts(), 0, s.Logger)
		if err := s.PromptWatcher.Start(); err != nil {
			return fmt.Errorf("failed to start prompt watcher: %w", err)
		}
	}

	vault := s.AppConfig.Vault
	if !vault.Enabled || vault.Secrets.Prompts == "" || vault.PromptPollInterval <= 0 {
		return nil
	}
	client, err := config.NewVaultClient(vault, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to create vault client for prompt reload: %w", err)
	}
	if client == nil {
		return nil
	}
	s.VaultWatcher = NewVaultWatcher(client, vault.Secrets.Prompts, vault.PromptPollInterval, config.Prompts(), nil, s.Logger)
	if err := s.VaultWatcher.Start(); err != nil {
		return fmt.Errorf("failed to start vault prompt watcher: %w", err)
	}
	return nil
}

// stopBackground stops the watchers and the rate limiter sweep.
func (s *Server) stopBackground() {
	if s.PromptWatcher != nil {
		if err := s.PromptWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop prompt watcher")
		}
	}
	if s.VaultWatcher != nil {
		if err := s.VaultWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop vault prompt watcher")
		}
	}
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}
}

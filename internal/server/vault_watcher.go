package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cvwizard/internal/config"
	"cvwizard/internal/errors"
)

// SecretReader reads one KV v2 secret. *config.VaultClient satisfies it.
type SecretReader interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// PromptReloadCallback receives the number of prompts applied from a new
// secret version, or the error of a failed read.
type PromptReloadCallback func(applied int, err error)

// VaultWatcher polls the prompts secret and applies each new version to the
// prompt registry.
type VaultWatcher struct {
	reader   SecretReader
	path     string
	interval time.Duration
	registry *config.PromptRegistry
	onReload PromptReloadCallback
	logger   *errors.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	version int64
	applied int
	lastErr error
}

// WatcherStatus is reported on /stats.
type WatcherStatus struct {
	Running        bool   `json:"running"`
	SecretPath     string `json:"secret_path"`
	PollInterval   string `json:"poll_interval"`
	LastVersion    int64  `json:"last_version"`
	PromptsApplied int    `json:"prompts_applied"`
	LastError      string `json:"last_error,omitempty"`
}

func NewVaultWatcher(reader SecretReader, path string, interval time.Duration, registry *config.PromptRegistry, onReload PromptReloadCallback, logger *errors.Logger) *VaultWatcher {
	if onReload == nil {
		onReload = func(int, error) {}
	}
	if logger == nil {
		logger = errors.Discard()
	}
	return &VaultWatcher{
		reader:   reader,
		path:     path,
		interval: interval,
		registry: registry,
		onReload: onReload,
		logger:   logger.With("component", "vault_prompts", "secret_path", path),
	}
}

func (vw *VaultWatcher) Start() error {
	if vw.interval <= 0 {
		return fmt.Errorf("vault watcher poll interval must be positive, got %s", vw.interval)
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.cancel != nil {
		return fmt.Errorf("vault watcher for %s is already running", vw.path)
	}
	ctx, cancel := context.WithCancel(context.Background())
	vw.cancel = cancel
	vw.done = make(chan struct{})
	go vw.run(ctx, vw.done)

	vw.logger.Info("Polling Vault for prompt changes", "interval", vw.interval)
	return nil
}

// Stop ends polling and waits for an in-flight poll to finish.
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	cancel, done := vw.cancel, vw.done
	vw.cancel, vw.done = nil, nil
	vw.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	vw.logger.Info("Stopped polling Vault")
	return nil
}

func (vw *VaultWatcher) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(vw.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			vw.poll()
		}
	}
}

func (vw *VaultWatcher) poll() {
	applied, changed, err := vw.checkForUpdates()
	switch {
	case err != nil:
		vw.logger.LogError(err, "Vault prompt poll failed")
		vw.onReload(0, err)
	case changed:
		vw.logger.Info("Prompts reloaded from Vault", "applied", applied)
		vw.onReload(applied, nil)
	}
}

// checkForUpdates applies the secret when its version is newer than the
// last one applied. The first successful read always applies.
func (vw *VaultWatcher) checkForUpdates() (applied int, changed bool, err error) {
	secret, err := vw.reader.GetSecretV2(vw.path)
	if err == nil && secret == nil {
		err = fmt.Errorf("secret %s not found", vw.path)
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.lastErr = err
	if err != nil {
		return 0, false, fmt.Errorf("failed to read prompts secret: %w", err)
	}
	if secret.Version <= vw.version {
		return 0, false, nil
	}
	vw.version = secret.Version
	vw.applied = config.ApplyPromptSecret(secret, vw.registry)
	return vw.applied, true, nil
}

func (vw *VaultWatcher) Status() WatcherStatus {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	st := WatcherStatus{
		Running:        vw.cancel != nil,
		SecretPath:     vw.path,
		PollInterval:   vw.interval.String(),
		LastVersion:    vw.version,
		PromptsApplied: vw.applied,
	}
	if vw.lastErr != nil {
		st.LastError = vw.lastErr.Error()
	}
	return st
}

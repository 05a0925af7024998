package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cvwizard/internal/errors"
)

// PromptWatcher reloads system prompt files into the registry when they
// change on disk, so a running server picks up edited prompts.
type PromptWatcher struct {
	mu sync.Mutex

	files       map[Operation]string
	lastModTime map[string]time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	registry *PromptRegistry
	logger   *errors.Logger
	running  bool
}

// NewPromptWatcher creates a watcher for the given operation prompt files.
func NewPromptWatcher(files map[Operation]string, registry *PromptRegistry, debounceDelay time.Duration, logger *errors.Logger) *PromptWatcher {
	if debounceDelay == 0 {
		debounceDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = errors.Discard()
	}
	return &PromptWatcher{
		files:         files,
		lastModTime:   make(map[string]time.Time),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		registry:      registry,
		logger:        logger,
	}
}

// Start begins watching. Watching no files is a no-op.
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}
	if len(pw.files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	dirs := make(map[string]bool)
	for _, file := range pw.files {
		if stat, err := os.Stat(file); err == nil {
			pw.lastModTime[file] = stat.ModTime()
		}
		// Watch directories so atomic replaces (write + rename) are seen.
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			pw.logger.Warn("Failed to watch prompt directory", "directory", dir, "error", err)
		}
	}

	pw.running = true
	go pw.watchLoop()

	pw.logger.Info("Prompt file watcher started", "files", len(pw.files), "debounce_delay", pw.debounceDelay)
	return nil
}

// Stop stops the watcher.
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}
	close(pw.stopChan)
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.running = false
	if err := pw.fsWatcher.Close(); err != nil {
		pw.logger.LogError(err, "Failed to close prompt file watcher")
		return err
	}
	pw.logger.Info("Prompt file watcher stopped")
	return nil
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if pw.isWatched(event.Name) && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pw.scheduleReload()
			}
		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "Prompt file watcher error")
		case <-pw.reloadChan:
			pw.Reload()
		case <-pw.stopChan:
			return
		}
	}
}

func (pw *PromptWatcher) isWatched(name string) bool {
	for _, file := range pw.files {
		if name == file || filepath.Base(name) == filepath.Base(file) {
			return true
		}
	}
	return false
}

func (pw *PromptWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- struct{}{}:
		default:
		}
	})
}

// Reload re-reads every changed prompt file. A file that became unreadable or
// empty keeps its previous content in the registry.
func (pw *PromptWatcher) Reload() int {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	reloaded := 0
	for op, file := range pw.files {
		stat, err := os.Stat(file)
		if err != nil {
			continue
		}
		if last, ok := pw.lastModTime[file]; ok && !stat.ModTime().After(last) {
			continue
		}
		content, err := loadPromptFromFile(file, op)
		if err != nil {
			pw.logger.Warn("Keeping previous prompt", "operation", op.String(), "error", err)
			continue
		}
		pw.lastModTime[file] = stat.ModTime()
		pw.registry.Set(op, content)
		reloaded++
		pw.logger.Info("Reloaded system prompt", "operation", op.String(), "file", file)
	}
	return reloaded
}

// IsRunning returns whether the watcher is currently running
func (pw *PromptWatcher) IsRunning() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.running
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// PromptFiles maps every operation with a systemPromptFile to its absolute
// path. Paths that cannot be resolved are left out.
func (c *Config) PromptFiles() map[Operation]string {
	files := make(map[Operation]string)
	for _, op := range Operations() {
		if path := c.AI.operation(op).SystemPromptFile; path != "" {
			if abs, err := filepath.Abs(path); err == nil {
				files[op] = abs
			}
		}
	}
	return files
}

// validatePromptFiles reports every configured prompt file that is missing,
// so one run surfaces all of them.
func (c *Config) validatePromptFiles() error {
	var errs []error
	for _, op := range Operations() {
		path := c.AI.operation(op).SystemPromptFile
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid path for %s prompt: %s", op, path))
			continue
		}
		if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%s prompt file not found: %s", op, abs))
		}
	}
	return errors.Join(errs...)
}

// loadPromptsFromFiles puts the contents of every prompt file into the
// process-wide registry.
func (c *Config) loadPromptsFromFiles() error {
	files := c.PromptFiles()
	for op, path := range files {
		text, err := loadPromptFromFile(path, op)
		if err != nil {
			return fmt.Errorf("failed to load %s system prompt: %w", op, err)
		}
		Prompts().Set(op, text)
	}
	if len(files) > 0 {
		log.Printf("[CONFIG] %d system prompt(s) loaded from files", len(files))
	}
	return nil
}

// loadPromptFromFile returns the trimmed prompt text. Empty files are errors.
func loadPromptFromFile(path string, op Operation) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s prompt file %q: %w", op, path, err)
	}
	raw, err := os.ReadFile(abs) // #nosec G304 -- path comes from the operator's config
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%s prompt file not found: %s", op, abs)
	case err != nil:
		return "", fmt.Errorf("cannot read %s prompt file %s: %w", op, abs, err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("%s prompt file %s is empty", op, abs)
	}
	return text, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrompt(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	Prompts().Reset()
	t.Cleanup(Prompts().Reset)

	tempDir := t.TempDir()
	reviewFile := writePrompt(t, tempDir, "review.md", "  Custom review instruction\n")

	config := &Config{
		AI: AIConfig{
			Review: OperationAIConfig{SystemPromptFile: reviewFile},
		},
	}

	require.NoError(t, config.loadPromptsFromFiles())

	got, ok := Prompts().System(OpReview)
	assert.True(t, ok)
	assert.Equal(t, "Custom review instruction", got)

	_, ok = Prompts().System(OpExtract)
	assert.False(t, ok, "operations without a file keep the built-in prompt")

	assert.Equal(t, reviewFile, config.AI.Review.SystemPromptFile, "file path is preserved")
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()
	validFile := writePrompt(t, tempDir, "valid.md", "Valid content")

	config := &Config{
		AI: AIConfig{
			Modify: OperationAIConfig{SystemPromptFile: validFile},
		},
	}
	assert.NoError(t, config.validatePromptFiles())

	config.AI.Modify.SystemPromptFile = filepath.Join(tempDir, "nonexistent.md")
	err := config.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modify prompt file not found")
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "valid file", path: writePrompt(t, tempDir, "test.md", "Test prompt content"), want: "Test prompt content"},
		{name: "empty file", path: writePrompt(t, tempDir, "empty.md", "   \n"), wantErr: true},
		{name: "missing file", path: filepath.Join(tempDir, "nonexistent.md"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadPromptFromFile(tt.path, OpEnhance)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOperationUsesLoadedPrompt(t *testing.T) {
	Prompts().Reset()
	t.Cleanup(Prompts().Reset)

	config := &Config{AI: AIConfig{Timeout: time.Minute, CoverLetter: OperationAIConfig{SystemPrompt: "inline"}}}
	assert.Equal(t, "inline", config.Operation(OpCoverLetter).SystemPrompt)

	Prompts().Set(OpCoverLetter, "from file")
	assert.Equal(t, "from file", config.Operation(OpCoverLetter).SystemPrompt)

	Prompts().Set(OpCoverLetter, "")
	assert.Equal(t, "inline", config.Operation(OpCoverLetter).SystemPrompt)
}

func TestPromptWatcherReload(t *testing.T) {
	registry := &PromptRegistry{system: make(map[Operation]string)}
	tempDir := t.TempDir()
	file := writePrompt(t, tempDir, "extract.md", "first")

	watcher := NewPromptWatcher(map[Operation]string{OpExtract: file}, registry, 0, nil)

	assert.Equal(t, 1, watcher.Reload(), "first reload picks the file up")
	got, _ := registry.System(OpExtract)
	assert.Equal(t, "first", got)

	assert.Equal(t, 0, watcher.Reload(), "unchanged file is not reloaded")

	require.NoError(t, os.WriteFile(file, []byte("second"), 0600))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, future, future))
	assert.Equal(t, 1, watcher.Reload())
	got, _ = registry.System(OpExtract)
	assert.Equal(t, "second", got)

	require.NoError(t, os.WriteFile(file, []byte(""), 0600))
	later := future.Add(time.Hour)
	require.NoError(t, os.Chtimes(file, later, later))
	assert.Equal(t, 0, watcher.Reload(), "empty file is rejected")
	got, _ = registry.System(OpExtract)
	assert.Equal(t, "second", got, "previous prompt is kept")
}

func TestPromptWatcherStartStop(t *testing.T) {
	registry := &PromptRegistry{system: make(map[Operation]string)}
	file := writePrompt(t, t.TempDir(), "review.md", "x")

	watcher := NewPromptWatcher(map[Operation]string{OpReview: file}, registry, 10*time.Millisecond, nil)
	require.NoError(t, watcher.Start())
	assert.True(t, watcher.IsRunning())
	assert.Error(t, watcher.Start(), "double start is rejected")
	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.IsRunning())
	assert.NoError(t, watcher.Stop())
}

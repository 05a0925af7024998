package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvwizard/internal/errors"
)

// fakeSecrets serves KVv2 data from memory.
type fakeSecrets map[string]map[string]any

func (f fakeSecrets) GetSecretV2(path string) (*VaultSecret, error) {
	data, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return &VaultSecret{Data: data, Version: 3}, nil
}

func (f fakeSecrets) GetStringSecret(path, key string) (string, error) {
	secret, err := f.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	return secret.String(key)
}

func (f fakeSecrets) GetStringSliceSecret(path, key string) ([]string, error) {
	s, err := f.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	return splitKeys(s), nil
}

func TestSecretVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{name: "json number", input: json.Number("42"), want: 42},
		{name: "int64", input: int64(42), want: 42},
		{name: "float64", input: float64(42), want: 42},
		{name: "string", input: "42", want: 42},
		{name: "bad string", input: "not-a-number", wantErr: true},
		{name: "float string", input: "42.5", wantErr: true},
		{name: "missing", input: nil, wantErr: true},
		{name: "unsupported type", input: []string{"42"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := secretVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyGeminiKey(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{
			Review: OperationAIConfig{APIKey: "existing-review-key"},
		},
	}

	applyGeminiKey(cfg, "vault-key")

	assert.Equal(t, "vault-key", cfg.AI.APIKey)
	assert.Equal(t, "existing-review-key", cfg.AI.Review.APIKey, "explicit keys are kept")
	for _, op := range Operations() {
		if op == OpReview {
			continue
		}
		assert.Equal(t, "vault-key", cfg.AI.operation(op).APIKey, op)
	}
}

func TestVaultToken(t *testing.T) {
	t.Run("inline token wins", func(t *testing.T) {
		token, err := vaultToken(VaultConfig{Token: "direct-token", TokenFile: "/nonexistent"})
		require.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := vaultToken(VaultConfig{TokenFile: tokenFile})
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("empty token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("\n"), 0600))

		_, err := vaultToken(VaultConfig{TokenFile: tokenFile})
		assert.ErrorContains(t, err, "is empty")
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := vaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("no token", func(t *testing.T) {
		_, err := vaultToken(VaultConfig{})
		assert.ErrorContains(t, err, "vault token is required")
	})
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(config, errors.Discard()))
}

func TestApplySecrets(t *testing.T) {
	Prompts().Reset()
	t.Cleanup(Prompts().Reset)

	source := fakeSecrets{
		"secret/data/keys":    {"keys": "k1, k2"},
		"secret/data/gemini":  {"api_key": "gemini-from-vault"},
		"secret/data/prompts": {"review": "  Vault review prompt ", "unknown": "ignored", "extract": ""},
	}
	config := &Config{
		Vault: VaultConfig{
			Enabled: true,
			Secrets: VaultSecrets{
				APIKeys:   "secret/data/keys",
				GeminiKey: "secret/data/gemini",
				Prompts:   "secret/data/prompts",
			},
		},
	}

	require.NoError(t, applySecrets(source, config, Prompts(), errors.Discard()))

	assert.Equal(t, []string{"k1", "k2"}, config.Server.APIKeys)
	assert.Equal(t, "gemini-from-vault", config.AI.Extract.APIKey)

	prompt, ok := Prompts().System(OpReview)
	assert.True(t, ok)
	assert.Equal(t, "Vault review prompt", prompt)
	_, ok = Prompts().System(OpExtract)
	assert.False(t, ok, "empty values are skipped")
	assert.Equal(t, 1, Prompts().Len())
}

func TestApplySecretsMissingPath(t *testing.T) {
	config := &Config{
		Vault: VaultConfig{Secrets: VaultSecrets{GeminiKey: "secret/data/missing"}},
	}
	err := applySecrets(fakeSecrets{}, config, Prompts(), errors.Discard())
	assert.ErrorContains(t, err, "failed to load Gemini API key from vault")
}

func TestDecodeKV2(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    *VaultSecret
		wantErr string
	}{
		{
			name: "valid",
			raw: map[string]any{
				"data":     map[string]any{"api_key": "v"},
				"metadata": map[string]any{"version": json.Number("7")},
			},
			want: &VaultSecret{Data: map[string]any{"api_key": "v"}, Version: 7},
		},
		{
			name:    "missing data",
			raw:     map[string]any{"metadata": map[string]any{"version": 1}},
			wantErr: "'data'",
		},
		{
			name:    "data is not a map",
			raw:     map[string]any{"data": "not-a-map", "metadata": map[string]any{"version": 1}},
			wantErr: "'data'",
		},
		{
			name:    "missing metadata",
			raw:     map[string]any{"data": map[string]any{}},
			wantErr: "'metadata'",
		},
		{
			name:    "missing version",
			raw:     map[string]any{"data": map[string]any{}, "metadata": map[string]any{"other": "value"}},
			wantErr: "'version'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeKV2(tt.raw)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVaultSecretString(t *testing.T) {
	secret := &VaultSecret{Data: map[string]any{"api_key": "abc", "count": 3}}

	v, err := secret.String("api_key")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	_, err = secret.String("count")
	assert.ErrorContains(t, err, "not a string")
	_, err = secret.String("missing")
	assert.ErrorContains(t, err, "not found")
}

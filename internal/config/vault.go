package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"cvwizard/internal/errors"
)

// VaultConfig connects to a Vault server holding the Gemini key, the
// server's access keys and optional system prompt overrides.
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// PromptPollInterval is how often a serving process re-reads the prompts
	// secret. Zero disables polling.
	PromptPollInterval time.Duration `mapstructure:"promptPollInterval"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets are KVv2 read paths (secret/data/...). Empty paths are
// skipped.
type VaultSecrets struct {
	// APIKeys holds a "keys" field with a comma separated key list.
	APIKeys string `mapstructure:"apiKeys"`
	// GeminiKey holds an "api_key" field.
	GeminiKey string `mapstructure:"geminiKey"`
	// Prompts maps operation names (extract, review, ...) to system prompts.
	Prompts string `mapstructure:"prompts"`
}

// Fields read from the key secrets.
const (
	vaultAPIKeysField   = "keys"
	vaultGeminiKeyField = "api_key"
)

// VaultClient reads KVv2 secrets.
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// NewVaultClient connects and checks the server's health. It returns nil
// without error when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = errors.Discard()
	}

	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := vaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		code := errors.ErrCodeServiceUnreachable
		if os.IsTimeout(err) {
			code = errors.ErrCodeNetworkTimeout
		}
		return nil, errors.NewNetworkError(code, "failed to connect to vault at "+apiCfg.Address, err)
	}
	if health.Sealed {
		return nil, fmt.Errorf("vault at %s is sealed", apiCfg.Address)
	}
	logger.Info("Connected to Vault", "address", apiCfg.Address, "version", health.Version)

	return &VaultClient{client: client, logger: logger}, nil
}

// vaultToken prefers an inline token over a token file.
func vaultToken(cfg VaultConfig) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenFile == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	raw, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return "", fmt.Errorf("failed to read vault token file: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("vault token file %s is empty", cfg.TokenFile)
	}
	return token, nil
}

// VaultSecret is the current version of a KVv2 secret.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// String returns a string field of the secret.
func (s *VaultSecret) String(key string) (string, error) {
	value, ok := s.Data[key]
	if !ok {
		return "", fmt.Errorf("field %q not found", key)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q is a %T, not a string", key, value)
	}
	return str, nil
}

// GetSecretV2 reads the latest version of the secret at path.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}
	raw, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if raw == nil || raw.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	secret, err := decodeKV2(raw.Data)
	if err != nil {
		return nil, fmt.Errorf("secret at %s: %w", path, err)
	}
	vc.logger.Debug("Read secret from Vault", "path", path, "version", secret.Version)
	return secret, nil
}

// decodeKV2 unwraps the data and metadata envelopes of a KVv2 response.
func decodeKV2(raw map[string]any) (*VaultSecret, error) {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not in KVv2 format (missing 'data' field)")
	}
	metadata, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not in KVv2 format (missing 'metadata' field)")
	}
	version, err := secretVersion(metadata["version"])
	if err != nil {
		return nil, err
	}
	return &VaultSecret{Data: data, Version: version}, nil
}

// secretVersion accepts the number types the Vault client and tests produce.
func secretVersion(v any) (int64, error) {
	switch v := v.(type) {
	case json.Number:
		return v.Int64()
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, fmt.Errorf("metadata is missing 'version' field")
	default:
		return 0, fmt.Errorf("unexpected version type %T", v)
	}
}

// GetStringSecret reads one string field of the secret at path.
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	value, err := secret.String(key)
	if err != nil {
		return "", fmt.Errorf("secret %s: %w", path, err)
	}
	return value, nil
}

// GetStringSliceSecret reads a comma separated list field.
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	return splitKeys(value), nil
}

// ApplyVaultSecrets overlays the configured secrets onto cfg and the prompt
// registry. It is a no-op when Vault is disabled.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}
	if logger == nil {
		logger = errors.Discard()
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(client, cfg, Prompts(), logger)
}

// secretSource is the part of VaultClient secret loading needs.
type secretSource interface {
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
	GetSecretV2(path string) (*VaultSecret, error)
}

func applySecrets(src secretSource, cfg *Config, registry *PromptRegistry, logger *errors.Logger) error {
	paths := cfg.Vault.Secrets
	loaders := []struct {
		what string
		path string
		load func(path string) error
	}{
		{"API keys", paths.APIKeys, func(path string) error {
			keys, err := src.GetStringSliceSecret(path, vaultAPIKeysField)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				logger.Warn("Vault holds no API keys", "path", path)
				return nil
			}
			cfg.Server.APIKeys = keys
			logger.Info("API keys loaded from Vault", "count", len(keys))
			return nil
		}},
		{"Gemini API key", paths.GeminiKey, func(path string) error {
			key, err := src.GetStringSecret(path, vaultGeminiKeyField)
			if err != nil {
				return err
			}
			if key == "" {
				logger.Warn("Vault holds an empty Gemini API key", "path", path)
				return nil
			}
			applyGeminiKey(cfg, key)
			logger.Info("Gemini API key loaded from Vault")
			return nil
		}},
		{"prompts", paths.Prompts, func(path string) error {
			secret, err := src.GetSecretV2(path)
			if err != nil {
				return err
			}
			n := ApplyPromptSecret(secret, registry)
			logger.Info("System prompts loaded from Vault", "count", n, "version", secret.Version)
			return nil
		}},
	}

	for _, l := range loaders {
		if l.path == "" {
			continue
		}
		if err := l.load(l.path); err != nil {
			return fmt.Errorf("failed to load %s from vault: %w", l.what, err)
		}
	}
	return nil
}

// applyGeminiKey sets the global key and every operation key that was not
// configured explicitly.
func applyGeminiKey(cfg *Config, key string) {
	cfg.AI.APIKey = key
	for _, op := range Operations() {
		opCfg := cfg.AI.operation(op)
		if opCfg.APIKey == "" {
			opCfg.APIKey = key
			cfg.AI.setOperation(op, opCfg)
		}
	}
}

// ApplyPromptSecret copies the non-empty operation prompts of a prompts
// secret into the registry and returns how many were applied. Unknown fields
// are ignored.
func ApplyPromptSecret(secret *VaultSecret, registry *PromptRegistry) int {
	if secret == nil {
		return 0
	}
	applied := 0
	for _, op := range Operations() {
		content, err := secret.String(string(op))
		if err != nil || strings.TrimSpace(content) == "" {
			continue
		}
		registry.Set(op, strings.TrimSpace(content))
		applied++
	}
	return applied
}

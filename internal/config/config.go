// Package config loads cvwizard settings from defaults, a YAML file, the
// environment and Vault, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CVWIZARD_AI_REVIEW_MODEL.
const EnvPrefix = "CVWIZARD"

// Config is the full application configuration.
//
// The Gemini key is resolved per operation: Vault, then the config file, then
// CVWIZARD_AI_APIKEY, then GEMINI_API_KEY.
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// LoadConfig searches the standard locations for config.yaml. Running without
// a file is fine.
func LoadConfig() (*Config, error) {
	return load(viper.New(), "")
}

// LoadConfigFile loads path, which must exist.
func LoadConfigFile(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, explicitFile string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source, err := readConfigFile(v, explicitFile)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyFallbacks()
	cfg.logSummary(source)

	steps := []struct {
		what string
		run  func() error
	}{
		{"check prompt files", cfg.validatePromptFiles},
		{"load prompt files", cfg.loadPromptsFromFiles},
		{"validate configuration", cfg.Validate},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("failed to %s: %w", step.what, err)
		}
	}
	return &cfg, nil
}

// readConfigFile returns the file that was read, or "" when none was found
// during a search.
func readConfigFile(v *viper.Viper, explicitFile string) (string, error) {
	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cvwizard")
		v.AddConfigPath("/etc/cvwizard/")
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		return v.ConfigFileUsed(), nil
	case errors.As(err, &notFound) && explicitFile == "":
		log.Println("[CONFIG] No config file found, using defaults and environment")
		return "", nil
	default:
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
}

// Validate rejects settings no command can run with. A missing Gemini key is
// not one of them: operations report it when invoked and HTTP callers may
// bring their own.
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	for _, op := range Operations() {
		cb := c.AI.operation(op).CircuitBreaker
		if cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
			return fmt.Errorf("%s circuit breaker failure threshold must be in (0, 1]", op)
		}
	}
	if err := c.Server.validate(); err != nil {
		return err
	}
	if err := c.App.validate(); err != nil {
		return err
	}
	return c.Observability.validate()
}

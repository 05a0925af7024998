package config

import (
	"log"
	"os"
	"strings"
)

// applyFallbacks fills values viper cannot derive on its own.
func (c *Config) applyFallbacks() {
	// viper splits list-valued environment variables without trimming
	if env := os.Getenv(EnvPrefix + "_SERVER_APIKEYS"); env != "" {
		c.Server.APIKeys = splitKeys(env)
	}
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = serviceInstanceID(c.Observability.ServiceName)
	}
}

// splitKeys splits a comma separated key list, dropping empty entries.
func splitKeys(s string) []string {
	var keys []string
	for key := range strings.SplitSeq(s, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func serviceInstanceID(service string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return service + "-" + host
}

// summaryEnv are the overrides worth echoing at startup. Values of names
// containing KEY or TOKEN are masked.
var summaryEnv = []string{
	EnvPrefix + "_AI_APIKEY",
	EnvPrefix + "_AI_MODEL",
	EnvPrefix + "_SERVER_HOST",
	EnvPrefix + "_SERVER_PORT",
	EnvPrefix + "_APP_LOGLEVEL",
	EnvPrefix + "_VAULT_ENABLED",
	EnvPrefix + "_VAULT_TOKEN",
	"GEMINI_API_KEY",
}

// logSummary prints where the configuration came from. It runs before the
// structured logger exists, so it uses the standard logger.
func (c *Config) logSummary(source string) {
	if source == "" {
		source = "none"
	}
	log.Printf("[CONFIG] Config file: %s", source)

	for _, name := range summaryEnv {
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if strings.Contains(name, "KEY") || strings.Contains(name, "TOKEN") {
			value = "***"
		}
		log.Printf("[CONFIG] Env %s=%s", name, value)
	}

	keyState := "not set, operations fail until one is provided"
	if c.APIKey() != "" {
		keyState = "configured"
	}
	log.Printf("[CONFIG] Gemini API key: %s", keyState)
	log.Printf("[CONFIG] Server %s:%s, log level %s, vault %t, observability %t",
		c.Server.Host, c.Server.Port, c.App.LogLevel, c.Vault.Enabled, c.Observability.Enabled)

	for _, op := range Operations() {
		opCfg := c.Operation(op)
		log.Printf("[CONFIG] %-12s model=%s grounding=%t", op, opCfg.Model, opCfg.GroundingEnabled())
	}
}

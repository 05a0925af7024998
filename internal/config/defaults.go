package config

import (
	"time"

	"github.com/spf13/viper"
)

// section is a block of defaults under one key prefix.
type section struct {
	prefix string
	values map[string]any
}

func (s section) apply(v *viper.Viper) {
	for key, val := range s.values {
		v.SetDefault(s.prefix+key, val)
	}
}

func setDefaults(v *viper.Viper) {
	sections := []section{
		{"ai.", map[string]any{
			"provider":         "gemini",
			"model":            "gemini-2.0-flash-exp",
			"timeout":          90 * time.Second,
			"apiKey":           "",
			"maxRetries":       3,
			"temperature":      0.7,
			"useSystemPrompts": true,
		}},
		{"server.", map[string]any{
			"host":         "localhost",
			"port":         "8080",
			"readTimeout":  30 * time.Second,
			"writeTimeout": 240 * time.Second, // grounded extraction is slow
			"idleTimeout":  120 * time.Second,
			"apiKeys":      []string{},
			"maxBodySize":  20 * 1024 * 1024,
			"watchPrompts": false,
		}},
		{"server.rateLimit.", map[string]any{
			"enabled":        false,
			"requestsPerMin": 30,
			"burstCapacity":  5,
			"byIP":           true,
			"byAPIKey":       false,
			"window":         time.Minute,
		}},
		{"app.", map[string]any{
			"logLevel":                 "info",
			"defaultFormat":            "json",
			"supportedFormats":         []string{"json", "text", "markdown"},
			"maxFileSize":              10 * 1024 * 1024,
			"allowPlaceholderIdentity": true,
		}},
		{"vault.", map[string]any{
			"enabled":            false,
			"address":            "",
			"token":              "",
			"tokenFile":          "",
			"namespace":          "",
			"secrets.apiKeys":    "",
			"secrets.geminiKey":  "",
			"secrets.prompts":    "",
			"promptPollInterval": 0,
		}},
		{"observability.", map[string]any{
			"enabled":             true,
			"serviceName":         "cvwizard",
			"serviceVersion":      "", // build version when empty
			"serviceInstance":     "", // derived from the hostname when empty
			"healthCheck.timeout": 15 * time.Second,
		}},
		{"observability.tracing.", map[string]any{
			"enabled":     true,
			"sampleRate":  1.0,
			"exporter":    ExporterNone,
			"prettyPrint": true,
		}},
		{"observability.metrics.", map[string]any{
			"enabled":             true,
			"interval":            15 * time.Second,
			"exporters":           []string{},
			"prometheus.enabled":  true,
			"prometheus.endpoint": "/metrics",
			"prometheus.port":     "",
		}},
		{"observability.metrics.record.", map[string]any{
			"modelCalls":   true,
			"modelLatency": true,
			"modelTokens":  true,
			"wizardEvents": true,
			"outcomes":     true,
			"rateLimits":   true,
		}},
		{"observability.otlp.", map[string]any{
			"endpoint": "http://localhost:4318",
			"insecure": true,
			"headers":  map[string]string{},
		}},
	}

	for op, d := range defaultsByOperation {
		sections = append(sections, operationSection("ai."+string(op)+".", d))
	}

	for _, s := range sections {
		s.apply(v)
	}
}

// operationSection covers one operation block including its breaker.
func operationSection(prefix string, d operationDefaults) section {
	return section{prefix, map[string]any{
		"provider":                        "gemini",
		"model":                           d.model,
		"timeout":                         time.Duration(d.timeoutSecs) * time.Second,
		"apiKey":                          "",
		"maxRetries":                      d.maxRetries,
		"temperature":                     d.temperature,
		"grounding":                       d.grounding,
		"useSystemPrompts":                true,
		"systemPrompt":                    "",
		"systemPromptFile":                "",
		"circuitBreaker.enabled":          true,
		"circuitBreaker.maxRequests":      3,
		"circuitBreaker.interval":         60 * time.Second,
		"circuitBreaker.timeout":          60 * time.Second,
		"circuitBreaker.minRequests":      3,
		"circuitBreaker.failureThreshold": 0.6,
	}}
}

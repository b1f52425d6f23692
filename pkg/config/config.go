// Package config loads service configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
)

const defaultOllamaURL = "http://localhost:11434"

// defaultOrigins is the CORS allow-list used when CORS_ORIGINS is unset.
var defaultOrigins = []string{
	"http://localhost",
	"http://localhost:3000",
	"http://localhost:8000",
}

// Config holds the runtime configuration. Loaded once at startup, read-only
// afterwards.
type Config struct {
	// Addr is the listen address, e.g. ":8000"
	Addr string

	// Provider selects the LLM backend: "groq" (default) or "ollama"
	Provider string

	// GroqAPIKey authenticates against Groq. Required for the groq provider.
	GroqAPIKey string

	// Model overrides the provider's default model when set
	Model string

	// OllamaURL is the Ollama base URL for the ollama provider
	OllamaURL string

	// CORSOrigins is the origin allow-list
	CORSOrigins []string

	// LogMode selects logger output ("prod" or development)
	LogMode string

	// TraceFile enables JSONL generation traces when set (tracing builds only)
	TraceFile string
}

// Load reads configuration from the environment. A missing GROQ_API_KEY with
// the groq provider selected is a fatal configuration error: the service must
// refuse to start rather than fail on the first request.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:        envOr("ADDR", ":8000"),
		Provider:    strings.ToLower(envOr("LLM_PROVIDER", ProviderGroq)),
		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		Model:       os.Getenv("LLM_MODEL"),
		OllamaURL:   envOr("OLLAMA_URL", defaultOllamaURL),
		CORSOrigins: defaultOrigins,
		LogMode:     envOr("LOG_MODE", "dev"),
		TraceFile:   os.Getenv("TRACE_FILE"),
	}

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		var origins []string
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		cfg.CORSOrigins = origins
	}

	switch cfg.Provider {
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	case ProviderOllama:
		// no credentials needed
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (want %q or %q)", cfg.Provider, ProviderGroq, ProviderOllama)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

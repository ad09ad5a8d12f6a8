package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration: optional YAML file, environment
// overlay, defaults, validation. An empty path skips the file.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays the environment-sourced platform settings. The
// environment wins over file values.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PROJECT_ENDPOINT")); v != "" {
		cfg.Platform.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("AGENT_NAME")); v != "" {
		cfg.Platform.AgentName = v
	}
	if v := strings.TrimSpace(os.Getenv("MODEL_NAME")); v != "" {
		cfg.Platform.Model = v
	}
	cfg.Platform.APIKey = strings.TrimSpace(os.Getenv("AZURE_OPENAI_API_KEY"))
	clientID := strings.TrimSpace(os.Getenv("AZURE_CLIENT_ID"))
	if clientID == "" {
		clientID = strings.TrimSpace(os.Getenv("MANAGED_IDENTITY_CLIENT_ID"))
	}
	cfg.Platform.ClientID = clientID
}

// Normalize fills defaults and clears placeholder values.
func Normalize(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Platform.AgentName == "" {
		cfg.Platform.AgentName = "architectai-design-agent"
	}
	if cfg.Platform.Model == "" {
		cfg.Platform.Model = "gpt-4o"
	}
	if cfg.Platform.APIKey == apiKeyPlaceholder {
		cfg.Platform.APIKey = ""
	}
}

// Validate rejects settings the service cannot run with. A missing
// endpoint is deliberately not an error here: requests answer with a
// remediation message instead.
func Validate(cfg *Config) error {
	if cfg.Server.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("server.request_timeout_seconds must not be negative")
	}
	if cfg.Server.RunPollIntervalMillis < 0 {
		return fmt.Errorf("server.run_poll_interval_millis must not be negative")
	}
	if endpoint := cfg.Platform.Endpoint; endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			return fmt.Errorf("platform endpoint must be an http(s) URL, got %q", endpoint)
		}
	}
	return nil
}

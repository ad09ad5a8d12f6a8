package config

import "time"

// apiKeyPlaceholder is the value deployment templates leave in place
// of a real key. Treated the same as no key at all.
const apiKeyPlaceholder = "placeholder-update-after-deployment"

// Config is the full service configuration. Platform settings come
// from the environment; server settings come from an optional YAML
// file with environment-independent defaults.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Platform PlatformConfig `yaml:"platform"`
}

// ServerConfig holds daemon-level settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`

	// RequestTimeoutSeconds bounds one generation request end to
	// end. Zero means no deadline: a hung platform-side run then
	// stalls the request until the client gives up.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// RunPollIntervalMillis paces run status polling.
	RunPollIntervalMillis int `yaml:"run_poll_interval_millis"`
}

// PlatformConfig holds the managed-platform settings.
type PlatformConfig struct {
	// Endpoint is the AI project endpoint URL. Its absence does not
	// fail validation: generation answers with a remediation message
	// instead.
	Endpoint string `yaml:"endpoint"`

	// AgentName is the agent's display name and idempotent lookup key.
	AgentName string `yaml:"agent_name"`

	// Model is used only when the agent is first created.
	Model string `yaml:"model"`

	// APIKey is the optional platform API key. Not usable for the
	// agents surface; kept for the direct inference surface.
	APIKey string `yaml:"-"`

	// ClientID is the optional user-assigned managed identity
	// client id.
	ClientID string `yaml:"-"`
}

// RequestTimeout returns the per-request deadline, zero when none is
// configured.
func (c ServerConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RunPollInterval returns the run polling pace, zero to use the
// client default.
func (c ServerConfig) RunPollInterval() time.Duration {
	if c.RunPollIntervalMillis <= 0 {
		return 0
	}
	return time.Duration(c.RunPollIntervalMillis) * time.Millisecond
}

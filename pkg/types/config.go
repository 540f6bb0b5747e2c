package types

import "time"

// HTTPConfig holds shared HTTP settings for outbound requests.
type HTTPConfig struct {
	// Timeout bounds a single outbound request. Zero means no client-side
	// limit; cancellation then comes only from the caller's context.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with outbound requests
	// (e.g. "fund-matcher/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// AIConfig holds settings for the generative-AI call.
type AIConfig struct {
	// Model is the Gemini model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the initial credential. It seeds the credential store at
	// startup; the store owns it afterwards.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the Gemini endpoint (proxies, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// EnableSearch turns on the Google Search tool for the primary request.
	EnableSearch bool `json:"enable_search" yaml:"enable_search" mapstructure:"enable_search"`

	// Temperature is used for the primary request (default 0.1).
	Temperature float32 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// FallbackTemperature is used for the request issued after the search
	// tool was rejected (default 0.3).
	FallbackTemperature float32 `json:"fallback_temperature" yaml:"fallback_temperature" mapstructure:"fallback_temperature"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" yaml:"read_header_timeout" mapstructure:"read_header_timeout"`

	// WriteTimeout bounds a whole response, including a synchronous search.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// AllowKeyUpdate lets users set the API key from the page header.
	AllowKeyUpdate bool `json:"allow_key_update" yaml:"allow_key_update" mapstructure:"allow_key_update"`

	// SessionIdleTTL is how long an untouched session is kept.
	SessionIdleTTL time.Duration `json:"session_idle_ttl" yaml:"session_idle_ttl" mapstructure:"session_idle_ttl"`

	// PruneSchedule is the cron spec for dropping idle sessions.
	PruneSchedule string `json:"prune_schedule" yaml:"prune_schedule" mapstructure:"prune_schedule"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AppConfig groups all settings.
type AppConfig struct {
	// Format is the response contract requested from the model.
	Format ResponseFormat `json:"format" yaml:"format" mapstructure:"format"`

	// SecretsDir holds key files (see internal/secrets).
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`

	AI     AIConfig     `json:"ai" yaml:"ai" mapstructure:"ai"`
	HTTP   HTTPConfig   `json:"http" yaml:"http" mapstructure:"http"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}

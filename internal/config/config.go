package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// AllowedOrigins are the origins accepted for websocket upgrades and
	// for the auth endpoints' CORS responses.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// HistoryCapacity bounds the recent-message replay buffer.
	HistoryCapacity int `mapstructure:"history_capacity" yaml:"history_capacity"`

	// Session cookie signing and lifetime.
	SessionSecret string        `mapstructure:"session_secret" yaml:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`

	// GitHub OAuth application credentials. Login is disabled when the
	// client id is empty; everyone connects as a guest.
	GitHubClientID     string `mapstructure:"github_client_id" yaml:"github_client_id"`
	GitHubClientSecret string `mapstructure:"github_client_secret" yaml:"github_client_secret"`
	GitHubCallbackURL  string `mapstructure:"github_callback_url" yaml:"github_callback_url"`

	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3001",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		AllowedOrigins:    []string{"https://study.kuank.top", "http://localhost:3000"},
		HistoryCapacity:   50,
		SessionSecret:     "miku-study-secret",
		SessionTTL:        24 * time.Hour,
		DatabasePath:      "studychat.db",
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultCalendarDays is how far ahead the calendar snapshot reaches.
	DefaultCalendarDays = 14

	// DefaultOrderCacheTTL is how long the executor trusts its order list.
	DefaultOrderCacheTTL = 2 * time.Minute

	// DefaultBackendTimeout bounds each dashboard backend request.
	DefaultBackendTimeout = 10 * time.Second
)

// Agent providers.
const (
	ProviderClaude = "claude"
	ProviderHTTP   = "http"
	ProviderNone   = "none"
)

// Config holds all configuration for the desk engine.
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Claude   ClaudeConfig   `mapstructure:"claude"`
	Session  SessionConfig  `mapstructure:"session"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	API      APIConfig      `mapstructure:"api"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// BackendConfig points at the dashboard backend. Demo swaps it for the
// seeded in-memory backend.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
	Demo    bool          `mapstructure:"demo"`
}

// AgentConfig selects the service that turns retail requests into actions.
type AgentConfig struct {
	Provider string        `mapstructure:"provider"`
	URL      string        `mapstructure:"url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ClaudeConfig holds Anthropic Claude API settings.
type ClaudeConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	MaxTokens     int64  `mapstructure:"max_tokens"`
	ContextBudget int    `mapstructure:"context_budget"`
}

// String returns a safe representation of ClaudeConfig with the API key masked.
func (c ClaudeConfig) String() string {
	return fmt.Sprintf("ClaudeConfig{APIKey:%s, Model:%s, MaxTokens:%d}", maskSecret(c.APIKey), c.Model, c.MaxTokens)
}

// maskSecret shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskSecret(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// SessionConfig holds interpretation settings.
type SessionConfig struct {
	Mode         string `mapstructure:"mode"`
	CalendarDays int    `mapstructure:"calendar_days"`
	Timezone     string `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to the local zone when empty.
func (s SessionConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("session.timezone: %w", err)
	}
	return loc, nil
}

// ExecutorConfig holds action execution settings.
type ExecutorConfig struct {
	OrderCacheTTL time.Duration `mapstructure:"order_cache_ttl"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. A .env file
// in the working directory, when present, is loaded into the environment
// first without overriding variables already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("backend.url", "http://localhost:3000/api")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", DefaultBackendTimeout)
	v.SetDefault("backend.demo", false)

	v.SetDefault("agent.provider", ProviderClaude)
	v.SetDefault("agent.url", "")
	v.SetDefault("agent.token", "")
	v.SetDefault("agent.timeout", 30*time.Second)

	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")
	v.SetDefault("claude.max_tokens", 1024)
	v.SetDefault("claude.context_budget", 3000)

	v.SetDefault("session.mode", "general")
	v.SetDefault("session.calendar_days", DefaultCalendarDays)
	v.SetDefault("session.timezone", "")

	v.SetDefault("executor.order_cache_ttl", DefaultOrderCacheTTL)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".openclaw-desk"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("OPENCLAW_DESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("claude.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("backend.url", "OPENCLAW_DESK_BACKEND_URL")
	_ = v.BindEnv("backend.token", "OPENCLAW_DESK_BACKEND_TOKEN")
	_ = v.BindEnv("agent.url", "OPENCLAW_DESK_AGENT_URL")
	_ = v.BindEnv("agent.token", "OPENCLAW_DESK_AGENT_TOKEN")
	_ = v.BindEnv("api.listen_addr", "OPENCLAW_DESK_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "OPENCLAW_DESK_API_AUTH_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if !c.Backend.Demo && c.Backend.URL == "" {
		return fmt.Errorf("backend.url must not be empty unless backend.demo is set")
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must be >= 0")
	}
	switch c.Agent.Provider {
	case ProviderClaude, ProviderNone:
	case ProviderHTTP:
		if c.Agent.URL == "" {
			return fmt.Errorf("agent.url must not be empty when agent.provider is %q", ProviderHTTP)
		}
	default:
		return fmt.Errorf("agent.provider must be one of claude, http, none (got %q)", c.Agent.Provider)
	}
	if c.Claude.MaxTokens <= 0 {
		return fmt.Errorf("claude.max_tokens must be greater than 0")
	}
	if c.Claude.ContextBudget <= 0 {
		return fmt.Errorf("claude.context_budget must be greater than 0")
	}
	if c.Session.Mode != "general" && c.Session.Mode != "retail" {
		return fmt.Errorf("session.mode must be general or retail (got %q)", c.Session.Mode)
	}
	if c.Session.CalendarDays <= 0 {
		return fmt.Errorf("session.calendar_days must be greater than 0")
	}
	if _, err := c.Session.Location(); err != nil {
		return err
	}
	if c.Executor.OrderCacheTTL <= 0 {
		return fmt.Errorf("executor.order_cache_ttl must be greater than 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Package config handles docassist configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bububa/docassist/schema"
)

// Session store kinds
const (
	MemoryStore = "memory"
	RedisStore  = "redis"
)

// DefaultSearchPaths returns the config file search order:
// ./docassist.yaml, ~/.config/docassist/config.yaml, /etc/docassist/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"docassist.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "docassist", "config.yaml"))
	}
	return append(paths, "/etc/docassist/config.yaml")
}

// FindConfig locates a config file. An explicit path must exist, otherwise the
// first existing DefaultSearchPaths entry is returned. An empty path with a nil
// error means no file was found and defaults apply.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Config holds all docassist configuration.
type Config struct {
	Provider    string  `yaml:"provider" validate:"oneof=openai anthropic"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gt=0"`
	// MaxIterations bounds every agent loop, zero answers with the exhausted apology right away
	MaxIterations int `yaml:"max_iterations" validate:"gte=0"`
	// Confidence overrides the static answer confidence per agent kind (qa, summarization, calculation)
	Confidence map[string]float64 `yaml:"confidence" validate:"dive,keys,oneof=qa summarization calculation,endkeys,gte=0,lte=1"`
	Log        LogConfig          `yaml:"log"`
	Session    SessionConfig      `yaml:"session"`
	Corpus     CorpusConfig       `yaml:"corpus"`
}

// LogConfig configures the application logger and the turn event log
type LogConfig struct {
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Console bool   `yaml:"console"`
	// File receives application logs as JSON lines when set
	File string `yaml:"file"`
	// Events receives turn events as JSON lines when set
	Events string `yaml:"events"`
}

// SessionConfig selects the session store
type SessionConfig struct {
	Store    string        `yaml:"store" validate:"oneof=memory redis"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	RedisURL string        `yaml:"redis_url" validate:"required_if=Store redis"`
}

// CorpusConfig points at a document directory, manifest or single file.
// The built in corpus is used when Path is empty.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Provider:      "openai",
		Temperature:   0.1,
		MaxTokens:     1024,
		MaxIterations: 5,
		Log: LogConfig{
			Level: "info",
		},
		Session: SessionConfig{
			Store: MemoryStore,
			TTL:   24 * time.Hour,
		},
	}
}

// Load reads configuration from a YAML file on top of Default.
// Environment variables in the file are expanded and secrets may be overridden by the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv fills secrets and endpoints from the environment.
// The provider specific key wins over the file, DOCASSIST_REDIS_URL switches the store to redis.
func (c *Config) ApplyEnv() {
	var keyEnv, urlEnv string
	switch c.Provider {
	case "anthropic":
		keyEnv, urlEnv = "ANTHROPIC_API_KEY", "ANTHROPIC_API_BASE_URL"
	default:
		keyEnv, urlEnv = "OPENAI_API_KEY", "OPENAI_API_BASE_URL"
	}
	if v := os.Getenv(keyEnv); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(urlEnv); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("DOCASSIST_REDIS_URL"); v != "" {
		c.Session.Store = RedisStore
		c.Session.RedisURL = v
	}
}

// Validate checks the configuration values
func (c Config) Validate() error {
	if err := schema.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

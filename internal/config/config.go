// Package config loads the penguin configuration from YAML with PENGUIN_*
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "penguin.yaml"

// Config is the full penguin configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   ProviderConfig   `yaml:"provider"`
	History    HistoryConfig    `yaml:"history"`
	Signatures SignaturesConfig `yaml:"signatures"`
	Tools      ToolsConfig      `yaml:"tools"`
}

// ServerConfig controls the WebSocket listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ProviderConfig points at the chat-completion endpoint.
type ProviderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"` // name of the env var holding the key
	Model     string `yaml:"model"`
}

// HistoryConfig controls transcript persistence.
type HistoryConfig struct {
	Path string `yaml:"path"` // SQLite file, or ":memory:"
}

// SignaturesConfig points at an optional extra signature pack.
type SignaturesConfig struct {
	Path string `yaml:"path"`
}

// ToolsConfig controls tool execution behavior.
type ToolsConfig struct {
	Confirm bool `yaml:"confirm"` // require client approval before tools run
}

// Load reads the configuration file at path, falling back to defaults when
// the file does not exist, then applies environment overrides. A .env file
// in the working directory is honored.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// APIKey reads the provider API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = "gpt-5-mini"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "penguin.db"
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("PENGUIN_ADDR", cfg.Server.Addr)
	cfg.Provider.BaseURL = getEnv("PENGUIN_BASE_URL", cfg.Provider.BaseURL)
	cfg.Provider.APIKeyEnv = getEnv("PENGUIN_API_KEY_ENV", cfg.Provider.APIKeyEnv)
	cfg.Provider.Model = getEnv("PENGUIN_MODEL", cfg.Provider.Model)
	cfg.History.Path = getEnv("PENGUIN_HISTORY_PATH", cfg.History.Path)
	cfg.Signatures.Path = getEnv("PENGUIN_SIGNATURES_PATH", cfg.Signatures.Path)
	if v := os.Getenv("PENGUIN_TOOL_CONFIRM"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Tools.Confirm = parsed
		}
	}
}

// getEnv returns the environment value for key, or fallback when unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

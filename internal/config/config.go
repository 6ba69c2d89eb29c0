package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. DD_SERVER_PORT.
// Leaf fields carry no envconfig tag so that only the prefixed key is read.
const EnvPrefix = "DD"

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	DB        DBConfig        `yaml:"db" envconfig:"DB"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	Auth      AuthConfig      `yaml:"auth" envconfig:"AUTH"`
	Transport TransportConfig `yaml:"transport" envconfig:"TRANSPORT"`
	Generator GeneratorConfig `yaml:"generator" envconfig:"GENERATOR"`
	Metrics   MetricsConfig   `yaml:"metrics" envconfig:"METRICS"`
}

type ServerConfig struct {
	Host string `yaml:"host" split_words:"true"`
	Port int    `yaml:"port" split_words:"true"`
}

type DBConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

type LogConfig struct {
	Level string `yaml:"level" split_words:"true"`
	// File, when set, receives logs instead of stdout/stderr.
	File string `yaml:"file" split_words:"true"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" split_words:"true"`
	// DefaultUser owns every request when auth is disabled.
	DefaultUser string `yaml:"default_user" split_words:"true"`
}

type TransportConfig struct {
	// Mode is "http" (REST + MCP over streamable HTTP) or "stdio" (MCP only).
	Mode string `yaml:"mode" split_words:"true"`
}

type GeneratorConfig struct {
	// Provider is "stub", "http" or "openai".
	Provider    string        `yaml:"provider" split_words:"true"`
	BaseURL     string        `yaml:"base_url" split_words:"true"`
	APIKey      string        `yaml:"api_key" split_words:"true"`
	Model       string        `yaml:"model" split_words:"true"`
	Timeout     time.Duration `yaml:"timeout" split_words:"true"`
	RateLimit   float64       `yaml:"rate_limit" split_words:"true"`
	Burst       int           `yaml:"burst" split_words:"true"`
	CostPerCall float64       `yaml:"cost_per_call" split_words:"true"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Path    string `yaml:"path" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "doublediamond.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Enabled:     true,
			DefaultUser: "local",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Generator: GeneratorConfig{
			Provider:  "stub",
			Model:     "gpt-4o-mini",
			Timeout:   90 * time.Second,
			RateLimit: 2,
			Burst:     4,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file named by
// DD_CONFIG_PATH, and DD_* environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Generator.Provider {
	case "stub":
	case "http", "openai":
		if c.Generator.Provider == "http" && c.Generator.BaseURL == "" {
			return fmt.Errorf("generator provider %q requires base_url", c.Generator.Provider)
		}
		if c.Generator.Timeout <= 0 {
			return fmt.Errorf("generator timeout must be positive")
		}
	default:
		return fmt.Errorf("unknown generator provider %q", c.Generator.Provider)
	}
	if !c.Auth.Enabled && c.Auth.DefaultUser == "" {
		return fmt.Errorf("auth.default_user is required when auth is disabled")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"simple_cross/internal/domain"
)

const (
	DefaultConfigPath = "configs/config.yaml"
	DefaultInboxSize  = 1024
)

// Config holds every setting of the application.
// LoadConfig reads it from YAML, then applies environment overrides.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Engine struct {
		InboxSize  int    `yaml:"inbox_size"`
		PrintOrder string `yaml:"print_order"` // "global" or "symbol"
	} `yaml:"engine"`

	Input struct {
		Path string `yaml:"path"` // "-" reads stdin
	} `yaml:"input"`

	Feed struct {
		WSURL string `yaml:"ws_url"`
	} `yaml:"feed"`

	Journal struct {
		Driver string `yaml:"driver"` // "none", "sqlite" or "pebble"
		Path   string `yaml:"path"`
	} `yaml:"journal"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"` // empty logs to stderr only
	} `yaml:"logging"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "simplecross"
	cfg.App.Version = "dev"
	cfg.Engine.InboxSize = DefaultInboxSize
	cfg.Engine.PrintOrder = "global"
	cfg.Input.Path = "actions.txt"
	cfg.Journal.Driver = "none"
	cfg.Metrics.Addr = "localhost:6060"
	cfg.Logging.Level = "info"
	return &cfg
}

// LoadConfig reads the YAML file at path on top of the defaults.
// A missing file is reported as domain.ErrConfigNotFound.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadConfigOrDefault is LoadConfig that falls back to DefaultConfig when
// the file does not exist. Other errors are returned as is.
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, domain.ErrConfigNotFound) {
		return finish(DefaultConfig())
	}
	return cfg, err
}

func finish(cfg *Config) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()
	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Engine.InboxSize <= 0 {
		return configErr("engine.inbox_size", "must be positive")
	}
	switch c.Engine.PrintOrder {
	case "global", "symbol":
	default:
		return configErr("engine.print_order", fmt.Sprintf("unknown value %q", c.Engine.PrintOrder))
	}
	switch c.Journal.Driver {
	case "", "none":
	case "sqlite", "pebble":
		if c.Journal.Path == "" {
			return configErr("journal.path", "required for driver "+c.Journal.Driver)
		}
	default:
		return configErr("journal.driver", fmt.Sprintf("unknown driver %q", c.Journal.Driver))
	}
	if c.Feed.WSURL != "" && !hasPrefix(c.Feed.WSURL, "ws://") && !hasPrefix(c.Feed.WSURL, "wss://") {
		return configErr("feed.ws_url", "must start with ws:// or wss://")
	}
	return nil
}

func configErr(field, msg string) error {
	return &domain.ConfigError{Field: field, Err: errors.New(msg)}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv overwrites settings from SIMPLECROSS_* variables.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("SIMPLECROSS_INPUT"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("SIMPLECROSS_PRINT_ORDER"); v != "" {
		cfg.Engine.PrintOrder = v
	}
	if v := os.Getenv("SIMPLECROSS_INBOX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.InboxSize = n
		}
	}
	if v := os.Getenv("SIMPLECROSS_WS_URL"); v != "" {
		cfg.Feed.WSURL = v
	}
	if v := os.Getenv("SIMPLECROSS_JOURNAL_DRIVER"); v != "" {
		cfg.Journal.Driver = v
	}
	if v := os.Getenv("SIMPLECROSS_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}
	if v := os.Getenv("SIMPLECROSS_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("SIMPLECROSS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

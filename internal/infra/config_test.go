package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"simple_cross/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: cross
engine:
  inbox_size: 64
  print_order: symbol
journal:
  driver: sqlite
  path: /tmp/journal.db
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.App.Name != "cross" || cfg.Engine.InboxSize != 64 || cfg.Engine.PrintOrder != "symbol" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Journal.Driver != "sqlite" || cfg.Journal.Path != "/tmp/journal.db" {
		t.Errorf("journal = %+v", cfg.Journal)
	}
	// defaults survive for keys the file leaves out
	if cfg.Metrics.Addr != "localhost:6060" || cfg.Input.Path != "actions.txt" {
		t.Errorf("defaults lost: metrics=%q input=%q", cfg.Metrics.Addr, cfg.Input.Path)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := LoadConfig(missing)
	if !errors.Is(err, domain.ErrConfigNotFound) {
		t.Fatalf("err = %v, want ErrConfigNotFound", err)
	}

	cfg, err := LoadConfigOrDefault(missing)
	if err != nil {
		t.Fatalf("LoadConfigOrDefault failed: %v", err)
	}
	if cfg.Engine.InboxSize != DefaultInboxSize {
		t.Errorf("InboxSize = %d", cfg.Engine.InboxSize)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SIMPLECROSS_PRINT_ORDER", "symbol")
	t.Setenv("SIMPLECROSS_INBOX_SIZE", "7")
	path := writeConfig(t, "engine:\n  print_order: global\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Engine.PrintOrder != "symbol" || cfg.Engine.InboxSize != 7 {
		t.Errorf("env not applied: %+v", cfg.Engine)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"inbox size", func(c *Config) { c.Engine.InboxSize = 0 }, "engine.inbox_size"},
		{"print order", func(c *Config) { c.Engine.PrintOrder = "random" }, "engine.print_order"},
		{"journal driver", func(c *Config) { c.Journal.Driver = "mysql" }, "journal.driver"},
		{"journal path", func(c *Config) { c.Journal.Driver = "pebble" }, "journal.path"},
		{"ws url", func(c *Config) { c.Feed.WSURL = "http://host" }, "feed.ws_url"},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)

			err := cfg.Validate()
			var ce *domain.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Level = "warn"

	logger := NewLogger(cfg)
	logger.Warn("rotation check")

	if _, err := os.Stat(filepath.Join(cfg.Logging.Dir, cfg.App.Name+".log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
	if parseLevel("debug").String() != "DEBUG" || parseLevel("bogus").String() != "INFO" {
		t.Error("parseLevel mapping is wrong")
	}
}

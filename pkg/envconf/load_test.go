package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type nestedConf struct {
	DSN string `env:"TEST_NESTED_DSN"`
}

type testConf struct {
	Port     uint16        `env:"TEST_PORT"`
	Name     string        `env:"TEST_NAME" envdef:"fallback"`
	Timeout  time.Duration `env:"TEST_TIMEOUT" envdef:"30s"`
	LogLevel slog.Level    `env:"TEST_LOG_LEVEL" envdef:"INFO"`
	Nested   nestedConf
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_PORT", "8080")
	t.Setenv("TEST_NESTED_DSN", "postgres://localhost/db")

	cfg := new(testConf)

	err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port: want 8080, got %d", cfg.Port)
	}
	if cfg.Name != "fallback" {
		t.Errorf("default not applied: got %q", cfg.Name)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("duration default: got %v", cfg.Timeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level: got %v", cfg.LogLevel)
	}
	if cfg.Nested.DSN != "postgres://localhost/db" {
		t.Errorf("nested dsn: got %q", cfg.Nested.DSN)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	type conf struct {
		Must string `env:"TEST_DEFINITELY_UNSET_VAR"`
	}

	err := Load(new(conf))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("TEST_PORT", "1")
	t.Setenv("TEST_NAME", "from-env")
	t.Setenv("TEST_NESTED_DSN", "x")

	cfg := new(testConf)

	err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Name != "from-env" {
		t.Errorf("env should win over default, got %q", cfg.Name)
	}
}

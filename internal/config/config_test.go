package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, v, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("server.port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Orchestrator.Timeout != 10*time.Second {
		t.Errorf("orchestrator.timeout = %v, want 10s", cfg.Orchestrator.Timeout)
	}
	if !cfg.Orchestrator.AllowBarePayload {
		t.Error("orchestrator.allow_bare_payloads should default to true")
	}
	if cfg.Cache.SessionTTL != 5*time.Second {
		t.Errorf("cache.session_ttl = %v, want 5s", cfg.Cache.SessionTTL)
	}
	if cfg.Poll.SessionInterval != 5*time.Second {
		t.Errorf("poll.session_interval = %v, want 5s", cfg.Poll.SessionInterval)
	}
	if cfg.Poll.SystemInterval != 15*time.Second {
		t.Errorf("poll.system_interval = %v, want 15s", cfg.Poll.SystemInterval)
	}
	if got := cfg.Addr(); got != "0.0.0.0:8090" {
		t.Errorf("Addr() = %q", got)
	}
	if v.GetString("logging.level") != "info" {
		t.Errorf("logging.level = %q, want info", v.GetString("logging.level"))
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pidash.yaml")
	data := []byte(`
server:
  port: 9999
orchestrator:
  base_url: http://10.0.0.5:8080
  timeout: 3s
auth:
  token_ttl: 1h
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Orchestrator.BaseURL != "http://10.0.0.5:8080" {
		t.Errorf("base_url = %q", cfg.Orchestrator.BaseURL)
	}
	if cfg.Orchestrator.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.Orchestrator.Timeout)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("auth.token_ttl = %v, want 1h", cfg.Auth.TokenTTL)
	}
	// Unset keys keep their defaults.
	if cfg.Poll.SessionInterval != 5*time.Second {
		t.Errorf("poll.session_interval = %v, want 5s", cfg.Poll.SessionInterval)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "debug")
	v.Set("logging.format", "console")
	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Debug("visible at debug level")
	_ = logger.Sync()
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "verbose")
	if _, err := NewLogger(v); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewLoggerInvalidFormat(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "xml")
	if _, err := NewLogger(v); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

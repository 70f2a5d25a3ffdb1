// Package config loads dashboard settings from file, environment, and
// defaults, and builds the process logger.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the fully resolved dashboard configuration.
type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
		Dev  bool   `mapstructure:"dev"`
	} `mapstructure:"server"`
	Orchestrator struct {
		BaseURL          string        `mapstructure:"base_url"`
		Token            string        `mapstructure:"token"`
		Timeout          time.Duration `mapstructure:"timeout"`
		AllowBarePayload bool          `mapstructure:"allow_bare_payloads"`
	} `mapstructure:"orchestrator"`
	Cache struct {
		DefaultTTL time.Duration `mapstructure:"default_ttl"`
		SessionTTL time.Duration `mapstructure:"session_ttl"`
		ConfigTTL  time.Duration `mapstructure:"config_ttl"`
	} `mapstructure:"cache"`
	Poll struct {
		SessionInterval time.Duration `mapstructure:"session_interval"`
		SystemInterval  time.Duration `mapstructure:"system_interval"`
	} `mapstructure:"poll"`
	Reach struct {
		Enabled  bool          `mapstructure:"enabled"`
		Host     string        `mapstructure:"host"`
		Interval time.Duration `mapstructure:"interval"`
		Timeout  time.Duration `mapstructure:"timeout"`
	} `mapstructure:"reach"`
	History struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"history"`
	Auth struct {
		PasswordHash string        `mapstructure:"password_hash"`
		TokenSecret  string        `mapstructure:"token_secret"`
		TokenTTL     time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, *viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.dev", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("orchestrator.base_url", "http://raspberrypi.local:8080")
	v.SetDefault("orchestrator.token", "")
	v.SetDefault("orchestrator.timeout", "10s")
	v.SetDefault("orchestrator.allow_bare_payloads", true)
	v.SetDefault("cache.default_ttl", "30s")
	v.SetDefault("cache.session_ttl", "5s")
	v.SetDefault("cache.config_ttl", "60s")
	v.SetDefault("poll.session_interval", "5s")
	v.SetDefault("poll.system_interval", "15s")
	v.SetDefault("reach.enabled", true)
	v.SetDefault("reach.host", "")
	v.SetDefault("reach.interval", "30s")
	v.SetDefault("reach.timeout", "5s")
	v.SetDefault("history.path", "./data/pidash.db")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.token_ttl", "12h")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("pidash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/pidash")
	}

	// Environment variable support: PIDASH_SERVER_PORT=9090
	v.SetEnvPrefix("PIDASH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, v, nil
}

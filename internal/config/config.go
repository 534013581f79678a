// Package config loads server configuration from an optional TOML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// SMTP holds the transport credentials for the email collaborator.
// They are passed through opaquely; nothing validates them here.
type SMTP struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// Config is the full server configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `toml:"listen"`

	// DBPath is where the session/credential store keeps its SQLite file.
	DBPath string `toml:"db_path"`

	// Metrics toggles the /metrics Prometheus endpoint.
	Metrics bool `toml:"metrics"`

	SMTP SMTP `toml:"smtp"`
}

// Default returns the configuration used when no file or env overrides
// are present.
func Default() Config {
	return Config{
		Listen:  ":8080",
		DBPath:  "./data/splitbill.db",
		Metrics: true,
		SMTP:    SMTP{Port: 587},
	}
}

// Load reads the TOML file at path (skipped when path is empty) on top of
// the defaults, then applies environment overrides:
//
//	LISTEN_ADDR, DB_PATH, METRICS,
//	SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Listen, "LISTEN_ADDR")
	setString(&cfg.DBPath, "DB_PATH")
	if v := os.Getenv("METRICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics = b
		}
	}
	setString(&cfg.SMTP.Host, "SMTP_HOST")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = p
		}
	}
	setString(&cfg.SMTP.Username, "SMTP_USERNAME")
	setString(&cfg.SMTP.Password, "SMTP_PASSWORD")
	setString(&cfg.SMTP.From, "SMTP_FROM")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

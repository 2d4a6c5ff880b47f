// Package config loads the application configuration from config.yaml with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/verdeviva/plantcare/pkg/logger"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	// Driver is "memory" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// AuthConfig configures the session token gate.
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	TokenTTLMin int    `yaml:"token_ttl_minutes"`
}

// CareConfig tunes the scheduling windows.
type CareConfig struct {
	HorizonDays       int `yaml:"horizon_days"`
	DetailHorizonDays int `yaml:"detail_horizon_days"`
}

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig         `yaml:"server"`
	Database DatabaseConfig       `yaml:"database"`
	Logging  logger.LoggingConfig `yaml:"logging"`
	Auth     AuthConfig           `yaml:"auth"`
	Care     CareConfig           `yaml:"care"`
}

// Default returns the configuration used when no file is present: an
// in-memory store listening on localhost.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
		Logging:  logger.LoggingConfig{Level: "info", Format: "text", Output: "stdout"},
		Auth:     AuthConfig{TokenTTLMin: 60 * 24},
		Care:     CareConfig{HorizonDays: 7, DetailHorizonDays: 3},
	}
}

// Load reads the configuration from a specific path and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file or falls back to defaults (with env
// overrides) when the file is missing.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.applyEnv()
	}
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PLANTCARE_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PLANTCARE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("PLANTCARE_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("PLANTCARE_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("PLANTCARE_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("PLANTCARE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for the postgres driver")
	}
	if c.Care.HorizonDays <= 0 {
		c.Care.HorizonDays = 7
	}
	if c.Care.DetailHorizonDays <= 0 {
		c.Care.DetailHorizonDays = 3
	}
	return nil
}

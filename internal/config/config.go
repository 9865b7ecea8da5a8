package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the server and runtime configuration, read from the
// environment (optionally seeded from a .env file by the caller).
type Config struct {
	Host     string `env:"PROMPTSTUDIO_HOST" env-default:"127.0.0.1"`
	Port     string `env:"PROMPTSTUDIO_PORT" env-default:"8787"`
	DBPath   string `env:"PROMPTSTUDIO_DB" env-default:""`
	LogLevel string `env:"PROMPTSTUDIO_LOG_LEVEL" env-default:"info"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}
	return &cfg, nil
}

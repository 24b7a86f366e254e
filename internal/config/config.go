// Package config loads proxy configuration from TOML files, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POKEDEX_"

// Config holds all proxy configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	PokeAPI PokeAPIConfig `toml:"pokeapi"`
	Redis   RedisConfig   `toml:"redis"`
	Auth    AuthConfig    `toml:"auth"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PokeAPIConfig holds upstream client configuration.
type PokeAPIConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	Timeout   string `toml:"timeout"`
	ListLimit int    `toml:"list_limit"`
}

// GetTimeout parses the timeout, falling back to 10s.
func (c PokeAPIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// RedisConfig holds Redis connection settings. CacheEnabled turns on the
// upstream response cache; the profile store always uses Redis.
type RedisConfig struct {
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	CacheEnabled bool   `toml:"cache_enabled"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// NewDefaultConfig returns a Config with defaults for local development.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:   "https://pokeapi.co",
			UserAgent: "pokedex-proxy/1.0",
			Timeout:   "10s",
			ListLimit: 60,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Auth: AuthConfig{
			JWTSecret: "dev-jwt-secret-change-in-production",
			Issuer:    "pokedex-proxy",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads defaults, then each TOML file in order, then the
// environment. Missing files are skipped. A .env file in the working
// directory is loaded first without overriding variables already set.
func LoadConfig(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.PokeAPI.ListLimit <= 0 {
		return fmt.Errorf("pokeapi.list_limit must be > 0 (got %d)", c.PokeAPI.ListLimit)
	}
	if strings.TrimSpace(c.PokeAPI.UserAgent) == "" {
		return fmt.Errorf("pokeapi.user_agent is required")
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	if v := getenv("HOST"); v != "" {
		config.Server.Host = v
	}
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		}
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.Server.AllowedOrigins = origins
	}

	if v := getenv("POKEAPI_BASE_URL"); v != "" {
		config.PokeAPI.BaseURL = v
	}
	if v := getenv("POKEAPI_USER_AGENT"); v != "" {
		config.PokeAPI.UserAgent = v
	}
	if v := getenv("POKEAPI_TIMEOUT"); v != "" {
		config.PokeAPI.Timeout = v
	}
	if v := getenv("LIST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.PokeAPI.ListLimit = n
		}
	}

	if v := getenv("REDIS_ADDR"); v != "" {
		config.Redis.Addr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Redis.DB = n
		}
	}
	if v := getenv("CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Redis.CacheEnabled = b
		}
	}

	if v := getenv("JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := getenv("JWT_ISSUER"); v != "" {
		config.Auth.Issuer = v
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Logging.Pretty = b
		}
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration for the bridge binary.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig names the MCP server as announced to clients.
type ServerConfig struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	RouteMap string `toml:"route_map"`
}

// UpstreamConfig describes the API being bridged.
type UpstreamConfig struct {
	SpecPath       string            `toml:"spec_path"`
	BaseURL        string            `toml:"base_url"`
	TimeoutSeconds int               `toml:"timeout_seconds"`
	Headers        map[string]string `toml:"headers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "openapi-mcp-server",
			Version:  "1.0.0",
			RouteMap: "tools",
		},
		Upstream: UpstreamConfig{
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file ->
// env. An empty path loads defaults and env only.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies RESTMAP_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if name := os.Getenv("RESTMAP_SERVER_NAME"); name != "" {
		config.Server.Name = name
	}
	if routeMap := os.Getenv("RESTMAP_ROUTE_MAP"); routeMap != "" {
		config.Server.RouteMap = routeMap
	}
	if specPath := os.Getenv("RESTMAP_SPEC_PATH"); specPath != "" {
		config.Upstream.SpecPath = specPath
	}
	if baseURL := os.Getenv("RESTMAP_BASE_URL"); baseURL != "" {
		config.Upstream.BaseURL = baseURL
	}
	if timeout := os.Getenv("RESTMAP_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Upstream.TimeoutSeconds = t
		}
	}
	if level := os.Getenv("RESTMAP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("RESTMAP_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

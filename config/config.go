package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/slighter12/unity-mcp-go/mcp"
)

const (
	DefaultUnityHost           = "localhost"
	DefaultUnityPort           = 6400
	DefaultConnectTimeoutSecs  = 5
	DefaultCommandTimeoutSecs  = 30
	DefaultMaxConnectAttempts  = 3
	DefaultPrefabFolder        = "Assets/Prefabs"
	DefaultMetricsPath         = "/metrics"
	defaultConfigRelativePath  = "config/mcp_config.json"
	defaultConfigHomeDirectory = ".unity-mcp"
)

// Config represents the MCP server configuration
type Config struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Server      Server      `json:"server"`
	Transports  []Transport `json:"transports" validate:"min=1,dive"`
	Logging     Logging     `json:"logging"`
	Unity       Unity       `json:"unity"`
	GameObject  GameObject  `json:"gameobject"`
	Metrics     Metrics     `json:"metrics"`
}

// Server represents server configuration
type Server struct {
	Host  string `json:"host" env:"MCP_HOST" validate:"required"`
	Port  int    `json:"port" env:"MCP_PORT" validate:"min=1,max=65535"`
	Debug bool   `json:"debug" env:"MCP_DEBUG"`
}

// Transport represents a transport configuration
type Transport struct {
	Type    string            `json:"type" validate:"oneof=stdio streamable_http"`
	Enabled bool              `json:"enabled"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Logging represents logging configuration
type Logging struct {
	Level  string `json:"level" env:"MCP_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `json:"format" env:"MCP_LOG_FORMAT" validate:"oneof=json text"`
	Path   string `json:"path" env:"MCP_LOG_PATH" validate:"required"`
}

// Unity describes how to reach the editor bridge listening inside Unity.
type Unity struct {
	Host                  string `json:"host" env:"UNITY_HOST" validate:"required"`
	Port                  int    `json:"port" env:"UNITY_PORT" validate:"min=1,max=65535"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds" env:"UNITY_CONNECT_TIMEOUT_SECONDS" validate:"min=1,max=300"`
	CommandTimeoutSeconds int    `json:"command_timeout_seconds" env:"UNITY_COMMAND_TIMEOUT_SECONDS" validate:"min=1,max=600"`
	MaxConnectAttempts    int    `json:"max_connect_attempts" env:"UNITY_MAX_CONNECT_ATTEMPTS" validate:"min=1,max=20"`
}

// GameObject holds defaults applied by the manage_gameobject tool.
type GameObject struct {
	DefaultPrefabFolder string `json:"default_prefab_folder" env:"UNITY_DEFAULT_PREFAB_FOLDER" validate:"required"`
}

// Metrics controls the Prometheus endpoint on the HTTP transport.
type Metrics struct {
	Enabled bool   `json:"enabled" env:"MCP_METRICS_ENABLED"`
	Path    string `json:"path" env:"MCP_METRICS_PATH" validate:"required,startswith=/"`
}

// Address returns the host:port pair of the Unity bridge.
func (u Unity) Address() string {
	return fmt.Sprintf("%s:%d", u.Host, u.Port)
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return &Config{
		Name:        "unity-mcp-go",
		Version:     "0.1.0",
		Description: "Go-based Model Context Protocol server for the Unity editor",
		Server: Server{
			Host:  "localhost",
			Port:  9080,
			Debug: false,
		},
		Transports: []Transport{
			{
				Type:    "stdio",
				Enabled: true,
			},
			{
				Type:    "streamable_http",
				Enabled: true,
				URL:     "http://localhost:9080/mcp",
				Headers: map[string]string{
					"Accept":               "application/json, text/event-stream",
					"Content-Type":         "application/json",
					"MCP-Protocol-Version": mcp.ProtocolVersion,
				},
			},
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
			Path:   filepath.Join(home, defaultConfigHomeDirectory, "logs", "mcp.log"),
		},
		Unity: Unity{
			Host:                  DefaultUnityHost,
			Port:                  DefaultUnityPort,
			ConnectTimeoutSeconds: DefaultConnectTimeoutSecs,
			CommandTimeoutSeconds: DefaultCommandTimeoutSecs,
			MaxConnectAttempts:    DefaultMaxConnectAttempts,
		},
		GameObject: GameObject{
			DefaultPrefabFolder: DefaultPrefabFolder,
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
	}
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Environment variables have the highest priority.
	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnvOverrides overlays environment variables declared in `env` tags.
// Unset variables leave the loaded values untouched.
func ApplyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Normalize canonicalizes config values so downstream validation and runtime
// logic operate on stable representations.
func (c *Config) Normalize() {
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Path = strings.TrimSpace(c.Logging.Path)
	for i := range c.Transports {
		c.Transports[i].Type = strings.ToLower(strings.TrimSpace(c.Transports[i].Type))
		c.Transports[i].URL = strings.TrimSpace(c.Transports[i].URL)
	}

	c.Unity.Host = strings.TrimSpace(c.Unity.Host)
	if c.Unity.Host == "" {
		c.Unity.Host = DefaultUnityHost
	}
	if c.Unity.Port == 0 {
		c.Unity.Port = DefaultUnityPort
	}
	if c.Unity.ConnectTimeoutSeconds == 0 {
		c.Unity.ConnectTimeoutSeconds = DefaultConnectTimeoutSecs
	}
	if c.Unity.CommandTimeoutSeconds == 0 {
		c.Unity.CommandTimeoutSeconds = DefaultCommandTimeoutSecs
	}
	if c.Unity.MaxConnectAttempts == 0 {
		c.Unity.MaxConnectAttempts = DefaultMaxConnectAttempts
	}

	folder := strings.ReplaceAll(strings.TrimSpace(c.GameObject.DefaultPrefabFolder), "\\", "/")
	folder = strings.TrimRight(folder, "/")
	if folder == "" {
		folder = DefaultPrefabFolder
	}
	c.GameObject.DefaultPrefabFolder = folder

	c.Metrics.Path = strings.TrimSpace(c.Metrics.Path)
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

// HasEnabledTransport reports whether a transport of the given type is enabled.
func (c *Config) HasEnabledTransport(transportType string) bool {
	for _, t := range c.Transports {
		if t.Enabled && t.Type == transportType {
			return true
		}
	}
	return false
}

// ResolveConfigPath returns the path that should be used for configuration.
func ResolveConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv("MCP_CONFIG_PATH")); path != "" {
		return path, nil
	}

	if _, err := os.Stat(defaultConfigRelativePath); err == nil {
		return defaultConfigRelativePath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, defaultConfigHomeDirectory, "config", "mcp_config.json"), nil
}

// EnsureDefaultConfig creates a default config file if one does not exist.
func EnsureDefaultConfig(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path cannot be empty")
	}

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	return SaveConfig(NewConfig(), path)
}

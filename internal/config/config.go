package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Auth      AuthConfig      `yaml:"auth"`
}

// TransportConfig selects how the MCP server is exposed: "stdio" for local
// clients or "http" for the streamable HTTP transport.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// CalendarConfig points at an optional holiday file. When empty the
// built-in Brazilian national holidays apply.
type CalendarConfig struct {
	HolidayFile string `yaml:"holiday_file"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "mobiplan.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("MOBIPLAN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("MOBIPLAN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("MOBIPLAN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MOBIPLAN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("MOBIPLAN_TRANSPORT_MODE"); mode != "" {
		if mode != "stdio" && mode != "http" {
			return Config{}, fmt.Errorf("invalid MOBIPLAN_TRANSPORT_MODE %q", mode)
		}
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("MOBIPLAN_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("MOBIPLAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if holidayFile := os.Getenv("MOBIPLAN_HOLIDAY_FILE"); holidayFile != "" {
		cfg.Calendar.HolidayFile = holidayFile
	}
	if auth := os.Getenv("MOBIPLAN_AUTH_ENABLED"); auth != "" {
		enabled, err := strconv.ParseBool(auth)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MOBIPLAN_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

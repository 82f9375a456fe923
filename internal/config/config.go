package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Admin    AdminConfig    `yaml:"admin"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Audit    AuditConfig    `yaml:"audit"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects and tunes the persistence backend.
type DatabaseConfig struct {
	// Driver is "postgres", "file" or "memory".
	Driver string `yaml:"driver"`
	// DSN is the connection string for the postgres driver.
	DSN string `yaml:"dsn"`
	// StatePath is the JSON state file for the file driver.
	StatePath string `yaml:"state_path"`

	MaxOpenConns    int `yaml:"max_open_conns"`
	MaxIdleConns    int `yaml:"max_idle_conns"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime"` // seconds
}

// LoggingConfig mirrors the logger package options.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	FilePrefix string `yaml:"file_prefix"`
}

// AdminConfig seeds the master administrator on boot.
type AdminConfig struct {
	MasterEmail    string `yaml:"master_email"`
	MasterPassword string `yaml:"master_password"`
}

// UploadsConfig controls payment proof and media storage.
type UploadsConfig struct {
	Dir string `yaml:"dir"`
}

// AuditConfig controls the admin action audit trail.
type AuditConfig struct {
	File string `yaml:"file"`
	Size int    `yaml:"size"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver:    "memory",
			StatePath: "data/platform.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Admin: AdminConfig{
			MasterEmail: "master@platform.local",
		},
		Uploads: UploadsConfig{
			Dir: "data/uploads",
		},
		Audit: AuditConfig{
			Size: 200,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. The file path comes from CONFIG_FILE
// and falls back to config.yaml when that file exists.
func Load() (*Config, error) {
	cfg := Default()

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	explicit := path != ""
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Optional default file; defaults plus env apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_DSN")
	setString(&cfg.Database.StatePath, "DATABASE_STATE_PATH")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.Logging.Output, "LOG_OUTPUT")

	setString(&cfg.Admin.MasterEmail, "MASTER_EMAIL")
	setString(&cfg.Admin.MasterPassword, "MASTER_PASSWORD")

	setString(&cfg.Uploads.Dir, "UPLOAD_DIR")
	setString(&cfg.Audit.File, "AUDIT_FILE")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*dst = v
	}
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database driver postgres requires a dsn")
		}
	case "file":
		if cfg.Database.StatePath == "" {
			return fmt.Errorf("database driver file requires a state path")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return nil
}

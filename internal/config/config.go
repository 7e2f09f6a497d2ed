package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported values for DatabaseConfig.Driver
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Content  ContentConfig  `yaml:"content"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"0s"` // 0 keeps event streams open
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver         string        `yaml:"driver"          env:"DB_DRIVER"          env-default:"postgres"`
	Host           string        `yaml:"host"            env:"DB_HOST"            env-default:"localhost"`
	Port           string        `yaml:"port"            env:"DB_PORT"            env-default:"5432"`
	User           string        `yaml:"user"            env:"DB_USER"            env-default:"postgres"`
	Password       string        `yaml:"password"        env:"DB_PASSWORD"        env-default:"postgres"`
	Name           string        `yaml:"name"            env:"DB_NAME"            env-default:"association_site"`
	SSLMode        string        `yaml:"sslmode"         env:"DB_SSLMODE"         env-default:"disable"`
	SQLitePath     string        `yaml:"sqlite_path"     env:"DB_SQLITE_PATH"     env-default:"./data/site.db"`
	MaxOpenConns   int           `yaml:"max_open_conns"  env:"DB_MAX_OPEN_CONNS"  env-default:"25"`
	MaxIdleConns   int           `yaml:"max_idle_conns"  env:"DB_MAX_IDLE_CONNS"  env-default:"5"`
	MaxLifetime    time.Duration `yaml:"max_lifetime"    env:"DB_MAX_LIFETIME"    env-default:"5m"`
	MigrationsPath string        `yaml:"migrations_path" env:"MIGRATIONS_PATH"    env-default:"./migrations"`
	// NotifyChannel is the PostgreSQL LISTEN channel fed by the content triggers.
	NotifyChannel string `yaml:"notify_channel" env:"DB_NOTIFY_CHANNEL" env-default:"content_changes"`
}

// SessionConfig holds admin session token settings
type SessionConfig struct {
	Secret       string        `yaml:"secret"        env:"SESSION_SECRET"        env-required:"true"`
	Issuer       string        `yaml:"issuer"        env:"SESSION_ISSUER"        env-default:"association-site"`
	TTL          time.Duration `yaml:"ttl"           env:"SESSION_TTL"           env-default:"168h"`
	CookieName   string        `yaml:"cookie_name"   env:"SESSION_COOKIE_NAME"   env-default:"admin-session"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

// ContentConfig holds content and history settings
type ContentConfig struct {
	HistoryDefaultLimit int `yaml:"history_default_limit" env:"HISTORY_DEFAULT_LIMIT" env-default:"10"`
	HistoryMaxLimit     int `yaml:"history_max_limit"     env:"HISTORY_MAX_LIMIT"     env-default:"100"`
	ProjectSummaryWords int `yaml:"project_summary_words" env:"PROJECT_SUMMARY_WORDS" env-default:"50"`
	AnalyticsDays       int `yaml:"analytics_days"        env:"ANALYTICS_DAYS"        env-default:"30"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // "json" or "pretty"
}

// Load reads configuration from an optional YAML file and environment variables.
// Priority: ENV > YAML > env-default tags. The file path comes from CONFIG_PATH
// (fallback ./config.yaml); a missing default file is not an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters (got %d)", len(c.Session.Secret))
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Content.HistoryDefaultLimit <= 0 {
		return fmt.Errorf("HISTORY_DEFAULT_LIMIT must be > 0")
	}
	if c.Content.HistoryMaxLimit < c.Content.HistoryDefaultLimit {
		return fmt.Errorf("HISTORY_MAX_LIMIT must be >= HISTORY_DEFAULT_LIMIT")
	}

	// credentialed CORS requires named origins
	for _, origin := range c.CORS.AllowedOrigins {
		if strings.Contains(origin, "*") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS must list explicit origins, got %q", origin)
		}
	}
	return nil
}

// GetDSN returns the connection string for the configured driver
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

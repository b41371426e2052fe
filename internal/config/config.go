// Package config loads nz-tides settings from flags, environment variables,
// an optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ngmaloney/nz-tides/internal/database"
)

// EnvPrefix prefixes every environment variable, e.g. NZTIDES_SOURCE.
const EnvPrefix = "NZTIDES"

// Table sources
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceSQLite   = "sqlite"
	SourceHTTP     = "http"
)

// Defaults shared by SetDefaults and the command line flags
const (
	DefaultSource      = SourceEmbedded
	DefaultDataDir     = "data"
	DefaultTimezone    = "Pacific/Auckland"
	DefaultLogLevel    = "warn"
	DefaultAddr        = ":8080"
	DefaultHTTPTimeout = 30 * time.Second
)

// DefaultDBPath is the database the sqlite source uses unless told otherwise
var DefaultDBPath = database.DBPath()

var validate = validator.New()

// Config holds runtime settings
type Config struct {
	Source      string        `mapstructure:"source" validate:"required,oneof=embedded dir sqlite http"`
	DataDir     string        `mapstructure:"data_dir" validate:"required_if=Source dir"`
	DBPath      string        `mapstructure:"db_path" validate:"required_if=Source sqlite"`
	BaseURL     string        `mapstructure:"base_url" validate:"required_if=Source http"`
	Timezone    string        `mapstructure:"timezone" validate:"required"`
	LogLevel    string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	LogDir      string        `mapstructure:"log_dir"`
	Addr        string        `mapstructure:"addr" validate:"required"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gt=0"`

	location *time.Location
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", DefaultSource)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("base_url", "")
	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_dir", "")
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
}

// ReadFile reads a YAML config file into v. With an empty path it looks for
// ~/.nz-tides.yaml and silently continues when there is none.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".nz-tides")
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Load resolves the configuration from v, the environment and a .env file in
// the working directory, then validates it.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.BaseURL != "" {
		if err := validate.Var(cfg.BaseURL, "url"); err != nil {
			return nil, fmt.Errorf("invalid base_url %q: %w", cfg.BaseURL, err)
		}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	cfg.location = loc

	return &cfg, nil
}

// Location returns the time zone tide tables are published in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

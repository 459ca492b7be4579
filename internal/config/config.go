// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds all configuration for the ingest process.
type Config struct {
	Telegram TelegramConfig
	Supabase SupabaseConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// TelegramConfig contains the channel client settings. BridgeURL points
// at the MTProto HTTP bridge the client talks to; SessionFile is where
// the handshake session token is persisted between runs.
type TelegramConfig struct {
	APIID       int64
	APIHash     string
	SessionFile string
	Channel     string
	BridgeURL   string
}

// SupabaseConfig contains the storage API settings plus the optional
// owner id applied to ingested rows for row-level security.
type SupabaseConfig struct {
	URL           string
	ServiceKey    string
	StorageBucket string
	OwnerID       string
}

// DatabaseConfig contains the Postgres connection settings.
type DatabaseConfig struct {
	URL string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from environment variables and an optional
// .env file, then validates that every required value is present.
func Load() (*Config, error) {
	setDefaults()
	viper.AutomaticEnv()

	// The .env file mirrors the environment; a missing file is fine.
	if _, err := os.Stat(".env"); err == nil {
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			APIID:       viper.GetInt64("TELEGRAM_API_ID"),
			APIHash:     viper.GetString("TELEGRAM_API_HASH"),
			SessionFile: viper.GetString("TELEGRAM_SESSION"),
			Channel:     viper.GetString("CHANNEL_USERNAME"),
			BridgeURL:   viper.GetString("TELEGRAM_BRIDGE_URL"),
		},
		Supabase: SupabaseConfig{
			URL:           viper.GetString("SUPABASE_URL"),
			ServiceKey:    viper.GetString("SUPABASE_SERVICE_KEY"),
			StorageBucket: viper.GetString("SUPABASE_STORAGE_BUCKET"),
			OwnerID:       viper.GetString("RLS_USER_UID"),
		},
		Database: DatabaseConfig{
			URL: viper.GetString("DATABASE_URL"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
			File:  viper.GetString("LOG_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every missing required setting in a single error, so
// a misconfigured deployment fails fast with a complete picture.
func (c *Config) Validate() error {
	var missing []string

	if c.Telegram.APIID == 0 {
		missing = append(missing, "TELEGRAM_API_ID")
	}
	if c.Telegram.APIHash == "" {
		missing = append(missing, "TELEGRAM_API_HASH")
	}
	if c.Telegram.Channel == "" {
		missing = append(missing, "CHANNEL_USERNAME")
	}
	if c.Supabase.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Supabase.ServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Supabase.OwnerID != "" {
		if _, err := uuid.Parse(c.Supabase.OwnerID); err != nil {
			return fmt.Errorf("RLS_USER_UID is not a valid UUID: %w", err)
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("TELEGRAM_SESSION", "movie_ingest.session")
	viper.SetDefault("TELEGRAM_BRIDGE_URL", "http://127.0.0.1:8081")
	viper.SetDefault("SUPABASE_STORAGE_BUCKET", "covers")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "")
}

package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Version        string   `json:"version" mapstructure:"version"`
	TablePrefix    string   `json:"table_prefix" mapstructure:"table_prefix"`
	Multisite      bool     `json:"multisite" mapstructure:"multisite"`
	ContactMethods []string `json:"contact_methods" mapstructure:"contact_methods"`
	Database       Database `json:"database" mapstructure:"database"`
	Log            Log      `json:"log" mapstructure:"log"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Log struct {
	File  string `json:"file,omitempty" mapstructure:"file"`
	Level string `json:"level,omitempty" mapstructure:"level"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.TablePrefix == "" {
		cfg.TablePrefix = "wp_"
	}
	if len(cfg.ContactMethods) == 0 {
		cfg.ContactMethods = []string{"aim", "yim", "jabber"}
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "mysql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "scrub.log"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"mysql", "postgresql", "postgres", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.TablePrefix == "" {
		return fmt.Errorf("table_prefix cannot be empty")
	}

	return nil
}

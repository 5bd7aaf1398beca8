package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	DataDir       string   `mapstructure:"DATA_DIR"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	AdminUsername string   `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string   `mapstructure:"ADMIN_PASSWORD"`
	SessionTTL    int      `mapstructure:"SESSION_TTL_MINUTES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("SESSION_TTL_MINUTES", 720)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("ADMIN_USERNAME")
	v.BindEnv("ADMIN_PASSWORD")
	v.BindEnv("SESSION_TTL_MINUTES")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.AdminPassword == "admin123" {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is using the default demo credential (admin/admin123).")
		log.Println("WARNING: This login gate is a demo convenience, not a security boundary.")
		log.Println("WARNING: Set ADMIN_USERNAME and ADMIN_PASSWORD to change it.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SessionDuration returns the configured session lifetime.
func (c *Config) SessionDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Minute
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTL)
	}
	return nil
}

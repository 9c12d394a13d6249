package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the process configuration. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Message cap per intake session.
	MessageCap int `mapstructure:"MESSAGE_CAP"`

	// Outbound alert delivery. Email is enabled only when both the user and
	// the app password are configured; otherwise the dispatcher runs in
	// report-only mode.
	SMTPHost         string `mapstructure:"SMTP_HOST"`
	SMTPPort         int    `mapstructure:"SMTP_PORT"`
	EmailUser        string `mapstructure:"EMAIL_USER"`
	EmailAppPassword string `mapstructure:"EMAIL_APP_PASSWORD"`
	AdminEmail       string `mapstructure:"ADMIN_EMAIL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("MESSAGE_CAP", 50)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("MESSAGE_CAP")
	v.BindEnv("SMTP_HOST")
	v.BindEnv("SMTP_PORT")
	v.BindEnv("EMAIL_USER")
	v.BindEnv("EMAIL_APP_PASSWORD")
	v.BindEnv("ADMIN_EMAIL")

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = cfg.EmailUser
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// EmailEnabled reports whether the dispatcher should attempt real SMTP
// delivery. Both credentials must be present.
func (c *Config) EmailEnabled() bool {
	return c.EmailUser != "" && c.EmailAppPassword != ""
}

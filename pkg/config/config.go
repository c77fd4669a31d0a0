package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingAPIKey = errors.New("MAILCHIMP_API_KEY is not set")
	ErrMissingListID = errors.New("MAILCHIMP_LIST_ID is not set")
)

// Config holds all application configuration values
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// LogFormat is "json" or "console"
	LogFormat string

	MailchimpAPIKey   string
	MailchimpListID   string
	MailchimpServer   string
	MailchimpBaseURL  string
	MailchimpUsername string
	// MailchimpTimeout of zero leaves the outbound call without a deadline
	MailchimpTimeout time.Duration

	TemplatesDir string
	StaticDir    string
	SSL          bool
}

// LoadConfig reads configuration from a .env file (if any) and the environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MAILCHIMP_USERNAME", "signup-relay")
	v.SetDefault("MAILCHIMP_TIMEOUT", "0s")
	v.SetDefault("TEMPLATES_DIR", ".")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("SSL", false)

	cfg := &Config{
		Port:              v.GetString("PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		MailchimpAPIKey:   v.GetString("MAILCHIMP_API_KEY"),
		MailchimpListID:   v.GetString("MAILCHIMP_LIST_ID"),
		MailchimpServer:   v.GetString("MAILCHIMP_SERVER"),
		MailchimpBaseURL:  v.GetString("MAILCHIMP_BASE_URL"),
		MailchimpUsername: v.GetString("MAILCHIMP_USERNAME"),
		MailchimpTimeout:  v.GetDuration("MAILCHIMP_TIMEOUT"),
		TemplatesDir:      v.GetString("TEMPLATES_DIR"),
		StaticDir:         v.GetString("STATIC_DIR"),
		SSL:               v.GetBool("SSL"),
	}

	if cfg.MailchimpAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.MailchimpListID == "" {
		return nil, ErrMissingListID
	}

	if cfg.MailchimpServer == "" {
		cfg.MailchimpServer = ServerFromAPIKey(cfg.MailchimpAPIKey)
	}
	if cfg.MailchimpBaseURL == "" {
		if cfg.MailchimpServer == "" {
			return nil, errors.New("cannot derive data center from MAILCHIMP_API_KEY, set MAILCHIMP_SERVER or MAILCHIMP_BASE_URL")
		}
		cfg.MailchimpBaseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", cfg.MailchimpServer)
	}
	cfg.MailchimpBaseURL = strings.TrimRight(cfg.MailchimpBaseURL, "/")

	return cfg, nil
}

// ServerFromAPIKey returns the data-center suffix of a Mailchimp key ("...-us10" -> "us10")
func ServerFromAPIKey(apiKey string) string {
	i := strings.LastIndex(apiKey, "-")
	if i < 0 || i == len(apiKey)-1 {
		return ""
	}
	return apiKey[i+1:]
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Package mailer provides SMTP delivery for digest and welcome emails.
// It renders HTML templates with plain text fallbacks and rate limits
// outbound sends.
package mailer

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// Config holds SMTP connection parameters.
type Config struct {
	// Host is the SMTP server hostname. Required.
	Host string

	// Port is the SMTP server port. Default: 587
	Port int

	// Username authenticates the SMTP session. Required.
	Username string

	// Password authenticates the SMTP session. Required.
	Password string

	// SendRatePerSecond limits outbound email dispatch so a large
	// roster does not trip provider throttling. Default: 5
	SendRatePerSecond rate.Limit
}

// LoadConfig loads SMTP configuration from environment variables.
// Host and credentials are required and their absence is a hard error so
// the process fails at startup instead of at the first dispatch.
//
// Environment variables:
//   - SMTP_HOST: server hostname (required)
//   - SMTP_PORT: server port (default: 587)
//   - SMTP_USERNAME: auth username (required)
//   - SMTP_PASSWORD: auth password (required)
//   - SMTP_SEND_RATE: max sends per second (default: 5)
func LoadConfig() (Config, error) {
	cfg := Config{
		Host:              os.Getenv("SMTP_HOST"),
		Port:              587,
		Username:          os.Getenv("SMTP_USERNAME"),
		Password:          os.Getenv("SMTP_PASSWORD"),
		SendRatePerSecond: 5,
	}

	if cfg.Host == "" {
		return Config{}, fmt.Errorf("SMTP_HOST not set")
	}
	if cfg.Username == "" {
		return Config{}, fmt.Errorf("SMTP_USERNAME not set")
	}
	if cfg.Password == "" {
		return Config{}, fmt.Errorf("SMTP_PASSWORD not set")
	}

	if val := os.Getenv("SMTP_PORT"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 || parsed > 65535 {
			return Config{}, fmt.Errorf("invalid SMTP_PORT: %q", val)
		}
		cfg.Port = parsed
	}

	if val := os.Getenv("SMTP_SEND_RATE"); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid SMTP_SEND_RATE: %q", val)
		}
		cfg.SendRatePerSecond = rate.Limit(parsed)
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig represents application-level configuration loaded from YAML.
// It holds the mail identity and the fixed subject lines used by the
// digest and welcome emails.
type AppConfig struct {
	Mail struct {
		FromName    string `yaml:"from_name"`
		FromAddress string `yaml:"from_address"`
		Subjects    struct {
			Welcome    string `yaml:"welcome"`
			NewsDigest string `yaml:"news_digest"`
		} `yaml:"subjects"`
	} `yaml:"mail"`
}

// DefaultAppConfig returns the built-in configuration used when no YAML
// file is provided.
func DefaultAppConfig() *AppConfig {
	var config AppConfig
	config.Mail.FromName = "Signalist"
	config.Mail.FromAddress = "signalist@jsmastery.pro"
	config.Mail.Subjects.Welcome = "Welcome to Signalist - your stock market toolkit is ready!"
	config.Mail.Subjects.NewsDigest = "Your Market News Summary - %s"
	return &config
}

// LoadAppConfig loads application configuration from a YAML file.
// The path parameter is expected to come from a trusted source (command-line argument or hardcoded default).
func LoadAppConfig(path string) (*AppConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultAppConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateAppConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validateAppConfig validates the loaded configuration.
func validateAppConfig(config *AppConfig) error {
	if config.Mail.FromAddress == "" {
		return fmt.Errorf("mail from_address is required")
	}

	if config.Mail.Subjects.Welcome == "" {
		return fmt.Errorf("mail welcome subject is required")
	}

	if config.Mail.Subjects.NewsDigest == "" {
		return fmt.Errorf("mail news_digest subject is required")
	}

	return nil
}

// From returns the sender in "Name <address>" form, or the bare address
// when no name is configured.
func (c *AppConfig) From() string {
	if c.Mail.FromName == "" {
		return c.Mail.FromAddress
	}
	return fmt.Sprintf("%s <%s>", c.Mail.FromName, c.Mail.FromAddress)
}

// NewsDigestSubject returns the digest subject line for the given
// human-readable date.
func (c *AppConfig) NewsDigestSubject(date string) string {
	return fmt.Sprintf(c.Mail.Subjects.NewsDigest, date)
}

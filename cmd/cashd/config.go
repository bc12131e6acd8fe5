// config.go - Configuration management for the coin daemon
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the daemon configuration
type Config struct {
	// Protocol settings
	TreeCapacity int `json:"tree_capacity"`

	// Network
	ListenAddress string `json:"listen_address"`

	// File paths
	LedgerPath string `json:"ledger_path"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Performance
	TimeoutSeconds int `json:"timeout_seconds"`

	// Rate limiting
	RateLimitTokens        int `json:"rate_limit_tokens"`
	RateLimitRefill        int `json:"rate_limit_refill"`
	RateLimitPeriodSeconds int `json:"rate_limit_period_seconds"`

	// Security
	EnableAudit  bool   `json:"enable_audit"`
	AuditLogPath string `json:"audit_log_path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TreeCapacity:           1024,
		ListenAddress:          "127.0.0.1:8980",
		LedgerPath:             "ledger.json",
		LogLevel:               "info",
		LogFile:                "cashd.log",
		TimeoutSeconds:         30,
		RateLimitTokens:        20,
		RateLimitRefill:        5,
		RateLimitPeriodSeconds: 1,
		EnableAudit:            true,
		AuditLogPath:           "audit.log",
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	// Try to load from file
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		var config Config
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}

		return &config, nil
	}

	// Create default config and save it
	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// The even vector basis needs slot 1 for the key fold, so a tree must
	// hold at least two generators.
	if c.TreeCapacity < 2 {
		return fmt.Errorf("tree_capacity must be at least 2")
	}
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address must be set")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.RateLimitTokens <= 0 {
		return fmt.Errorf("rate_limit_tokens must be positive")
	}
	if c.RateLimitRefill <= 0 {
		return fmt.Errorf("rate_limit_refill must be positive")
	}
	if c.RateLimitPeriodSeconds <= 0 {
		return fmt.Errorf("rate_limit_period_seconds must be positive")
	}
	return nil
}

// Package config provides configuration management for the capture service
// and CLI. It defines the configuration structure, defaults, and validation.
package config

import "time"

// Config holds the settings shared by the serve daemon and the CLI
// subcommands.
type Config struct {
	// Store
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"` // Path to the SQLite database file

	// Service
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"` // Address the serve daemon binds to
	ServerURL  string `mapstructure:"server_url" yaml:"server_url"`   // Base URL of a running daemon; empty means direct store access

	// Capture
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`           // HTTP User-Agent for page fetches
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // HTTP request timeout
	RequestDelay   time.Duration `mapstructure:"request_delay" yaml:"request_delay"`     // Minimum interval between page fetches
	MaxBodySize    int64         `mapstructure:"max_body_size" yaml:"max_body_size"`     // Page download cap in bytes

	// Query presentation
	RecentLimit   int `mapstructure:"recent_limit" yaml:"recent_limit"`     // Default number of records for recency queries
	SnippetLength int `mapstructure:"snippet_length" yaml:"snippet_length"` // Search snippet length in runes

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"` // debug, info, warn, error
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`   // Optional log file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:   "./insightful.db",
		ListenAddr:     "127.0.0.1:8750",
		UserAgent:      "Insightful/1.0",
		RequestTimeout: 30 * time.Second,
		RequestDelay:   100 * time.Millisecond,
		MaxBodySize:    10 << 20,
		RecentLimit:    50,
		SnippetLength:  200,
		LogLevel:       "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return ErrEmptyDatabasePath
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.RecentLimit <= 0 {
		return ErrInvalidRecentLimit
	}
	if c.SnippetLength <= 0 {
		return ErrInvalidSnippetLength
	}
	return nil
}

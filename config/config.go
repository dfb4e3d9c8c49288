// Package config loads the GitOnBoard configuration from TOML files and
// environment variables via Viper.
package config

import "fmt"

// Config represents the core GitOnBoard configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Board    BoardConfig    `mapstructure:"board"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the GitOnBoard web server
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// Per-IP request budget for the REST API. Zero disables limiting.
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst"`
}

// BoardConfig configures registry-level behavior
type BoardConfig struct {
	// Owner is the identity installed as board owner on first startup.
	// Ownership changes afterwards go through the transfer/renounce
	// operations, not config.
	Owner string `mapstructure:"owner"`
}

// Server port constants
const (
	DefaultServerPort = 8799
)

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "gitonboard.db"
	}
	return c.Database.Path
}

// GetServerPort returns the configured server port
func (c *Config) GetServerPort() int {
	if c.Server.Port == 0 {
		return DefaultServerPort
	}
	return c.Server.Port
}

// GetServerAllowedOrigins returns the allowed CORS origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		}
	}
	return c.Server.AllowedOrigins
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Server: {Port: %d}, Board: {Owner: %s}}",
		c.Database.Path, c.GetServerPort(), c.Board.Owner)
}

// Package config provides configuration management for FieldPulse.
// It loads settings from environment variables with the FIELDPULSE_ prefix
// and provides sensible defaults for all configuration options.
//
// Competitor definitions used for company-comparison endpoints may
// additionally be overridden by a YAML side file (see LoadCompetitorFile).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the FieldPulse application.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
	Company CompanyConfig
	Limits  LimitsConfig
	Stats   StatsConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 5000)
	Host string // Server host (default: 127.0.0.1)
}

// StorageConfig contains warehouse and credential-file configuration.
type StorageConfig struct {
	DataPath      string // Path to data directory (default: ./data)
	WarehousePath string // Path to the SQLite warehouse file (default: <DataPath>/fieldpulse.db)
	UsersFile     string // Path to the JSON credential file (default: <DataPath>/users.json)
}

// SessionConfig contains session-cookie signing settings.
type SessionConfig struct {
	Secret string // Secret used to sign session cookies
}

// CompetitorSpec describes one competitor company for comparison endpoints.
// Key is the short label used internally, Match is the substring looked up
// against dim_companies.company_name, and FallbackCode is used when the name
// lookup finds nothing.
type CompetitorSpec struct {
	Key          string `yaml:"key"`
	Match        string `yaml:"match"`
	FallbackCode int    `yaml:"fallback_code"`
}

// CompanyConfig contains the home company and its tracked competitors.
type CompanyConfig struct {
	HomeCode    int              // Home company code (default: 7007)
	Competitors []CompetitorSpec // Tracked competitors, in fixed order
}

// LimitsConfig contains request rate-limit settings.
type LimitsConfig struct {
	RequestsPerSec float64 // Sustained request rate (default: 10)
	Burst          int     // Maximum burst size (default: 20)
}

// StatsConfig contains live-stats broadcast settings.
type StatsConfig struct {
	BroadcastSec int // KPI broadcast interval in seconds, 0 disables (default: 30)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the FIELDPULSE_ prefix.
func LoadConfig() (*Config, error) {
	dataPath := getEnv("FIELDPULSE_DATA_PATH", "./data")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("FIELDPULSE_PORT", 5000),
			Host: getEnv("FIELDPULSE_HOST", "127.0.0.1"),
		},
		Storage: StorageConfig{
			DataPath:      dataPath,
			WarehousePath: getEnv("FIELDPULSE_WAREHOUSE_PATH", dataPath+"/fieldpulse.db"),
			UsersFile:     getEnv("FIELDPULSE_USERS_FILE", dataPath+"/users.json"),
		},
		Session: SessionConfig{
			Secret: getEnv("FIELDPULSE_SECRET_KEY", "fieldpulse-dev-secret"),
		},
		Company: CompanyConfig{
			HomeCode:    getEnvInt("FIELDPULSE_HOME_COMPANY_CODE", 7007),
			Competitors: DefaultCompetitors(),
		},
		Limits: LimitsConfig{
			RequestsPerSec: 10.0,
			Burst:          getEnvInt("FIELDPULSE_RATE_BURST", 20),
		},
		Stats: StatsConfig{
			BroadcastSec: getEnvInt("FIELDPULSE_STATS_BROADCAST_SEC", 30),
		},
	}

	return cfg, nil
}

// DefaultCompetitors returns the built-in competitor set used when no
// override file is provided.
func DefaultCompetitors() []CompetitorSpec {
	return []CompetitorSpec{
		{Key: "BAYER", Match: "BAYER CROP SCIENCE", FallbackCode: 7002},
		{Key: "UPL", Match: "UPL LIMITED", FallbackCode: 7025},
		{Key: "SYNGENTA", Match: "SYNGENTA INDIA LTD", FallbackCode: 7024},
	}
}

// competitorFile is the on-disk shape of the competitor override file.
type competitorFile struct {
	HomeCode    int              `yaml:"home_code"`
	Competitors []CompetitorSpec `yaml:"competitors"`
}

// LoadCompetitorFile overlays the company configuration with values from a
// YAML override file. A zero home_code or an empty competitors list leaves
// the corresponding current value untouched.
func (c *Config) LoadCompetitorFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read competitor file: %w", err)
	}

	var f competitorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: failed to parse competitor file: %w", err)
	}

	if f.HomeCode != 0 {
		c.Company.HomeCode = f.HomeCode
	}
	if len(f.Competitors) > 0 {
		c.Company.Competitors = f.Competitors
	}
	return nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the environment variable exists but cannot be parsed as an
// integer, it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the crossword downloader
type Config struct {
	// NYT session settings
	NYT NYTConfig `yaml:"nyt" json:"nyt"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// NYTConfig holds NYT API settings
type NYTConfig struct {
	// SessionToken is the value of the NYT-S cookie obtained from a
	// logged-in browser session. The listing endpoint works without it;
	// the puzzle endpoint does not.
	SessionToken string `yaml:"session_token" json:"session_token"`
	CookieName   string `yaml:"cookie_name" json:"cookie_name"`
	UserAgent    string `yaml:"user_agent" json:"user_agent"`
}

// RateLimitConfig holds rate limiting configuration.
//
// The API enforces two unstated limits: 4,000 requests per day and 10
// requests per minute, with no Retry-After signal. Pacing is purely
// client-side sleeps.
type RateLimitConfig struct {
	IntervalSeconds   float64 `yaml:"interval_seconds" json:"interval_seconds"`
	RequestsPerMinute int     `yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerDay    int     `yaml:"requests_per_day" json:"requests_per_day"`
}

// Interval returns the minimum inter-request interval as a duration.
func (r RateLimitConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds * float64(time.Second))
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Destination string `yaml:"destination" json:"destination"`
	// DateFolders nests puzzle files under <year>/<month> directories
	// instead of a flat layout.
	DateFolders bool `yaml:"date_folders" json:"date_folders"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	// PageSize is the number of days covered by a single listing call.
	PageSize       int           `yaml:"page_size" json:"page_size"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		NYT: NYTConfig{
			CookieName: "NYT-S",
			UserAgent:  "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		RateLimit: RateLimitConfig{
			IntervalSeconds:   30,
			RequestsPerMinute: 10,
			RequestsPerDay:    4000,
		},
		Output: OutputConfig{
			Destination: ".",
			DateFolders: false,
		},
		Download: DownloadConfig{
			PageSize:       100,
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("NYTXWORD_SESSION_TOKEN"); token != "" {
		c.NYT.SessionToken = token
	}
	if userAgent := os.Getenv("NYTXWORD_USER_AGENT"); userAgent != "" {
		c.NYT.UserAgent = userAgent
	}

	if interval := os.Getenv("NYTXWORD_INTERVAL_SECONDS"); interval != "" {
		if val, err := strconv.ParseFloat(interval, 64); err == nil && val >= 0 {
			c.RateLimit.IntervalSeconds = val
		}
	}
	if rpm := os.Getenv("NYTXWORD_REQUESTS_PER_MINUTE"); rpm != "" {
		if val, err := strconv.Atoi(rpm); err == nil && val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if dest := os.Getenv("NYTXWORD_DESTINATION"); dest != "" {
		c.Output.Destination = dest
	}
	if dateFolders := os.Getenv("NYTXWORD_DATE_FOLDERS"); dateFolders != "" {
		c.Output.DateFolders = strings.ToLower(dateFolders) == "true"
	}

	if logLevel := os.Getenv("NYTXWORD_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".nytxword.yaml",
		".nytxword.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "nytxword", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "nytxword", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".nytxword.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.NYT.CookieName == "" {
		errs = append(errs, errors.New("cookie name is required"))
	}

	if c.RateLimit.IntervalSeconds < 0 {
		errs = append(errs, errors.New("interval seconds cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.RequestsPerDay <= 0 {
		errs = append(errs, errors.New("requests per day must be positive"))
	}

	if c.Output.Destination == "" {
		errs = append(errs, errors.New("destination directory is required"))
	}

	if c.Download.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Download.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["session-token"].(string); ok && token != "" {
		c.NYT.SessionToken = token
	}
	if dest, ok := flags["destination"].(string); ok && dest != "" {
		c.Output.Destination = dest
	}
	if interval, ok := flags["interval"].(float64); ok && interval >= 0 {
		c.RateLimit.IntervalSeconds = interval
	}
	if dateFolders, ok := flags["date-folders"].(bool); ok {
		c.Output.DateFolders = dateFolders
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".nytxword.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

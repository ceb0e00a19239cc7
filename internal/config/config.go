// Package config loads the service configuration from config/<ENV>.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheValkey = "valkey"
	CacheBadger = "badger"
)

// Recognizer drivers.
const (
	RecognizerProse     = "prose"
	RecognizerGazetteer = "gazetteer"
	RecognizerOpenAI    = "openai"
	RecognizerNone      = "none"
)

// Config holds the geosearch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Backend    BackendConfig    `yaml:"backend"`
	Cache      CacheConfig      `yaml:"cache"`
	Search     SearchConfig     `yaml:"search"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// BackendConfig points at the Typesense collection holding listings.
type BackendConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig selects and configures the query shape store.
type CacheConfig struct {
	Driver           string   `yaml:"driver"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	LRUSize          int      `yaml:"lru_size"`
	BadgerPath       string   `yaml:"badger_path"`
}

// SearchConfig tunes query compilation.
type SearchConfig struct {
	DefaultRadiusKm float64  `yaml:"default_radius_km"`
	DefaultPerPage  int      `yaml:"default_per_page"`
	MaxPerPage      int      `yaml:"max_per_page"`
	MaxQueryLength  int      `yaml:"max_query_length"`
	AmbiguousPlaces []string `yaml:"ambiguous_places"`
	Gazetteer       []string `yaml:"gazetteer"`
	Commodities     []string `yaml:"commodities"`
	Variants        []string `yaml:"variants"`
}

// RecognizerConfig selects the place name recognizer.
type RecognizerConfig struct {
	Driver string       `yaml:"driver"`
	OpenAI OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds settings for the chat-model recognizer.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references first.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Backend.Collection == "" {
		c.Backend.Collection = "listings"
	}
	if c.Backend.TimeoutSec <= 0 {
		c.Backend.TimeoutSec = 5
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheMemory
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "geosearch:shape:"
	}
	if c.Cache.LRUSize <= 0 {
		c.Cache.LRUSize = 10000
	}
	if c.Search.DefaultRadiusKm <= 0 {
		c.Search.DefaultRadiusKm = 100
	}
	if c.Search.DefaultPerPage <= 0 {
		c.Search.DefaultPerPage = 20
	}
	if c.Search.MaxPerPage <= 0 {
		c.Search.MaxPerPage = 100
	}
	if c.Search.MaxQueryLength <= 0 {
		c.Search.MaxQueryLength = 512
	}
	if c.Recognizer.Driver == "" {
		c.Recognizer.Driver = RecognizerProse
	}
	if c.Recognizer.OpenAI.Model == "" {
		c.Recognizer.OpenAI.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("backend.url is required"))
	}

	switch c.Cache.Driver {
	case CacheMemory:
	case CacheRedis, CacheValkey:
		if len(c.Cache.Addrs) == 0 {
			errs = append(errs, fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver))
		}
	case CacheBadger:
		if c.Cache.BadgerPath == "" {
			errs = append(errs, errors.New("cache.badger_path is required for driver \"badger\""))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.driver must be one of %s, got %q",
			strings.Join([]string{CacheMemory, CacheRedis, CacheValkey, CacheBadger}, ", "), c.Cache.Driver))
	}

	drivers := []string{RecognizerProse, RecognizerGazetteer, RecognizerOpenAI, RecognizerNone}
	if !slices.Contains(drivers, c.Recognizer.Driver) {
		errs = append(errs, fmt.Errorf("recognizer.driver must be one of %s, got %q",
			strings.Join(drivers, ", "), c.Recognizer.Driver))
	}
	if c.Recognizer.Driver == RecognizerOpenAI && c.Recognizer.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("recognizer.openai.api_key is required for driver \"openai\""))
	}

	if c.Search.DefaultPerPage > c.Search.MaxPerPage {
		errs = append(errs, fmt.Errorf("search.default_per_page (%d) exceeds search.max_per_page (%d)",
			c.Search.DefaultPerPage, c.Search.MaxPerPage))
	}
	return errors.Join(errs...)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := env + ".yaml"

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// relative to the source file, for tests and go run
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		name, fallback, hasDefault := strings.Cut(string(match[2:len(match)-1]), ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = fallback
		}
		return []byte(val)
	})
}

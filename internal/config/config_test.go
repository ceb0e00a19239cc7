package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Backend: BackendConfig{URL: "http://localhost:8108"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.HTTP.Port = 0 },
			wantErr: "http.port must be between 1 and 65535",
		},
		{
			name:    "missing backend url",
			mutate:  func(c *Config) { c.Backend.URL = "" },
			wantErr: "backend.url is required",
		},
		{
			name:    "valkey without addrs",
			mutate:  func(c *Config) { c.Cache.Driver = CacheValkey },
			wantErr: `cache.addrs is required for driver "valkey"`,
		},
		{
			name: "redis with addrs",
			mutate: func(c *Config) {
				c.Cache.Driver = CacheRedis
				c.Cache.Addrs = []string{"localhost:6379"}
			},
		},
		{
			name:    "badger without path",
			mutate:  func(c *Config) { c.Cache.Driver = CacheBadger },
			wantErr: "cache.badger_path is required",
		},
		{
			name:    "unknown cache driver",
			mutate:  func(c *Config) { c.Cache.Driver = "memcached" },
			wantErr: `cache.driver must be one of memory, redis, valkey, badger, got "memcached"`,
		},
		{
			name:    "unknown recognizer",
			mutate:  func(c *Config) { c.Recognizer.Driver = "spacy" },
			wantErr: `recognizer.driver must be one of`,
		},
		{
			name:    "openai without key",
			mutate:  func(c *Config) { c.Recognizer.Driver = RecognizerOpenAI },
			wantErr: "recognizer.openai.api_key is required",
		},
		{
			name: "per page above max",
			mutate: func(c *Config) {
				c.Search.DefaultPerPage = 50
				c.Search.MaxPerPage = 10
			},
			wantErr: "search.default_per_page (50) exceeds search.max_per_page (10)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"http.port", "backend.url"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected http timeouts: %+v", cfg.HTTP)
	}
	if cfg.Backend.Collection != "listings" {
		t.Errorf("Collection = %q, want listings", cfg.Backend.Collection)
	}
	if cfg.Backend.TimeoutSec != 5 {
		t.Errorf("TimeoutSec = %d, want 5", cfg.Backend.TimeoutSec)
	}
	if cfg.Cache.Driver != CacheMemory {
		t.Errorf("Cache.Driver = %q, want memory", cfg.Cache.Driver)
	}
	if cfg.Cache.KeyPrefix != "geosearch:shape:" {
		t.Errorf("KeyPrefix = %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Cache.LRUSize != 10000 {
		t.Errorf("LRUSize = %d, want 10000", cfg.Cache.LRUSize)
	}
	if cfg.Search.DefaultRadiusKm != 100 {
		t.Errorf("DefaultRadiusKm = %v, want 100", cfg.Search.DefaultRadiusKm)
	}
	if cfg.Search.DefaultPerPage != 20 || cfg.Search.MaxPerPage != 100 {
		t.Errorf("unexpected paging: %d/%d", cfg.Search.DefaultPerPage, cfg.Search.MaxPerPage)
	}
	if cfg.Search.MaxQueryLength != 512 {
		t.Errorf("MaxQueryLength = %d, want 512", cfg.Search.MaxQueryLength)
	}
	if cfg.Recognizer.Driver != RecognizerProse {
		t.Errorf("Recognizer.Driver = %q, want prose", cfg.Recognizer.Driver)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Cache:      CacheConfig{Driver: CacheBadger, KeyPrefix: "custom:", LRUSize: 5},
		Search:     SearchConfig{DefaultRadiusKm: 25},
		Recognizer: RecognizerConfig{Driver: RecognizerNone},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 || cfg.HTTP.WriteTimeoutSec != 60 || cfg.HTTP.ShutdownSec != 5 {
		t.Errorf("http timeouts overridden: %+v", cfg.HTTP)
	}
	if cfg.Cache.Driver != CacheBadger || cfg.Cache.KeyPrefix != "custom:" || cfg.Cache.LRUSize != 5 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
	if cfg.Search.DefaultRadiusKm != 25 {
		t.Errorf("DefaultRadiusKm = %v, want 25", cfg.Search.DefaultRadiusKm)
	}
	if cfg.Recognizer.Driver != RecognizerNone {
		t.Errorf("Recognizer.Driver = %q", cfg.Recognizer.Driver)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("GEOSEARCH_TEST_BACKEND", "http://typesense:8108")

	cfg, err := Parse([]byte(`
http:
  port: ${GEOSEARCH_TEST_PORT:-9090}
backend:
  url: ${GEOSEARCH_TEST_BACKEND}
  api_key: ${GEOSEARCH_TEST_UNSET}
cache:
  driver: memory
search:
  ambiguous_places: [Austin, Paris]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Backend.URL != "http://typesense:8108" {
		t.Errorf("URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.Backend.APIKey)
	}
	if len(cfg.Search.AmbiguousPlaces) != 2 {
		t.Errorf("AmbiguousPlaces = %v", cfg.Search.AmbiguousPlaces)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected yaml error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_Local(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.HTTP.Port)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}

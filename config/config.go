// Package config provides configuration loading and management for cedar2ccf.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/cedar2ccf/cedar"
	"github.com/c360studio/cedar2ccf/export"
	"github.com/c360studio/cedar2ccf/vocabulary/ccf"
)

// Config represents the complete cedar2ccf configuration
type Config struct {
	CEDAR    CEDARConfig    `yaml:"cedar"`
	Ontology OntologyConfig `yaml:"ontology"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CEDARConfig configures access to the CEDAR REST API
type CEDARConfig struct {
	// BaseURL is the CEDAR resource server
	BaseURL string `yaml:"base_url"`
	// APIKey authenticates requests. Usually supplied via CEDAR_API_KEY.
	APIKey string `yaml:"api_key,omitempty"`
	// UserID identifies the CEDAR user in logs
	UserID string `yaml:"user_id,omitempty"`
	// Timeout bounds a single HTTP request
	Timeout time.Duration `yaml:"timeout"`
	// PageSize is the search page size
	PageSize int `yaml:"page_size"`
	// Concurrency bounds parallel instance fetches
	Concurrency int `yaml:"concurrency"`
	// MaxAttempts is the number of attempts per request, including the first
	MaxAttempts int `yaml:"max_attempts"`
	// BackoffBase is the first retry delay
	BackoffBase time.Duration `yaml:"backoff_base"`
	// MaxBackoff caps the retry delay
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// OntologyConfig configures the generated ontology document
type OntologyConfig struct {
	// IRI names the owl:Ontology
	IRI string `yaml:"iri"`
}

// OutputConfig configures where and how the ontology is written
type OutputConfig struct {
	// Destination is "-", a file path, s3://bucket/key or
	// nats://host:port/bucket/object
	Destination string `yaml:"destination"`
	// Format is an export format name or alias
	Format string   `yaml:"format"`
	S3     S3Config `yaml:"s3"`
}

// S3Config configures the S3 output sink
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style"`
}

// CacheConfig configures the instance cache (empty path = disabled)
type CacheConfig struct {
	Path   string        `yaml:"path"`
	MaxAge time.Duration `yaml:"max_age"`
}

// MetricsConfig configures metrics export (empty textfile = disabled)
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	retry := cedar.DefaultRetryConfig()
	return &Config{
		CEDAR: CEDARConfig{
			BaseURL:     cedar.DefaultBaseURL,
			Timeout:     30 * time.Second,
			PageSize:    cedar.DefaultPageSize,
			Concurrency: cedar.DefaultConcurrency,
			MaxAttempts: retry.MaxAttempts,
			BackoffBase: retry.BackoffBase,
			MaxBackoff:  retry.MaxBackoff,
		},
		Ontology: OntologyConfig{
			IRI: ccf.DefaultOntologyIRI,
		},
		Output: OutputConfig{
			Destination: "-",
			Format:      string(export.FormatRDFXML),
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Cache: CacheConfig{
			Path:   "", // Disabled
			MaxAge: 24 * time.Hour,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.CEDAR.BaseURL == "" {
		return fmt.Errorf("cedar.base_url is required")
	}
	if u, err := url.Parse(c.CEDAR.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("cedar.base_url must be an absolute URL: %q", c.CEDAR.BaseURL)
	}
	if c.CEDAR.Timeout < 0 {
		return fmt.Errorf("cedar.timeout must not be negative")
	}
	if c.CEDAR.PageSize <= 0 {
		return fmt.Errorf("cedar.page_size must be positive")
	}
	if c.CEDAR.Concurrency <= 0 {
		return fmt.Errorf("cedar.concurrency must be positive")
	}
	if c.CEDAR.MaxAttempts < 1 {
		return fmt.Errorf("cedar.max_attempts must be at least 1")
	}
	if c.CEDAR.BackoffBase < 0 || c.CEDAR.MaxBackoff < 0 {
		return fmt.Errorf("cedar backoff durations must not be negative")
	}
	if c.Ontology.IRI == "" {
		return fmt.Errorf("ontology.iri is required")
	}
	if u, err := url.Parse(c.Ontology.IRI); err != nil || u.Scheme == "" {
		return fmt.Errorf("ontology.iri must be an absolute IRI: %q", c.Ontology.IRI)
	}
	if c.Output.Destination == "" {
		return fmt.Errorf("output.destination is required")
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Cache.MaxAge < 0 {
		return fmt.Errorf("cache.max_age must not be negative")
	}
	return nil
}

// RetryConfig converts the retry settings for the CEDAR client.
func (c CEDARConfig) RetryConfig() cedar.RetryConfig {
	rc := cedar.DefaultRetryConfig()
	rc.MaxAttempts = c.MaxAttempts
	rc.BackoffBase = c.BackoffBase
	rc.MaxBackoff = c.MaxBackoff
	return rc
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadLayer reads a file into an empty Config so that Merge only applies
// the values the file sets.
func loadLayer(path string) (*Config, error) {
	config := &Config{}
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold an API key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// CEDAR
	if other.CEDAR.BaseURL != "" {
		c.CEDAR.BaseURL = other.CEDAR.BaseURL
	}
	if other.CEDAR.APIKey != "" {
		c.CEDAR.APIKey = other.CEDAR.APIKey
	}
	if other.CEDAR.UserID != "" {
		c.CEDAR.UserID = other.CEDAR.UserID
	}
	if other.CEDAR.Timeout != 0 {
		c.CEDAR.Timeout = other.CEDAR.Timeout
	}
	if other.CEDAR.PageSize != 0 {
		c.CEDAR.PageSize = other.CEDAR.PageSize
	}
	if other.CEDAR.Concurrency != 0 {
		c.CEDAR.Concurrency = other.CEDAR.Concurrency
	}
	if other.CEDAR.MaxAttempts != 0 {
		c.CEDAR.MaxAttempts = other.CEDAR.MaxAttempts
	}
	if other.CEDAR.BackoffBase != 0 {
		c.CEDAR.BackoffBase = other.CEDAR.BackoffBase
	}
	if other.CEDAR.MaxBackoff != 0 {
		c.CEDAR.MaxBackoff = other.CEDAR.MaxBackoff
	}

	// Ontology
	if other.Ontology.IRI != "" {
		c.Ontology.IRI = other.Ontology.IRI
	}

	// Output
	if other.Output.Destination != "" {
		c.Output.Destination = other.Output.Destination
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.S3.Region != "" {
		c.Output.S3.Region = other.Output.S3.Region
	}
	if other.Output.S3.Endpoint != "" {
		c.Output.S3.Endpoint = other.Output.S3.Endpoint
	}
	if other.Output.S3.PathStyle {
		c.Output.S3.PathStyle = true
	}

	// Cache
	if other.Cache.Path != "" {
		c.Cache.Path = other.Cache.Path
	}
	if other.Cache.MaxAge != 0 {
		c.Cache.MaxAge = other.Cache.MaxAge
	}

	// Metrics
	if other.Metrics.Textfile != "" {
		c.Metrics.Textfile = other.Metrics.Textfile
	}
}

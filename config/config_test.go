package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CEDAR.BaseURL != "https://resource.metadatacenter.org" {
		t.Errorf("expected default base URL, got %s", cfg.CEDAR.BaseURL)
	}
	if cfg.CEDAR.PageSize != 100 {
		t.Errorf("expected default page size 100, got %d", cfg.CEDAR.PageSize)
	}
	if cfg.CEDAR.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.CEDAR.MaxAttempts)
	}
	if cfg.Ontology.IRI != "http://purl.org/ccf/ccf-bso" {
		t.Errorf("expected default ontology IRI, got %s", cfg.Ontology.IRI)
	}
	if cfg.Output.Destination != "-" || cfg.Output.Format != "rdfxml" {
		t.Errorf("expected RDF/XML on stdout, got %s %s", cfg.Output.Format, cfg.Output.Destination)
	}
	if cfg.Cache.Path != "" {
		t.Error("expected cache disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing base url",
			modify:  func(c *Config) { c.CEDAR.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "relative base url",
			modify:  func(c *Config) { c.CEDAR.BaseURL = "metadatacenter.org" },
			wantErr: true,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.CEDAR.PageSize = 0 },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			modify:  func(c *Config) { c.CEDAR.Concurrency = 0 },
			wantErr: true,
		},
		{
			name:    "zero attempts",
			modify:  func(c *Config) { c.CEDAR.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "negative backoff",
			modify:  func(c *Config) { c.CEDAR.BackoffBase = -time.Second },
			wantErr: true,
		},
		{
			name:    "missing ontology iri",
			modify:  func(c *Config) { c.Ontology.IRI = "" },
			wantErr: true,
		},
		{
			name:    "relative ontology iri",
			modify:  func(c *Config) { c.Ontology.IRI = "ccf-bso" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Format = "csv" },
			wantErr: true,
		},
		{
			name:    "format alias",
			modify:  func(c *Config) { c.Output.Format = "ttl" },
			wantErr: false,
		},
		{
			name:    "missing destination",
			modify:  func(c *Config) { c.Output.Destination = "" },
			wantErr: true,
		},
		{
			name:    "negative cache age",
			modify:  func(c *Config) { c.Cache.MaxAge = -time.Hour },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
cedar:
  base_url: "http://cedar.test"
  user_id: "user-1"
  timeout: 10s
  page_size: 25
  backoff_base: 500ms
ontology:
  iri: "http://example.org/kidney"
output:
  destination: "s3://ontologies/ccf.owl"
  format: "turtle"
  s3:
    endpoint: "http://minio:9000"
    path_style: true
cache:
  path: "/var/cache/cedar2ccf.db"
  max_age: 1h
metrics:
  textfile: "/var/lib/node_exporter/cedar2ccf.prom"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.CEDAR.BaseURL != "http://cedar.test" {
		t.Errorf("expected base URL http://cedar.test, got %s", cfg.CEDAR.BaseURL)
	}
	if cfg.CEDAR.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.CEDAR.Timeout)
	}
	if cfg.CEDAR.PageSize != 25 {
		t.Errorf("expected page size 25, got %d", cfg.CEDAR.PageSize)
	}
	if cfg.CEDAR.BackoffBase != 500*time.Millisecond {
		t.Errorf("expected backoff 500ms, got %v", cfg.CEDAR.BackoffBase)
	}
	// Unset fields keep their defaults
	if cfg.CEDAR.Concurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.CEDAR.Concurrency)
	}
	if cfg.Ontology.IRI != "http://example.org/kidney" {
		t.Errorf("expected ontology IRI, got %s", cfg.Ontology.IRI)
	}
	if cfg.Output.Format != "turtle" || cfg.Output.Destination != "s3://ontologies/ccf.owl" {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
	if !cfg.Output.S3.PathStyle || cfg.Output.S3.Region != "us-east-1" {
		t.Errorf("unexpected s3 config: %+v", cfg.Output.S3)
	}
	if cfg.Cache.MaxAge != time.Hour {
		t.Errorf("expected cache max age 1h, got %v", cfg.Cache.MaxAge)
	}
	if cfg.Metrics.Textfile == "" {
		t.Error("expected metrics textfile")
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("cedar: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		CEDAR: CEDARConfig{
			APIKey: "secret",
		},
		Output: OutputConfig{
			Format: "ttl",
		},
	}

	base.Merge(override)

	if base.CEDAR.APIKey != "secret" {
		t.Errorf("expected api key, got %s", base.CEDAR.APIKey)
	}
	// BaseURL should remain from base since override didn't set it
	if base.CEDAR.BaseURL != "https://resource.metadatacenter.org" {
		t.Errorf("expected base URL to remain default, got %s", base.CEDAR.BaseURL)
	}
	if base.Output.Format != "ttl" {
		t.Errorf("expected format ttl, got %s", base.Output.Format)
	}
	if base.Output.Destination != "-" {
		t.Errorf("expected destination to remain default, got %s", base.Output.Destination)
	}

	base.Merge(nil)
	if base.CEDAR.APIKey != "secret" {
		t.Error("Merge(nil) must not change the config")
	}
}

func TestCEDARConfig_RetryConfig(t *testing.T) {
	cfg := DefaultConfig().CEDAR
	cfg.MaxAttempts = 5
	cfg.BackoffBase = 2 * time.Second
	cfg.MaxBackoff = time.Minute

	rc := cfg.RetryConfig()
	if rc.MaxAttempts != 5 || rc.BackoffBase != 2*time.Second || rc.MaxBackoff != time.Minute {
		t.Errorf("unexpected retry config: %+v", rc)
	}
	if rc.BackoffMultiplier != 2.0 {
		t.Errorf("expected default multiplier 2, got %v", rc.BackoffMultiplier)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Ontology.IRI = "http://example.org/saved"
	cfg.CEDAR.Timeout = 45 * time.Second

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created privately
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Ontology.IRI != "http://example.org/saved" {
		t.Errorf("expected saved IRI, got %s", loaded.Ontology.IRI)
	}
	if loaded.CEDAR.Timeout != 45*time.Second {
		t.Errorf("expected timeout 45s, got %v", loaded.CEDAR.Timeout)
	}
}

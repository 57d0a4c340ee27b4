package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// isolate points HOME and the working directory at fresh temp dirs and
// clears the CEDAR environment.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvUserID, "")
	t.Setenv(EnvBaseURL, "")
	t.Chdir(project)
	return home, project
}

func quietLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestLoader_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := quietLoader().Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Ontology.IRI != DefaultConfig().Ontology.IRI {
		t.Errorf("expected default ontology IRI, got %s", cfg.Ontology.IRI)
	}
}

func TestLoader_Precedence(t *testing.T) {
	home, project := isolate(t)

	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
cedar:
  user_id: "from-user"
  page_size: 10
ontology:
  iri: "http://example.org/user"
output:
  format: "turtle"
`)
	writeConfig(t, filepath.Join(project, ProjectConfigFile), `
ontology:
  iri: "http://example.org/project"
output:
  destination: "ccf.owl"
`)
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeConfig(t, explicit, `
output:
  destination: "explicit.owl"
`)

	// The project config is found from a nested directory
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	t.Setenv(EnvUserID, "from-env")
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := quietLoader().Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CEDAR.PageSize != 10 {
		t.Errorf("expected user page size 10, got %d", cfg.CEDAR.PageSize)
	}
	if cfg.Output.Format != "turtle" {
		t.Errorf("expected user format turtle, got %s", cfg.Output.Format)
	}
	if cfg.Ontology.IRI != "http://example.org/project" {
		t.Errorf("expected project IRI, got %s", cfg.Ontology.IRI)
	}
	if cfg.Output.Destination != "explicit.owl" {
		t.Errorf("expected explicit destination, got %s", cfg.Output.Destination)
	}
	if cfg.CEDAR.UserID != "from-env" || cfg.CEDAR.APIKey != "env-key" {
		t.Errorf("expected environment overrides, got %+v", cfg.CEDAR)
	}
	// Layers do not reset values they leave unset
	if cfg.CEDAR.Concurrency != DefaultConfig().CEDAR.Concurrency {
		t.Errorf("expected default concurrency, got %d", cfg.CEDAR.Concurrency)
	}
}

func TestLoader_EnvBaseURL(t *testing.T) {
	isolate(t)
	l := quietLoader()
	l.getenv = func(key string) string {
		if key == EnvBaseURL {
			return "http://localhost:9000"
		}
		return ""
	}

	cfg, err := l.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CEDAR.BaseURL != "http://localhost:9000" {
		t.Errorf("expected base URL from environment, got %s", cfg.CEDAR.BaseURL)
	}
}

func TestLoader_MissingExplicitConfig(t *testing.T) {
	isolate(t)
	if _, err := quietLoader().Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoader_BrokenUserConfigIsSkipped(t *testing.T) {
	home, _ := isolate(t)
	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), "cedar: [")

	cfg, err := quietLoader().Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CEDAR.BaseURL != DefaultConfig().CEDAR.BaseURL {
		t.Errorf("expected defaults, got %s", cfg.CEDAR.BaseURL)
	}
}

func TestLoader_EnsureUserConfig(t *testing.T) {
	home, _ := isolate(t)
	l := quietLoader()

	path, err := l.EnsureUserConfig()
	if err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if path != filepath.Join(home, UserConfigDir, UserConfigFile) {
		t.Errorf("unexpected path %s", path)
	}
	if _, err := LoadFromFile(path); err != nil {
		t.Errorf("created config does not load: %v", err)
	}

	// Existing files are left alone
	writeConfig(t, path, "ontology:\n  iri: http://example.org/mine\n")
	if _, err := l.EnsureUserConfig(); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ontology.IRI != "http://example.org/mine" {
		t.Errorf("existing config was overwritten: %s", cfg.Ontology.IRI)
	}
}

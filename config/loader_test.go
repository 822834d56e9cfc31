package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME and the working directory at fresh temp dirs.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoaderDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader(nil).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Ontology.Path != DefaultOntologyFile {
		t.Errorf("expected default ontology path, got %s", cfg.Ontology.Path)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	home, work := isolate(t)

	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
log:
  level: info
output:
  format: json
watch:
  debounce: 2s
`)

	// Project config sits in a parent of the working directory.
	nested := filepath.Join(work, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, filepath.Join(work, ProjectConfigFile), `
ontology:
  path: ontology/sports.ttl
log:
  level: debug
`)
	t.Chdir(nested)

	cfg, err := NewLoader(nil).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("project config should override user config, got level %s", cfg.Log.Level)
	}
	if cfg.Output.Format != OutputJSON {
		t.Errorf("user config should apply when project is silent, got %s", cfg.Output.Format)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
	wantPath := filepath.Join(work, "ontology", "sports.ttl")
	if cfg.Ontology.Path != wantPath {
		t.Errorf("expected ontology path relative to project config %s, got %s", wantPath, cfg.Ontology.Path)
	}

	explicit := filepath.Join(t.TempDir(), "ci.yaml")
	writeConfig(t, explicit, "output:\n  format: text\n")

	cfg, err = NewLoader(nil).Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != OutputText {
		t.Errorf("explicit config should win, got %s", cfg.Output.Format)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("explicit config should keep lower layers, got level %s", cfg.Log.Level)
	}
}

func TestLoaderExplicitMissing(t *testing.T) {
	isolate(t)

	if _, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoaderLeavesValidationToCaller(t *testing.T) {
	_, work := isolate(t)
	writeConfig(t, filepath.Join(work, ProjectConfigFile), "log:\n  level: verbose\n")

	cfg, err := NewLoader(nil).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "verbose" {
		t.Errorf("expected level from project config, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown log level")
	}

	cfg.Log.Level = "debug"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after override error = %v", err)
	}
}

func TestLoaderSkipsBrokenUserConfig(t *testing.T) {
	home, _ := isolate(t)
	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), "log: [broken\n")

	cfg, err := NewLoader(nil).Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected default level after broken user config, got %s", cfg.Log.Level)
	}
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Runtime.RecursionLimit != DefaultRecursionLimit {
		t.Errorf("Runtime.RecursionLimit = %d, want %d", cfg.Runtime.RecursionLimit, DefaultRecursionLimit)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Reconcile.Strict {
		t.Error("Reconcile.Strict should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate should pass for defaults: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if !strings.Contains(err.Error(), "C001") {
		t.Errorf("Expected C001 error, got: %v", err)
	}

	configJSON := `{
  "runtime": {
    "debug": true,
    "recursionLimit": 50
  },
  "reconcile": {
    "strict": true
  },
  "log": {
    "level": "debug",
    "format": "json"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := &Config{
		Runtime:   RuntimeConfig{Debug: true, RecursionLimit: 50},
		Reconcile: ReconcileConfig{Strict: true},
		Metrics:   MetricsConfig{Namespace: DefaultNamespace},
		Log:       LogConfig{Level: "debug", Format: "json"},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path = %q", cfg.Path())
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", cfg.Level())
	}
}

func TestLoad_YAMLFallback(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `reconcile:
  strict: true
metrics:
  enabled: true
  namespace: app
`
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	if !Exists(tmpDir) {
		t.Error("Exists should report the YAML config")
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Reconcile.Strict {
		t.Error("Reconcile.Strict should be true")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "app" {
		t.Errorf("Metrics = %+v, want enabled namespace app", cfg.Metrics)
	}
	if cfg.Runtime.RecursionLimit != DefaultRecursionLimit {
		t.Errorf("Runtime.RecursionLimit = %d, want default", cfg.Runtime.RecursionLimit)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "ripple.json", "not valid json"},
		{"yaml", "ripple.yaml", "runtime: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("Expected error for malformed config")
			}
			if !strings.Contains(err.Error(), "C002") {
				t.Errorf("Expected C002 error, got: %v", err)
			}
		})
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"log": {"level": "loud"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("Expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "C003") {
		t.Errorf("Expected C003 error, got: %v", err)
	}
}

func TestSave(t *testing.T) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			cfg := New()
			cfg.Reconcile.Strict = true
			cfg.Runtime.RecursionLimit = 7

			// Save should fail without configPath set
			if err := cfg.Save(); err == nil {
				t.Error("Expected error when saving without path")
			}

			if err := cfg.SaveTo(configPath); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}

			loaded, err := LoadFile(configPath)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
			}

			// Now Save should work
			loaded.Runtime.Debug = true
			if err := loaded.Save(); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			reloaded, err := LoadFile(configPath)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if !reloaded.Runtime.Debug {
				t.Error("Runtime.Debug should survive Save")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"warning alias", func(c *Config) { c.Log.Level = "WARNING" }, true},
		{"zero recursion limit", func(c *Config) { c.Runtime.RecursionLimit = 0 }, false},
		{"negative recursion limit", func(c *Config) { c.Runtime.RecursionLimit = -3 }, false},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }, false},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate should pass: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

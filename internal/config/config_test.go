package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 3001 {
		t.Errorf("expected default port 3001, got %d", cfg.Server.Port)
	}
	if cfg.Generation.Model != "gemini-1.5-flash" {
		t.Errorf("unexpected default model: %s", cfg.Generation.Model)
	}
	if cfg.Generation.MaxTokens != 2048 {
		t.Errorf("unexpected default max tokens: %d", cfg.Generation.MaxTokens)
	}
	if cfg.Generation.BatchSize != 5 {
		t.Errorf("unexpected default batch size: %d", cfg.Generation.BatchSize)
	}
	if cfg.Clone.BaseDir == "" {
		t.Error("clone base dir should have a default")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() with missing file should not fail: %v", err)
	}
	if cfg.Generation.BatchSize != 5 {
		t.Errorf("defaults not applied: %+v", cfg.Generation)
	}
}

func TestLoadEmptyPathValidatesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") should return valid defaults: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should pass validation: %v", err)
	}
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
generation:
  model: gemini-1.5-pro
  batch_size: 3
walker:
  ignore: [".git", "node_modules", "target"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port override 8080, got %d", cfg.Server.Port)
	}
	if cfg.Generation.Model != "gemini-1.5-pro" {
		t.Errorf("expected model override, got %s", cfg.Generation.Model)
	}
	if cfg.Generation.BatchSize != 3 {
		t.Errorf("expected batch size override, got %d", cfg.Generation.BatchSize)
	}
	// Untouched fields still get defaults.
	if cfg.Generation.MaxTokens != 2048 {
		t.Errorf("expected default max tokens, got %d", cfg.Generation.MaxTokens)
	}
	if len(cfg.Walker.Ignore) != 3 {
		t.Errorf("expected 3 ignore entries, got %v", cfg.Walker.Ignore)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Generation.BatchSize = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative batch size should fail validation")
	}

	cfg = Default()
	cfg.Server.Port = 99999
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range port should fail validation")
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "test-key")
	cfg := Default()
	if cfg.APIKey() != "test-key" {
		t.Errorf("APIKey() = %q", cfg.APIKey())
	}
}

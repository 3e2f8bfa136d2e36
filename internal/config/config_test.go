package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chorechamp.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CHORECHAMP_PORT", "CHORECHAMP_DB_PATH", "CHORECHAMP_LOG_LEVEL", "CHORECHAMP_LOG_FORMAT",
		"GEMINI_API_KEY", "API_KEY", "CHORECHAMP_GEMINI_MODEL", "CHORECHAMP_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
port: "9090"
db_path: /var/lib/chorechamp/data.db
log_level: debug
allowed_origins:
  - "home.example.com"
gemini:
  api_key: file-key
  model: gemini-2.0-flash
remind_limit:
  requests: 3
  window_seconds: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		Port:           "9090",
		DBPath:         "/var/lib/chorechamp/data.db",
		LogLevel:       "debug",
		LogFormat:      "text",
		AllowedOrigins: []string{"home.example.com"},
		Gemini:         GeminiConfig{APIKey: "file-key", Model: "gemini-2.0-flash"},
		RemindLimit:    RemindLimit{Requests: 3, WindowSeconds: 30},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "port: \"9090\"\ngemini:\n  api_key: file-key\n")
	t.Setenv("CHORECHAMP_PORT", "7070")
	t.Setenv("API_KEY", "env-key")
	t.Setenv("CHORECHAMP_ALLOWED_ORIGINS", "a.example.com, b.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, want 7070", cfg.Port)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.Gemini.APIKey)
	}
	if diff := cmp.Diff([]string{"a.example.com", "b.example.com"}, cfg.AllowedOrigins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
}

func TestGeminiKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini")
	t.Setenv("API_KEY", "generic")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.APIKey != "gemini" {
		t.Errorf("APIKey = %q, want gemini", cfg.Gemini.APIKey)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "port: [oops")); err == nil {
		t.Error("expected error for malformed yaml")
	}
	if _, err := Load(writeFile(t, "port: \"99999\"")); err == nil {
		t.Error("expected error for out of range port")
	}
	if _, err := Load(writeFile(t, "remind_limit:\n  requests: 0\n  window_seconds: 60\n")); err == nil {
		t.Error("expected error for zero remind limit")
	}
}

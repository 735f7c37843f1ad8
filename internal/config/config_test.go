package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meshcam.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSessionConfigDefaults(t *testing.T) {
	path := writeConfig(t, `username = "alice"`)
	cfg, err := LoadSessionConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Username != "alice" {
		t.Fatalf("username %q", cfg.Username)
	}
	if cfg.Listen != ":9344" {
		t.Fatalf("default listen %q", cfg.Listen)
	}
}

func TestLoadSessionConfigRejectsMissingUsername(t *testing.T) {
	path := writeConfig(t, `listen = ":9000"`)
	if _, err := LoadSessionConfig(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadSessionConfigRejectsLongUsername(t *testing.T) {
	path := writeConfig(t, `username = "`+strings.Repeat("x", 40)+`"`)
	if _, err := LoadSessionConfig(path); err == nil {
		t.Fatalf("expected validation error for long username")
	}
}

func TestLoadSessionConfigRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, "username = \"alice\"\nframe_interval = \"soon\"")
	if _, err := LoadSessionConfig(path); err == nil {
		t.Fatalf("expected interval parse error")
	}
}

func TestTemplateValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshcam.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if _, err := LoadSessionConfig(path); err != nil {
		t.Fatalf("template does not validate: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
}

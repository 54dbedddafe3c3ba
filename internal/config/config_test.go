package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv blanks every COCKPIT_* override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied when no config file exists.
func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != filepath.Join("/data", "cockpit") {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %s, want 30m", cfg.Session.TTL)
	}
	if cfg.Export.FilenameBase != "prompt_cockpit" {
		t.Errorf("Export.FilenameBase = %q", cfg.Export.FilenameBase)
	}
	if cfg.Render.DefaultLanguage != "de" {
		t.Errorf("Render.DefaultLanguage = %q", cfg.Render.DefaultLanguage)
	}
}

// TestYAMLParsing verifies that all fields are correctly read from the YAML file.
func TestYAMLParsing(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `
server.port: 5000
storage.data_dir: /tmp/cockpit-test
log.level: debug
session.ttl: 2h
export.filename_base: mein_prompt
render.default_language: en
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/cockpit-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Session.TTL = %s", cfg.Session.TTL)
	}
	if cfg.Export.FilenameBase != "mein_prompt" {
		t.Errorf("Export.FilenameBase = %q", cfg.Export.FilenameBase)
	}
	if cfg.Render.DefaultLanguage != "en" {
		t.Errorf("Render.DefaultLanguage = %q", cfg.Render.DefaultLanguage)
	}
}

// TestEnvOverride verifies that environment variables override config file values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "server.port: 5000\nlog.level: warn\n")

	t.Setenv("COCKPIT_SERVER_PORT", "6000")
	t.Setenv("COCKPIT_SESSION_TTL", "5m")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("Server.Port = %d, want 6000", cfg.Server.Port)
	}
	if cfg.Session.TTL != 5*time.Minute {
		t.Errorf("Session.TTL = %s, want 5m", cfg.Session.TTL)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn from file", cfg.Log.Level)
	}
}

// TestEnvOverride_Unparseable keeps the previous value when an env var is malformed.
func TestEnvOverride_Unparseable(t *testing.T) {
	clearEnv(t)
	t.Setenv("COCKPIT_SERVER_PORT", "not-a-port")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want default 4100", cfg.Server.Port)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad language", "render.default_language: fr\n", "render.default_language"},
		{"bad level", "log.level: verbose\n", "log.level"},
		{"bad port", "server.port: 70000\n", "server.port"},
		{"bad ttl", "session.ttl: soon\n", "session.ttl"},
		{"negative ttl", "session.ttl: -1m\n", "session.ttl"},
		{"path in filename", "export.filename_base: ../x\n", "export.filename_base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadFrom(writeTempConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

// TestMalformedFile falls back to defaults instead of failing.
func TestMalformedFile(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(writeTempConfig(t, "server.port: [unterminated\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
}

func TestSetKey_PersistsAndReloads(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	b := newFileBackend(path)

	if err := setKeyIn(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKeyIn(server.port): %v", err)
	}
	if err := setKeyIn(b, "session.ttl", "45m"); err != nil {
		t.Fatalf("setKeyIn(session.ttl): %v", err)
	}
	if err := setKeyIn(b, "render.default_language", "en"); err != nil {
		t.Fatalf("setKeyIn(render.default_language): %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != 4200 || cfg.Session.TTL != 45*time.Minute || cfg.Render.DefaultLanguage != "en" {
		t.Errorf("reloaded config = %+v", cfg)
	}
}

func TestSetKey_Rejects(t *testing.T) {
	b := newFileBackend(filepath.Join(t.TempDir(), "config.yaml"))
	tests := []struct{ key, value string }{
		{"no.such.key", "x"},
		{"server.port", "abc"},
		{"session.ttl", "forever"},
		{"render.default_language", "fr"},
	}
	for _, tt := range tests {
		if err := setKeyIn(b, tt.key, tt.value); err == nil {
			t.Errorf("setKeyIn(%s, %s) = nil, want error", tt.key, tt.value)
		}
	}
	if _, err := os.Stat(b.path); !os.IsNotExist(err) {
		t.Error("rejected values were written to disk")
	}
}

func TestShowAllAndValidKeys(t *testing.T) {
	cfg := defaults()
	infos := ShowAll(cfg)
	keys := ValidKeys()
	if len(infos) != len(keys) {
		t.Fatalf("ShowAll has %d entries, ValidKeys %d", len(infos), len(keys))
	}
	for i, info := range infos {
		if info.Key != keys[i] {
			t.Errorf("entry %d: %q vs %q", i, info.Key, keys[i])
		}
		if !strings.HasPrefix(info.EnvVar, "COCKPIT_") {
			t.Errorf("%s: env var %q lacks prefix", info.Key, info.EnvVar)
		}
	}
	if infos[0].Key != "server.port" || infos[0].Value != "4100" {
		t.Errorf("first entry = %+v", infos[0])
	}
}

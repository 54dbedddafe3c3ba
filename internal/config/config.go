// Package config loads cockpit settings from defaults, the YAML config file
// and COCKPIT_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/cockpit/internal/catalog"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Session SessionConfig
	Export  ExportConfig
	Render  RenderConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type SessionConfig struct {
	TTL time.Duration
}

type ExportConfig struct {
	// FilenameBase is the download name without extension.
	FilenameBase string
}

type RenderConfig struct {
	DefaultLanguage string
}

func defaults() Config {
	return Config{
		Server:  ServerConfig{Port: 4100},
		Storage: StorageConfig{DataDir: defaultDataDir()},
		Log:     LogConfig{Level: "info"},
		Session: SessionConfig{TTL: 30 * time.Minute},
		Export:  ExportConfig{FilenameBase: "prompt_cockpit"},
		Render:  RenderConfig{DefaultLanguage: "de"},
	}
}

// Load reads the config file at FilePath and applies environment overrides.
func Load() (Config, error) {
	return LoadFrom(FilePath())
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (Config, error) {
	return loadWith(newFileBackend(path))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid config: session.ttl must be positive, got %s", c.Session.TTL)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid config: log.level %q (want debug, info, warn or error)", c.Log.Level)
	}
	if !catalog.ValidLanguage(c.Render.DefaultLanguage) {
		return fmt.Errorf("invalid config: render.default_language %q", c.Render.DefaultLanguage)
	}
	if strings.TrimSpace(c.Export.FilenameBase) == "" || strings.ContainsAny(c.Export.FilenameBase, `/\`) {
		return fmt.Errorf("invalid config: export.filename_base %q", c.Export.FilenameBase)
	}
	return nil
}

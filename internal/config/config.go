// Package config loads and validates the meshcam session config file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/meshcam/internal/protocol"
)

// SessionConfig is the on-disk shape of meshcam.toml.
type SessionConfig struct {
	Username    string   `toml:"username"`
	Connect     string   `toml:"connect"`
	Listen      string   `toml:"listen"`
	FramePath   string   `toml:"frame_path"`
	AdminAddr   string   `toml:"admin_addr"`
	CorsOrigins []string `toml:"cors_origins"`

	FrameInterval  string `toml:"frame_interval"`
	RenderInterval string `toml:"render_interval"`
}

func LoadSessionConfig(path string) (SessionConfig, error) {
	var cfg SessionConfig
	if err := loadToml(path, &cfg); err != nil {
		return SessionConfig{}, err
	}
	if cfg.Listen == "" {
		cfg.Listen = fmt.Sprintf(":%d", protocol.DefaultPort)
	}
	if err := ValidateSessionConfig(cfg); err != nil {
		return SessionConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateSessionConfig(cfg SessionConfig) error {
	name := strings.TrimSpace(cfg.Username)
	if name == "" {
		return fmt.Errorf("session config missing username")
	}
	if len(name) > protocol.MaxUsername-1 {
		return fmt.Errorf("session config username exceeds %d bytes", protocol.MaxUsername-1)
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return fmt.Errorf("session config missing listen addr")
	}
	for _, raw := range []string{cfg.FrameInterval, cfg.RenderInterval} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("session config bad interval %q: %w", raw, err)
		}
	}
	return nil
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/meshcam/internal/app"
)

type fileConfig struct {
	Username       string   `toml:"username"`
	Connect        string   `toml:"connect"`
	Listen         string   `toml:"listen"`
	FramePath      string   `toml:"frame_path"`
	AdminAddr      string   `toml:"admin_addr"`
	CorsOrigins    []string `toml:"cors_origins"`
	FrameInterval  string   `toml:"frame_interval"`
	RenderInterval string   `toml:"render_interval"`
}

// loadSessionConfig overlays file values onto defaults; only keys present
// in the file take effect.
func loadSessionConfig(path string) (app.Config, error) {
	cfg := app.Config{}.WithDefaults()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return app.Config{}, fmt.Errorf("load session config: %w", err)
	}

	if meta.IsDefined("username") {
		cfg.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("connect") {
		cfg.ConnectAddr = strings.TrimSpace(raw.Connect)
	}
	if meta.IsDefined("listen") {
		if addr := strings.TrimSpace(raw.Listen); addr != "" {
			cfg.ListenAddr = addr
		}
	}
	if meta.IsDefined("frame_path") {
		cfg.FramePath = strings.TrimSpace(raw.FramePath)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}

	if meta.IsDefined("frame_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.FrameInterval))
		if err != nil {
			return app.Config{}, fmt.Errorf("parse frame_interval: %w", err)
		}
		cfg.FrameInterval = d
	}
	if meta.IsDefined("render_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RenderInterval))
		if err != nil {
			return app.Config{}, fmt.Errorf("parse render_interval: %w", err)
		}
		cfg.RenderInterval = d
	}

	return cfg, nil
}

// Package config handles texpaint configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all editor settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Painter PainterConfig `yaml:"painter"`
	Plan    PlanConfig    `yaml:"plan"`
	Assets  AssetsConfig  `yaml:"assets"`
	Model   ModelConfig   `yaml:"model"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// PainterConfig holds texture painter defaults.
type PainterConfig struct {
	DefaultResolution int     `yaml:"default_resolution"`
	HistoryDepth      int     `yaml:"history_depth"`
	UVOpacity         float64 `yaml:"uv_opacity"`
	ZoomSensitivity   float64 `yaml:"zoom_sensitivity"`
	BrushSize         float64 `yaml:"brush_size"`
	BrushColor        string  `yaml:"brush_color"`
	ExportDir         string  `yaml:"export_dir"`
}

// PlanConfig holds the subscription tier that caps texture resolution.
type PlanConfig struct {
	Tier string `yaml:"tier"` // free, premium or studio
}

// AssetsConfig holds asset source settings.
type AssetsConfig struct {
	Root        string        `yaml:"root"` // directory or http(s) base URL
	UVBucket    string        `yaml:"uv_bucket"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// ModelConfig describes the model loaded into the editor.
type ModelConfig struct {
	Base     BaseConfig       `yaml:"base"`
	Clothing []ClothingConfig `yaml:"clothing"`
}

// BaseConfig describes the base mesh.
type BaseConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	UVMap string `yaml:"uv_map"`
}

// ClothingConfig describes one equipped clothing item.
type ClothingConfig struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Domain string `yaml:"domain"`
	UVMap  string `yaml:"uv_map"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Plan tiers.
const (
	TierFree    = "free"
	TierPremium = "premium"
	TierStudio  = "studio"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 800,
			VSync:  true,
		},
		Painter: PainterConfig{
			DefaultResolution: 1024,
			HistoryDepth:      20,
			UVOpacity:         0.25,
			ZoomSensitivity:   0.001,
			BrushSize:         10,
			BrushColor:        "#ffffff",
			ExportDir:         "exports",
		},
		Plan: PlanConfig{
			Tier: TierFree,
		},
		Assets: AssetsConfig{
			Root:        "assets",
			UVBucket:    "uvmaps",
			HTTPTimeout: 15 * time.Second,
		},
		Model: ModelConfig{
			Base: BaseConfig{
				ID:    "base_mesh",
				Label: "Skin",
				UVMap: "base_uv.png",
			},
			Clothing: []ClothingConfig{
				{ID: "shirt", Label: "Shirt", Domain: "fabric", UVMap: "shirt_uv.png"},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	switch c.Plan.Tier {
	case TierFree, TierPremium, TierStudio:
	default:
		errs = append(errs, fmt.Errorf("plan.tier: unknown tier %q", c.Plan.Tier))
	}

	switch c.Painter.DefaultResolution {
	case 1024, 2048, 4096:
	default:
		errs = append(errs, fmt.Errorf("painter.default_resolution: unsupported %d", c.Painter.DefaultResolution))
	}

	if c.Painter.HistoryDepth < 1 {
		errs = append(errs, fmt.Errorf("painter.history_depth: must be positive, got %d", c.Painter.HistoryDepth))
	}
	if c.Painter.UVOpacity < 0 || c.Painter.UVOpacity > 1 {
		errs = append(errs, fmt.Errorf("painter.uv_opacity: must be within [0,1], got %g", c.Painter.UVOpacity))
	}
	if c.Painter.ZoomSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("painter.zoom_sensitivity: must be positive, got %g", c.Painter.ZoomSensitivity))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}

	seen := map[string]bool{}
	for i, item := range c.Model.Clothing {
		if item.ID == "" {
			errs = append(errs, fmt.Errorf("model.clothing[%d]: missing id", i))
			continue
		}
		if seen[item.ID] {
			errs = append(errs, fmt.Errorf("model.clothing[%d]: duplicate id %q", i, item.ID))
		}
		seen[item.ID] = true
	}

	return errors.Join(errs...)
}

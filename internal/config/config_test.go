package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 800 {
		t.Errorf("expected height 800, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Painter.DefaultResolution != 1024 {
		t.Errorf("expected resolution 1024, got %d", cfg.Painter.DefaultResolution)
	}
	if cfg.Painter.HistoryDepth != 20 {
		t.Errorf("expected history depth 20, got %d", cfg.Painter.HistoryDepth)
	}
	if cfg.Painter.UVOpacity != 0.25 {
		t.Errorf("expected uv opacity 0.25, got %f", cfg.Painter.UVOpacity)
	}
	if cfg.Painter.BrushColor != "#ffffff" {
		t.Errorf("expected brush color #ffffff, got %s", cfg.Painter.BrushColor)
	}

	if cfg.Plan.Tier != TierFree {
		t.Errorf("expected free tier, got %s", cfg.Plan.Tier)
	}
	if cfg.Assets.HTTPTimeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.Assets.HTTPTimeout)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

painter:
  default_resolution: 2048
  history_depth: 30
  uv_opacity: 0.5
  brush_color: "#ff0000"

plan:
  tier: studio

assets:
  root: "https://assets.example.com"
  http_timeout: 5s

model:
  base:
    id: lowpoly_female
    uv_map: female_uv.png
  clothing:
    - id: jacket
      domain: leather
      uv_map: jacket_uv.png

logging:
  level: "debug"
  log_file: "texpaint.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Painter.DefaultResolution != 2048 {
		t.Errorf("expected resolution 2048, got %d", cfg.Painter.DefaultResolution)
	}
	if cfg.Painter.ZoomSensitivity != 0.001 {
		t.Errorf("expected zoom sensitivity to keep its default, got %f", cfg.Painter.ZoomSensitivity)
	}
	if cfg.Plan.Tier != TierStudio {
		t.Errorf("expected studio tier, got %s", cfg.Plan.Tier)
	}
	if cfg.Assets.HTTPTimeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Assets.HTTPTimeout)
	}
	if cfg.Assets.UVBucket != "uvmaps" {
		t.Errorf("expected default uv bucket, got %s", cfg.Assets.UVBucket)
	}
	if cfg.Model.Base.ID != "lowpoly_female" {
		t.Errorf("expected base lowpoly_female, got %s", cfg.Model.Base.ID)
	}
	if len(cfg.Model.Clothing) != 1 || cfg.Model.Clothing[0].ID != "jacket" {
		t.Errorf("expected clothing list to be replaced, got %+v", cfg.Model.Clothing)
	}
	if cfg.Logging.LogFile != "texpaint.log" {
		t.Errorf("expected log file 'texpaint.log', got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loaded config to validate, got %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid syntax", "window:\n  width: not a number\n  invalid syntax here\n"},
		{"unknown key", "painter:\n  brush_hardness: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if err := LoadFile(Default(), path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if err := LoadFile(Default(), "/nonexistent/path/texpaint.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("expected empty file to load, got %v", err)
	}
	if cfg.Painter.DefaultResolution != 1024 {
		t.Errorf("expected defaults to survive, got %d", cfg.Painter.DefaultResolution)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"unknown tier", func(c *Config) { c.Plan.Tier = "gold" }, "plan.tier"},
		{"bad resolution", func(c *Config) { c.Painter.DefaultResolution = 1000 }, "default_resolution"},
		{"zero history", func(c *Config) { c.Painter.HistoryDepth = 0 }, "history_depth"},
		{"uv opacity", func(c *Config) { c.Painter.UVOpacity = 1.5 }, "uv_opacity"},
		{"zoom sensitivity", func(c *Config) { c.Painter.ZoomSensitivity = 0 }, "zoom_sensitivity"},
		{"window size", func(c *Config) { c.Window.Width = 0 }, "window"},
		{"missing clothing id", func(c *Config) { c.Model.Clothing = []ClothingConfig{{}} }, "missing id"},
		{"duplicate clothing", func(c *Config) {
			c.Model.Clothing = []ClothingConfig{{ID: "a"}, {ID: "a"}}
		}, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "plan flag",
			setup: func() { *flagPlan = TierPremium },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Plan.Tier != TierPremium {
					t.Errorf("expected premium tier, got %s", cfg.Plan.Tier)
				}
			},
			teardown: func() { *flagPlan = "" },
		},
		{
			name:  "resolution flag",
			setup: func() { *flagResolution = 4096 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Painter.DefaultResolution != 4096 {
					t.Errorf("expected resolution 4096, got %d", cfg.Painter.DefaultResolution)
				}
			},
			teardown: func() { *flagResolution = 0 },
		},
		{
			name:  "assets flag",
			setup: func() { *flagAssets = "/srv/assets" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.Root != "/srv/assets" {
					t.Errorf("expected assets root /srv/assets, got %s", cfg.Assets.Root)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("plan:\n  tier: gold\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid tier to fail Load")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Plan.Tier = TierPremium
	cfg.Painter.BrushSize = 32
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := LoadFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Plan.Tier != TierPremium || loaded.Painter.BrushSize != 32 {
		t.Errorf("expected saved values, got tier %s brush %f", loaded.Plan.Tier, loaded.Painter.BrushSize)
	}
}

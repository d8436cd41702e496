package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 640 {
		t.Errorf("expected width 640, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 480 {
		t.Errorf("expected height 480, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if !cfg.Render.ShadowsEnabled {
		t.Error("expected shadows to be enabled by default")
	}
	if cfg.Render.ShadowResolution != 1024 {
		t.Errorf("expected shadow resolution 1024, got %d", cfg.Render.ShadowResolution)
	}
	if cfg.Render.ClearColor != "#028058" {
		t.Errorf("expected clear color #028058, got %s", cfg.Render.ClearColor)
	}

	if cfg.Assets.ShaderDir != "" {
		t.Errorf("expected embedded shaders by default, got %s", cfg.Assets.ShaderDir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

render:
  shadows_enabled: false
  shadow_resolution: 2048
  clear_color: "#ff0000"
  fov: 60

assets:
  root: "/data"
  shader_dir: "shaders"
  skybox: [a.png, b.png, c.png, d.png, e.png, f.png]

logging:
  level: "debug"
  log_file: "viewer.log"

debug:
  screenshot_dir: "shots"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Render.ShadowsEnabled {
		t.Error("expected shadows to be disabled")
	}
	if cfg.Render.ShadowResolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Render.ShadowResolution)
	}
	if cfg.Render.FOV != 60 {
		t.Errorf("expected fov 60, got %v", cfg.Render.FOV)
	}
	// Untouched keys keep their defaults.
	if cfg.Render.Far != 1000 {
		t.Errorf("expected far 1000 from defaults, got %v", cfg.Render.Far)
	}
	if cfg.Assets.Skybox[5] != "f.png" {
		t.Errorf("expected last skybox face f.png, got %s", cfg.Assets.Skybox[5])
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Debug.ScreenshotDir != "shots" {
		t.Errorf("expected screenshot dir 'shots', got %s", cfg.Debug.ScreenshotDir)
	}
	if rgb := cfg.ClearRGB(); rgb != [3]float32{1, 0, 0} {
		t.Errorf("expected red clear color, got %v", rgb)
	}
}

func TestLoadFromTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	tomlContent := `
[graphics]
width = 800
height = 600

[render]
shadows_enabled = false
near = 0.5

[assets]
watch_shaders = true
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 800 || cfg.Graphics.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Render.ShadowsEnabled {
		t.Error("expected shadows to be disabled")
	}
	if cfg.Render.Near != 0.5 {
		t.Errorf("expected near 0.5, got %v", cfg.Render.Near)
	}
	if !cfg.Assets.WatchShaders {
		t.Error("expected watch_shaders to be true")
	}
	if cfg.Render.ClearColor != "#028058" {
		t.Errorf("expected default clear color, got %s", cfg.Render.ClearColor)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"negative height", func(c *Config) { c.Graphics.Height = -1 }},
		{"zero shadow resolution", func(c *Config) { c.Render.ShadowResolution = 0 }},
		{"bad clear color", func(c *Config) { c.Render.ClearColor = "#zzzzzz" }},
		{"empty clear color", func(c *Config) { c.Render.ClearColor = "" }},
		{"far before near", func(c *Config) { c.Render.Far = 0.05 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Graphics.Width = 1024
			cfg.Render.ShadowsEnabled = false
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}

			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if loaded.Graphics.Width != 1024 || loaded.Render.ShadowsEnabled {
				t.Errorf("saved values not restored: %+v", loaded.Graphics)
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
	t.Setenv("HOME", tmpDir)

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[graphics]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.toml in current directory")
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
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
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
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "no-shadows flag",
			setup: func() { *flagNoShadows = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.ShadowsEnabled {
					t.Error("expected shadows disabled with no-shadows flag")
				}
			},
			teardown: func() { *flagNoShadows = false },
		},
		{
			name:  "shaders flag",
			setup: func() { *flagShaders = "dev/shaders" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.ShaderDir != "dev/shaders" || !cfg.Assets.WatchShaders {
					t.Errorf("expected watched shader dir, got %q watch=%v", cfg.Assets.ShaderDir, cfg.Assets.WatchShaders)
				}
			},
			teardown: func() { *flagShaders = "" },
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
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
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

	// Flag beats file
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  clear_color: \"nope\"\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

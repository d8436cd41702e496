// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/shadowbox/pkg/colors"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Render   RenderConfig   `yaml:"render" toml:"render"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Debug    DebugConfig    `yaml:"debug" toml:"debug"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	Title      string `yaml:"title" toml:"title"`
}

// RenderConfig holds renderer settings.
type RenderConfig struct {
	ShadowsEnabled   bool    `yaml:"shadows_enabled" toml:"shadows_enabled"`
	ShadowResolution int     `yaml:"shadow_resolution" toml:"shadow_resolution"`
	ClearColor       string  `yaml:"clear_color" toml:"clear_color"` // "#rrggbb"
	FOV              float32 `yaml:"fov" toml:"fov"`                 // degrees
	Near             float32 `yaml:"near" toml:"near"`
	Far              float32 `yaml:"far" toml:"far"`
}

// AssetsConfig holds asset locations. Relative dirs resolve against Root.
type AssetsConfig struct {
	Root         string    `yaml:"root" toml:"root"`
	ModelDir     string    `yaml:"model_dir" toml:"model_dir"`
	TextureDir   string    `yaml:"texture_dir" toml:"texture_dir"`
	ShaderDir    string    `yaml:"shader_dir" toml:"shader_dir"` // empty uses the embedded shaders
	Skybox       [6]string `yaml:"skybox" toml:"skybox"`         // +X, -X, +Y, -Y, +Z, -Z
	FlipTextures bool      `yaml:"flip_textures" toml:"flip_textures"`
	WatchShaders bool      `yaml:"watch_shaders" toml:"watch_shaders"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  640,
			Height: 480,
			VSync:  true,
			Title:  "shadowbox",
		},
		Render: RenderConfig{
			ShadowsEnabled:   true,
			ShadowResolution: 1024,
			ClearColor:       "#028058",
			FOV:              45,
			Near:             0.1,
			Far:              1000,
		},
		Assets: AssetsConfig{
			Root:       ".",
			ModelDir:   "models",
			TextureDir: "gfx",
			Skybox: [6]string{
				"gfx/sky_front.png",
				"gfx/sky_back.png",
				"gfx/sky_left.png",
				"gfx/sky_right.png",
				"gfx/sky_top.png",
				"gfx/sky_bottom.png",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
	}
}

// Validate rejects settings the renderer cannot start with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	if c.Render.ShadowResolution <= 0 {
		return fmt.Errorf("%w: shadow resolution %d", ErrInvalid, c.Render.ShadowResolution)
	}
	if _, err := colors.HexToRGB(c.Render.ClearColor); err != nil {
		return fmt.Errorf("%w: clear color: %v", ErrInvalid, err)
	}
	if c.Render.Near <= 0 || c.Render.Far <= c.Render.Near {
		return fmt.Errorf("%w: depth range %v..%v", ErrInvalid, c.Render.Near, c.Render.Far)
	}
	return nil
}

// ClearRGB returns the parsed clear colour. Call after Validate.
func (c *Config) ClearRGB() [3]float32 {
	rgb, err := colors.HexToRGB(c.Render.ClearColor)
	if err != nil {
		return colors.MustHexToRGB("#028058")
	}
	return rgb
}

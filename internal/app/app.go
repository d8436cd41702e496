// Package app implements the viewer's main loop.
package app

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/assets"
	"github.com/Faultbox/shadowbox/internal/config"
	"github.com/Faultbox/shadowbox/internal/engine/debug"
	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/gpu/glcore"
	"github.com/Faultbox/shadowbox/internal/engine/input"
	"github.com/Faultbox/shadowbox/internal/engine/render"
	"github.com/Faultbox/shadowbox/internal/engine/scene"
	"github.com/Faultbox/shadowbox/internal/engine/shader"
	"github.com/Faultbox/shadowbox/internal/engine/window"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Movement tuning at dt = 1 (one 60 Hz frame).
const (
	MoveSpeed        = 0.1
	MouseSensitivity = 0.1 // degrees per pixel
	frameTime        = time.Second / 60
)

// Surface is the presentation target the viewer draws into.
type Surface interface {
	SwapBuffers()
	DrawableSize() (int, int)
}

// Viewer is the running application.
type Viewer struct {
	cfg     *config.Config
	win     *window.Window
	surface Surface
	dev     gpu.Device
	files   *assets.Manager
	engine  *render.Engine
	scene   *scene.Scene
	input   *input.Input
	watcher *shader.Watcher
	shots   *debug.ScreenshotCapture
	log     *zap.Logger
	running bool
}

// New opens the window and loads everything the viewer draws.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Graphics.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Window first: the GL context must exist before any GPU call.
	win, err := window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dev, err := glcore.New()
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	v, err := newViewer(cfg, dev, win)
	if err != nil {
		win.Close()
		return nil, err
	}
	v.win = win
	win.SetRelativeMouse(true)

	logger.Info("viewer initialized successfully")
	return v, nil
}

// newViewer wires the engine, scene and watcher onto an existing device.
func newViewer(cfg *config.Config, dev gpu.Device, surface Surface) (*Viewer, error) {
	files, err := NewManager(cfg.Assets)
	if err != nil {
		return nil, fmt.Errorf("asset root: %w", err)
	}

	a, err := LoadAssets(dev, files, cfg.Assets)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	width, height := surface.DrawableSize()
	rc := render.Config{
		Width:            int32(width),
		Height:           int32(height),
		ShadowsEnabled:   cfg.Render.ShadowsEnabled,
		ShadowResolution: int32(cfg.Render.ShadowResolution),
		ClearColor:       cfg.ClearRGB(),
		FOV:              cfg.Render.FOV,
		Near:             cfg.Render.Near,
		Far:              cfg.Render.Far,
	}
	engine, err := render.New(dev, rc, a)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v := &Viewer{
		cfg:     cfg,
		surface: surface,
		dev:     dev,
		files:   files,
		engine:  engine,
		scene:   scene.Default(),
		input:   input.New(),
		shots:   debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "shadowbox"),
		log:     logger.Named("app"),
	}

	if cfg.Assets.WatchShaders && cfg.Assets.ShaderDir != "" {
		v.watcher, err = shader.Watch(cfg.Assets.ShaderDir)
		if err != nil {
			// Reload by key still works.
			v.log.Warn("shader watch disabled", zap.String("dir", cfg.Assets.ShaderDir), zap.Error(err))
		}
	}
	return v, nil
}

// Run starts the main loop. It returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime)) / float32(frameTime)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}

		if err := v.step(dt); err != nil {
			return err
		}
		v.surface.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if v.win != nil {
				v.win.SetTitle(fmt.Sprintf("%s - %d fps", v.cfg.Graphics.Title, frameCount))
			}
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// step handles this frame's input, advances the scene and draws it.
func (v *Viewer) step(dt float32) error {
	for _, event := range v.input.Events() {
		if event.Type == input.EventWindowResize {
			if err := v.resize(); err != nil {
				return err
			}
		}
	}

	if v.input.IsKeyPressed(input.KeyToggleShadows) {
		v.engine.ToggleShadows()
	}
	if v.input.IsKeyPressed(input.KeyReloadShaders) {
		v.reloadShaders()
	}
	if v.watcher != nil {
		select {
		case <-v.watcher.Changed():
			v.reloadShaders()
		default:
		}
	}

	v.applyMovement(dt)
	v.scene.Update(dt)

	if err := v.engine.Render(render.Frame{
		Camera:      v.scene.Player,
		Renderables: v.scene.Entities,
		Lights:      v.scene.Lights,
	}); err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	// Read back after drawing so the shot holds this frame.
	if v.input.IsKeyPressed(input.KeyScreenshot) {
		w, h := v.engine.Size()
		name, err := v.shots.Capture(v.dev, int(w), int(h))
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
		} else {
			v.log.Info("screenshot saved", zap.String("path", name))
		}
	}
	return nil
}

func (v *Viewer) applyMovement(dt float32) {
	if d := v.input.Movement(); d != [3]float32{} {
		v.scene.MovePlayer(mgl32.Vec3(d).Normalize().Mul(MoveSpeed * dt))
	}
	if dx, dy := v.input.MouseDelta(); dx != 0 || dy != 0 {
		v.scene.SpinPlayer(mgl32.Vec3{0, -float32(dy) * MouseSensitivity, -float32(dx) * MouseSensitivity})
	}
}

func (v *Viewer) resize() error {
	w, h := v.surface.DrawableSize()
	if err := v.engine.Resize(int32(w), int32(h)); err != nil {
		return fmt.Errorf("resize to %dx%d: %w", w, h, err)
	}
	return nil
}

// reloadShaders keeps the previous programs on failure; the engine logs
// the outcome.
func (v *Viewer) reloadShaders() {
	_ = v.engine.ReloadShaders()
}

// Close releases every resource.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.engine != nil {
		v.engine.Destroy()
	}
	if v.files != nil {
		v.files.Close()
	}
	if v.win != nil {
		v.win.Close()
	}
}

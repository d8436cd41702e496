// Package render draws a scene in four passes: shadow depth, lit main,
// emissive light glyphs and skybox.
package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/lighting"
	"github.com/Faultbox/shadowbox/internal/engine/material"
	"github.com/Faultbox/shadowbox/internal/engine/mesh"
	"github.com/Faultbox/shadowbox/internal/engine/scene"
	"github.com/Faultbox/shadowbox/internal/engine/shader"
	"github.com/Faultbox/shadowbox/internal/engine/shadow"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// ErrMissingMesh is returned when an entity type has no mesh to draw with.
var ErrMissingMesh = errors.New("no mesh for entity type")

// Config contains renderer options.
type Config struct {
	Width            int32
	Height           int32
	ShadowsEnabled   bool
	ShadowResolution int32
	ClearColor       [3]float32
	FOV              float32 // degrees
	Near             float32
	Far              float32
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{
		Width:            640,
		Height:           480,
		ShadowsEnabled:   true,
		ShadowResolution: shadow.DefaultResolution,
		ClearColor:       [3]float32{2.0 / 255, 128.0 / 255, 88.0 / 255},
		FOV:              45,
		Near:             0.1,
		Far:              1000,
	}
}

// Assets are the meshes and materials drawn by the engine. The engine
// takes ownership and releases them in Destroy.
type Assets struct {
	Shaders   shader.Sources
	Meshes    map[scene.EntityType]mesh.Drawable
	Materials map[scene.EntityType]*material.Material
	// Skybox is optional; without it the skybox pass is skipped.
	Skybox *material.CubeMap
}

// Camera is the viewer of a frame.
type Camera interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
}

// Frame is the scene state drawn by one Render call.
type Frame struct {
	Camera      Camera
	Renderables map[scene.EntityType][]scene.Entity
	Lights      []*scene.PointLight
}

// programNames lists the programs in compile order.
var programNames = []string{shader.Standard, shader.Emissive, shader.Shadow, shader.Skybox}

// Engine owns every GPU resource needed to draw a frame.
// All methods must be called on the thread owning the graphics context.
type Engine struct {
	dev gpu.Device
	cfg Config

	width, height  int32
	shadowsEnabled bool
	projection     mgl32.Mat4

	sources    shader.Sources
	programs   map[string]*shader.Program
	meshes     map[scene.EntityType]mesh.Drawable
	materials  map[scene.EntityType]*material.Material
	skybox     *material.CubeMap
	skyboxMesh *mesh.Mesh
	shadowMap  *shadow.Map
	lights     *lighting.PointLightBuffer

	log          *zap.Logger
	warnedTypes  map[scene.EntityType]bool
	warnedLights bool
}

// New compiles the programs, caches their uniform locations and creates
// the shadow map. On error everything created so far, assets included,
// is released.
func New(dev gpu.Device, cfg Config, assets Assets) (_ *Engine, err error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultConfig().Width, DefaultConfig().Height
	}
	if cfg.FOV <= 0 {
		cfg.FOV = DefaultConfig().FOV
	}
	if cfg.Near <= 0 || cfg.Far <= cfg.Near {
		cfg.Near, cfg.Far = DefaultConfig().Near, DefaultConfig().Far
	}

	e := &Engine{
		dev:            dev,
		cfg:            cfg,
		width:          cfg.Width,
		height:         cfg.Height,
		shadowsEnabled: cfg.ShadowsEnabled,
		sources:        assets.Shaders,
		meshes:         assets.Meshes,
		materials:      assets.Materials,
		skybox:         assets.Skybox,
		lights:         lighting.NewPointLightBuffer(),
		log:            logger.Named("render"),
		warnedTypes:    make(map[scene.EntityType]bool),
	}
	if e.meshes == nil {
		e.meshes = make(map[scene.EntityType]mesh.Drawable)
	}
	if e.materials == nil {
		e.materials = make(map[scene.EntityType]*material.Material)
	}
	defer func() {
		if err != nil {
			e.Destroy()
		}
	}()

	dev.SetClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], 1)
	dev.Viewport(0, 0, e.width, e.height)

	if e.programs, err = e.buildPrograms(); err != nil {
		return nil, err
	}
	e.updateProjection()

	if e.shadowMap, err = shadow.NewMap(dev, cfg.ShadowResolution); err != nil {
		return nil, fmt.Errorf("create shadow map: %w", err)
	}
	if e.skyboxMesh, err = mesh.NewSkyboxCube(dev); err != nil {
		return nil, fmt.Errorf("create skybox cube: %w", err)
	}

	e.log.Info("renderer ready",
		zap.Int32("width", e.width),
		zap.Int32("height", e.height),
		zap.Bool("shadows", e.shadowsEnabled),
		zap.Int32("shadowResolution", e.shadowMap.Resolution()),
	)
	return e, nil
}

// buildPrograms compiles every program, caches its uniform locations and
// uploads the uniforms that never change. Projection is uploaded separately.
func (e *Engine) buildPrograms() (map[string]*shader.Program, error) {
	programs := make(map[string]*shader.Program, len(programNames))
	for _, name := range programNames {
		src, err := e.sources.Load(name)
		if err != nil {
			destroyPrograms(programs)
			return nil, err
		}
		p, err := shader.NewProgram(e.dev, src)
		if err != nil {
			destroyPrograms(programs)
			return nil, err
		}
		programs[name] = p
	}

	std := programs[shader.Standard]
	std.Use()
	for _, u := range []shader.Uniform{
		shader.Model, shader.View, shader.Projection, shader.CameraPos,
		shader.LightMatrix, shader.ShadowMap, shader.ShadowsEnabled, shader.ImageTexture,
	} {
		std.CacheSingle(u, u.Name())
	}
	lighting.CacheLocations(std)
	std.SetInt(shader.ImageTexture, int32(gpu.UnitDiffuse))
	std.SetInt(shader.ShadowMap, int32(gpu.UnitShadow))

	em := programs[shader.Emissive]
	em.Use()
	for _, u := range []shader.Uniform{shader.Model, shader.View, shader.Projection, shader.Tint, shader.ImageTexture} {
		em.CacheSingle(u, u.Name())
	}
	em.SetInt(shader.ImageTexture, int32(gpu.UnitDiffuse))

	sh := programs[shader.Shadow]
	sh.Use()
	for _, u := range []shader.Uniform{shader.Model, shader.LightMatrix, shader.Projection} {
		sh.CacheSingle(u, u.Name())
	}

	sky := programs[shader.Skybox]
	sky.Use()
	for _, u := range []shader.Uniform{shader.View, shader.Projection, shader.SkyboxTexture} {
		sky.CacheSingle(u, u.Name())
	}
	sky.SetInt(shader.SkyboxTexture, int32(gpu.UnitDiffuse))

	return programs, nil
}

func destroyPrograms(programs map[string]*shader.Program) {
	for _, p := range programs {
		p.Destroy()
	}
}

// updateProjection uploads the perspective transform to every program
// that declares a projection uniform.
func (e *Engine) updateProjection() {
	aspect := float32(e.width) / float32(e.height)
	e.projection = mgl32.Perspective(mgl32.DegToRad(e.cfg.FOV), aspect, e.cfg.Near, e.cfg.Far)

	for _, name := range programNames {
		p := e.programs[name]
		if p.FetchSingle(shader.Projection) == -1 {
			continue
		}
		p.Use()
		p.SetMat4(shader.Projection, e.projection)
	}
}

// Render draws one frame. A renderable type without a mesh aborts the
// frame before anything is drawn.
func (e *Engine) Render(f Frame) error {
	types := sortedTypes(f.Renderables)
	for _, t := range types {
		if _, ok := e.meshes[t]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingMesh, t)
		}
	}
	if len(f.Lights) > 0 {
		if _, ok := e.meshes[scene.TypePointLight]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingMesh, scene.TypePointLight)
		}
	}

	view := f.Camera.ViewMatrix()

	lightMatrix := mgl32.Ident4()
	shadowed := e.shadowsEnabled && len(f.Lights) > 0
	if shadowed {
		lightMatrix = e.shadowPass(f, types)
	}
	e.mainPass(f, types, view, lightMatrix, shadowed)
	e.emissivePass(f.Lights, view)
	e.skyboxPass(view)

	e.dev.Flush()
	return nil
}

func (e *Engine) shadowPass(f Frame, types []scene.EntityType) mgl32.Mat4 {
	lightMatrix := shadow.LightSpaceMatrix(f.Lights[0].Position)

	e.shadowMap.Bind()
	p := e.programs[shader.Shadow]
	p.Use()
	p.SetMat4(shader.LightMatrix, lightMatrix)

	for _, t := range types {
		m := e.meshes[t]
		m.Arm()
		for _, ent := range f.Renderables[t] {
			p.SetMat4(shader.Model, ent.ModelMatrix())
			m.Draw(false)
		}
	}

	e.shadowMap.Unbind(e.width, e.height)
	return lightMatrix
}

func (e *Engine) mainPass(f Frame, types []scene.EntityType, view, lightMatrix mgl32.Mat4, shadowed bool) {
	e.dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	p := e.programs[shader.Standard]
	p.Use()
	p.SetBool(shader.ShadowsEnabled, shadowed)
	p.SetMat4(shader.LightMatrix, lightMatrix)
	e.shadowMap.BindTexture(gpu.UnitShadow)
	p.SetMat4(shader.View, view)
	p.SetVec3(shader.CameraPos, f.Camera.Position())

	e.lights.Clear()
	for _, l := range f.Lights {
		if !e.lights.AddLight(lighting.PointLight{Position: l.Position, Color: l.Color, Strength: l.Strength}) {
			if !e.warnedLights {
				e.log.Warn("too many lights, extra lights ignored",
					zap.Int("lights", len(f.Lights)), zap.Int("max", lighting.MaxPointLights))
				e.warnedLights = true
			}
			break
		}
	}
	e.lights.Upload(p)

	for _, t := range types {
		m := e.meshes[t]
		if !m.OwnsMaterials() {
			mat, ok := e.materials[t]
			if !ok {
				e.warnMissingMaterial(t)
				continue
			}
			mat.Use()
		}
		m.Arm()
		for _, ent := range f.Renderables[t] {
			p.SetMat4(shader.Model, ent.ModelMatrix())
			m.Draw(true)
		}
	}
}

func (e *Engine) emissivePass(lights []*scene.PointLight, view mgl32.Mat4) {
	p := e.programs[shader.Emissive]
	p.Use()
	p.SetMat4(shader.View, view)

	if len(lights) == 0 {
		return
	}
	mat, ok := e.materials[scene.TypePointLight]
	if !ok {
		e.warnMissingMaterial(scene.TypePointLight)
		return
	}
	m := e.meshes[scene.TypePointLight]

	mat.Use()
	m.Arm()
	for _, l := range lights {
		p.SetVec3(shader.Tint, l.Color)
		p.SetMat4(shader.Model, l.ModelMatrix())
		m.Draw(true)
	}
}

func (e *Engine) skyboxPass(view mgl32.Mat4) {
	if e.skybox == nil {
		return
	}

	e.dev.SetDepthFunc(gpu.DepthLessEqual)

	p := e.programs[shader.Skybox]
	p.Use()
	p.SetMat4(shader.View, view.Mat3().Mat4())
	p.SetMat4(shader.Projection, e.projection)

	e.skybox.Use()
	e.skyboxMesh.Arm()
	e.skyboxMesh.Draw(false)

	e.dev.SetDepthFunc(gpu.DepthLess)
}

func (e *Engine) warnMissingMaterial(t scene.EntityType) {
	if e.warnedTypes[t] {
		return
	}
	e.warnedTypes[t] = true
	e.log.Warn("no material for entity type, skipping", zap.Stringer("type", t))
}

func sortedTypes(r map[scene.EntityType][]scene.Entity) []scene.EntityType {
	types := make([]scene.EntityType, 0, len(r))
	for t := range r {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Resize updates the viewport and projection and recreates the shadow
// map. Zero sizes (a minimized window) are ignored. If the new shadow map
// cannot be created the engine is left unchanged.
func (e *Engine) Resize(width, height int32) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	sm, err := shadow.NewMap(e.dev, e.cfg.ShadowResolution)
	if err != nil {
		return fmt.Errorf("recreate shadow map: %w", err)
	}
	e.shadowMap.Destroy()
	e.shadowMap = sm

	e.width, e.height = width, height
	e.dev.Viewport(0, 0, width, height)
	e.updateProjection()

	e.log.Debug("resized", zap.Int32("width", width), zap.Int32("height", height))
	return nil
}

// ReloadShaders recompiles every program from source. If any program
// fails the previous programs stay in use and the error is returned.
func (e *Engine) ReloadShaders() error {
	programs, err := e.buildPrograms()
	if err != nil {
		e.log.Warn("shader reload failed, keeping previous programs", zap.Error(err))
		return err
	}
	destroyPrograms(e.programs)
	e.programs = programs
	e.updateProjection()
	e.log.Info("shaders reloaded")
	return nil
}

// SetShadowsEnabled turns the shadow pass on or off.
func (e *Engine) SetShadowsEnabled(enabled bool) {
	e.shadowsEnabled = enabled
}

// ToggleShadows flips the shadow pass and returns the new state.
func (e *Engine) ToggleShadows() bool {
	e.shadowsEnabled = !e.shadowsEnabled
	e.log.Info("shadows toggled", zap.Bool("enabled", e.shadowsEnabled))
	return e.shadowsEnabled
}

// ShadowsEnabled reports whether the shadow pass runs.
func (e *Engine) ShadowsEnabled() bool {
	return e.shadowsEnabled
}

// Projection returns the current perspective transform.
func (e *Engine) Projection() mgl32.Mat4 {
	return e.projection
}

// ShadowTarget returns the shadow framebuffer and depth texture handles.
func (e *Engine) ShadowTarget() gpu.DepthTarget {
	if e.shadowMap == nil {
		return gpu.DepthTarget{}
	}
	return e.shadowMap.Target()
}

// Program returns a compiled program by name, or nil.
func (e *Engine) Program(name string) *shader.Program {
	return e.programs[name]
}

// Size returns the window size the engine renders at.
func (e *Engine) Size() (width, height int32) {
	return e.width, e.height
}

// Destroy releases every mesh, material, program and framebuffer.
// Calling it again is a no-op.
func (e *Engine) Destroy() {
	for _, m := range e.meshes {
		m.Destroy()
	}
	e.meshes = nil
	for _, m := range e.materials {
		m.Destroy()
	}
	e.materials = nil
	destroyPrograms(e.programs)
	e.programs = nil

	if e.shadowMap != nil {
		e.shadowMap.Destroy()
		e.shadowMap = nil
	}
	if e.skybox != nil {
		e.skybox.Destroy()
		e.skybox = nil
	}
	if e.skyboxMesh != nil {
		e.skyboxMesh.Destroy()
		e.skyboxMesh = nil
	}
}

package app

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/assets"
	"github.com/Faultbox/shadowbox/internal/config"
	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/material"
	"github.com/Faultbox/shadowbox/internal/engine/mesh"
	"github.com/Faultbox/shadowbox/internal/engine/render"
	"github.com/Faultbox/shadowbox/internal/engine/scene"
	"github.com/Faultbox/shadowbox/internal/engine/shader"
	"github.com/Faultbox/shadowbox/internal/engine/texture"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Asset names relative to the configured directories.
const (
	ModelFile   = "assembler.obj"
	MedkitFile  = "medkit.png"
	BulbFile    = "Light-bulb.png"
	medkitW     = 0.6
	medkitH     = 0.5
	lightGlyphW = 0.2
	lightGlyphH = 0.1
)

// NewManager returns an asset manager rooted at cfg.Assets.Root.
func NewManager(cfg config.AssetsConfig) (*assets.Manager, error) {
	m := assets.NewManager()
	if err := m.AddRoot(cfg.Root); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadAssets creates the meshes and materials of the demo scene. On
// failure everything created so far is released.
func LoadAssets(dev gpu.Device, files *assets.Manager, cfg config.AssetsConfig) (_ render.Assets, err error) {
	images := texture.NewProvider(files.Load)
	images.FlipVertical = cfg.FlipTextures
	textures := material.NewLibrary(dev, images, cfg.TextureDir)

	a := render.Assets{
		Shaders:   shader.Sources{Dir: cfg.ShaderDir},
		Meshes:    make(map[scene.EntityType]mesh.Drawable),
		Materials: make(map[scene.EntityType]*material.Material),
	}
	defer func() {
		if err != nil {
			releaseAssets(a)
		}
	}()

	modelPath, err := files.Path(filepath.Join(cfg.ModelDir, ModelFile))
	if err != nil {
		return a, err
	}
	model, err := mesh.LoadMultiMaterial(dev, modelPath, textures)
	if err != nil {
		return a, fmt.Errorf("loading model: %w", err)
	}
	a.Meshes[scene.TypeCube] = model

	if err := addBillboard(dev, textures, a, scene.TypeMedkit, medkitW, medkitH, MedkitFile); err != nil {
		return a, err
	}
	if err := addBillboard(dev, textures, a, scene.TypePointLight, lightGlyphW, lightGlyphH, BulbFile); err != nil {
		return a, err
	}

	a.Skybox = loadSkybox(dev, images, cfg.Skybox)
	return a, nil
}

// addBillboard registers a textured w x h rect for t.
func addBillboard(dev gpu.Device, textures *material.Library, a render.Assets, t scene.EntityType, w, h float32, image string) error {
	rect, err := mesh.NewRect(dev, w, h)
	if err != nil {
		return fmt.Errorf("%s mesh: %w", t, err)
	}
	a.Meshes[t] = rect

	mat, err := textures.Texture(image)
	if err != nil {
		return fmt.Errorf("%s material: %w", t, err)
	}
	a.Materials[t] = mat
	return nil
}

// loadSkybox returns nil when any face is unavailable; the viewer then
// runs without a skybox.
func loadSkybox(dev gpu.Device, images material.ImageSource, faces [6]string) *material.CubeMap {
	for _, f := range faces {
		if f == "" {
			return nil
		}
	}
	sky, err := material.LoadCubeMap(dev, images, faces)
	if err != nil {
		logger.Warn("skybox disabled", zap.Error(err))
		return nil
	}
	return sky
}

func releaseAssets(a render.Assets) {
	for t, m := range a.Meshes {
		if m != nil {
			m.Destroy()
		}
		delete(a.Meshes, t)
	}
	for t, m := range a.Materials {
		if m != nil {
			m.Destroy()
		}
		delete(a.Materials, t)
	}
	if a.Skybox != nil {
		a.Skybox.Destroy()
	}
}

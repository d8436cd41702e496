// Package material owns the GPU textures that surfaces are shaded with.
package material

import (
	"fmt"
	"path/filepath"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/texture"
)

// White is the fallback surface color for groups with neither texture nor color.
var White = [3]float32{1, 1, 1}

// Material is a 2D texture bound to the diffuse unit while drawing.
type Material struct {
	dev gpu.Device
	tex uint32
}

// New uploads img as a texture.
func New(dev gpu.Device, img *texture.Image) (*Material, error) {
	tex, err := dev.CreateTexture2D(img)
	if err != nil {
		return nil, err
	}
	return &Material{dev: dev, tex: tex}, nil
}

// NewColor builds a flat-color material backed by a 1x1 texture.
func NewColor(dev gpu.Device, rgb [3]float32) (*Material, error) {
	return New(dev, texture.Solid(rgb))
}

// Use binds the texture to the diffuse unit.
func (m *Material) Use() {
	m.dev.BindTexture2D(gpu.UnitDiffuse, m.tex)
}

// Texture returns the GPU texture handle, 0 once destroyed.
func (m *Material) Texture() uint32 {
	return m.tex
}

// Destroy releases the texture. Calling it again is a no-op.
func (m *Material) Destroy() {
	if m.tex == 0 {
		return
	}
	m.dev.DeleteTexture(m.tex)
	m.tex = 0
}

// ImageSource decodes image files.
type ImageSource interface {
	Load(path string) (*texture.Image, error)
}

// Loader creates materials for mesh material groups.
type Loader interface {
	Texture(ref string) (*Material, error)
	Color(rgb [3]float32) (*Material, error)
}

// Library creates materials from files under Dir.
// Every call returns a new material owned by the caller.
type Library struct {
	Dev    gpu.Device
	Images ImageSource
	Dir    string
}

// NewLibrary returns a library resolving relative references against dir.
func NewLibrary(dev gpu.Device, images ImageSource, dir string) *Library {
	return &Library{Dev: dev, Images: images, Dir: dir}
}

// Resolve returns the path a texture reference is loaded from.
func (l *Library) Resolve(ref string) string {
	if filepath.IsAbs(ref) || l.Dir == "" {
		return ref
	}
	return filepath.Join(l.Dir, ref)
}

// Texture loads a texture material for ref.
func (l *Library) Texture(ref string) (*Material, error) {
	path := l.Resolve(ref)
	img, err := l.Images.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return New(l.Dev, img)
}

// Load loads a texture material from an already resolved path.
func (l *Library) Load(path string) (*Material, error) {
	img, err := l.Images.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return New(l.Dev, img)
}

// Color builds a flat-color material.
func (l *Library) Color(rgb [3]float32) (*Material, error) {
	return NewColor(l.Dev, rgb)
}

var _ Loader = (*Library)(nil)

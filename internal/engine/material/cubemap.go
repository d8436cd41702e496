package material

import (
	"fmt"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/texture"
)

// CubeMap is a six-faced texture sampled by the skybox.
// Face order is +X, -X, +Y, -Y, +Z, -Z.
type CubeMap struct {
	dev gpu.Device
	tex uint32
}

// NewCubeMap uploads six face images.
func NewCubeMap(dev gpu.Device, faces [6]*texture.Image) (*CubeMap, error) {
	tex, err := dev.CreateCubeMap(faces)
	if err != nil {
		return nil, err
	}
	return &CubeMap{dev: dev, tex: tex}, nil
}

// LoadCubeMap decodes the six face files and uploads them.
func LoadCubeMap(dev gpu.Device, images ImageSource, paths [6]string) (*CubeMap, error) {
	var faces [6]*texture.Image
	for i, p := range paths {
		img, err := images.Load(p)
		if err != nil {
			return nil, fmt.Errorf("load skybox face %d (%s): %w", i, p, err)
		}
		faces[i] = img
	}
	return NewCubeMap(dev, faces)
}

// Use binds the cube map to the diffuse unit.
func (c *CubeMap) Use() {
	c.dev.BindCubeMap(gpu.UnitDiffuse, c.tex)
}

// Texture returns the GPU texture handle, 0 once destroyed.
func (c *CubeMap) Texture() uint32 {
	return c.tex
}

// Destroy releases the texture. Calling it again is a no-op.
func (c *CubeMap) Destroy() {
	if c.tex == 0 {
		return
	}
	c.dev.DeleteTexture(c.tex)
	c.tex = 0
}

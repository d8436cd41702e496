package mesh

import (
	"github.com/Faultbox/shadowbox/internal/engine/gpu"
)

// NewRect builds a w x h quad in the YZ plane facing +X, used for billboards.
func NewRect(dev gpu.Device, w, h float32) (*Mesh, error) {
	hw, hh := w/2, h/2
	vertices := []float32{
		0, -hw, hh, 0, 0, 1, 0, 0,
		0, -hw, -hh, 0, 1, 1, 0, 0,
		0, hw, -hh, 1, 1, 1, 0, 0,

		0, -hw, hh, 0, 0, 1, 0, 0,
		0, hw, -hh, 1, 1, 1, 0, 0,
		0, hw, hh, 1, 0, 1, 0, 0,
	}
	return New(dev, vertices)
}

var skyboxVertices = []float32{
	// back
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,
	// left
	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,
	// right
	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,
	// front
	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,
	// top
	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,
	// bottom
	-1, -1, -1, -1, -1, 1, 1, -1, 1,
	1, -1, 1, 1, -1, -1, -1, -1, -1,
}

// NewSkyboxCube builds the position-only unit cube sampled by the skybox.
func NewSkyboxCube(dev gpu.Device) (*Mesh, error) {
	return newWithLayout(dev, skyboxVertices, gpu.PositionLayout)
}

// Package mesh owns GPU vertex buffers built from parsed geometry or
// generated procedurally.
package mesh

import (
	"fmt"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/pkg/formats"
)

// Drawable is anything the renderer can draw.
type Drawable interface {
	// Arm binds the vertex layout ahead of one or more Draw calls.
	Arm()
	// Draw issues the draw call. bindMaterials is ignored by meshes that
	// do not own materials.
	Draw(bindMaterials bool)
	// OwnsMaterials reports whether the mesh binds its own materials.
	OwnsMaterials() bool
	Destroy()
}

// Mesh is a single interleaved vertex buffer.
type Mesh struct {
	dev   gpu.Device
	va    gpu.VertexArray
	count int32

	texturePath string
}

// New uploads interleaved position/texcoord/normal vertices.
func New(dev gpu.Device, vertices []float32) (*Mesh, error) {
	return newWithLayout(dev, vertices, gpu.InterleavedLayout)
}

func newWithLayout(dev gpu.Device, vertices []float32, layout gpu.Layout) (*Mesh, error) {
	va, err := dev.CreateVertexArray(vertices, layout)
	if err != nil {
		return nil, err
	}
	return &Mesh{
		dev:   dev,
		va:    va,
		count: int32(len(vertices) / layout.FloatsPerVertex()),
	}, nil
}

// LoadOBJ loads a single-material geometry file.
func LoadOBJ(dev gpu.Device, path string) (*Mesh, error) {
	data, err := formats.LoadMesh(path)
	if err != nil {
		return nil, err
	}
	m, err := New(dev, data.Vertices)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	m.texturePath = data.Texture
	return m, nil
}

// TexturePath is the diffuse texture named by the geometry's material,
// or formats.DefaultTexturePath. Empty for procedural meshes.
func (m *Mesh) TexturePath() string {
	return m.texturePath
}

// VertexCount returns the number of vertices drawn.
func (m *Mesh) VertexCount() int32 {
	return m.count
}

func (m *Mesh) Arm() {
	m.dev.BindVertexArray(m.va.VAO)
}

func (m *Mesh) Draw(bool) {
	m.dev.DrawTriangles(m.count)
}

func (m *Mesh) OwnsMaterials() bool { return false }

// Destroy releases the buffer. Calling it again is a no-op.
func (m *Mesh) Destroy() {
	if m.va.VAO == 0 {
		return
	}
	m.dev.DeleteVertexArray(m.va)
	m.va = gpu.VertexArray{}
}

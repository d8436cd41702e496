package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/material"
	"github.com/Faultbox/shadowbox/internal/logger"
	"github.com/Faultbox/shadowbox/pkg/formats"
)

// Submesh is the GPU counterpart of one material group.
type Submesh struct {
	Name     string
	va       gpu.VertexArray
	count    int32
	Material *material.Material
}

// VertexCount returns the number of vertices drawn.
func (s *Submesh) VertexCount() int32 {
	return s.count
}

// MultiMaterialMesh draws one submesh per material, binding each
// submesh's material as it goes.
type MultiMaterialMesh struct {
	dev       gpu.Device
	submeshes []*Submesh
}

// LoadMultiMaterial loads a multi-material geometry file. Texture
// references are resolved by textures. On failure everything created
// so far is released.
func LoadMultiMaterial(dev gpu.Device, path string, textures material.Loader) (*MultiMaterialMesh, error) {
	groups, err := formats.LoadMultiMaterialMesh(path)
	if err != nil {
		return nil, err
	}
	m, err := NewMultiMaterial(dev, groups.Ordered(), textures)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	return m, nil
}

// NewMultiMaterial builds submeshes from parsed groups. Groups without
// faces are skipped.
func NewMultiMaterial(dev gpu.Device, groups []*formats.MaterialGroup, textures material.Loader) (mm *MultiMaterialMesh, err error) {
	mm = &MultiMaterialMesh{dev: dev}
	defer func() {
		if err != nil {
			mm.Destroy()
			mm = nil
		}
	}()

	for _, g := range groups {
		if g.VertexCount() == 0 {
			logger.Debug("skipping empty material group", zap.String("material", g.Name))
			continue
		}

		mat, err := groupMaterial(g, textures)
		if err != nil {
			return mm, fmt.Errorf("material %s: %w", g.Name, err)
		}

		va, err := dev.CreateVertexArray(g.Vertices, gpu.InterleavedLayout)
		if err != nil {
			mat.Destroy()
			return mm, fmt.Errorf("material %s: %w", g.Name, err)
		}

		mm.submeshes = append(mm.submeshes, &Submesh{
			Name:     g.Name,
			va:       va,
			count:    int32(g.VertexCount()),
			Material: mat,
		})
	}
	return mm, nil
}

// groupMaterial picks texture over color, and white when neither is set.
func groupMaterial(g *formats.MaterialGroup, textures material.Loader) (*material.Material, error) {
	switch {
	case g.Texture != "":
		return textures.Texture(g.Texture)
	case g.Color != nil:
		return textures.Color(*g.Color)
	default:
		return textures.Color(material.White)
	}
}

// Submeshes returns the submeshes in material order.
func (m *MultiMaterialMesh) Submeshes() []*Submesh {
	return m.submeshes
}

// Arm is a no-op: each submesh binds its own layout in Draw.
func (m *MultiMaterialMesh) Arm() {}

func (m *MultiMaterialMesh) Draw(bindMaterials bool) {
	for _, s := range m.submeshes {
		if bindMaterials {
			s.Material.Use()
		}
		m.dev.BindVertexArray(s.va.VAO)
		m.dev.DrawTriangles(s.count)
	}
}

func (m *MultiMaterialMesh) OwnsMaterials() bool { return true }

// Destroy releases every submesh buffer and material exactly once.
func (m *MultiMaterialMesh) Destroy() {
	for _, s := range m.submeshes {
		m.dev.DeleteVertexArray(s.va)
		s.Material.Destroy()
	}
	m.submeshes = nil
}

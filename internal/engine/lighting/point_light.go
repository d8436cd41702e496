// Package lighting packs scene point lights into shader uniform slots.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/shader"
)

// MaxPointLights is the size of the Lights array in the standard shader.
const MaxPointLights = 8

// PointLight is one light as the shader sees it.
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3 // RGB, 0-1
	Strength float32
}

// PointLightBuffer holds the lights uploaded for one frame.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// Count returns the number of buffered lights.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// CacheLocations resolves every light slot of p.
func CacheLocations(p *shader.Program) {
	for i := 0; i < MaxPointLights; i++ {
		p.CacheMulti(shader.LightPos, shader.LightPos.Name(), i)
		p.CacheMulti(shader.LightColor, shader.LightColor.Name(), i)
		p.CacheMulti(shader.LightStrength, shader.LightStrength.Name(), i)
	}
	p.CacheSingle(shader.LightCount, shader.LightCount.Name())
}

// Upload writes the buffered lights into p, which must be in use and have
// had CacheLocations called on it.
func (b *PointLightBuffer) Upload(p *shader.Program) {
	for i, l := range b.Lights {
		p.SetVec3At(shader.LightPos, i, l.Position)
		p.SetVec3At(shader.LightColor, i, l.Color)
		p.SetFloatAt(shader.LightStrength, i, l.Strength)
	}
	p.SetInt(shader.LightCount, int32(len(b.Lights)))
}

// Package shadow provides depth-map shadows for the first scene light.
package shadow

import (
	"github.com/Faultbox/shadowbox/internal/engine/gpu"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 1024

// Map is a depth-only framebuffer rendered from the light's point of view
// and sampled by the main pass.
type Map struct {
	dev    gpu.Device
	target gpu.DepthTarget
}

// NewMap creates a square shadow map. Non-positive resolutions fall back
// to DefaultResolution.
func NewMap(dev gpu.Device, resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	target, err := dev.CreateDepthTarget(resolution)
	if err != nil {
		return nil, err
	}
	return &Map{dev: dev, target: target}, nil
}

// Resolution returns the side length of the depth texture.
func (sm *Map) Resolution() int32 {
	return sm.target.Size
}

// Target returns the underlying framebuffer and texture handles.
func (sm *Map) Target() gpu.DepthTarget {
	return sm.target
}

// Bind redirects rendering into the shadow map and clears its depth.
func (sm *Map) Bind() {
	sm.dev.BindFramebuffer(sm.target.FBO)
	sm.dev.Viewport(0, 0, sm.target.Size, sm.target.Size)
	sm.dev.Clear(gpu.ClearDepth)
}

// Unbind restores the default framebuffer with the given window viewport.
func (sm *Map) Unbind(width, height int32) {
	sm.dev.BindFramebuffer(0)
	sm.dev.Viewport(0, 0, width, height)
}

// BindTexture binds the depth texture for sampling on unit.
func (sm *Map) BindTexture(unit uint32) {
	sm.dev.BindTexture2D(unit, sm.target.Texture)
}

// Destroy releases the framebuffer and texture. Calling it again is a no-op.
func (sm *Map) Destroy() {
	if sm.target.FBO == 0 {
		return
	}
	sm.dev.DeleteDepthTarget(sm.target)
	sm.target = gpu.DepthTarget{}
}

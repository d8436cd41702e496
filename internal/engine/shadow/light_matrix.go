package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Fixed orthographic volume covered by the shadow map, in light space.
const (
	HalfExtent = 20
	Near       = 0.1
	Far        = 50
)

// LightSpaceMatrix returns the projection x view transform of a light at
// lightPos looking at the world origin, with +Z as up.
func LightSpaceMatrix(lightPos mgl32.Vec3) mgl32.Mat4 {
	target := mgl32.Vec3{0, 0, 0}
	up := mgl32.Vec3{0, 0, 1}

	// A light straight above or below the origin makes +Z parallel to the view direction.
	dir := target.Sub(lightPos)
	if dir.Len() > 0 && abs32(dir.Normalize().Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 1, 0}
	}

	view := mgl32.LookAtV(lightPos, target, up)
	proj := mgl32.Ortho(-HalfExtent, HalfExtent, -HalfExtent, HalfExtent, Near, Far)
	return proj.Mul4(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

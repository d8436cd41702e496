// Package camera provides the first-person camera used to view the scene.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch is the pitch limit in degrees; looking straight up or down
// would make the up vector degenerate.
const MaxPitch = 89

var worldUp = mgl32.Vec3{0, 0, 1}

// FirstPerson is a Z-up camera steered by yaw (about Z) and pitch.
type FirstPerson struct {
	position mgl32.Vec3
	// Eulers are roll, pitch, yaw in degrees.
	eulers mgl32.Vec3

	forwards mgl32.Vec3
	right    mgl32.Vec3
	up       mgl32.Vec3
}

// NewFirstPerson creates a camera at position looking down +X.
func NewFirstPerson(position mgl32.Vec3) *FirstPerson {
	c := &FirstPerson{position: position}
	c.Update()
	return c
}

// Update recomputes the basis vectors from the current angles.
func (c *FirstPerson) Update() {
	yaw := mgl32.DegToRad(c.eulers[2])
	pitch := mgl32.DegToRad(c.eulers[1])

	c.forwards = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
	}
	c.right = c.forwards.Cross(worldUp)
	c.up = c.right.Cross(c.forwards)
}

// Position returns the camera position in world space.
func (c *FirstPerson) Position() mgl32.Vec3 {
	return c.position
}

// Eulers returns roll, pitch and yaw in degrees.
func (c *FirstPerson) Eulers() mgl32.Vec3 {
	return c.eulers
}

// Forwards returns the unit view direction.
func (c *FirstPerson) Forwards() mgl32.Vec3 {
	return c.forwards
}

// Right returns the camera's right vector.
func (c *FirstPerson) Right() mgl32.Vec3 {
	return c.right
}

// Up returns the camera's up vector.
func (c *FirstPerson) Up() mgl32.Vec3 {
	return c.up
}

// ViewMatrix returns the world-to-view transform.
func (c *FirstPerson) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.forwards), c.up)
}

// Move translates by d expressed in (forwards, right, up) components.
func (c *FirstPerson) Move(d mgl32.Vec3) {
	c.position = c.position.
		Add(c.forwards.Mul(d[0])).
		Add(c.right.Mul(d[1])).
		Add(c.up.Mul(d[2]))
}

// Spin rotates by d degrees about (x, y, z). Pitch is clamped to
// +-MaxPitch; roll and yaw wrap into [0, 360).
func (c *FirstPerson) Spin(d mgl32.Vec3) {
	c.eulers = c.eulers.Add(d)

	c.eulers[0] = wrapDegrees(c.eulers[0])
	c.eulers[1] = mgl32.Clamp(c.eulers[1], -MaxPitch, MaxPitch)
	c.eulers[2] = wrapDegrees(c.eulers[2])

	c.Update()
}

func wrapDegrees(a float32) float32 {
	for a >= 360 {
		a -= 360
	}
	for a < 0 {
		a += 360
	}
	return a
}

// Package scene holds the camera, entities and lights of the world.
package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EntityType selects the mesh and material an entity is drawn with.
type EntityType int

const (
	TypeCube EntityType = iota
	TypePointLight
	TypeMedkit
)

func (t EntityType) String() string {
	switch t {
	case TypeCube:
		return "cube"
	case TypePointLight:
		return "pointlight"
	case TypeMedkit:
		return "medkit"
	}
	return "unknown"
}

// Entity is anything placed in the world.
type Entity interface {
	ModelMatrix() mgl32.Mat4
	Update(dt float32, cameraPos mgl32.Vec3)
}

// Transform is a position plus rotation in degrees about X, Y and Z.
type Transform struct {
	Position mgl32.Vec3
	Eulers   mgl32.Vec3
}

// ModelMatrix returns translate * rotZ * rotY * rotX.
func (t *Transform) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Eulers[2]))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Eulers[1]))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Eulers[0])))
}

// Cube is a solid that slowly spins about Z.
type Cube struct {
	Transform
}

// NewCube places a cube.
func NewCube(position, eulers mgl32.Vec3) *Cube {
	return &Cube{Transform{Position: position, Eulers: eulers}}
}

// SpinRate is the cube's yaw rate in degrees per frame at dt = 1.
const SpinRate = 0.25

func (c *Cube) Update(dt float32, _ mgl32.Vec3) {
	c.Eulers[2] += SpinRate * dt
	if c.Eulers[2] > 360 {
		c.Eulers[2] -= 360
	}
}

// Billboard is a flat quad that turns to face the camera.
type Billboard struct {
	Transform
}

// NewBillboard places a billboard.
func NewBillboard(position mgl32.Vec3) *Billboard {
	return &Billboard{Transform{Position: position}}
}

func (b *Billboard) Update(_ float32, cameraPos mgl32.Vec3) {
	toCamera := cameraPos.Sub(b.Position)
	b.Eulers[2] = -mgl32.RadToDeg(math32.Atan2(-toCamera[1], toCamera[0]))
	b.Eulers[1] = -mgl32.RadToDeg(math32.Atan2(toCamera[2], toCamera.Len()))
}

// PointLight is a light that draws itself as a billboard.
type PointLight struct {
	Billboard
	Color    mgl32.Vec3
	Strength float32
}

// NewPointLight places a light.
func NewPointLight(position, color mgl32.Vec3, strength float32) *PointLight {
	return &PointLight{
		Billboard: Billboard{Transform{Position: position}},
		Color:     color,
		Strength:  strength,
	}
}

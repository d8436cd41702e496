package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestInitialBasis(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{0, 0, 0})

	if !near(c.Forwards(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected forwards +X, got %v", c.Forwards())
	}
	if !near(c.Right(), mgl32.Vec3{0, -1, 0}) {
		t.Errorf("expected right -Y, got %v", c.Right())
	}
	if !near(c.Up(), mgl32.Vec3{0, 0, 1}) {
		t.Errorf("expected up +Z, got %v", c.Up())
	}
}

func TestSpinClampsPitch(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{})

	c.Spin(mgl32.Vec3{0, 120, 0})
	if c.Eulers()[1] != MaxPitch {
		t.Errorf("expected pitch %d, got %v", MaxPitch, c.Eulers()[1])
	}

	c.Spin(mgl32.Vec3{0, -300, 0})
	if c.Eulers()[1] != -MaxPitch {
		t.Errorf("expected pitch %d, got %v", -MaxPitch, c.Eulers()[1])
	}
}

func TestSpinWrapsYaw(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{})

	c.Spin(mgl32.Vec3{0, 0, 370})
	if !mgl32.FloatEqual(c.Eulers()[2], 10) {
		t.Errorf("expected yaw 10, got %v", c.Eulers()[2])
	}
	c.Spin(mgl32.Vec3{0, 0, -20})
	if !mgl32.FloatEqual(c.Eulers()[2], 350) {
		t.Errorf("expected yaw 350, got %v", c.Eulers()[2])
	}

	c.Spin(mgl32.Vec3{0, 0, -260})
	if !near(c.Forwards(), mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected forwards +Y at yaw 90, got %v", c.Forwards())
	}
}

func TestMove(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{1, 2, 3})

	c.Move(mgl32.Vec3{2, 0, 0})
	if !near(c.Position(), mgl32.Vec3{3, 2, 3}) {
		t.Errorf("expected forward move along +X, got %v", c.Position())
	}

	c.Move(mgl32.Vec3{0, 1, 1})
	if !near(c.Position(), mgl32.Vec3{3, 1, 4}) {
		t.Errorf("expected right/up move, got %v", c.Position())
	}
}

func TestViewMatrix(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{0, 0, 0})
	view := c.ViewMatrix()

	// A point ahead of the camera lands on the -Z view axis.
	p := view.Mul4x1(mgl32.Vec4{5, 0, 0, 1})
	if !near(p.Vec3(), mgl32.Vec3{0, 0, -5}) {
		t.Errorf("expected (0,0,-5), got %v", p)
	}
}

// near compares component-wise with an absolute tolerance. mgl32's
// ApproxEqual is relative and rejects rounding noise next to zero.
func near(a, b mgl32.Vec3) bool {
	for i := range a {
		if d := a[i] - b[i]; d > 1e-5 || d < -1e-5 {
			return false
		}
	}
	return true
}

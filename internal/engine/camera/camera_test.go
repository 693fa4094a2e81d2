package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultLooksDownNegativeZ(t *testing.T) {
	c := New(mgl32.Vec3{0, 64, 0}, 16.0/9.0)

	f := c.Front()
	if math.Abs(float64(f.X())) > 1e-5 || math.Abs(float64(f.Y())) > 1e-5 || f.Z() > -0.99 {
		t.Errorf("default front = %v, want (0, 0, -1)", f)
	}
}

func TestPitchClamp(t *testing.T) {
	c := New(mgl32.Vec3{}, 1)

	c.Rotate(0, -10_000) // drag far up
	if c.pitch != maxPitch {
		t.Errorf("pitch = %f, want clamp at %f", c.pitch, maxPitch)
	}
	c.Rotate(0, 10_000) // drag far down
	if c.pitch != -maxPitch {
		t.Errorf("pitch = %f, want clamp at %f", c.pitch, -maxPitch)
	}
}

func TestMoveFollowsFacing(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 0}, 1)

	c.Move(5, 0, 0)
	if c.Position.Z() > -4.99 {
		t.Errorf("forward move went to %v, want negative Z", c.Position)
	}

	c = New(mgl32.Vec3{0, 0, 0}, 1)
	c.Move(0, 3, 0)
	if c.Position.X() < 2.99 {
		t.Errorf("strafe right went to %v, want positive X", c.Position)
	}

	c = New(mgl32.Vec3{0, 0, 0}, 1)
	c.Move(0, 0, 2)
	if c.Position.Y() < 1.99 {
		t.Errorf("lift went to %v, want positive Y", c.Position)
	}
}

func TestViewMatrixIsInverseOfPosition(t *testing.T) {
	pos := mgl32.Vec3{10, 64, -20}
	c := New(pos, 16.0/9.0)

	// The camera position must map to the origin of view space.
	v := c.ViewMatrix().Mul4x1(pos.Vec4(1))
	for i := 0; i < 3; i++ {
		if math.Abs(float64(v[i])) > 1e-4 {
			t.Fatalf("camera position maps to %v in view space, want origin", v)
		}
	}
}

func TestAspectUpdate(t *testing.T) {
	c := New(mgl32.Vec3{}, 1)
	c.SetAspect(1920, 1080)

	if math.Abs(float64(c.aspect)-16.0/9.0) > 1e-5 {
		t.Errorf("aspect = %f, want 16/9", c.aspect)
	}

	c.SetAspect(100, 0) // degenerate resize must not divide by zero
	if math.Abs(float64(c.aspect)-16.0/9.0) > 1e-5 {
		t.Error("zero-height resize must keep the previous aspect")
	}
}

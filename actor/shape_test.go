package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// Helper functions
func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestBoxComputeAABBWithRotation(t *testing.T) {
	tests := []struct {
		name        string
		box         *Box
		transform   Transform
		expectedMin mgl64.Vec3
		expectedMax mgl64.Vec3
	}{
		{
			name:        "identity",
			box:         &Box{HalfExtents: mgl64.Vec3{1, 2, 3}},
			transform:   Transform{Position: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.QuatIdent()},
			expectedMin: mgl64.Vec3{0, -1, -2},
			expectedMax: mgl64.Vec3{2, 3, 4},
		},
		{
			name:        "90 degrees around Y swaps x and z",
			box:         &Box{HalfExtents: mgl64.Vec3{1, 2, 3}},
			transform:   Transform{Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})},
			expectedMin: mgl64.Vec3{-3, -2, -1},
			expectedMax: mgl64.Vec3{3, 2, 1},
		},
		{
			name:        "45 degrees around Z",
			box:         &Box{HalfExtents: mgl64.Vec3{1, 1, 1}},
			transform:   Transform{Rotation: mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})},
			expectedMin: mgl64.Vec3{-math.Sqrt2, -math.Sqrt2, -1},
			expectedMax: mgl64.Vec3{math.Sqrt2, math.Sqrt2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.box.ComputeAABB(tt.transform)
			aabb := tt.box.GetAABB()

			if !vec3Equal(aabb.Min, tt.expectedMin, 1e-9) {
				t.Errorf("AABB.Min = %v, want %v", aabb.Min, tt.expectedMin)
			}
			if !vec3Equal(aabb.Max, tt.expectedMax, 1e-9) {
				t.Errorf("AABB.Max = %v, want %v", aabb.Max, tt.expectedMax)
			}
		})
	}
}

func TestCapsuleComputeAABB(t *testing.T) {
	t.Run("upright", func(t *testing.T) {
		c := NewCapsule(0.5, 2)
		c.ComputeAABB(Transform{Position: mgl64.Vec3{0, 1, 0}, Rotation: mgl64.QuatIdent()})

		aabb := c.GetAABB()
		if !vec3Equal(aabb.Min, mgl64.Vec3{-0.5, 0, -0.5}, 1e-9) || !vec3Equal(aabb.Max, mgl64.Vec3{0.5, 2, 0.5}, 1e-9) {
			t.Errorf("AABB = %v, want {-0.5 0 -0.5} {0.5 2 0.5}", aabb)
		}
	})

	t.Run("lying along x", func(t *testing.T) {
		c := NewCapsule(0.5, 2)
		c.ComputeAABB(Transform{Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})})

		aabb := c.GetAABB()
		if !vec3Equal(aabb.Min, mgl64.Vec3{-1, -0.5, -0.5}, 1e-9) || !vec3Equal(aabb.Max, mgl64.Vec3{1, 0.5, 0.5}, 1e-9) {
			t.Errorf("AABB = %v, want {-1 -0.5 -0.5} {1 0.5 0.5}", aabb)
		}
	})
}

func TestNewCapsule(t *testing.T) {
	tests := []struct {
		name       string
		radius     float64
		height     float64
		halfHeight float64
	}{
		{"standard character", 0.5, 2, 0.5},
		{"exact sphere", 0.5, 1, 0},
		{"degenerate height", 0.5, 0.6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCapsule(tt.radius, tt.height)
			if !floatEqual(c.HalfHeight, tt.halfHeight, 1e-12) {
				t.Errorf("HalfHeight = %v, want %v", c.HalfHeight, tt.halfHeight)
			}
			if c.Margin() != tt.radius {
				t.Errorf("Margin() = %v, want %v", c.Margin(), tt.radius)
			}
		})
	}
}

func TestSupport(t *testing.T) {
	tests := []struct {
		name      string
		shape     ShapeInterface
		direction mgl64.Vec3
		expected  mgl64.Vec3
	}{
		{"box corner", &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}, mgl64.Vec3{1, -1, 1}, mgl64.Vec3{1, -2, 3}},
		{"sphere up", &Sphere{Radius: 2}, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 2, 0}},
		{"sphere zero direction", &Sphere{Radius: 2}, mgl64.Vec3{}, mgl64.Vec3{}},
		{"capsule top", NewCapsule(0.5, 2), mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}},
		{"capsule bottom", NewCapsule(0.5, 2), mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, -1, 0}},
		{"capsule side", NewCapsule(0.5, 2), mgl64.Vec3{1, 0.0001, 0}, mgl64.Vec3{0.5, 0.50005, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.shape.Support(tt.direction)
			if !vec3Equal(result, tt.expected, 1e-6) {
				t.Errorf("Support(%v) = %v, want %v", tt.direction, result, tt.expected)
			}
		})
	}
}

func TestRoundedCoreSupport(t *testing.T) {
	c := NewCapsule(0.5, 3)
	if got := c.CoreSupport(mgl64.Vec3{0.3, 1, 0}); got != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("CoreSupport() = %v, want {0 1 0}", got)
	}
	if got := c.CoreSupport(mgl64.Vec3{0.3, -1, 0}); got != (mgl64.Vec3{0, -1, 0}) {
		t.Errorf("CoreSupport() = %v, want {0 -1 0}", got)
	}

	s := &Sphere{Radius: 1}
	if got := s.CoreSupport(mgl64.Vec3{1, 1, 1}); got != (mgl64.Vec3{}) {
		t.Errorf("sphere CoreSupport() = %v, want origin", got)
	}
}

func TestPlaneSignedDistance(t *testing.T) {
	tests := []struct {
		name      string
		plane     *Plane
		transform Transform
		point     mgl64.Vec3
		expected  float64
	}{
		{"ground above", &Plane{Normal: mgl64.Vec3{0, 1, 0}}, NewTransform(), mgl64.Vec3{3, 2, -1}, 2},
		{"ground below", &Plane{Normal: mgl64.Vec3{0, 1, 0}}, NewTransform(), mgl64.Vec3{0, -0.5, 0}, -0.5},
		{"offset by distance", &Plane{Normal: mgl64.Vec3{0, 1, 0}, Distance: -1}, NewTransform(), mgl64.Vec3{0, 3, 0}, 2},
		{"offset by transform", &Plane{Normal: mgl64.Vec3{0, 1, 0}}, Transform{Position: mgl64.Vec3{0, 2, 0}, Rotation: mgl64.QuatIdent()}, mgl64.Vec3{0, 3, 0}, 1},
		{
			"rotated into a wall",
			&Plane{Normal: mgl64.Vec3{0, 1, 0}},
			Transform{Rotation: mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 0, 1})},
			mgl64.Vec3{2, 5, 0},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.plane.SignedDistance(tt.transform, tt.point)
			if !floatEqual(result, tt.expected, 1e-9) {
				t.Errorf("SignedDistance(%v) = %v, want %v", tt.point, result, tt.expected)
			}
		})
	}
}

func TestPlaneComputeAABB(t *testing.T) {
	plane := &Plane{Normal: mgl64.Vec3{0, 1, 0}, Distance: 0}
	plane.ComputeAABB(NewTransform())

	aabb := plane.GetAABB()
	if !floatEqual(aabb.Max.Y(), 0, 1e-9) || !floatEqual(aabb.Min.Y(), -1, 1e-9) {
		t.Errorf("plane AABB Y range = [%v, %v], want [-1, 0]", aabb.Min.Y(), aabb.Max.Y())
	}
	if aabb.Max.X() < 1e9 || aabb.Min.Z() > -1e9 {
		t.Errorf("plane AABB should be unbounded along its tangents, got %v", aabb)
	}
}

func TestPlaneSupport(t *testing.T) {
	plane := &Plane{Normal: mgl64.Vec3{0, 1, 0}}

	top := plane.Support(mgl64.Vec3{0, 1, 0})
	if !floatEqual(top.Y(), 0, 1e-9) {
		t.Errorf("Support(up).Y = %v, want 0 (plane surface)", top.Y())
	}

	bottom := plane.Support(mgl64.Vec3{0, -1, 0})
	if !floatEqual(bottom.Y(), -1, 1e-9) {
		t.Errorf("Support(down).Y = %v, want -1 (slab thickness)", bottom.Y())
	}
}

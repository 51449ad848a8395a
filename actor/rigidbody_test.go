package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBodyType_Constants(t *testing.T) {
	if BodyTypeKinematic == BodyTypeStatic {
		t.Error("BodyTypeKinematic and BodyTypeStatic must differ")
	}
	if BodyTypeKinematic != 0 {
		t.Errorf("BodyTypeKinematic = %d, want 0 (zero value)", BodyTypeKinematic)
	}
}

func TestNewRigidBody(t *testing.T) {
	t.Run("zero rotation becomes identity", func(t *testing.T) {
		rb := NewRigidBody(Transform{Position: mgl64.Vec3{1, 2, 3}}, &Sphere{Radius: 1}, BodyTypeKinematic)

		if rb.Transform.Rotation != mgl64.QuatIdent() {
			t.Errorf("Rotation = %v, want identity", rb.Transform.Rotation)
		}
		if rb.PreviousTransform != rb.Transform {
			t.Error("PreviousTransform should start equal to Transform")
		}
	})

	t.Run("AABB is computed", func(t *testing.T) {
		rb := NewRigidBody(Transform{Position: mgl64.Vec3{1, 2, 3}}, &Sphere{Radius: 1}, BodyTypeStatic)

		aabb := rb.Shape.GetAABB()
		if !vec3Equal(aabb.Min, mgl64.Vec3{0, 1, 2}, 1e-9) || !vec3Equal(aabb.Max, mgl64.Vec3{2, 3, 4}, 1e-9) {
			t.Errorf("AABB = %v", aabb)
		}
	})
}

func TestMovePosition(t *testing.T) {
	t.Run("kinematic moves and refreshes bounds", func(t *testing.T) {
		rb := NewRigidBody(NewTransform(), &Sphere{Radius: 0.5}, BodyTypeKinematic)
		rb.MovePosition(mgl64.Vec3{4, 0, 0})

		if rb.Position() != (mgl64.Vec3{4, 0, 0}) {
			t.Errorf("Position() = %v, want {4 0 0}", rb.Position())
		}
		if !rb.Shape.GetAABB().ContainsPoint(mgl64.Vec3{4, 0, 0}) {
			t.Error("AABB was not recomputed after MovePosition")
		}
	})

	t.Run("static ignores commands", func(t *testing.T) {
		rb := NewRigidBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, BodyTypeStatic)
		rb.MovePosition(mgl64.Vec3{4, 0, 0})
		rb.MoveRotation(mgl64.QuatRotate(1, mgl64.Vec3{0, 1, 0}))

		if rb.Position() != (mgl64.Vec3{}) {
			t.Errorf("static body moved to %v", rb.Position())
		}
		if rb.Rotation() != mgl64.QuatIdent() {
			t.Errorf("static body rotated to %v", rb.Rotation())
		}
	})
}

func TestMoveRotation(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewCapsule(0.5, 2), BodyTypeKinematic)
	rb.MoveRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	up := rb.Transform.Up()
	if !vec3Equal(up, mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("Up() = %v, want {-1 0 0}", up)
	}

	back := rb.Transform.InverseRotation.Rotate(up)
	if !vec3Equal(back, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("InverseRotation not updated, got %v", back)
	}
}

func TestInterpolate(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Sphere{Radius: 0.5}, BodyTypeKinematic)
	rb.StorePrevious()
	rb.MovePosition(mgl64.Vec3{2, 0, 0})
	rb.MoveRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))

	tests := []struct {
		name     string
		alpha    float64
		position mgl64.Vec3
		angle    float64
	}{
		{"start", 0, mgl64.Vec3{0, 0, 0}, 0},
		{"half", 0.5, mgl64.Vec3{1, 0, 0}, math.Pi / 4},
		{"end", 1, mgl64.Vec3{2, 0, 0}, math.Pi / 2},
		{"clamped", 3, mgl64.Vec3{2, 0, 0}, math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transform := rb.Interpolate(tt.alpha)
			if !vec3Equal(transform.Position, tt.position, 1e-9) {
				t.Errorf("Position = %v, want %v", transform.Position, tt.position)
			}

			expected := mgl64.QuatRotate(tt.angle, mgl64.Vec3{0, 1, 0})
			if !transform.Rotation.ApproxEqualThreshold(expected, 1e-6) {
				t.Errorf("Rotation = %v, want %v", transform.Rotation, expected)
			}
		})
	}
}

func TestSupportWorld(t *testing.T) {
	rb := NewRigidBody(
		Transform{Position: mgl64.Vec3{0, 5, 0}, Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})},
		NewCapsule(0.5, 2),
		BodyTypeKinematic,
	)

	// Lying along X, the +X extreme is the tip of the capsule
	support := rb.SupportWorld(mgl64.Vec3{1, 0, 0})
	if !vec3Equal(support, mgl64.Vec3{1, 5, 0}, 1e-9) {
		t.Errorf("SupportWorld(+X) = %v, want {1 5 0}", support)
	}

	core := rb.CoreSupportWorld(mgl64.Vec3{1, 0, 0})
	if !vec3Equal(core, mgl64.Vec3{0.5, 5, 0}, 1e-9) {
		t.Errorf("CoreSupportWorld(+X) = %v, want {0.5 5 0}", core)
	}

	if rb.Margin() != 0.5 {
		t.Errorf("Margin() = %v, want 0.5", rb.Margin())
	}

	box := NewRigidBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, BodyTypeStatic)
	if box.Margin() != 0 {
		t.Errorf("box Margin() = %v, want 0", box.Margin())
	}
	if box.CoreSupportWorld(mgl64.Vec3{1, 1, 1}) != box.SupportWorld(mgl64.Vec3{1, 1, 1}) {
		t.Error("CoreSupportWorld of a polytope should equal SupportWorld")
	}
}

func TestCapsuleQueryBody(t *testing.T) {
	q := CapsuleQuery{Top: mgl64.Vec3{0, 2, 0}, Bottom: mgl64.Vec3{0, 1, 0}, Radius: 0.5}
	body := q.Body()

	capsule := body.Shape.(*Capsule)
	if !floatEqual(capsule.HalfHeight, 0.5, 1e-12) || capsule.Radius != 0.5 {
		t.Errorf("capsule = %+v", capsule)
	}
	if !vec3Equal(body.Position(), mgl64.Vec3{0, 1.5, 0}, 1e-12) {
		t.Errorf("Position() = %v, want {0 1.5 0}", body.Position())
	}

	tilted := CapsuleQuery{Top: mgl64.Vec3{1, 0, 0}, Bottom: mgl64.Vec3{-1, 0, 0}, Radius: 0.25}.Body()
	if !vec3Equal(tilted.CoreSupportWorld(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("tilted capsule core tip = %v, want {1 0 0}", tilted.CoreSupportWorld(mgl64.Vec3{1, 0, 0}))
	}

	moved := q.Translate(mgl64.Vec3{1, 0, 0})
	if moved.Top != (mgl64.Vec3{1, 2, 0}) || moved.Bottom != (mgl64.Vec3{1, 1, 0}) {
		t.Errorf("Translate() = %+v", moved)
	}
}

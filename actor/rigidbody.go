package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeKinematic bodies are moved by explicit commands (MovePosition, MoveRotation)
	// and never by collisions. Character controllers and moving platforms are kinematic.
	BodyTypeKinematic BodyType = iota

	// BodyTypeStatic bodies never move (e.g., ground, walls)
	BodyTypeStatic
)

// RigidBody is a collider placed in the scene. Kinematic bodies also act as the
// actuation handle of a character: they hold the authoritative pose, accept move
// commands, and interpolate between the last two fixed steps for rendering.
type RigidBody struct {
	Id any

	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	BodyType  BodyType
	IsTrigger bool

	// Collision shape
	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType) *RigidBody {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}
	transform.InverseRotation = transform.Rotation.Inverse()

	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		BodyType:          bodyType,
	}
	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// Position returns the authoritative world position
func (rb *RigidBody) Position() mgl64.Vec3 {
	return rb.Transform.Position
}

// Rotation returns the authoritative world orientation
func (rb *RigidBody) Rotation() mgl64.Quat {
	return rb.Transform.Rotation
}

// StorePrevious records the current pose as the start of the next interpolation interval.
// It must be called once per fixed step, before any move command of that step.
func (rb *RigidBody) StorePrevious() {
	rb.PreviousTransform = rb.Transform
}

// MovePosition teleports a kinematic body to position. Static bodies ignore the command.
func (rb *RigidBody) MovePosition(position mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Transform.Position = position
	rb.Shape.ComputeAABB(rb.Transform)
}

// MoveRotation sets the orientation of a kinematic body. Static bodies ignore the command.
func (rb *RigidBody) MoveRotation(rotation mgl64.Quat) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Transform.Rotation = rotation.Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()
	rb.Shape.ComputeAABB(rb.Transform)
}

// Interpolate returns the pose between the previous and current fixed step,
// alpha being the fraction of the step elapsed since the last update (0..1)
func (rb *RigidBody) Interpolate(alpha float64) Transform {
	alpha = mgl64.Clamp(alpha, 0, 1)

	prev, cur := rb.PreviousTransform, rb.Transform
	rotation := mgl64.QuatSlerp(prev.Rotation, cur.Rotation, alpha)

	return Transform{
		Position:        prev.Position.Add(cur.Position.Sub(prev.Position).Mul(alpha)),
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

func (rb *RigidBody) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	// 1. Direction into local space (inverse rotation)
	localDirection := rb.Transform.InverseRotation.Rotate(direction)

	// 2. Local support point
	localSupport := rb.Shape.Support(localDirection)

	// 3. Support point back into world space (rotation + translation)
	return rb.Transform.ToWorld(localSupport)
}

// CoreSupportWorld is SupportWorld without the margin of rounded shapes
func (rb *RigidBody) CoreSupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	rounded, ok := rb.Shape.(Rounded)
	if !ok {
		return rb.SupportWorld(direction)
	}

	localDirection := rb.Transform.InverseRotation.Rotate(direction)
	return rb.Transform.ToWorld(rounded.CoreSupport(localDirection))
}

// Margin returns the rounding radius of the shape, 0 for polytopes
func (rb *RigidBody) Margin() float64 {
	if rounded, ok := rb.Shape.(Rounded); ok {
		return rounded.Margin()
	}
	return 0
}

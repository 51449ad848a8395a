package controller

import (
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CapsuleShape is the character volume, upright along the body up axis.
// Height is the total length and should be at least 2*Radius; nothing here fixes it.
type CapsuleShape struct {
	// Center is the local offset of the capsule from the body position
	Center mgl64.Vec3
	Radius float64
	Height float64
}

// Offset is the distance from the capsule center to each hemisphere center
func (c CapsuleShape) Offset() float64 {
	return c.Height*0.5 - c.Radius
}

// Endpoints returns the hemisphere centers of the capsule swept along direction.
// The capsule is pulled back by one radius so that a surface already within reach
// is still reported, and stepOffset lifts its bottom over low ledges.
func (c CapsuleShape) Endpoints(position, up, direction mgl64.Vec3, stepOffset float64) (top, bottom mgl64.Vec3) {
	origin := position.Add(c.Center).Sub(direction.Mul(c.Radius))
	offset := c.Offset()

	return origin.Add(up.Mul(offset)), origin.Sub(up.Mul(offset - stepOffset))
}

// RestingEndpoints returns the hemisphere centers of the capsule at position
func (c CapsuleShape) RestingEndpoints(position, up mgl64.Vec3) (top, bottom mgl64.Vec3) {
	center := position.Add(c.Center)
	offset := up.Mul(c.Offset())

	return center.Add(offset), center.Sub(offset)
}

// Contact is a surface touched during a step
type Contact struct {
	// Normal points away from the surface
	Normal mgl64.Vec3
	// Distance is how far the sweep advanced before stopping at the surface
	Distance float64
	Point    mgl64.Vec3
	Body     *actor.RigidBody
}

// BodyState is the character state during a single Move. Each phase takes it by value
// and returns the updated copy.
type BodyState struct {
	Position   mgl64.Vec3
	Up         mgl64.Vec3
	Velocity   mgl64.Vec3
	IsGrounded bool
	Contacts   []Contact
}

// angle returns the angle between a and b in degrees, within [0, 180]
func angle(a, b mgl64.Vec3) float64 {
	lengths := a.Len() * b.Len()
	if lengths < 1e-12 {
		return 0
	}

	cos := mgl64.Clamp(a.Dot(b)/lengths, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// project returns the component of v along n
func project(v, n mgl64.Vec3) mgl64.Vec3 {
	nn := n.Dot(n)
	if nn < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Mul(v.Dot(n) / nn)
}

// splitVelocity separates v into its components across and along up
func splitVelocity(v, up mgl64.Vec3) (lateral, vertical mgl64.Vec3) {
	vertical = up.Mul(v.Dot(up))
	return v.Sub(vertical), vertical
}

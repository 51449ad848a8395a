package actor

import "github.com/go-gl/mathgl/mgl64"

// CapsuleQuery describes a capsule volume in world space by the centers of its two
// hemispheres, as collision queries take it.
type CapsuleQuery struct {
	Top    mgl64.Vec3
	Bottom mgl64.Vec3
	Radius float64
	// Ignore is skipped by every query, usually the body issuing it
	Ignore *RigidBody
}

// Body builds a kinematic capsule body matching the query volume
func (q CapsuleQuery) Body() *RigidBody {
	axis := q.Top.Sub(q.Bottom)
	length := axis.Len()

	rotation := mgl64.QuatIdent()
	if length > 1e-9 {
		rotation = mgl64.QuatBetweenVectors(mgl64.Vec3{0, 1, 0}, axis.Mul(1/length))
	}

	transform := Transform{
		Position: q.Top.Add(q.Bottom).Mul(0.5),
		Rotation: rotation,
	}

	return NewRigidBody(transform, &Capsule{HalfHeight: length * 0.5, Radius: q.Radius}, BodyTypeKinematic)
}

// Translate returns the query moved by offset
func (q CapsuleQuery) Translate(offset mgl64.Vec3) CapsuleQuery {
	q.Top = q.Top.Add(offset)
	q.Bottom = q.Bottom.Add(offset)
	return q
}

// Hit is the first obstruction found by a sweep
type Hit struct {
	// Normal points away from the obstruction, into free space
	Normal mgl64.Vec3
	// Distance travelled by the swept volume before touching
	Distance float64
	Point    mgl64.Vec3
	Body     *RigidBody
}

// Penetration is the minimum translation separating two overlapping volumes
type Penetration struct {
	// Direction moves the query volume out of the other body
	Direction mgl64.Vec3
	Depth     float64
}

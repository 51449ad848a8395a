package controller

import (
	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Backend answers the collision queries of a controller. Queries must not change the
// scene. kinematic.World implements it.
type Backend interface {
	// SweepCapsule casts q along direction and returns the first body touched within
	// maxDistance. Hit.Normal points away from the obstruction.
	SweepCapsule(q actor.CapsuleQuery, direction mgl64.Vec3, maxDistance float64) (actor.Hit, bool)
	// OverlapCapsule writes at most len(results) bodies overlapping q, and returns their count
	OverlapCapsule(q actor.CapsuleQuery, results []*actor.RigidBody) int
	// ComputePenetration returns the translation moving q out of other
	ComputePenetration(q actor.CapsuleQuery, other *actor.RigidBody) (actor.Penetration, bool)
}

// Actuator owns the pose of the character between steps. *actor.RigidBody implements it.
type Actuator interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	MovePosition(position mgl64.Vec3)
	MoveRotation(rotation mgl64.Quat)
}

// ContactRecorder receives the outcome of every Move. kinematic.Events implements it.
type ContactRecorder interface {
	Record(self *actor.RigidBody, grounded bool, touched []*actor.RigidBody)
}

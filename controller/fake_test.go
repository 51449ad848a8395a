package controller

import (
	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type sweepCall struct {
	query       actor.CapsuleQuery
	direction   mgl64.Vec3
	maxDistance float64
}

type sweepReply struct {
	hit actor.Hit
	ok  bool
}

// scriptedBackend replies to sweeps in call order, then reports no hit
type scriptedBackend struct {
	sweeps     []sweepReply
	sweepCalls []sweepCall

	overlaps     []*actor.RigidBody
	penetrations map[*actor.RigidBody]actor.Penetration
	// resolved is consulted once: a body is reported again only until its
	// penetration has been computed
	resolved         map[*actor.RigidBody]bool
	penetrationCalls []*actor.RigidBody
}

func (b *scriptedBackend) SweepCapsule(q actor.CapsuleQuery, direction mgl64.Vec3, maxDistance float64) (actor.Hit, bool) {
	b.sweepCalls = append(b.sweepCalls, sweepCall{query: q, direction: direction, maxDistance: maxDistance})

	i := len(b.sweepCalls) - 1
	if i >= len(b.sweeps) {
		return actor.Hit{}, false
	}
	return b.sweeps[i].hit, b.sweeps[i].ok
}

func (b *scriptedBackend) OverlapCapsule(q actor.CapsuleQuery, results []*actor.RigidBody) int {
	n := 0
	for _, body := range b.overlaps {
		if n == len(results) {
			break
		}
		if b.resolved[body] {
			continue
		}
		results[n] = body
		n++
	}
	return n
}

func (b *scriptedBackend) ComputePenetration(q actor.CapsuleQuery, other *actor.RigidBody) (actor.Penetration, bool) {
	b.penetrationCalls = append(b.penetrationCalls, other)

	penetration, ok := b.penetrations[other]
	if !ok || b.resolved[other] {
		return actor.Penetration{}, false
	}
	if b.resolved == nil {
		b.resolved = make(map[*actor.RigidBody]bool)
	}
	b.resolved[other] = true
	return penetration, true
}

func hitAt(distance float64, normal mgl64.Vec3) sweepReply {
	return sweepReply{hit: actor.Hit{Normal: normal.Normalize(), Distance: distance}, ok: true}
}

// recorder keeps every reported Move
type recorder struct {
	grounded []bool
	touched  [][]*actor.RigidBody
}

func (r *recorder) Record(self *actor.RigidBody, grounded bool, touched []*actor.RigidBody) {
	r.grounded = append(r.grounded, grounded)
	r.touched = append(r.touched, append([]*actor.RigidBody(nil), touched...))
}

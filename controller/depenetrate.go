package controller

import (
	"log/slog"

	"github.com/akmonengine/kinematic/actor"
)

// Depenetrator pushes the capsule out of the bodies it still overlaps after sweeping
type Depenetrator struct {
	Backend   Backend
	Shape     CapsuleShape
	SkinWidth float64
	Self      *actor.RigidBody

	// overlaps bounds how many bodies are resolved per call
	overlaps []*actor.RigidBody
	logger   *slog.Logger
}

// NewDepenetrator creates a depenetrator resolving at most maxOverlaps bodies per call
func NewDepenetrator(backend Backend, shape CapsuleShape, skinWidth float64, self *actor.RigidBody, maxOverlaps int) *Depenetrator {
	return &Depenetrator{
		Backend:   backend,
		Shape:     shape,
		SkinWidth: skinWidth,
		Self:      self,
		overlaps:  make([]*actor.RigidBody, max(0, maxOverlaps)),
		logger:    discardLogger,
	}
}

// Resolve moves state.Position out of every overlapping body, one after the other in
// query order. Overlaps are gathered once, each penetration is measured from the
// position left by the previous push.
func (d *Depenetrator) Resolve(state BodyState) BodyState {
	top, bottom := d.Shape.RestingEndpoints(state.Position, state.Up)
	query := actor.CapsuleQuery{Top: top, Bottom: bottom, Radius: d.Shape.Radius, Ignore: d.Self}

	n := d.Backend.OverlapCapsule(query, d.overlaps)
	n = min(n, len(d.overlaps))

	for _, other := range d.overlaps[:n] {
		if other == nil || other == d.Self {
			continue
		}

		top, bottom = d.Shape.RestingEndpoints(state.Position, state.Up)
		query.Top, query.Bottom = top, bottom

		penetration, ok := d.Backend.ComputePenetration(query, other)
		if !ok {
			continue
		}

		push := penetration.Direction.Mul(penetration.Depth + d.SkinWidth)
		state.Position = state.Position.Add(push)
		state.Velocity = state.Velocity.Sub(project(state.Velocity, penetration.Direction.Mul(-1)))

		orDiscard(d.logger).Debug("depenetrated",
			slog.Any("body", other.Id),
			slog.Float64("depth", penetration.Depth))
	}
	clear(d.overlaps[:n])

	return state
}

package controller

import (
	"log/slog"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultMaxSlideAngle disables the upper bound of the stop range
	DefaultMaxSlideAngle = 360.0

	minSlideLength = 1e-6
)

// SweepSolver moves the capsule along a direction, stopping at the first obstruction
// or sliding along it.
type SweepSolver struct {
	Backend   Backend
	Shape     CapsuleShape
	SkinWidth float64
	// MaxSteps bounds the number of slides of one sweep
	MaxSteps int
	// Self is left out of every query
	Self *actor.RigidBody

	logger *slog.Logger
}

// Sweep advances state.Position by up to distance along direction.
//
// Each hit stops the capsule skinWidth away from the surface and records a contact.
// A surface whose angle with the up axis lies in [minSlideAngle, maxSlideAngle] ends
// the sweep, any other redirects the remaining distance along the surface.
func (s *SweepSolver) Sweep(state BodyState, direction mgl64.Vec3, distance, stepOffset, minSlideAngle, maxSlideAngle float64) BodyState {
	if distance <= 0 || direction.LenSqr() < 1e-12 {
		return state
	}
	direction = direction.Normalize()

	for step := 0; step < s.MaxSteps; step++ {
		top, bottom := s.Shape.Endpoints(state.Position, state.Up, direction, stepOffset)
		query := actor.CapsuleQuery{Top: top, Bottom: bottom, Radius: s.Shape.Radius, Ignore: s.Self}

		hit, ok := s.Backend.SweepCapsule(query, direction, distance+s.Shape.Radius)
		if !ok {
			state.Position = state.Position.Add(direction.Mul(distance))
			return state
		}

		// A hit closer than the skin would move the capsule backward
		safe := max(0, hit.Distance-s.Shape.Radius-s.SkinWidth)
		state.Position = state.Position.Add(direction.Mul(safe))
		state.Contacts = append(state.Contacts, Contact{
			Normal:   hit.Normal,
			Distance: safe,
			Point:    hit.Point,
			Body:     hit.Body,
		})

		slideAngle := angle(state.Up, hit.Normal)
		if slideAngle >= minSlideAngle && slideAngle <= maxSlideAngle {
			return state
		}

		slide := direction.Sub(project(direction, hit.Normal))
		length := slide.Len()
		if length < minSlideLength {
			return state
		}

		distance = (distance - safe) * length
		direction = slide.Mul(1 / length)
		if distance <= 0 {
			return state
		}
	}

	orDiscard(s.logger).Debug("sweep iteration cap reached",
		slog.Int("steps", s.MaxSteps),
		slog.Float64("remaining", distance))

	return state
}

package kinematic

import (
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/epa"
	"github.com/akmonengine/kinematic/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// contactTolerance is the separation under which a swept capsule touches a body
	contactTolerance = 1e-4
	// maxAdvanceSteps bounds conservative advancement per candidate
	maxAdvanceSteps = 32
)

// SweepCapsule casts the capsule q along direction, up to maxDistance, and returns the
// closest body it would touch. Bodies already overlapping q at its start pose are ignored,
// like triggers and q.Ignore.
func (w *World) SweepCapsule(q actor.CapsuleQuery, direction mgl64.Vec3, maxDistance float64) (actor.Hit, bool) {
	if maxDistance <= 0 || direction.LenSqr() < 1e-12 {
		return actor.Hit{}, false
	}
	direction = direction.Normalize()

	moving := q.Body()
	bounds := moving.Shape.GetAABB()
	bounds = bounds.Union(bounds.Translate(direction.Mul(maxDistance)))

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	var closest actor.Hit
	found := false

	for _, body := range w.query(bounds, q.Ignore) {
		var hit actor.Hit
		var ok bool

		if plane, isPlane := body.Shape.(*actor.Plane); isPlane {
			hit, ok = sweepPlane(q, direction, maxDistance, body, plane)
		} else {
			hit, ok = sweepConvex(moving, direction, maxDistance, body, simplex)
		}

		if ok && (!found || hit.Distance < closest.Distance) {
			closest = hit
			found = true
		}
	}

	return closest, found
}

// sweepConvex advances the capsule along direction by the distance it can travel
// without crossing the plane separating it from body, until they touch.
func sweepConvex(moving *actor.RigidBody, direction mgl64.Vec3, maxDistance float64, body *actor.RigidBody, simplex *gjk.Simplex) (actor.Hit, bool) {
	origin := moving.Transform.Position
	defer moving.MovePosition(origin)

	t := 0.0
	var lastNormal mgl64.Vec3

	for i := 0; i < maxAdvanceSteps; i++ {
		moving.MovePosition(origin.Add(direction.Mul(t)))

		result, separated := gjk.Distance(moving, body, simplex)
		if !separated || result.Distance < 0 {
			if i == 0 {
				// Overlapping at the start pose
				return actor.Hit{}, false
			}
			return actor.Hit{
				Normal:   lastNormal.Mul(-1),
				Distance: t,
				Point:    moving.Transform.Position,
				Body:     body,
			}, true
		}

		closing := direction.Dot(result.Normal)
		if closing <= 1e-9 {
			// Moving away or parallel to the separating plane
			return actor.Hit{}, false
		}

		if result.Distance < contactTolerance {
			return actor.Hit{
				Normal:   result.Normal.Mul(-1),
				Distance: t,
				Point:    result.PointB,
				Body:     body,
			}, true
		}

		t += result.Distance / closing
		if t > maxDistance {
			return actor.Hit{}, false
		}
		lastNormal = result.Normal
	}

	return actor.Hit{}, false
}

// sweepPlane is the analytic sweep of the capsule against a plane: the endpoint
// closest to the plane touches first.
func sweepPlane(q actor.CapsuleQuery, direction mgl64.Vec3, maxDistance float64, body *actor.RigidBody, plane *actor.Plane) (actor.Hit, bool) {
	normal := plane.WorldNormal(body.Transform)

	endpoint := q.Bottom
	gap := plane.SignedDistance(body.Transform, q.Bottom)
	if top := plane.SignedDistance(body.Transform, q.Top); top < gap {
		endpoint, gap = q.Top, top
	}
	gap -= q.Radius

	if gap < 0 {
		return actor.Hit{}, false
	}

	closing := -direction.Dot(normal)
	if closing <= 1e-9 {
		return actor.Hit{}, false
	}

	t := gap / closing
	if t > maxDistance {
		return actor.Hit{}, false
	}

	return actor.Hit{
		Normal:   normal,
		Distance: t,
		Point:    endpoint.Add(direction.Mul(t)).Sub(normal.Mul(q.Radius)),
		Body:     body,
	}, true
}

// OverlapCapsule fills results with the bodies overlapping q and returns how many were
// written. Triggers and q.Ignore are excluded, and at most len(results) bodies are found.
func (w *World) OverlapCapsule(q actor.CapsuleQuery, results []*actor.RigidBody) int {
	if len(results) == 0 {
		return 0
	}

	capsule := q.Body()

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	n := 0
	for _, body := range w.query(capsule.Shape.GetAABB(), q.Ignore) {
		if !overlaps(q, capsule, body, simplex) {
			continue
		}

		results[n] = body
		n++
		if n == len(results) {
			break
		}
	}

	return n
}

func overlaps(q actor.CapsuleQuery, capsule, body *actor.RigidBody, simplex *gjk.Simplex) bool {
	if plane, isPlane := body.Shape.(*actor.Plane); isPlane {
		return planeDepth(q, body, plane) > 0
	}

	return gjk.GJK(capsule, body, simplex)
}

// planeDepth is how deep the capsule sinks below the plane surface, negative when apart
func planeDepth(q actor.CapsuleQuery, body *actor.RigidBody, plane *actor.Plane) float64 {
	d := math.Min(
		plane.SignedDistance(body.Transform, q.Bottom),
		plane.SignedDistance(body.Transform, q.Top),
	)
	return q.Radius - d
}

// ComputePenetration returns the smallest translation moving q out of other.
// ok is false when they do not overlap.
func (w *World) ComputePenetration(q actor.CapsuleQuery, other *actor.RigidBody) (actor.Penetration, bool) {
	if plane, isPlane := other.Shape.(*actor.Plane); isPlane {
		depth := planeDepth(q, other, plane)
		if depth <= 0 {
			return actor.Penetration{}, false
		}
		return actor.Penetration{Direction: plane.WorldNormal(other.Transform), Depth: depth}, true
	}

	capsule := q.Body()

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	// Shallow contacts only overlap by the margins: GJK distance is exact there
	if result, separated := gjk.Distance(capsule, other, simplex); separated {
		if result.Distance >= 0 {
			return actor.Penetration{}, false
		}
		return actor.Penetration{Direction: result.Normal.Mul(-1), Depth: -result.Distance}, true
	}

	if !gjk.GJK(capsule, other, simplex) {
		return actor.Penetration{}, false
	}

	result, err := epa.EPA(capsule, other, simplex)
	if err != nil || result.Depth <= 0 {
		return actor.Penetration{}, false
	}

	return actor.Penetration{Direction: result.Normal.Mul(-1), Depth: result.Depth}, true
}

// Package epa implements the Expanding Polytope Algorithm for penetration depth.
//
// EPA runs after GJK reports an overlap. Starting from GJK's final simplex, it expands
// a polytope inside the Minkowski difference toward its boundary until the face closest
// to the origin stops moving. That face gives the minimum translation vector (MTV):
// its normal is the separation direction and its distance the penetration depth.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"fmt"
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits polytope expansion. Curved shapes (spheres, capsules)
	// converge slower than polytopes since every support point is new.
	EPAMaxIterations = 64

	// EPAConvergenceTolerance is the improvement of the closest face distance under which
	// the polytope is considered to touch the Minkowski boundary.
	EPAConvergenceTolerance = 0.0001

	// EPAMinFaceDistance is the minimum face distance before we skip it.
	// Faces very close to or behind the origin are likely degenerate.
	EPAMinFaceDistance = 0.0001

	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	// DegeneratePenetrationEstimate is the fallback depth when GJK stopped on a touching
	// configuration with too few simplex points.
	DegeneratePenetrationEstimate = 0.01

	polytopeInitialCapacity = 4
)

// Result is the minimum translation between two overlapping bodies.
// Moving A by -Normal*Depth (or B by +Normal*Depth) separates them.
type Result struct {
	// Normal points from A toward B
	Normal mgl64.Vec3
	Depth  float64
}

// EPA computes penetration depth and direction for overlapping convex bodies.
//
// Algorithm overview:
//  1. Build the initial polytope from the GJK tetrahedron
//  2. Find the face closest to the origin
//  3. Get the support point along that face normal
//  4. If it does not improve the distance, the face is on the boundary → done
//  5. Otherwise add the point, rebuild the faces it sees, and repeat
//
// Returns an error if EPA failed to converge.
func EPA(a, b *actor.RigidBody, simplex *gjk.Simplex) (Result, error) {
	if simplex.Count < 4 {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return Result{}, err
	}

	for i := 0; i < EPAMaxIterations; i++ {
		if len(builder.faces) == 0 {
			break
		}

		closestFaceIndex := builder.FindClosestFaceIndex()
		closestFace := builder.faces[closestFaceIndex]

		if closestFace.Distance < EPAMinFaceDistance && len(builder.faces) > 1 {
			builder.removeFace(closestFaceIndex)
			continue
		}

		support := gjk.MinkowskiSupport(a, b, closestFace.Normal)
		distance := support.Dot(closestFace.Normal)

		if distance-closestFace.Distance < EPAConvergenceTolerance {
			return Result{Normal: closestFace.Normal, Depth: closestFace.Distance}, nil
		}

		builder.AddPointAndRebuildFaces(support, closestFaceIndex)
	}

	if len(builder.faces) > 0 {
		// Out of iterations: the closest face is still a valid lower bound
		closestFace := builder.faces[builder.FindClosestFaceIndex()]
		if closestFace.Distance >= EPAMinFaceDistance {
			return Result{Normal: closestFace.Normal, Depth: closestFace.Distance}, nil
		}
	}

	return Result{}, fmt.Errorf("EPA failed to converge after %d iterations", EPAMaxIterations)
}

// handleDegenerateSimplex estimates the penetration when GJK returned fewer than 4 points,
// which happens when the shapes are barely touching.
//
//   - 2+ points: use the simplex point closest to the origin
//   - 1 point: estimate from body center separation
func handleDegenerateSimplex(bodyA, bodyB *actor.RigidBody, simplex *gjk.Simplex) Result {
	if simplex.Count >= 2 {
		closest := simplex.Points[0]
		for i := 1; i < simplex.Count; i++ {
			if simplex.Points[i].LenSqr() < closest.LenSqr() {
				closest = simplex.Points[i]
			}
		}

		depth := closest.Len()
		if depth > NormalSnapThreshold {
			return Result{Normal: closest.Mul(1 / depth), Depth: depth}
		}
	}

	normal := bodyB.Transform.Position.Sub(bodyA.Transform.Position)
	normalLen := normal.Len()

	if normalLen < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Mul(1.0 / normalLen)
	}

	return Result{Normal: normal, Depth: DegeneratePenetrationEstimate}
}

// snapNormalToAxis clamps nearly-zero components of a normal vector to exactly zero,
// then renormalizes. Axis-aligned contacts stay exactly axis-aligned.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length <= 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}

	return normal.Mul(1.0 / length)
}

// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for convex shapes.
//
// Two queries are provided:
//   - GJK reports whether two shapes overlap, leaving a simplex that encloses the origin
//     of their Minkowski difference. EPA uses that simplex as its initial polytope.
//   - Distance returns the separation between the convex cores of two shapes along with
//     the closest points, then removes the margins of rounded shapes (spheres, capsules).
//
// Both only rely on support functions, so any convex shape implementing
// actor.ShapeInterface can take part.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
//   - Ericson: "Real-Time Collision Detection" (2004), closest point on triangle
package gjk

import (
	"sync"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// maxIterations bounds both queries, convergence usually takes 3-6 iterations
const maxIterations = 32

// Simplex represents a set of 1-4 points in the Minkowski difference space.
// A and B keep the support points of each shape that produced Points, so that
// closest points can be rebuilt from barycentric weights.
type Simplex struct {
	Points [4]mgl64.Vec3
	A      [4]mgl64.Vec3
	B      [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) push(w, a, b mgl64.Vec3) {
	s.Points[s.Count] = w
	s.A[s.Count] = a
	s.B[s.Count] = b
	s.Count++
}

// set overwrites the simplex with the given indices of its current points, in order
func (s *Simplex) set(indices ...int) {
	var points, as, bs [4]mgl64.Vec3
	for i, idx := range indices {
		points[i], as[i], bs[i] = s.Points[idx], s.A[idx], s.B[idx]
	}
	s.Points, s.A, s.B = points, as, bs
	s.Count = len(indices)
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B):
// furthestPoint(A, direction) - furthestPoint(B, -direction)
func MinkowskiSupport(a, b *actor.RigidBody, direction mgl64.Vec3) mgl64.Vec3 {
	supportA := a.SupportWorld(direction)
	supportB := b.SupportWorld(direction.Mul(-1))
	return supportA.Sub(supportB)
}

// GJK performs overlap detection between two convex rigid bodies.
//
// Algorithm overview:
//  1. Start with initial search direction (toward B from A)
//  2. Get first support point in Minkowski difference
//  3. Iteratively refine simplex toward origin
//  4. If origin is contained → collision
//  5. If can't reach origin → no collision
//
// The simplex is modified in place. On overlap it is usually a tetrahedron containing
// the origin; touching configurations may stop earlier with fewer points.
func GJK(a, b *actor.RigidBody, simplex *Simplex) bool {
	direction := b.Transform.Position.Sub(a.Transform.Position)
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.Reset()
	simplex.push(MinkowskiSupport(a, b, direction), mgl64.Vec3{}, mgl64.Vec3{})

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		// First support point on the origin: shapes exactly touching
		return true
	}

	for i := 0; i < maxIterations; i++ {
		newPoint := MinkowskiSupport(a, b, direction)

		// The new point does not pass the origin: the origin is out of reach
		if newPoint.Dot(direction) <= 0 {
			return false
		}

		simplex.push(newPoint, mgl64.Vec3{}, mgl64.Vec3{})

		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	// Failed to converge, treated as separated
	return false
}

// containsOrigin reduces the simplex to the feature closest to the origin and updates
// the search direction. Only a tetrahedron can contain the origin.
func containsOrigin(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

// line handles the segment case, Points[1] being the most recent point
func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(1)
		*direction = ao
		return false
	}

	// Origin behind A: only A matters
	if ab.Dot(ao) <= 0 {
		simplex.set(1)
		*direction = ao
		return false
	}

	abPerp := ab.Cross(ao).Cross(ab)
	if abPerp.LenSqr() < 1e-8 {
		// Origin on the segment
		return true
	}

	*direction = abPerp
	return false
}

// triangle handles the triangle case, Points[2] being the most recent point.
// Collinear points fall back to the segment case.
func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	abc := ab.Cross(ac)

	if abc.LenSqr() < 1e-10 {
		simplex.set(1, 2)
		return line(simplex, direction)
	}

	// Edge AB region
	if ab.Cross(abc).Dot(ao) > 0 {
		simplex.set(1, 2)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	// Edge AC region
	if abc.Cross(ac).Dot(ao) > 0 {
		simplex.set(0, 2)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		// Below: swap winding so the next tetrahedron keeps a consistent orientation
		simplex.set(1, 0, 2)
		*direction = abc.Mul(-1)
	}

	return false
}

// tetrahedron handles the 4 points case, Points[3] being the most recent point.
// Face normals are oriented away from the opposite vertex before testing the origin.
func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}

	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}

	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		simplex.set(1, 2, 3)
		return triangle(simplex, direction)
	}

	// Face ABC
	if abc.Dot(ao) > 0 {
		simplex.set(1, 2, 3)
		return triangle(simplex, direction)
	}

	// Face ACD
	if acd.Dot(ao) > 0 {
		simplex.set(0, 1, 3)
		return triangle(simplex, direction)
	}

	// Face ADB
	if adb.Dot(ao) > 0 {
		simplex.set(2, 0, 3)
		return triangle(simplex, direction)
	}

	return true
}

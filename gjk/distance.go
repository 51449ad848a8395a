package gjk

import (
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// distanceTolerance is the relative progress under which the search has converged
	distanceTolerance = 1e-9
	// overlapTolerance is the squared distance under which the cores are considered touching
	overlapTolerance = 1e-14
)

// Result is the separation between two shapes, margins included
type Result struct {
	// Distance between the surfaces, negative when only the margins overlap
	Distance float64
	// PointA and PointB are the closest surface points of each shape
	PointA mgl64.Vec3
	PointB mgl64.Vec3
	// Normal is the unit direction from A toward B
	Normal mgl64.Vec3
}

// coreSupport is the Minkowski support of the cores of a and b
func coreSupport(a, b *actor.RigidBody, direction mgl64.Vec3) (w, supportA, supportB mgl64.Vec3) {
	supportA = a.CoreSupportWorld(direction)
	supportB = b.CoreSupportWorld(direction.Mul(-1))
	return supportA.Sub(supportB), supportA, supportB
}

// Distance computes the separation between a and b.
//
// GJK runs on the convex cores (rounded shapes without their margin), which keeps the
// result exact for spheres and capsules. The margins are then subtracted.
//
// Returns false when the cores intersect: the separation is then undefined and the
// caller needs a penetration query (EPA) instead.
func Distance(a, b *actor.RigidBody, simplex *Simplex) (Result, bool) {
	direction := a.Transform.Position.Sub(b.Transform.Position)
	if direction.LenSqr() < 1e-12 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.Reset()
	w, sa, sb := coreSupport(a, b, direction.Mul(-1))
	simplex.push(w, sa, sb)
	v := w

	var lambdas [4]float64
	lambdas[0] = 1

	for i := 0; i < maxIterations*2; i++ {
		vv := v.Dot(v)
		if vv < overlapTolerance {
			return Result{}, false
		}

		w, sa, sb = coreSupport(a, b, v.Mul(-1))

		// No support point gets closer to the origin than v
		if vv-v.Dot(w) <= distanceTolerance*math.Max(1, vv) {
			break
		}
		if simplex.contains(w) {
			break
		}

		simplex.push(w, sa, sb)

		var inside bool
		lambdas, inside = closest(simplex)
		if inside {
			return Result{}, false
		}

		next := combine(simplex.Points, lambdas, simplex.Count)
		if next.Dot(next) >= vv {
			// No progress, numerical floor reached
			break
		}
		v = next
	}

	pointA := combine(simplex.A, lambdas, simplex.Count)
	pointB := combine(simplex.B, lambdas, simplex.Count)

	separation := pointB.Sub(pointA)
	length := separation.Len()
	if length*length < overlapTolerance {
		return Result{}, false
	}
	normal := separation.Mul(1 / length)

	marginA, marginB := a.Margin(), b.Margin()

	return Result{
		Distance: length - marginA - marginB,
		PointA:   pointA.Add(normal.Mul(marginA)),
		PointB:   pointB.Sub(normal.Mul(marginB)),
		Normal:   normal,
	}, true
}

func (s *Simplex) contains(w mgl64.Vec3) bool {
	for i := 0; i < s.Count; i++ {
		if s.Points[i].Sub(w).LenSqr() < 1e-20 {
			return true
		}
	}
	return false
}

func combine(points [4]mgl64.Vec3, lambdas [4]float64, count int) mgl64.Vec3 {
	var sum mgl64.Vec3
	for i := 0; i < count; i++ {
		sum = sum.Add(points[i].Mul(lambdas[i]))
	}
	return sum
}

// closest finds the point of the simplex closest to the origin as barycentric weights,
// and drops the vertices that do not contribute. The returned weights follow the
// reduced simplex order. inside reports a tetrahedron enclosing the origin.
func closest(simplex *Simplex) (lambdas [4]float64, inside bool) {
	switch simplex.Count {
	case 1:
		lambdas[0] = 1
		return lambdas, false
	case 2:
		l := closestOnSegment(simplex.Points[0], simplex.Points[1])
		return reduce(simplex, []int{0, 1}, l[:]), false
	case 3:
		l := closestOnTriangle(simplex.Points[0], simplex.Points[1], simplex.Points[2])
		return reduce(simplex, []int{0, 1, 2}, l[:]), false
	default:
		return closestOnTetrahedron(simplex)
	}
}

// reduce keeps only the vertices with a positive weight
func reduce(simplex *Simplex, indices []int, weights []float64) [4]float64 {
	var lambdas [4]float64
	kept := make([]int, 0, 4)

	for i, idx := range indices {
		if weights[i] > 0 {
			lambdas[len(kept)] = weights[i]
			kept = append(kept, idx)
		}
	}
	if len(kept) == 0 {
		// Cannot happen with valid weights, keep the newest vertex
		kept = append(kept, indices[len(indices)-1])
		lambdas[0] = 1
	}

	simplex.set(kept...)
	return lambdas
}

func closestOnSegment(a, b mgl64.Vec3) [2]float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-20 {
		return [2]float64{0, 1}
	}

	t := -a.Dot(ab) / denom
	if t <= 0 {
		return [2]float64{1, 0}
	}
	if t >= 1 {
		return [2]float64{0, 1}
	}
	return [2]float64{1 - t, t}
}

// closestOnTriangle returns the barycentric weights of the point of triangle abc
// closest to the origin, by Voronoi region tests
func closestOnTriangle(a, b, c mgl64.Vec3) [3]float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := a.Mul(-1)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return [3]float64{1, 0, 0}
	}

	bp := b.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return [3]float64{0, 1, 0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return [3]float64{1 - v, v, 0}
	}

	cp := c.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return [3]float64{0, 0, 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return [3]float64{1 - w, 0, w}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return [3]float64{0, 1 - w, w}
	}

	sum := va + vb + vc
	if math.Abs(sum) < 1e-30 {
		// Degenerate triangle, fall back on its best edge
		l := closestOnSegment(a, b)
		return [3]float64{l[0], l[1], 0}
	}
	denom := 1 / sum
	v := vb * denom
	w := vc * denom
	return [3]float64{1 - v - w, v, w}
}

// closestOnTetrahedron tests the origin against each face, and keeps the closest
// outside face when the origin is not enclosed
func closestOnTetrahedron(simplex *Simplex) ([4]float64, bool) {
	p := simplex.Points
	faces := [4][4]int{
		{0, 1, 2, 3},
		{0, 1, 3, 2},
		{0, 2, 3, 1},
		{1, 2, 3, 0},
	}

	best := -1
	bestDist := math.Inf(1)
	var bestWeights [3]float64

	for f, face := range faces {
		a, b, c, opposite := p[face[0]], p[face[1]], p[face[2]], p[face[3]]
		normal := b.Sub(a).Cross(c.Sub(a))

		signOrigin := normal.Dot(a.Mul(-1))
		signOpposite := normal.Dot(opposite.Sub(a))
		if signOrigin*signOpposite > 0 || signOpposite == 0 && signOrigin == 0 {
			// Origin on the inner side of this face
			continue
		}

		weights := closestOnTriangle(a, b, c)
		point := a.Mul(weights[0]).Add(b.Mul(weights[1])).Add(c.Mul(weights[2]))
		if d := point.LenSqr(); d < bestDist {
			best = f
			bestDist = d
			bestWeights = weights
		}
	}

	if best < 0 {
		return [4]float64{}, true
	}

	face := faces[best]
	return reduce(simplex, face[:3], bestWeights[:]), false
}

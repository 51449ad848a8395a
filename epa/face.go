package epa

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the polytope
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3 // Outward normal
	Distance float64    // Distance from the origin to the face plane
}

// newFace builds a face whose normal points away from oppositePoint, an interior
// point of the polytope, and away from the origin
func newFace(p0, p1, p2, oppositePoint mgl64.Vec3) Face {
	face := Face{Points: [3]mgl64.Vec3{p0, p1, p2}}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))

	normalLength := math.Sqrt(normal.Dot(normal))
	if normalLength < 1e-12 {
		// Zero area
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = EPAMinFaceDistance
		return face
	}
	normal = normal.Mul(1.0 / normalLength)

	if normal.Dot(oppositePoint.Sub(p0)) > 0 {
		normal = normal.Mul(-1)
	}

	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = math.Max(distance, EPAMinFaceDistance)

	return face
}

// compareVec3 orders vectors lexicographically (x, then y, then z)
func compareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// vec3Equal is an exact comparison, polytope vertices are shared by value
func vec3Equal(a, b mgl64.Vec3) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}

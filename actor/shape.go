package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
	ShapeTypeCapsule
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// Support returns the furthest local point of the shape along a local direction
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// Rounded is implemented by shapes defined as a convex core inflated by a margin.
// Distance queries run on the core and subtract the margin, which keeps GJK exact
// for spheres and capsules.
type Rounded interface {
	CoreSupport(direction mgl64.Vec3) mgl64.Vec3
	Margin() float64
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	// The 8 corners in local space
	corners := [8]mgl64.Vec3{
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
	}

	worldCorner := transform.ToWorld(corners[0])
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = transform.ToWorld(corners[i])

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return inflate(mgl64.Vec3{}, direction, s.Radius)
}

func (s *Sphere) CoreSupport(direction mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{}
}

func (s *Sphere) Margin() float64 {
	return s.Radius
}

// Capsule is a segment of length 2*HalfHeight along the local Y axis, inflated by Radius.
// The total height of the capsule is 2*(HalfHeight+Radius).
type Capsule struct {
	HalfHeight float64
	Radius     float64
	aabb       AABB
}

// NewCapsule builds a capsule from its total height, as character controllers describe it.
// A height below 2*radius yields a zero-length core, i.e. a sphere.
func NewCapsule(radius, height float64) *Capsule {
	return &Capsule{
		HalfHeight: math.Max(0, height*0.5-radius),
		Radius:     radius,
	}
}

func (c *Capsule) ComputeAABB(transform Transform) {
	top := transform.ToWorld(mgl64.Vec3{0, c.HalfHeight, 0})
	bottom := transform.ToWorld(mgl64.Vec3{0, -c.HalfHeight, 0})

	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	c.aabb = AABB{
		Min: mgl64.Vec3{
			math.Min(top[0], bottom[0]),
			math.Min(top[1], bottom[1]),
			math.Min(top[2], bottom[2]),
		}.Sub(r),
		Max: mgl64.Vec3{
			math.Max(top[0], bottom[0]),
			math.Max(top[1], bottom[1]),
			math.Max(top[2], bottom[2]),
		}.Add(r),
	}
}

func (c *Capsule) GetAABB() AABB {
	return c.aabb
}

func (c *Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return inflate(c.CoreSupport(direction), direction, c.Radius)
}

func (c *Capsule) CoreSupport(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.Y() < 0 {
		return mgl64.Vec3{0, -c.HalfHeight, 0}
	}
	return mgl64.Vec3{0, c.HalfHeight, 0}
}

func (c *Capsule) Margin() float64 {
	return c.Radius
}

// inflate pushes a core point by radius along direction
func inflate(core, direction mgl64.Vec3, radius float64) mgl64.Vec3 {
	lenSqr := direction.LenSqr()
	if lenSqr < 1e-16 {
		return core
	}
	return core.Add(direction.Mul(radius / math.Sqrt(lenSqr)))
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1.0
	const infinity = 1e10

	normal := transform.Rotation.Rotate(p.Normal)
	planePoint := transform.ToWorld(p.Normal.Mul(-p.Distance))

	// Create base bounds with thickness along the normal
	min := planePoint.Sub(normal.Mul(thickness))
	max := planePoint

	absNormal := mgl64.Vec3{
		math.Abs(normal.X()),
		math.Abs(normal.Y()),
		math.Abs(normal.Z()),
	}

	// Only an axis-aligned normal keeps finite bounds, along that axis
	const threshold = 1.0 - 1e-9

	if absNormal.X() < threshold {
		min[0] = -infinity
		max[0] = infinity
	}
	if absNormal.Y() < threshold {
		min[1] = -infinity
		max[1] = infinity
	}
	if absNormal.Z() < threshold {
		min[2] = -infinity
		max[2] = infinity
	}

	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// Support treats the plane as a large slab of thickness 1 below its surface.
// Queries against planes are analytic, this only keeps the plane usable by GJK.
func (p *Plane) Support(direction mgl64.Vec3) mgl64.Vec3 {
	const size = 1000.0
	const thickness = 1.0

	tangent1, tangent2 := getTangentBasis(p.Normal)
	point := p.Normal.Mul(-p.Distance)

	if direction.Dot(tangent1) < 0 {
		point = point.Sub(tangent1.Mul(size))
	} else {
		point = point.Add(tangent1.Mul(size))
	}
	if direction.Dot(tangent2) < 0 {
		point = point.Sub(tangent2.Mul(size))
	} else {
		point = point.Add(tangent2.Mul(size))
	}
	if direction.Dot(p.Normal) < 0 {
		point = point.Sub(p.Normal.Mul(thickness))
	}

	return point
}

// WorldNormal returns the plane normal in world space
func (p *Plane) WorldNormal(transform Transform) mgl64.Vec3 {
	return transform.Rotation.Rotate(p.Normal)
}

// SignedDistance returns the distance from a world point to the plane surface,
// positive on the side the normal points to
func (p *Plane) SignedDistance(transform Transform, point mgl64.Vec3) float64 {
	planePoint := transform.ToWorld(p.Normal.Mul(-p.Distance))
	return p.WorldNormal(transform).Dot(point.Sub(planePoint))
}

// Helper to generate the tangent basis
func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

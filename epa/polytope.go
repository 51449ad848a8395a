package epa

import (
	"fmt"
	"sync"

	"github.com/akmonengine/kinematic/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// PolytopeBuilder holds the faces of the expanding polytope and the scratch buffers
// used to rebuild them, so that EPA does not allocate once warmed up.
type PolytopeBuilder struct {
	faces []Face

	// Deduplicated vertices, kept sorted for the centroid
	uniquePoints []mgl64.Vec3

	// Edges of the faces visible from a new support point, with occurrence count
	edges []EdgeEntry

	visibleIndices []int
}

// EdgeEntry is an edge normalized so that A < B, counted over visible faces.
// An edge seen once lies on the horizon.
type EdgeEntry struct {
	A, B  mgl64.Vec3
	Count int
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			uniquePoints:   make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.uniquePoints = b.uniquePoints[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces creates the 4 faces of the GJK tetrahedron, dropping faces
// too close to the origin unless that leaves fewer than 3.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("invalid simplex count: %d (expected 4)", simplex.Count)
	}

	p0, p1, p2, p3 := simplex.Points[0], simplex.Points[1], simplex.Points[2], simplex.Points[3]

	candidates := [4]Face{
		newFace(p0, p1, p2, p3),
		newFace(p0, p2, p3, p1),
		newFace(p0, p3, p1, p2),
		newFace(p1, p3, p2, p0),
	}

	for _, face := range candidates {
		if face.Distance > EPAMinFaceDistance {
			b.faces = append(b.faces, face)
		}
	}

	if len(b.faces) < 3 {
		b.faces = append(b.faces[:0], candidates[:]...)
	}

	return nil
}

// FindClosestFaceIndex returns the index of the face closest to the origin, -1 if empty
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	if len(b.faces) == 0 {
		return -1
	}

	closestIndex := 0
	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < b.faces[closestIndex].Distance {
			closestIndex = i
		}
	}

	return closestIndex
}

func (b *PolytopeBuilder) removeFace(index int) {
	b.faces[index] = b.faces[len(b.faces)-1]
	b.faces = b.faces[:len(b.faces)-1]
}

// AddPointAndRebuildFaces expands the polytope with a support point:
//  1. Find the faces visible from the point
//  2. Collect their horizon edges
//  3. Remove them
//  4. Connect every horizon edge to the point
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support mgl64.Vec3, closestIndex int) {
	centroid := b.calculateCentroid()

	b.findVisibleFaces(support)
	if len(b.visibleIndices) == 0 || len(b.visibleIndices) >= len(b.faces) {
		b.visibleIndices = append(b.visibleIndices[:0], closestIndex)
	}

	b.findHorizonEdges()
	b.removeVisibleFaces()

	for _, edge := range b.edges {
		if edge.Count == 1 {
			b.faces = append(b.faces, newFace(edge.A, edge.B, support, centroid))
		}
	}

	if len(b.faces) == 0 {
		b.faces = append(b.faces, Face{
			Points:   [3]mgl64.Vec3{support, support, support},
			Normal:   mgl64.Vec3{0, 1, 0},
			Distance: EPAMinFaceDistance,
		})
	}
}

// calculateCentroid averages the distinct vertices of the polytope
func (b *PolytopeBuilder) calculateCentroid() mgl64.Vec3 {
	b.uniquePoints = b.uniquePoints[:0]

	for i := range b.faces {
		for _, point := range b.faces[i].Points {
			idx := b.findPointInsertionIndex(point)
			if idx < len(b.uniquePoints) && vec3Equal(b.uniquePoints[idx], point) {
				continue
			}

			b.uniquePoints = append(b.uniquePoints, mgl64.Vec3{})
			copy(b.uniquePoints[idx+1:], b.uniquePoints[idx:])
			b.uniquePoints[idx] = point
		}
	}

	if len(b.uniquePoints) == 0 {
		return mgl64.Vec3{}
	}

	var sum mgl64.Vec3
	for _, point := range b.uniquePoints {
		sum = sum.Add(point)
	}

	return sum.Mul(1.0 / float64(len(b.uniquePoints)))
}

// findPointInsertionIndex is a binary search over uniquePoints
func (b *PolytopeBuilder) findPointInsertionIndex(point mgl64.Vec3) int {
	left, right := 0, len(b.uniquePoints)

	for left < right {
		mid := (left + right) / 2
		if compareVec3(b.uniquePoints[mid], point) < 0 {
			left = mid + 1
		} else {
			right = mid
		}
	}

	return left
}

func (b *PolytopeBuilder) findVisibleFaces(support mgl64.Vec3) {
	b.visibleIndices = b.visibleIndices[:0]

	for i := range b.faces {
		face := &b.faces[i]
		if support.Sub(face.Points[0]).Dot(face.Normal) > 0 {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}
}

func (b *PolytopeBuilder) findHorizonEdges() {
	b.edges = b.edges[:0]

	for _, faceIdx := range b.visibleIndices {
		face := &b.faces[faceIdx]

		edges := [3][2]mgl64.Vec3{
			{face.Points[0], face.Points[1]},
			{face.Points[1], face.Points[2]},
			{face.Points[2], face.Points[0]},
		}

		for _, edge := range edges {
			edgeA, edgeB := edge[0], edge[1]
			if compareVec3(edgeA, edgeB) > 0 {
				edgeA, edgeB = edgeB, edgeA
			}

			if edgeIdx := b.findEdgeIndex(edgeA, edgeB); edgeIdx >= 0 {
				b.edges[edgeIdx].Count++
			} else {
				b.edges = append(b.edges, EdgeEntry{A: edgeA, B: edgeB, Count: 1})
			}
		}
	}
}

// findEdgeIndex is a linear search, edge counts stay small
func (b *PolytopeBuilder) findEdgeIndex(edgeA, edgeB mgl64.Vec3) int {
	for i := range b.edges {
		if vec3Equal(b.edges[i].A, edgeA) && vec3Equal(b.edges[i].B, edgeB) {
			return i
		}
	}
	return -1
}

// removeVisibleFaces removes from the highest index down, swapping with the last face
func (b *PolytopeBuilder) removeVisibleFaces() {
	visible := b.visibleIndices
	for i := 0; i < len(visible)-1; i++ {
		for j := i + 1; j < len(visible); j++ {
			if visible[i] < visible[j] {
				visible[i], visible[j] = visible[j], visible[i]
			}
		}
	}

	for _, idx := range visible {
		if idx < len(b.faces) {
			b.removeFace(idx)
		}
	}
}

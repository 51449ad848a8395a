package kinematic

import (
	"math"
	"slices"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// maxCellSpan is the number of cells per axis above which a body is not spread over
// the grid but kept in the unbounded list, tested against every query.
const maxCellSpan = 64

// CellKey are the integer coordinates of a cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// SpatialGrid is a uniform hashed grid. Several cells may share a slot of the array,
// so Query returns candidates: callers still test the bounds of each body.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	// planes also receives bodies too large for the grid
	planes Cell
}

// NewSpatialGrid creates a grid of numCells slots, rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert registers the body under every cell its bounds cover
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	if _, isPlane := body.Shape.(*actor.Plane); isPlane {
		sg.planes.bodyIndices = append(sg.planes.bodyIndices, bodyIndex)
		return
	}

	aabb := body.Shape.GetAABB()
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	if !withinSpan(minCell, maxCell) {
		sg.planes.bodyIndices = append(sg.planes.bodyIndices, bodyIndex)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.planes.bodyIndices = sg.planes.bodyIndices[:0]
}

// SortCells keeps the indices of each cell ordered, so that queries are deterministic
func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			slices.Sort(sg.cells[i].bodyIndices)
		}
	}
	slices.Sort(sg.planes.bodyIndices)
}

// Query appends to out the indices of the bodies that may overlap aabb, sorted and
// without duplicates. Planes and oversized bodies are always returned.
func (sg *SpatialGrid) Query(aabb actor.AABB, out []int) []int {
	out = out[:0]
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	if withinSpan(minCell, maxCell) {
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					out = append(out, sg.cells[sg.hashCell(CellKey{x, y, z})].bodyIndices...)
				}
			}
		}
	} else {
		// The query covers more cells than the grid could tell apart
		for i := range sg.cells {
			out = append(out, sg.cells[i].bodyIndices...)
		}
	}
	out = append(out, sg.planes.bodyIndices...)

	slices.Sort(out)
	return slices.Compact(out)
}

func withinSpan(minCell, maxCell CellKey) bool {
	return maxCell.X-minCell.X < maxCellSpan &&
		maxCell.Y-minCell.Y < maxCellSpan &&
		maxCell.Z-minCell.Z < maxCellSpan
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: cellCoordinate(pos.X(), sg.cellSize),
		Y: cellCoordinate(pos.Y(), sg.cellSize),
		Z: cellCoordinate(pos.Z(), sg.cellSize),
	}
}

// cellCoordinate clamps before converting, plane bounds reach 1e10
func cellCoordinate(v, cellSize float64) int {
	const limit = 1 << 30
	return int(mgl64.Clamp(math.Floor(v/cellSize), -limit, limit))
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}

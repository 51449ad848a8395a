// Package kinematic is a small collision world serving kinematic character controllers.
//
// The World holds static and kinematic bodies in a spatial grid, and answers the three
// queries a controller needs: capsule sweeps, capsule overlaps, and penetration between
// a capsule and a body. Contact events reported by controllers are turned into
// enter/stay/exit notifications.
package kinematic

import (
	"github.com/akmonengine/kinematic/actor"
)

const DEFAULT_WORKERS = 1

type World struct {
	// List of all rigid bodies in the world
	Bodies      []*actor.RigidBody
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events

	// movers are the indices of the kinematic bodies, kept out of the grid since
	// they move during a step
	movers     []int
	dirty      bool
	candidates []int
}

// NewWorld creates an empty world whose grid has numCells slots of cellSize
func NewWorld(cellSize float64, numCells int) *World {
	return &World{
		SpatialGrid: NewSpatialGrid(cellSize, numCells),
		Workers:     DEFAULT_WORKERS,
		Events:      NewEvents(),
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
	w.dirty = true
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
		w.dirty = true
	}

	w.Events.forget(body)
}

// Sync recomputes the bounds of every body and rebuilds the broad phase.
// Static bodies go to the grid, kinematic bodies are tested on every query.
func (w *World) Sync() {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Shape.ComputeAABB(body.Transform)
	})

	w.SpatialGrid.Clear()
	w.movers = w.movers[:0]
	for i, body := range w.Bodies {
		if body.BodyType == actor.BodyTypeStatic {
			w.SpatialGrid.Insert(i, body)
		} else {
			w.movers = append(w.movers, i)
		}
	}
	w.SpatialGrid.SortCells()

	w.dirty = false
}

// Step runs one fixed step: the current poses become the interpolation start, update
// moves the kinematic bodies, then the contact events of the step are delivered.
func (w *World) Step(dt float64, update func(dt float64)) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.StorePrevious()
	})
	w.Sync()

	if update != nil {
		update(dt)
	}

	w.Events.Flush()
}

// Interpolate returns the render pose of every body, alpha being the fraction of
// the fixed step elapsed since the last Step
func (w *World) Interpolate(alpha float64) []actor.Transform {
	poses := make([]actor.Transform, len(w.Bodies))
	for i, body := range w.Bodies {
		poses[i] = body.Interpolate(alpha)
	}
	return poses
}

// query returns the bodies whose current bounds overlap aabb, in a deterministic order.
// Triggers and ignore are left out.
func (w *World) query(aabb actor.AABB, ignore *actor.RigidBody) []*actor.RigidBody {
	if w.dirty || w.SpatialGrid == nil {
		if w.SpatialGrid == nil {
			w.SpatialGrid = NewSpatialGrid(2.0, 1024)
		}
		w.Sync()
	}

	w.candidates = w.SpatialGrid.Query(aabb, w.candidates)
	w.candidates = append(w.candidates, w.movers...)

	bodies := make([]*actor.RigidBody, 0, len(w.candidates))
	for _, idx := range w.candidates {
		body := w.Bodies[idx]
		if body == ignore || body.IsTrigger {
			continue
		}

		if _, isPlane := body.Shape.(*actor.Plane); !isPlane && !body.Shape.GetAABB().Overlaps(aabb) {
			continue
		}
		bodies = append(bodies, body)
	}

	return bodies
}

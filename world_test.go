package kinematic

import (
	"testing"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestTask(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		size    int
	}{
		{"empty", 4, 0},
		{"single worker", 1, 10},
		{"more workers than data", 8, 3},
		{"uneven chunks", 3, 10},
		{"zero workers", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]*int, tt.size)
			for i := range data {
				data[i] = new(int)
			}

			task(tt.workers, data, func(v *int) {
				*v++
			})

			for i, v := range data {
				if *v != 1 {
					t.Errorf("item %d visited %d times", i, *v)
				}
			}
		})
	}
}

func TestWorld_Step(t *testing.T) {
	mover := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, 0, 0}, Rotation: mgl64.QuatIdent()},
		&actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}},
		actor.BodyTypeKinematic,
	)
	world := newTestWorld(mover)
	world.Workers = 2

	var elapsed float64
	world.Step(0.02, func(dt float64) {
		elapsed += dt
		mover.MovePosition(mgl64.Vec3{1, 0, 0})
	})

	if elapsed != 0.02 {
		t.Errorf("update called with %v, want 0.02", elapsed)
	}
	if mover.PreviousTransform.Position != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("previous position = %v, want origin", mover.PreviousTransform.Position)
	}

	poses := world.Interpolate(0.5)
	if !poses[0].Position.ApproxEqualThreshold(mgl64.Vec3{0.5, 0, 0}, 1e-12) {
		t.Errorf("interpolated position = %v, want {0.5 0 0}", poses[0].Position)
	}

	world.Step(0.02, nil)
	if mover.PreviousTransform.Position != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("previous position = %v, want {1 0 0}", mover.PreviousTransform.Position)
	}
}

func TestWorld_Sync(t *testing.T) {
	static := createTestBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5})
	mover := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, 0, 0}, Rotation: mgl64.QuatIdent()},
		&actor.Sphere{Radius: 0.5},
		actor.BodyTypeKinematic,
	)
	world := newTestWorld(static, mover)

	world.Sync()

	if len(world.movers) != 1 || world.movers[0] != 1 {
		t.Errorf("movers = %v, want [1]", world.movers)
	}
	if world.dirty {
		t.Error("world still dirty after Sync")
	}

	world.RemoveBody(static)
	if !world.dirty {
		t.Error("RemoveBody must invalidate the broad phase")
	}
}

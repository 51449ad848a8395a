// Command kinematic-demo runs a character through a small scene without rendering.
//
// The player walks on a floor, into a wall, over a step, and onto a moving platform
// while a rotating bar sweeps the scene. Inputs are scripted over time.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/akmonengine/kinematic"
	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/config"
	"github.com/akmonengine/kinematic/controller"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	speed     = 12.0
	jumpSpeed = 15.0
	gravity   = 35.0
	snapForce = 10.0

	// render frame rate, poses are interpolated between fixed steps
	frameRate = 60.0
)

// input is the scripted stick direction and jump button at time t
type input struct {
	horizontal, vertical float64
	jump                 bool
}

func script(t float64) input {
	switch {
	case t < 1.5:
		return input{vertical: 1}
	case t < 1.55:
		return input{vertical: 1, jump: true}
	case t < 3:
		return input{horizontal: 1}
	case t < 4.5:
		return input{horizontal: -1, vertical: -1}
	default:
		return input{}
	}
}

// platform moves along Y around its starting height
type platform struct {
	body      *actor.RigidBody
	center    mgl64.Vec3
	amplitude float64
	period    float64
}

func (p *platform) update(t float64) {
	position := p.body.Position()
	position[1] = p.center.Y() + p.amplitude*math.Sin(p.period*t)
	p.body.MovePosition(position)
}

// rotator spins around the Y axis, in degrees per second
type rotator struct {
	body  *actor.RigidBody
	speed float64
}

func (r *rotator) update(dt float64) {
	step := mgl64.QuatRotate(mgl64.DegToRad(r.speed*dt), mgl64.Vec3{0, 1, 0})
	r.body.MoveRotation(step.Mul(r.body.Rotation()))
}

// player derives its motion from the velocity left by the previous Move
type player struct {
	controller *controller.Controller
	velocity   mgl64.Vec3
	grounded   bool
}

func (p *player) update(in input, dt float64) controller.Result {
	motion := p.velocity

	if p.grounded {
		motion = mgl64.Vec3{in.horizontal, 0, in.vertical}
		if motion.LenSqr() > 0 {
			motion = motion.Normalize().Mul(speed)
		}

		// Pressing down keeps the ground contact when walking down slopes
		motion[1] = -snapForce
		if in.jump {
			motion[1] = jumpSpeed
		}
	}
	motion[1] -= gravity * dt

	result := p.controller.Move(motion)
	p.velocity = result.Velocity
	p.grounded = result.IsGrounded

	return result
}

func newBox(position, halfExtents mgl64.Vec3, bodyType actor.BodyType, id string) *actor.RigidBody {
	body := actor.NewRigidBody(
		actor.Transform{Position: position, Rotation: mgl64.QuatIdent()},
		&actor.Box{HalfExtents: halfExtents},
		bodyType,
	)
	body.Id = id
	return body
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file, defaults are used when empty")
	duration := flag.Float64("duration", 6, "simulated seconds")
	workers := flag.Int("workers", kinematic.DEFAULT_WORKERS, "goroutines used to sync the world")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	world := kinematic.NewWorld(4, 1024)
	world.Workers = *workers

	floor := actor.NewRigidBody(actor.Transform{}, &actor.Plane{Normal: mgl64.Vec3{0, 1, 0}}, actor.BodyTypeStatic)
	floor.Id = "floor"
	world.AddBody(floor)
	world.AddBody(newBox(mgl64.Vec3{0, 2, 8}, mgl64.Vec3{6, 2, 0.5}, actor.BodyTypeStatic, "wall"))
	world.AddBody(newBox(mgl64.Vec3{3, 0.15, 3}, mgl64.Vec3{1, 0.15, 1}, actor.BodyTypeStatic, "step"))

	lift := &platform{
		body:      newBox(mgl64.Vec3{-4, 1, 0}, mgl64.Vec3{1.5, 0.25, 1.5}, actor.BodyTypeKinematic, "platform"),
		amplitude: 1,
		period:    1,
	}
	lift.center = lift.body.Position()
	world.AddBody(lift.body)

	bar := &rotator{
		body:  newBox(mgl64.Vec3{4, 1, -4}, mgl64.Vec3{2, 0.25, 0.25}, actor.BodyTypeKinematic, "rotator"),
		speed: 45,
	}
	world.AddBody(bar.body)

	body := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, cfg.Height * 0.5, 0}},
		actor.NewCapsule(cfg.Radius, cfg.Height),
		actor.BodyTypeKinematic,
	)
	body.Id = "player"
	world.AddBody(body)

	hero := &player{
		controller: controller.New(world, body, body, cfg,
			controller.WithLogger(logger),
			controller.WithRecorder(&world.Events)),
	}

	world.Events.Subscribe(kinematic.GROUND_ENTER, func(event kinematic.Event) {
		logger.Info("landed", "body", event.(kinematic.GroundEnterEvent).Body.Id)
	})
	world.Events.Subscribe(kinematic.GROUND_EXIT, func(event kinematic.Event) {
		logger.Info("airborne", "body", event.(kinematic.GroundExitEvent).Body.Id)
	})
	world.Events.Subscribe(kinematic.COLLISION_ENTER, func(event kinematic.Event) {
		e := event.(kinematic.CollisionEnterEvent)
		logger.Debug("touch", "a", e.BodyA.Id, "b", e.BodyB.Id)
	})

	dt := cfg.TimeStep
	frame := 1 / frameRate
	accumulator := 0.0
	elapsed := 0.0
	frames := 0

	for elapsed < *duration {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", "time", elapsed)
			return
		default:
		}

		accumulator += frame
		for accumulator >= dt {
			world.Step(dt, func(dt float64) {
				lift.update(elapsed)
				bar.update(dt)

				result := hero.update(script(elapsed), dt)
				logger.Debug("step",
					"time", elapsed,
					"position", result.Position,
					"grounded", result.IsGrounded,
					"contacts", len(result.Contacts))
			})
			accumulator -= dt
			elapsed += dt
		}

		frames++
		if frames%int(frameRate) == 0 {
			poses := world.Interpolate(accumulator / dt)
			logger.Info("frame",
				"time", elapsed,
				"player", poses[len(poses)-1].Position,
				"grounded", hero.grounded)
		}
	}

	logger.Info("done", "position", body.Position(), "grounded", hero.grounded)
}

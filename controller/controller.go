// Package controller moves a capsule character through a scene at a fixed timestep.
//
// A Move sweeps the capsule along the lateral part of the velocity then along its
// vertical part, classifies the touched surfaces to decide whether the character
// stands on the ground, removes the velocity running into them, and finally pushes the
// capsule out of anything it still overlaps. Collision queries are delegated to a
// Backend, and the resulting position is committed to an Actuator.
package controller

import (
	"log/slog"

	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/config"
	"github.com/go-gl/mathgl/mgl64"
)

var discardLogger = slog.New(slog.DiscardHandler)

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return discardLogger
	}
	return logger
}

// Result is the outcome of one Move
type Result struct {
	Position   mgl64.Vec3
	IsGrounded bool
	// Velocity is the requested velocity without the parts blocked by contacts,
	// callers feed it back into the next step
	Velocity mgl64.Vec3
	Contacts []Contact
}

type Controller struct {
	actuator Actuator
	self     *actor.RigidBody
	cfg      config.Config

	sweeper      *SweepSolver
	depenetrator *Depenetrator
	recorder     ContactRecorder
	logger       *slog.Logger

	touched []*actor.RigidBody
}

type Option func(*Controller)

// WithLogger sets the logger of the controller and its solvers
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRecorder reports the contacts of every Move to recorder
func WithRecorder(recorder ContactRecorder) Option {
	return func(c *Controller) {
		c.recorder = recorder
	}
}

// New creates a controller moving actuator through backend. self is the body of the
// character in the backend, excluded from its own queries, and may be nil.
// cfg is used as is: see config.Validate.
func New(backend Backend, actuator Actuator, self *actor.RigidBody, cfg config.Config, opts ...Option) *Controller {
	shape := CapsuleShape{Center: cfg.Center, Radius: cfg.Radius, Height: cfg.Height}

	c := &Controller{
		actuator: actuator,
		self:     self,
		cfg:      cfg,
		logger:   discardLogger,
		sweeper: &SweepSolver{
			Backend:   backend,
			Shape:     shape,
			SkinWidth: cfg.SkinWidth,
			MaxSteps:  cfg.MaxSweepSteps,
			Self:      self,
		},
		depenetrator: NewDepenetrator(backend, shape, cfg.SkinWidth, self, cfg.MaxOverlaps),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = orDiscard(c.logger)
	c.sweeper.logger = c.logger
	c.depenetrator.logger = c.logger

	return c
}

// Move displaces the character by velocity over one time step and commits the new
// position to the actuator. It never fails: motion that cannot be resolved is dropped.
func (c *Controller) Move(velocity mgl64.Vec3) Result {
	state := BodyState{
		Position: c.actuator.Position(),
		Up:       c.actuator.Rotation().Rotate(mgl64.Vec3{0, 1, 0}),
		Velocity: velocity,
	}

	if velocity.LenSqr() > c.cfg.MinMoveDistance {
		lateral, vertical := splitVelocity(velocity, state.Up)
		dt := c.cfg.TimeStep

		state = c.sweeper.Sweep(state, lateral, lateral.Len()*dt, c.cfg.StepOffset, c.cfg.CeilingAngle, DefaultMaxSlideAngle)
		state = c.sweeper.Sweep(state, vertical, vertical.Len()*dt, 0, 0, c.cfg.SlopeLimit)
	}

	state = ClassifyContacts(state, c.cfg.SlopeLimit)
	state = c.depenetrator.Resolve(state)

	c.actuator.MovePosition(state.Position)
	c.record(state)

	return Result{
		Position:   state.Position,
		IsGrounded: state.IsGrounded,
		Velocity:   state.Velocity,
		Contacts:   state.Contacts,
	}
}

// Rotate sets the orientation of the character, without any collision check
func (c *Controller) Rotate(rotation mgl64.Quat) {
	c.actuator.MoveRotation(rotation)
}

func (c *Controller) record(state BodyState) {
	if c.recorder == nil || c.self == nil {
		return
	}

	c.touched = c.touched[:0]
	for _, contact := range state.Contacts {
		if contact.Body != nil {
			c.touched = append(c.touched, contact.Body)
		}
	}
	c.recorder.Record(c.self, state.IsGrounded, c.touched)
}

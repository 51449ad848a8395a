package kinematic

import (
	"unsafe"

	"github.com/akmonengine/kinematic/actor"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	GROUND_ENTER
	GROUND_EXIT
)

type pairKey struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	ptrA := uintptr(unsafe.Pointer(bodyA))
	ptrB := uintptr(unsafe.Pointer(bodyB))

	if ptrB < ptrA {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Collision events, BodyA and BodyB are in no particular order
type CollisionEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// GroundEnterEvent is sent when a character lands
type GroundEnterEvent struct {
	Body *actor.RigidBody
}

func (e GroundEnterEvent) Type() EventType { return GROUND_ENTER }

// GroundExitEvent is sent when a character leaves the ground
type GroundExitEvent struct {
	Body *actor.RigidBody
}

func (e GroundExitEvent) Type() EventType { return GROUND_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events turns the contacts reported by controllers on consecutive steps into
// enter/stay/exit events, buffered until Flush.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool

	grounded map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 64),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
		grounded:            make(map[*actor.RigidBody]bool),
	}
}

func (e *Events) ensure() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.ensure()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// Record stores the contacts of one character move. Ground transitions are buffered
// immediately, collision pairs are compared with the previous step on Flush.
func (e *Events) Record(self *actor.RigidBody, grounded bool, touched []*actor.RigidBody) {
	e.ensure()

	for _, other := range touched {
		if other == nil || other == self {
			continue
		}
		e.currentActivePairs[makePairKey(self, other)] = true
	}

	wasGrounded := e.grounded[self]
	if grounded && !wasGrounded {
		e.buffer = append(e.buffer, GroundEnterEvent{Body: self})
	} else if !grounded && wasGrounded {
		e.buffer = append(e.buffer, GroundExitEvent{Body: self})
	}
	e.grounded[self] = grounded
}

// forget drops every state tracked for body
func (e *Events) forget(body *actor.RigidBody) {
	delete(e.grounded, body)
	for pair := range e.previousActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.currentActivePairs, pair)
		}
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	// Swap for next step and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// Flush sends all buffered events to the listeners and clears the buffer.
// It must be called once per step, World.Step does it.
func (e *Events) Flush() {
	e.ensure()
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}

package system

import (
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
)

// ContactHandler receives buffered begin-contact notifications.
type ContactHandler func(a, b component.Body)

// PhysicsSystem steps the physics world and then hands the contacts raised
// during the step to the handler, never from inside the step.
type PhysicsSystem struct {
	physics *ecs.PhysicsWorld
	handle  ContactHandler
}

func NewPhysicsSystem(physics *ecs.PhysicsWorld, handle ContactHandler) *PhysicsSystem {
	return &PhysicsSystem{physics: physics, handle: handle}
}

func (s *PhysicsSystem) Update(_ *ecs.World, dt float64) {
	if s == nil || s.physics == nil {
		return
	}
	s.physics.Step(dt)
	for _, c := range s.physics.DrainContacts() {
		if s.handle != nil {
			s.handle(c.A, c.B)
		}
	}
}

package ecs

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs/component"
)

const collisionTypeBody cp.CollisionType = 1

// Contact is a begin-contact notification between two bodies.
type Contact struct {
	A component.Body
	B component.Body
}

// PhysicsWorld owns the Chipmunk space and every body created for the scene.
// Begin-contact callbacks fire inside Step and are queued until DrainContacts.
type PhysicsWorld struct {
	space    *cp.Space
	bodies   []*PhysicsBody
	byShape  map[*cp.Shape]*PhysicsBody
	contacts EventQueue[Contact]
}

// NewPhysicsWorld creates a zero-gravity space with mask-based contact filtering.
func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		space:   space,
		byShape: make(map[*cp.Shape]*PhysicsBody),
	}
	pw.setupHandlers()
	return pw
}

// CreateBody adds a circle collider for spec to the space.
func (pw *PhysicsWorld) CreateBody(spec component.BodySpec) component.Body {
	radius := spec.Radius
	if radius <= 0 {
		radius = spec.Size.Width / 2
	}
	size := spec.Size
	if size.Width <= 0 && size.Height <= 0 {
		size = common.Size{Width: radius * 2, Height: radius * 2}
	}

	var body *cp.Body
	if spec.Kinematic {
		body = cp.NewKinematicBody()
	} else {
		body = cp.NewBody(1, cp.INFINITY)
	}
	body.SetPosition(cp.Vector{X: spec.Position.X, Y: spec.Position.Y})
	body.SetVelocity(spec.Velocity.X, spec.Velocity.Y)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeBody)
	shape.SetFriction(0)
	shape.SetElasticity(0.5)

	pw.space.AddBody(body)
	pw.space.AddShape(shape)

	pb := &PhysicsBody{
		world:     pw,
		name:      spec.Name,
		body:      body,
		shape:     shape,
		size:      size,
		radius:    radius,
		category:  spec.Category,
		collision: spec.Collision,
		contact:   spec.Contact,
	}
	shape.UserData = pb
	pw.byShape[shape] = pb
	pw.bodies = append(pw.bodies, pb)
	return pb
}

// Step integrates the space by dt seconds.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// DrainContacts returns the contacts reported since the last drain.
func (pw *PhysicsWorld) DrainContacts() []Contact {
	if pw == nil {
		return nil
	}
	return pw.contacts.Drain()
}

// Bodies returns the bodies still in the space in creation order.
func (pw *PhysicsWorld) Bodies() []*PhysicsBody {
	if pw == nil {
		return nil
	}
	out := make([]*PhysicsBody, 0, len(pw.bodies))
	return append(out, pw.bodies...)
}

// Clear removes every body.
func (pw *PhysicsWorld) Clear() {
	if pw == nil {
		return
	}
	for _, b := range pw.Bodies() {
		b.Remove()
	}
	pw.contacts.Clear()
}

func (pw *PhysicsWorld) forget(pb *PhysicsBody) {
	delete(pw.byShape, pb.shape)
	for i, b := range pw.bodies {
		if b == pb {
			pw.bodies = append(pw.bodies[:i], pw.bodies[i+1:]...)
			break
		}
	}
}

func (pw *PhysicsWorld) setupHandlers() {
	handler := pw.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = pw
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := world.byShape[shapeA]
		b, okB := world.byShape[shapeB]
		if !okA || !okB {
			return false
		}
		if a.category&b.contact != 0 || b.category&a.contact != 0 {
			world.contacts.Push(Contact{A: a, B: b})
		}
		// only a matching collision mask produces a physical response
		return a.category&b.collision != 0 || b.category&a.collision != 0
	}
}

// PhysicsBody is the Chipmunk-backed implementation of component.Body.
type PhysicsBody struct {
	world   *PhysicsWorld
	name    string
	body    *cp.Body
	shape   *cp.Shape
	size    common.Size
	radius  float64
	effects []*component.Effect
	removed bool

	category  uint32
	collision uint32
	contact   uint32
}

func (b *PhysicsBody) Valid() bool {
	return b != nil && !b.removed
}

func (b *PhysicsBody) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

func (b *PhysicsBody) Position() common.Vec2 {
	if !b.Valid() {
		return common.Vec2{}
	}
	p := b.body.Position()
	return common.Vec2{X: p.X, Y: p.Y}
}

func (b *PhysicsBody) SetPosition(p common.Vec2) {
	if !b.Valid() {
		return
	}
	b.body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
}

func (b *PhysicsBody) Velocity() common.Vec2 {
	if !b.Valid() {
		return common.Vec2{}
	}
	v := b.body.Velocity()
	return common.Vec2{X: v.X, Y: v.Y}
}

func (b *PhysicsBody) Size() common.Size {
	if !b.Valid() {
		return common.Size{}
	}
	return b.size
}

func (b *PhysicsBody) Radius() float64 {
	if !b.Valid() {
		return 0
	}
	return b.radius
}

func (b *PhysicsBody) AttachEffect(e *component.Effect) {
	if !b.Valid() || e == nil {
		return
	}
	for _, existing := range b.effects {
		if existing == e {
			return
		}
	}
	b.effects = append(b.effects, e)
}

func (b *PhysicsBody) DetachEffect(e *component.Effect) {
	if b == nil {
		return
	}
	for i, existing := range b.effects {
		if existing == e {
			b.effects = append(b.effects[:i], b.effects[i+1:]...)
			return
		}
	}
}

// Effects returns the effects currently hosted by the body.
func (b *PhysicsBody) Effects() []*component.Effect {
	if b == nil {
		return nil
	}
	return b.effects
}

func (b *PhysicsBody) Remove() {
	if !b.Valid() {
		return
	}
	b.removed = true
	b.effects = nil
	if space := b.world.space; space != nil {
		if space.ContainsShape(b.shape) {
			space.RemoveShape(b.shape)
		}
		if space.ContainsBody(b.body) {
			space.RemoveBody(b.body)
		}
	}
	b.world.forget(b)
}

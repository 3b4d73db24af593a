package component

import "github.com/milk9111/cocoablast/common"

// Body is a handle onto a backend-owned renderable body. The backend may
// invalidate it at any time; callers check Valid before trusting reads.
type Body interface {
	Valid() bool
	Position() common.Vec2
	SetPosition(p common.Vec2)
	Size() common.Size
	AttachEffect(e *Effect)
	DetachEffect(e *Effect)
	// Remove takes the body out of the world. Calling it twice is a no-op.
	Remove()
}

// BodyFactory creates bodies for new entities.
type BodyFactory interface {
	CreateBody(spec BodySpec) Body
}

// BodySpec describes a body to create. Radius > 0 selects a circle collider,
// otherwise the collider is inscribed in Size.
type BodySpec struct {
	Name      string
	Position  common.Vec2
	Size      common.Size
	Radius    float64
	Velocity  common.Vec2
	Kinematic bool

	Category  uint32
	Collision uint32
	Contact   uint32
}

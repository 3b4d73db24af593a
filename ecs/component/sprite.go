package component

import "github.com/milk9111/cocoablast/common"

// Sprite holds a non-owning handle onto the entity's renderable body.
type Sprite struct {
	Body Body
}

func (s *Sprite) valid() bool {
	return s != nil && s.Body != nil && s.Body.Valid()
}

func (s *Sprite) Position() common.Vec2 {
	if !s.valid() {
		return common.Vec2{}
	}
	return s.Body.Position()
}

func (s *Sprite) Size() common.Size {
	if !s.valid() {
		return common.Size{}
	}
	return s.Body.Size()
}

func (s *Sprite) Reposition(p common.Vec2) {
	if !s.valid() {
		return
	}
	s.Body.SetPosition(p)
}

// Destroy stops the sibling particle effect, if any, then removes the body.
// The handle is cleared for good.
func (s *Sprite) Destroy(particle *Particle) {
	if s == nil {
		return
	}
	if particle != nil {
		particle.StopEmitting()
	}
	if s.valid() {
		s.Body.Remove()
	}
	s.Body = nil
}

var SpriteComponent = NewComponent[Sprite]()

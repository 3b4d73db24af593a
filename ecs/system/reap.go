package system

import (
	"math"

	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
)

// EntityRemover takes an entity out of the live set.
type EntityRemover interface {
	RemoveEntity(e ecs.Entity) bool
}

// ReapSystem removes every entity whose health has been destroyed.
type ReapSystem struct {
	remover EntityRemover
	// OnReap runs before removal, while the entity's components are still readable.
	OnReap func(w *ecs.World, e ecs.Entity)
}

func NewReapSystem(remover EntityRemover, onReap func(w *ecs.World, e ecs.Entity)) *ReapSystem {
	return &ReapSystem{remover: remover, OnReap: onReap}
}

func (s *ReapSystem) Update(w *ecs.World, _ float64) {
	if s == nil || w == nil || s.remover == nil {
		return
	}
	var dead []ecs.Entity
	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, health *component.Health) {
		if health.Destroyed {
			dead = append(dead, e)
		}
	})
	for _, e := range dead {
		if s.OnReap != nil {
			s.OnReap(w, e)
		}
		s.remover.RemoveEntity(e)
	}
}

// CullSystem removes entities whose body left the scene bounds by more than
// Margin. Entities steered by a movement intent are never culled; they leave
// only through health destruction.
type CullSystem struct {
	remover    EntityRemover
	HalfWidth  float64
	HalfHeight float64
	Margin     float64
}

func NewCullSystem(remover EntityRemover, width, height, margin float64) *CullSystem {
	return &CullSystem{remover: remover, HalfWidth: width / 2, HalfHeight: height / 2, Margin: margin}
}

func (s *CullSystem) Update(w *ecs.World, _ float64) {
	if s == nil || w == nil || s.remover == nil {
		return
	}
	var gone []ecs.Entity
	ecs.ForEach(w, component.SpriteComponent.Kind(), func(e ecs.Entity, sprite *component.Sprite) {
		if sprite.Body == nil || !sprite.Body.Valid() {
			return
		}
		if ecs.Has(w, e, component.MovementIntentComponent.Kind()) {
			return
		}
		if s.inside(sprite.Position()) {
			return
		}
		particle, _ := ecs.Get(w, e, component.ParticleComponent.Kind())
		sprite.Destroy(particle)
		gone = append(gone, e)
	})
	for _, e := range gone {
		s.remover.RemoveEntity(e)
	}
}

func (s *CullSystem) inside(p common.Vec2) bool {
	return math.Abs(p.X) <= s.HalfWidth+s.Margin && math.Abs(p.Y) <= s.HalfHeight+s.Margin
}

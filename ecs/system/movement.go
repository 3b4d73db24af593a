package system

import (
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
)

type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.MovementIntentComponent.Kind(), component.SpriteComponent.Kind(), func(_ ecs.Entity, intent *component.MovementIntent, sprite *component.Sprite) {
		intent.Tick(sprite, dt)
	})
}

// SetTarget points every movement intent at target.
func SetTarget(w *ecs.World, target common.Vec2) {
	ecs.ForEach(w, component.MovementIntentComponent.Kind(), func(_ ecs.Entity, intent *component.MovementIntent) {
		intent.Target = target
	})
}
